package store

import (
	"errors"
	"testing"

	"github.com/acquagyn/swimeval/internal/model"
)

const (
	testUser     = "admin@teste.com"
	testPassword = "adm123"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	s := New()
	if err := s.SeedInstructor(testUser, "Administrador", testPassword); err != nil {
		t.Fatalf("SeedInstructor: %v", err)
	}
	token, err := s.Login(testUser, testPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return s, token
}

func snapshot(t *testing.T, s *Store, token string) model.EvaluationSession {
	t.Helper()
	snap, err := s.Snapshot(token)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	return snap
}

func TestLogin(t *testing.T) {
	s := New()
	if err := s.SeedInstructor(testUser, "Administrador", testPassword); err != nil {
		t.Fatalf("SeedInstructor: %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"valid credentials", testUser, testPassword, nil},
		{"wrong password", testUser, "nope", ErrInvalidCredentials},
		{"wrong username", "someone@else.com", testPassword, ErrInvalidCredentials},
		{"empty pair", "", "", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := s.Login(tt.username, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Login() err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && token == "" {
				t.Error("expected a session token")
			}
		})
	}
}

func TestAuthenticateAndLogout(t *testing.T) {
	s, token := newTestStore(t)

	if u := s.Authenticate(token); u == nil || u.Username != testUser {
		t.Fatalf("Authenticate = %+v, want instructor", u)
	}
	if u := s.Authenticate("bogus"); u != nil {
		t.Errorf("Authenticate(bogus) = %+v, want nil", u)
	}

	s.Logout(token)
	if u := s.Authenticate(token); u != nil {
		t.Errorf("Authenticate after logout = %+v, want nil", u)
	}
	if _, err := s.Snapshot(token); !errors.Is(err, ErrNoSession) {
		t.Errorf("Snapshot after logout err = %v, want ErrNoSession", err)
	}
}

func TestUpsertRatingReplacesInPlace(t *testing.T) {
	s, token := newTestStore(t)

	if err := s.UpsertRating(token, "init-1", model.RatingNotAchieved, "primeira"); err != nil {
		t.Fatalf("UpsertRating: %v", err)
	}
	if err := s.UpsertRating(token, "init-2", model.RatingFullyAchieved, ""); err != nil {
		t.Fatalf("UpsertRating: %v", err)
	}
	// Replace the first rating; it must keep its position.
	if err := s.UpsertRating(token, "init-1", model.RatingFullyAchieved, "segunda"); err != nil {
		t.Fatalf("UpsertRating: %v", err)
	}

	snap := snapshot(t, s, token)
	if len(snap.Ratings) != 2 {
		t.Fatalf("got %d ratings, want 2", len(snap.Ratings))
	}
	if snap.Ratings[0].ActivityID != "init-1" {
		t.Errorf("first rating is %q, want init-1 (position preserved)", snap.Ratings[0].ActivityID)
	}
	if snap.Ratings[0].Rating != model.RatingFullyAchieved || snap.Ratings[0].Observation != "segunda" {
		t.Errorf("replaced rating = %+v, want fully achieved / 'segunda'", snap.Ratings[0])
	}
}

func TestUpsertRatingCollectionSize(t *testing.T) {
	s, token := newTestStore(t)

	// Many calls over few distinct IDs: size tracks distinct IDs.
	ids := []string{"a", "b", "a", "c", "b", "a"}
	for i, id := range ids {
		obs := ""
		if i%2 == 0 {
			obs = "obs"
		}
		if err := s.UpsertRating(token, id, model.RatingPartiallyAchieved, obs); err != nil {
			t.Fatalf("UpsertRating(%q): %v", id, err)
		}
	}

	snap := snapshot(t, s, token)
	if len(snap.Ratings) != 3 {
		t.Fatalf("got %d ratings, want 3 (distinct ids)", len(snap.Ratings))
	}
	wantOrder := []string{"a", "b", "c"}
	for i, want := range wantOrder {
		if snap.Ratings[i].ActivityID != want {
			t.Errorf("rating[%d] = %q, want %q", i, snap.Ratings[i].ActivityID, want)
		}
	}
}

func TestUpdateStudentInfoPartial(t *testing.T) {
	s, token := newTestStore(t)

	name := "João Silva"
	age := "7"
	if err := s.UpdateStudentInfo(token, model.StudentInfoPatch{Name: &name, Age: &age}); err != nil {
		t.Fatalf("UpdateStudentInfo: %v", err)
	}

	// Patch only the teacher; name and age must survive.
	teacher := "Paula"
	if err := s.UpdateStudentInfo(token, model.StudentInfoPatch{Teacher: &teacher}); err != nil {
		t.Fatalf("UpdateStudentInfo: %v", err)
	}

	snap := snapshot(t, s, token)
	want := model.StudentInfo{Name: "João Silva", Age: "7", Teacher: "Paula"}
	if snap.StudentInfo != want {
		t.Errorf("StudentInfo = %+v, want %+v", snap.StudentInfo, want)
	}
}

func TestSelectLevelKeepsRatings(t *testing.T) {
	s, token := newTestStore(t)

	lvl := model.LevelInit
	if err := s.SelectLevel(token, &lvl); err != nil {
		t.Fatalf("SelectLevel: %v", err)
	}
	if err := s.UpsertRating(token, "init-1", model.RatingFullyAchieved, ""); err != nil {
		t.Fatalf("UpsertRating: %v", err)
	}

	// Clearing the level leaves ratings alone; only Reset clears them.
	if err := s.SelectLevel(token, nil); err != nil {
		t.Fatalf("SelectLevel(nil): %v", err)
	}
	snap := snapshot(t, s, token)
	if snap.SelectedLevel != nil {
		t.Error("expected no selected level")
	}
	if len(snap.Ratings) != 1 {
		t.Errorf("got %d ratings after clearing level, want 1", len(snap.Ratings))
	}
}

func TestResetIdempotent(t *testing.T) {
	s, token := newTestStore(t)

	lvl := model.LevelBaby2
	name := "Maria"
	_ = s.SelectLevel(token, &lvl)
	_ = s.UpdateStudentInfo(token, model.StudentInfoPatch{Name: &name})
	_ = s.UpsertRating(token, "baby2-1", model.RatingNotAchieved, "obs")

	for i := 0; i < 2; i++ {
		if err := s.Reset(token); err != nil {
			t.Fatalf("Reset #%d: %v", i+1, err)
		}
		snap := snapshot(t, s, token)
		if snap.SelectedLevel != nil {
			t.Errorf("reset #%d: level still set", i+1)
		}
		if snap.StudentInfo != (model.StudentInfo{}) {
			t.Errorf("reset #%d: StudentInfo = %+v, want empty", i+1, snap.StudentInfo)
		}
		if len(snap.Ratings) != 0 {
			t.Errorf("reset #%d: %d ratings left", i+1, len(snap.Ratings))
		}
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s, token := newTestStore(t)

	if err := s.UpsertRating(token, "adap-1", model.RatingFullyAchieved, ""); err != nil {
		t.Fatalf("UpsertRating: %v", err)
	}
	snap := snapshot(t, s, token)
	snap.Ratings[0].Observation = "mutated"

	again := snapshot(t, s, token)
	if again.Ratings[0].Observation != "" {
		t.Error("mutating a snapshot leaked into the store")
	}
}

func TestExportInFlight(t *testing.T) {
	s, token := newTestStore(t)

	if err := s.BeginExport(token, model.ExportReport); err != nil {
		t.Fatalf("BeginExport: %v", err)
	}
	if err := s.BeginExport(token, model.ExportReport); !errors.Is(err, ErrExportInFlight) {
		t.Errorf("second BeginExport err = %v, want ErrExportInFlight", err)
	}
	// The other document kind is independent.
	if err := s.BeginExport(token, model.ExportCertificate); err != nil {
		t.Errorf("BeginExport(certificate) err = %v, want nil", err)
	}

	s.EndExport(token, model.ExportReport)
	if err := s.BeginExport(token, model.ExportReport); err != nil {
		t.Errorf("BeginExport after EndExport err = %v, want nil", err)
	}

	if err := s.BeginExport("bogus", model.ExportReport); !errors.Is(err, ErrNoSession) {
		t.Errorf("BeginExport(bogus) err = %v, want ErrNoSession", err)
	}
}

func TestOperationsRequireSession(t *testing.T) {
	s := New()
	lvl := model.LevelInit

	if err := s.SelectLevel("none", &lvl); !errors.Is(err, ErrNoSession) {
		t.Errorf("SelectLevel err = %v, want ErrNoSession", err)
	}
	if err := s.UpsertRating("none", "x", model.RatingNotAchieved, ""); !errors.Is(err, ErrNoSession) {
		t.Errorf("UpsertRating err = %v, want ErrNoSession", err)
	}
	if err := s.Reset("none"); !errors.Is(err, ErrNoSession) {
		t.Errorf("Reset err = %v, want ErrNoSession", err)
	}
}
