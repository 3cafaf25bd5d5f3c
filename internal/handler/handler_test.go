package handler

import (
	"bytes"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/acquagyn/swimeval/internal/catalog"
	"github.com/acquagyn/swimeval/internal/export"
	appI18n "github.com/acquagyn/swimeval/internal/i18n"
	"github.com/acquagyn/swimeval/internal/model"
	"github.com/acquagyn/swimeval/internal/store"
)

const (
	testUser     = "admin@teste.com"
	testPassword = "adm123"
)

type testServer struct {
	*httptest.Server
	client  *http.Client
	catalog *catalog.Catalog
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	if err := appI18n.Init("pt"); err != nil {
		t.Fatalf("i18n.Init: %v", err)
	}

	s := store.New()
	if err := s.SeedInstructor(testUser, "Administrador", testPassword); err != nil {
		t.Fatalf("SeedInstructor: %v", err)
	}

	cfg := model.Config{Lang: "pt"}
	h := New(s, cat, export.New(cat, ""), cfg)

	r := chi.NewRouter()
	r.Use(appI18n.Middleware("pt"))
	r.Use(h.BasePathMiddleware)
	h.Routes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	client := &http.Client{Jar: jar}
	return &testServer{Server: srv, client: client, catalog: cat}
}

// csrfToken reads the current anti-forgery token from the cookie jar. A
// GET must have been issued first so the server has set one.
func (ts *testServer) csrfToken(t *testing.T) string {
	t.Helper()
	u, _ := url.Parse(ts.URL)
	for _, c := range ts.client.Jar.Cookies(u) {
		if c.Name == "csrf_token" {
			return c.Value
		}
	}
	t.Fatal("no csrf_token cookie in jar")
	return ""
}

func (ts *testServer) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := ts.client.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func (ts *testServer) postForm(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	form.Set("csrf_token", ts.csrfToken(t))
	resp, err := ts.client.PostForm(ts.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func (ts *testServer) login(t *testing.T) {
	t.Helper()
	ts.get(t, "/login").Body.Close()
	resp := ts.postForm(t, "/login", url.Values{
		"username": {testUser},
		"password": {testPassword},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login flow ended with status %d", resp.StatusCode)
	}
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func TestLoginPage(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.get(t, "/login")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /login status = %d", resp.StatusCode)
	}
	if got := body(t, resp); !strings.Contains(got, "csrf_token") {
		t.Error("login page has no csrf field")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ts := newTestServer(t)
	ts.get(t, "/login").Body.Close()

	resp := ts.postForm(t, "/login", url.Values{
		"username": {testUser},
		"password": {"wrong"},
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
	if got := body(t, resp); !strings.Contains(got, "inválidas") {
		t.Error("expected the invalid-credentials message")
	}
}

func TestCSRFRequired(t *testing.T) {
	ts := newTestServer(t)
	ts.get(t, "/login").Body.Close()

	// POST without the form token must be rejected even with the cookie set.
	resp, err := ts.client.PostForm(ts.URL+"/login", url.Values{
		"username": {testUser},
		"password": {testPassword},
	})
	if err != nil {
		t.Fatalf("POST /login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

func TestUnauthenticatedRedirectsToLogin(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.get(t, "/")
	defer resp.Body.Close()
	// The client follows the redirect, so we land on the login page.
	if resp.Request.URL.Path != "/login" {
		t.Errorf("landed on %s, want /login", resp.Request.URL.Path)
	}
}

func TestEvaluationFlow(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	// Fresh sessions start on the level selector.
	if got := body(t, ts.get(t, "/")); !strings.Contains(got, "Iniciação") {
		t.Fatal("level selector does not list the levels")
	}

	resp := ts.postForm(t, "/level", url.Values{"level": {"Iniciação"}})
	if got := body(t, resp); !strings.Contains(got, "Avaliação") {
		t.Fatal("selecting a level did not land on the evaluation page")
	}

	resp = ts.postForm(t, "/evaluation/student", url.Values{
		"name":    {"João Silva"},
		"age":     {"6"},
		"class":   {"Turma A"},
		"teacher": {"Paula"},
	})
	if got := body(t, resp); !strings.Contains(got, "João Silva") {
		t.Fatal("student data not reflected on the page")
	}

	// Exporting before every activity is rated is refused with a flash.
	resp = ts.postForm(t, "/export/report", url.Values{})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("premature export status = %d, want 422", resp.StatusCode)
	}
	resp.Body.Close()

	entry, _ := ts.catalog.Get(model.LevelInit)
	for _, a := range entry.Activities {
		resp = ts.postForm(t, "/evaluation/rating/"+a.ID, url.Values{
			"rating":      {string(model.RatingFullyAchieved)},
			"observation": {"ok"},
		})
		resp.Body.Close()
	}

	resp = ts.postForm(t, "/export/report", url.Values{})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	pdf, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("report body is not a PDF")
	}

	resp = ts.postForm(t, "/export/certificate", url.Values{
		"new_level": {"Aperfeiçoamento 1"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("certificate status = %d, want 200", resp.StatusCode)
	}
	pdf, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("certificate body is not a PDF")
	}

	// Reset returns to the level selector with everything cleared.
	resp = ts.postForm(t, "/evaluation/reset", url.Values{})
	if got := body(t, resp); strings.Contains(got, "João Silva") {
		t.Error("reset did not clear the session")
	}
}

func TestInvalidRatingRejected(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	ts.postForm(t, "/level", url.Values{"level": {"Baby 1"}}).Body.Close()
	resp := ts.postForm(t, "/evaluation/rating/baby1-1", url.Values{
		"rating": {"Quase Atingido"},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCertificateRequiresLaterLevel(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	ts.postForm(t, "/level", url.Values{"level": {"Baby 2"}}).Body.Close()
	ts.postForm(t, "/evaluation/student", url.Values{"name": {"Maria"}}).Body.Close()

	resp := ts.postForm(t, "/export/certificate", url.Values{
		"new_level": {"Baby 1"},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	resp := ts.postForm(t, "/logout", url.Values{})
	resp.Body.Close()

	after := ts.get(t, "/")
	defer after.Body.Close()
	if after.Request.URL.Path != "/login" {
		t.Errorf("after logout landed on %s, want /login", after.Request.URL.Path)
	}
}
