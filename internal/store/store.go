// Package store owns all mutable server state: the instructor account,
// auth sessions, and one evaluation session per logged-in instructor.
// Nothing is persisted; every evaluation lives and dies in memory.
package store

import (
	"errors"
	"sync"

	"github.com/acquagyn/swimeval/internal/model"
)

var (
	// ErrNoSession is returned when a token has no live auth session.
	ErrNoSession = errors.New("no such session")
	// ErrExportInFlight is returned by BeginExport while an export of the
	// same kind is already running for the session.
	ErrExportInFlight = errors.New("export already in flight")
)

// Store is the single state-owning service object. All mutation goes
// through its methods; callers never see interior pointers.
type Store struct {
	mu           sync.Mutex
	user         *model.User
	authSessions map[string]model.AuthSession
	evals        map[string]*model.EvaluationSession
	exporting    map[string]map[model.ExportKind]bool
}

// New creates an empty store.
func New() *Store {
	return &Store{
		authSessions: make(map[string]model.AuthSession),
		evals:        make(map[string]*model.EvaluationSession),
		exporting:    make(map[string]map[model.ExportKind]bool),
	}
}

// eval returns the evaluation session for a token. Callers must hold mu.
func (s *Store) eval(token string) (*model.EvaluationSession, error) {
	sess, ok := s.evals[token]
	if !ok {
		return nil, ErrNoSession
	}
	return sess, nil
}

// SelectLevel sets the selected level, or clears it when level is nil.
// Clearing the level does not clear ratings; only Reset does.
func (s *Store) SelectLevel(token string, level *model.Level) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.eval(token)
	if err != nil {
		return err
	}
	if level == nil {
		sess.SelectedLevel = nil
		return nil
	}
	lvl := *level
	sess.SelectedLevel = &lvl
	return nil
}

// UpdateStudentInfo merges the patch into the session's student record.
// Fields left nil in the patch keep their prior values.
func (s *Store) UpdateStudentInfo(token string, patch model.StudentInfoPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.eval(token)
	if err != nil {
		return err
	}
	patch.Apply(&sess.StudentInfo)
	return nil
}

// UpsertRating records a rating for an activity. An existing record for
// the same activity ID is replaced in place, keeping its position in the
// ordered collection; otherwise a new record is appended. The activity ID
// is not checked against the catalog: a rating for a foreign ID is simply
// an orphan record the composer will never look up.
func (s *Store) UpsertRating(token, activityID string, rating model.Rating, observation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.eval(token)
	if err != nil {
		return err
	}
	for i := range sess.Ratings {
		if sess.Ratings[i].ActivityID == activityID {
			sess.Ratings[i].Rating = rating
			sess.Ratings[i].Observation = observation
			return nil
		}
	}
	sess.Ratings = append(sess.Ratings, model.ActivityRating{
		ActivityID:  activityID,
		Rating:      rating,
		Observation: observation,
	})
	return nil
}

// Reset restores the session to its initial empty state: no level, empty
// student fields, no ratings. Idempotent.
func (s *Store) Reset(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.eval(token)
	if err != nil {
		return err
	}
	*sess = model.EvaluationSession{}
	return nil
}

// Snapshot returns a deep copy of the session for composing and export.
func (s *Store) Snapshot(token string) (model.EvaluationSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.eval(token)
	if err != nil {
		return model.EvaluationSession{}, err
	}
	return sess.Clone(), nil
}

// BeginExport marks an export of the given kind as in flight. A second
// export of the same kind is rejected until EndExport runs; a concurrent
// export of the other kind is allowed.
func (s *Store) BeginExport(token string, kind model.ExportKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.evals[token]; !ok {
		return ErrNoSession
	}
	flags := s.exporting[token]
	if flags == nil {
		flags = make(map[model.ExportKind]bool)
		s.exporting[token] = flags
	}
	if flags[kind] {
		return ErrExportInFlight
	}
	flags[kind] = true
	return nil
}

// EndExport clears the in-flight flag. Safe to call on any exit path.
func (s *Store) EndExport(token string, kind model.ExportKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if flags, ok := s.exporting[token]; ok {
		delete(flags, kind)
	}
}
