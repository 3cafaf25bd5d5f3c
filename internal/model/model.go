package model

import (
	"context"
	"time"
)

// Level is a named stage in the fixed swim-skill curriculum. The total
// order of levels is owned by the catalog package; Level values are only
// meaningful against it.
type Level string

const (
	LevelBaby1 Level = "Baby 1"
	LevelBaby2 Level = "Baby 2"
	LevelBaby3 Level = "Baby 3"
	LevelAdapt Level = "Adaptação"
	LevelInit  Level = "Iniciação"
	LevelPerf1 Level = "Aperfeiçoamento 1"
	LevelPerf2 Level = "Aperfeiçoamento 2"
	LevelPerf3 Level = "Aperfeiçoamento 3"
)

// Activity is a single assessable skill within a level.
type Activity struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Rating is the enumerated outcome assigned to an activity.
type Rating string

const (
	RatingNotAchieved       Rating = "Não Atingido"
	RatingPartiallyAchieved Rating = "Parcialmente Atingido"
	RatingFullyAchieved     Rating = "Totalmente Atingido"
)

// Valid reports whether r is one of the three known outcomes.
func (r Rating) Valid() bool {
	switch r {
	case RatingNotAchieved, RatingPartiallyAchieved, RatingFullyAchieved:
		return true
	}
	return false
}

// StudentInfo holds the identity fields printed on reports. All fields are
// free text; the export gate only requires them to be non-empty.
type StudentInfo struct {
	Name    string `validate:"required"`
	Age     string `validate:"required"`
	Class   string `validate:"required"`
	Teacher string `validate:"required"`
}

// StudentInfoPatch is a partial StudentInfo update. Nil fields keep their
// prior values.
type StudentInfoPatch struct {
	Name    *string
	Age     *string
	Class   *string
	Teacher *string
}

// Apply merges the patch into info.
func (p StudentInfoPatch) Apply(info *StudentInfo) {
	if p.Name != nil {
		info.Name = *p.Name
	}
	if p.Age != nil {
		info.Age = *p.Age
	}
	if p.Class != nil {
		info.Class = *p.Class
	}
	if p.Teacher != nil {
		info.Teacher = *p.Teacher
	}
}

// ActivityRating associates one activity ID with a rating and an optional
// observation. At most one ActivityRating per activity ID exists in a
// session at any time.
type ActivityRating struct {
	ActivityID  string
	Rating      Rating
	Observation string
}

// EvaluationSession is the in-memory record of one instructor's evaluation
// in progress: selected level (or none), student identity, and the ordered
// rating collection. Ratings keep insertion order; uniqueness on ActivityID
// is enforced by the store's upsert.
type EvaluationSession struct {
	SelectedLevel *Level
	StudentInfo   StudentInfo
	Ratings       []ActivityRating
}

// RatingFor returns the rating for the given activity ID, or nil.
func (s *EvaluationSession) RatingFor(activityID string) *ActivityRating {
	for i := range s.Ratings {
		if s.Ratings[i].ActivityID == activityID {
			return &s.Ratings[i]
		}
	}
	return nil
}

// Clone returns a deep copy safe to read outside the store's lock.
func (s *EvaluationSession) Clone() EvaluationSession {
	out := EvaluationSession{StudentInfo: s.StudentInfo}
	if s.SelectedLevel != nil {
		lvl := *s.SelectedLevel
		out.SelectedLevel = &lvl
	}
	if len(s.Ratings) > 0 {
		out.Ratings = make([]ActivityRating, len(s.Ratings))
		copy(out.Ratings, s.Ratings)
	}
	return out
}

// ExportKind distinguishes the two document types an instructor can
// generate. At most one export per kind is in flight per session.
type ExportKind string

const (
	ExportReport      ExportKind = "report"
	ExportCertificate ExportKind = "certificate"
)

// User is the instructor account. There is exactly one, seeded at startup
// from the configured credential.
type User struct {
	Username     string
	DisplayName  string
	PasswordHash string
}

// AuthSession is a logged-in instructor's cookie session.
type AuthSession struct {
	Token     string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Config holds runtime parameters set via CLI flags.
type Config struct {
	Lang          string // UI language (pt, en)
	AssetsDir     string // directory with level mascot PNGs (optional)
	BasePath      string // URL prefix for sub-path deployments
	SecureCookies bool   // Set Secure flag on cookies (disable for local dev)
}

type userCtxKey struct{}

// ContextWithUser stores a user in the request context.
func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext retrieves the authenticated user from context, or nil.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userCtxKey{}).(*User)
	return u
}

type basePathCtxKey struct{}

// ContextWithBasePath stores the base path prefix in context.
func ContextWithBasePath(ctx context.Context, basePath string) context.Context {
	return context.WithValue(ctx, basePathCtxKey{}, basePath)
}

// BasePathFromContext retrieves the base path from context (empty string if not set).
func BasePathFromContext(ctx context.Context) string {
	bp, _ := ctx.Value(basePathCtxKey{}).(string)
	return bp
}

type csrfCtxKey struct{}

// ContextWithCSRFToken stores the CSRF token in context.
func ContextWithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfCtxKey{}, token)
}

// CSRFTokenFromContext retrieves the CSRF token from context.
func CSRFTokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(csrfCtxKey{}).(string)
	return t
}
