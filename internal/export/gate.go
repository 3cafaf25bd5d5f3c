// Package export validates an evaluation snapshot and renders it as a
// paginated PDF report or a level-promotion certificate.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/acquagyn/swimeval/internal/catalog"
	"github.com/acquagyn/swimeval/internal/model"
)

// Gate failures. Each aborts the export before any rendering happens and
// maps to a user-visible message in the handler.
var (
	ErrNoLevel           = errors.New("no level selected")
	ErrStudentInfo       = errors.New("student info incomplete")
	ErrIncompleteRatings = errors.New("not every activity is rated")
	ErrNoTargetLevel     = errors.New("no target level selected")
	ErrInvalidTarget     = errors.New("target level must come after the current level")
)

var validate = validator.New()

// ValidateReport checks the PDF export gate: all four student fields
// present and every activity of the selected level rated. Membership is
// checked per activity ID, not by count, so stale ratings from another
// level can never satisfy the gate.
func ValidateReport(cat *catalog.Catalog, sess model.EvaluationSession) (catalog.Entry, error) {
	if sess.SelectedLevel == nil {
		return catalog.Entry{}, ErrNoLevel
	}
	entry, ok := cat.Get(*sess.SelectedLevel)
	if !ok {
		return catalog.Entry{}, fmt.Errorf("%w: unknown level %q", ErrNoLevel, *sess.SelectedLevel)
	}
	if err := validate.Struct(sess.StudentInfo); err != nil {
		return entry, fmt.Errorf("%w: %v", ErrStudentInfo, err)
	}
	for _, a := range entry.Activities {
		if sess.RatingFor(a.ID) == nil {
			return entry, fmt.Errorf("%w: %s", ErrIncompleteRatings, a.ID)
		}
	}
	return entry, nil
}

// ValidateCertificate checks the certificate gate: student name present,
// level selected, and the target strictly later in the level order.
func ValidateCertificate(cat *catalog.Catalog, sess model.EvaluationSession, target model.Level) error {
	if strings.TrimSpace(sess.StudentInfo.Name) == "" {
		return fmt.Errorf("%w: name required", ErrStudentInfo)
	}
	if sess.SelectedLevel == nil {
		return ErrNoLevel
	}
	if target == "" {
		return ErrNoTargetLevel
	}
	cur, ok := cat.Ordinal(*sess.SelectedLevel)
	if !ok {
		return fmt.Errorf("%w: unknown level %q", ErrNoLevel, *sess.SelectedLevel)
	}
	tgt, ok := cat.Ordinal(target)
	if !ok {
		return fmt.Errorf("%w: unknown level %q", ErrInvalidTarget, target)
	}
	if tgt <= cur {
		return ErrInvalidTarget
	}
	return nil
}
