// Package report turns an evaluation snapshot into presentation rows and
// splits them into fixed-capacity pages. Pure transformations, no I/O.
package report

import (
	"fmt"

	"github.com/acquagyn/swimeval/internal/catalog"
	"github.com/acquagyn/swimeval/internal/model"
)

// ActivitiesPerPage is the report layout's page capacity. A policy
// constant, not user-configurable.
const ActivitiesPerPage = 12

// Badge is the resolved presentation of a rating: the printed label plus
// its text and background colors.
type Badge struct {
	Label      string
	Text       catalog.Color
	Background catalog.Color
}

// Badge palette matching the printed report.
var badges = map[model.Rating]Badge{
	model.RatingFullyAchieved:     {Label: "TOTALMENTE ATINGIDO", Text: "#FFFFFF", Background: "#10B981"},
	model.RatingPartiallyAchieved: {Label: "PARCIALMENTE ATINGIDO", Text: "#FFFFFF", Background: "#F59E0B"},
	model.RatingNotAchieved:       {Label: "NÃO ATINGIDO", Text: "#FFFFFF", Background: "#EF4444"},
}

// notEvaluatedBadge is the fallback for activities with no rating yet.
var notEvaluatedBadge = Badge{Label: "NÃO AVALIADO", Text: "#6B7280", Background: "#F3F4F6"}

// BadgeFor resolves a rating to its badge; an unknown or missing rating
// degrades to the "not evaluated" fallback.
func BadgeFor(r *model.ActivityRating) Badge {
	if r == nil {
		return notEvaluatedBadge
	}
	if b, ok := badges[r.Rating]; ok {
		return b
	}
	return notEvaluatedBadge
}

// Row is one activity's presentation line in the report.
type Row struct {
	Activity    model.Activity
	Badge       Badge
	Observation string
	Evaluated   bool
}

// Compose builds one row per catalog activity, in catalog order (not
// rating-insertion order). Activities without a rating get the fallback
// badge; ratings whose IDs are not in the entry are ignored. Never fails.
func Compose(entry catalog.Entry, sess model.EvaluationSession) []Row {
	rows := make([]Row, 0, len(entry.Activities))
	for _, a := range entry.Activities {
		r := sess.RatingFor(a.ID)
		row := Row{Activity: a, Badge: BadgeFor(r)}
		if r != nil {
			row.Evaluated = true
			row.Observation = r.Observation
		}
		rows = append(rows, row)
	}
	return rows
}

// Page is one slice of the activity list. Number is 1-based; the slice is
// [Start, End) into the composed rows.
type Page struct {
	Number int
	Total  int
	Start  int
	End    int
}

// Paginate splits n items into ceil(n/k) pages of capacity k. For n == 0
// there are no pages; callers must skip rendering entirely. k must be
// positive: it is a layout constant, so anything else is a programmer
// error.
func Paginate(n, k int) []Page {
	if k <= 0 {
		panic(fmt.Sprintf("report: page capacity %d", k))
	}
	if n == 0 {
		return nil
	}
	total := (n + k - 1) / k
	pages := make([]Page, 0, total)
	for p := 1; p <= total; p++ {
		start := (p - 1) * k
		end := p * k
		if end > n {
			end = n
		}
		pages = append(pages, Page{Number: p, Total: total, Start: start, End: end})
	}
	return pages
}
