package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/acquagyn/swimeval/internal/catalog"
	"github.com/acquagyn/swimeval/internal/i18n"
	"github.com/acquagyn/swimeval/internal/model"
)

// EvaluationView is everything the evaluation page needs.
type EvaluationView struct {
	Entry   catalog.Entry
	Session model.EvaluationSession
	Targets []model.Level
	Flash   string
}

var ratingButtons = []struct {
	Rating model.Rating
	Class  string
}{
	{model.RatingNotAchieved, "rb-nao"},
	{model.RatingPartiallyAchieved, "rb-parcial"},
	{model.RatingFullyAchieved, "rb-total"},
}

// EvaluationPage renders the student form, the per-activity rating rows,
// and the two export forms.
func EvaluationPage(v EvaluationView) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		flash(p, v.Flash)

		p.s(`<div style="display:flex; justify-content:space-between; align-items:center;">`)
		p.f(`<h2>%s</h2>`, esc(i18n.Td(ctx, "EvaluationTitle", map[string]any{"Level": string(v.Entry.Level)})))
		p.f(`<form method="post" action="%s">`, esc(href(ctx, "/evaluation/reset")))
		csrfField(ctx, p)
		p.f(`<button class="btn secondary" type="submit">%s</button></form></div>`, esc(i18n.T(ctx, "BackToLevels")))

		renderStudentCard(ctx, p, v.Session.StudentInfo)
		renderActivities(ctx, p, v)

		p.f(`<div class="actions"><form method="post" action="%s">`, esc(href(ctx, "/export/report")))
		csrfField(ctx, p)
		p.f(`<button class="btn" type="submit">%s</button></form></div>`, esc(i18n.T(ctx, "GeneratePDF")))

		renderCertificateCard(ctx, p, v)
		return p.err
	})
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return layout(i18n.T(ctx, "AppTitle"), logoutButton(i18n.T(ctx, "Logout")), body).Render(ctx, w)
	})
}

func renderStudentCard(ctx context.Context, p *printer, info model.StudentInfo) {
	p.s(`<div class="card">`)
	p.f(`<h3>%s</h3>`, esc(i18n.T(ctx, "StudentData")))
	p.f(`<form method="post" action="%s">`, esc(href(ctx, "/evaluation/student")))
	csrfField(ctx, p)
	p.s(`<div class="row-grid">`)
	fields := []struct{ name, label, value string }{
		{"name", i18n.T(ctx, "Name"), info.Name},
		{"age", i18n.T(ctx, "Age"), info.Age},
		{"class", i18n.T(ctx, "Class"), info.Class},
		{"teacher", i18n.T(ctx, "Teacher"), info.Teacher},
	}
	for _, f := range fields {
		p.f(`<div class="field"><label for="student-%s">%s</label>`, f.name, esc(f.label))
		p.f(`<input id="student-%s" name="%s" type="text" value="%s"></div>`, f.name, f.name, esc(f.value))
	}
	p.s(`</div>`)
	p.f(`<div class="actions"><button class="btn secondary" type="submit">%s</button></div>`, esc(i18n.T(ctx, "Save")))
	p.s(`</form></div>`)
}

func renderActivities(ctx context.Context, p *printer, v EvaluationView) {
	p.f(`<h3>%s</h3>`, esc(i18n.T(ctx, "ActivitiesTitle")))
	for _, a := range v.Entry.Activities {
		current := v.Session.RatingFor(a.ID)
		p.s(`<div class="card">`)
		p.f(`<strong>%s</strong>`, esc(a.Name))
		if a.Description != "" {
			p.f(`<div class="activity-desc">%s</div>`, esc(a.Description))
		}
		p.f(`<form method="post" action="%s">`, esc(href(ctx, "/evaluation/rating/"+a.ID)))
		csrfField(ctx, p)
		p.f(`<div class="field"><label>%s</label><div class="rating-btns">`, esc(i18n.T(ctx, "Rating")))
		for _, rb := range ratingButtons {
			cls := "rating-btn " + rb.Class
			if current != nil && current.Rating == rb.Rating {
				cls += " selected"
			}
			p.f(`<button class="%s" type="submit" name="rating" value="%s">%s</button>`,
				cls, esc(string(rb.Rating)), esc(string(rb.Rating)))
		}
		p.s(`</div></div>`)
		obs := ""
		if current != nil {
			obs = current.Observation
		}
		p.f(`<div class="field"><label for="obs-%s">%s</label>`, esc(a.ID), esc(i18n.T(ctx, "Observations")))
		p.f(`<textarea id="obs-%s" name="observation" rows="2" placeholder="%s">%s</textarea></div>`,
			esc(a.ID), esc(i18n.T(ctx, "ObservationPlaceholder")), esc(obs))
		p.s(`</form></div>`)
	}
}

func renderCertificateCard(ctx context.Context, p *printer, v EvaluationView) {
	p.s(`<div class="card" style="border-style:dashed; border-color:var(--acqua);">`)
	p.f(`<h3>%s</h3>`, esc(i18n.T(ctx, "CertificateTitle")))
	p.s(`<div class="row-grid">`)
	p.f(`<div class="field"><label>%s</label><input type="text" readonly value="%s"></div>`,
		esc(i18n.T(ctx, "StudentName")), esc(v.Session.StudentInfo.Name))
	p.f(`<div class="field"><label>%s</label><input type="text" readonly value="%s"></div>`,
		esc(i18n.T(ctx, "CurrentLevel")), esc(string(v.Entry.Level)))
	p.s(`</div>`)
	if len(v.Targets) == 0 {
		p.f(`<p style="color:#6b7280;">%s</p></div>`, esc(i18n.T(ctx, "NoPromotionTargets")))
		return
	}
	p.f(`<form method="post" action="%s">`, esc(href(ctx, "/export/certificate")))
	csrfField(ctx, p)
	p.f(`<div class="field"><label for="new-level">%s</label><select id="new-level" name="new_level">`, esc(i18n.T(ctx, "NewLevel")))
	p.f(`<option value="">%s</option>`, esc(i18n.T(ctx, "SelectNewLevel")))
	for _, t := range v.Targets {
		p.f(`<option value="%s">%s</option>`, esc(string(t)), esc(string(t)))
	}
	p.s(`</select></div>`)
	p.f(`<div class="actions"><button class="btn" type="submit">%s</button></div>`, esc(i18n.T(ctx, "GenerateCertificate")))
	p.s(`</form></div>`)
}
