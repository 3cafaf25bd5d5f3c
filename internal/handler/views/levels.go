package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/acquagyn/swimeval/internal/catalog"
	"github.com/acquagyn/swimeval/internal/i18n"
)

// LevelsPage renders the level selector: one button per catalog entry, in
// promotion order, tinted with the level's color scheme.
func LevelsPage(entries []catalog.Entry) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.s(`<div class="card">`)
		p.f(`<p style="text-align:center; color:#6b7280;">%s</p>`, esc(i18n.T(ctx, "SelectLevelSubtitle")))
		p.s(`<div class="grid">`)
		for _, e := range entries {
			p.f(`<form method="post" action="%s">`, esc(href(ctx, "/level")))
			csrfField(ctx, p)
			p.f(`<input type="hidden" name="level" value="%s">`, esc(string(e.Level)))
			p.f(`<button class="level-btn" type="submit" style="background:%s; border-color:%s;">`,
				esc(string(e.Colors.Secondary)), esc(string(e.Colors.Primary)))
			p.f(`%s<br><span style="font-size:13px; font-weight:400; color:#6b7280;">%s</span>`,
				esc(string(e.Level)), esc(i18n.T(ctx, "ClickToEvaluate")))
			p.s(`</button></form>`)
		}
		p.s(`</div></div>`)
		return p.err
	})
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return layout(i18n.T(ctx, "AppTitle"), logoutButton(i18n.T(ctx, "Logout")), body).Render(ctx, w)
	})
}
