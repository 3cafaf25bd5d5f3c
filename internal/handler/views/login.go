package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/acquagyn/swimeval/internal/i18n"
)

// LoginPage renders the credential form, with an error banner when
// errMsg is non-empty.
func LoginPage(errMsg string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.s(`<div class="card" style="max-width: 420px; margin: 48px auto;">`)
		p.f("<h2>%s</h2>", esc(i18n.T(ctx, "LoginTitle")))
		flash(p, errMsg)
		p.f(`<form method="post" action="%s">`, esc(href(ctx, "/login")))
		csrfField(ctx, p)
		p.f(`<div class="field"><label for="username">%s</label>`, esc(i18n.T(ctx, "Username")))
		p.s(`<input id="username" name="username" type="text" autocomplete="username" autofocus></div>`)
		p.f(`<div class="field"><label for="password">%s</label>`, esc(i18n.T(ctx, "Password")))
		p.s(`<input id="password" name="password" type="password" autocomplete="current-password"></div>`)
		p.f(`<div class="actions"><button class="btn" type="submit">%s</button></div>`, esc(i18n.T(ctx, "SignIn")))
		p.s(`</form></div>`)
		return p.err
	})
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return layout(i18n.T(ctx, "AppTitle"), nil, body).Render(ctx, w)
	})
}
