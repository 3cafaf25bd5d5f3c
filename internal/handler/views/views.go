// Package views renders the HTML pages. Components are hand-written
// templ.Component values built on the templ runtime; there is no
// generation step.
package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/acquagyn/swimeval/internal/model"
)

// esc is the HTML escaper used for every interpolated value.
var esc = templ.EscapeString[string]

// printer accumulates writes until the first error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) f(format string, args ...any) {
	if p.err == nil {
		_, p.err = fmt.Fprintf(p.w, format, args...)
	}
}

func (p *printer) s(s string) {
	if p.err == nil {
		_, p.err = io.WriteString(p.w, s)
	}
}

// href prefixes a path with the deployment base path from context.
func href(ctx context.Context, path string) string {
	return model.BasePathFromContext(ctx) + path
}

// csrfField renders the hidden CSRF input for POST forms.
func csrfField(ctx context.Context, p *printer) {
	p.f(`<input type="hidden" name="csrf_token" value="%s">`, esc(model.CSRFTokenFromContext(ctx)))
}

const styles = `<style>
:root { --acqua: #0ea5e9; --acqua-dark: #0284c7; --ink: #1f2937; }
* { box-sizing: border-box; }
body { font-family: Arial, Helvetica, sans-serif; margin: 0; background: #f0f9ff; color: var(--ink); }
header { background: linear-gradient(90deg, var(--acqua), var(--acqua-dark)); color: #fff; padding: 14px 24px; display: flex; justify-content: space-between; align-items: center; }
header h1 { font-size: 20px; margin: 0; }
main { max-width: 960px; margin: 24px auto; padding: 0 16px; }
.card { background: #fff; border: 1px solid #e5e7eb; border-radius: 10px; padding: 20px; margin-bottom: 18px; }
.grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(230px, 1fr)); gap: 14px; }
.level-btn { width: 100%; padding: 22px 14px; border-radius: 10px; border: 2px solid; cursor: pointer; font-size: 16px; font-weight: 600; }
.field { margin-bottom: 12px; }
.field label { display: block; font-size: 13px; font-weight: 600; margin-bottom: 4px; }
.field input, .field select, .field textarea { width: 100%; padding: 8px; border: 1px solid #d1d5db; border-radius: 6px; font-size: 14px; }
.row-grid { display: grid; grid-template-columns: 1fr 1fr; gap: 14px; }
.btn { display: inline-block; padding: 9px 18px; border: 0; border-radius: 6px; background: var(--acqua); color: #fff; font-size: 14px; font-weight: 600; cursor: pointer; }
.btn.secondary { background: #fff; color: var(--ink); border: 1px solid #d1d5db; }
.rating-btns { display: flex; gap: 8px; flex-wrap: wrap; margin-bottom: 10px; }
.rating-btn { padding: 7px 12px; border-radius: 6px; border: 1px solid transparent; font-size: 13px; font-weight: 600; cursor: pointer; }
.rb-nao { background: #fee2e2; color: #b91c1c; }
.rb-parcial { background: #fef9c3; color: #a16207; }
.rb-total { background: #dbeafe; color: #1d4ed8; }
.rating-btn.selected.rb-nao { background: #ef4444; color: #fff; }
.rating-btn.selected.rb-parcial { background: #eab308; color: #fff; }
.rating-btn.selected.rb-total { background: #3b82f6; color: #fff; }
.activity-desc { color: #6b7280; font-size: 13px; margin: 2px 0 10px; }
.flash { background: #fee2e2; border: 1px solid #fca5a5; color: #991b1b; padding: 10px 14px; border-radius: 8px; margin-bottom: 16px; }
.actions { display: flex; justify-content: flex-end; gap: 12px; }
h2 { color: var(--acqua-dark); }
</style>`

// layout wraps a page body in the shared chrome.
func layout(title string, topRight templ.Component, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.s("<!DOCTYPE html>\n<html lang=\"pt-BR\"><head><meta charset=\"utf-8\">")
		p.s(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		p.f("<title>%s</title>", esc(title))
		p.s(styles)
		p.s("</head><body><header>")
		p.f("<h1>%s</h1>", esc(title))
		if p.err != nil {
			return p.err
		}
		if topRight != nil {
			if err := topRight.Render(ctx, w); err != nil {
				return err
			}
		}
		p.s("</header><main>")
		if p.err != nil {
			return p.err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		p.s("</main></body></html>")
		return p.err
	})
}

// logoutButton renders the sign-out form shown on authenticated pages.
func logoutButton(label string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.f(`<form method="post" action="%s">`, esc(href(ctx, "/logout")))
		csrfField(ctx, p)
		p.f(`<button class="btn secondary" type="submit">%s</button></form>`, esc(label))
		return p.err
	})
}

// flash renders an error banner when msg is non-empty.
func flash(p *printer, msg string) {
	if msg != "" {
		p.f(`<div class="flash">%s</div>`, esc(msg))
	}
}
