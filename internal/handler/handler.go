package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/acquagyn/swimeval/internal/catalog"
	"github.com/acquagyn/swimeval/internal/export"
	"github.com/acquagyn/swimeval/internal/handler/views"
	"github.com/acquagyn/swimeval/internal/model"
	"github.com/acquagyn/swimeval/internal/store"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store    *store.Store
	catalog  *catalog.Catalog
	exporter *export.Exporter
	config   model.Config
}

// New creates a new Handler.
func New(s *store.Store, cat *catalog.Catalog, exp *export.Exporter, cfg model.Config) *Handler {
	return &Handler{store: s, catalog: cat, exporter: exp, config: cfg}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.csrfMiddleware)

		r.Get("/login", h.handleLoginPage)
		r.Post("/login", h.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Post("/logout", h.handleLogout)
			r.Get("/", h.handleIndex)
			r.Post("/level", h.handleSelectLevel)
			r.Get("/evaluation", h.handleEvaluationPage)
			r.Post("/evaluation/student", h.handleStudentUpdate)
			r.Post("/evaluation/rating/{activityID}", h.handleRating)
			r.Post("/evaluation/reset", h.handleReset)
			r.Post("/export/report", h.handleExportReport)
			r.Post("/export/certificate", h.handleExportCertificate)
		})
	})
}

// BasePathMiddleware makes the deployment prefix available to views.
func (h *Handler) BasePathMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := model.ContextWithBasePath(r.Context(), h.config.BasePath)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) path(p string) string {
	return h.config.BasePath + p
}

// sessionToken returns the auth cookie value, or empty string.
func (h *Handler) sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Snapshot(h.sessionToken(r))
	if err != nil {
		h.redirectToLogin(w, r)
		return
	}
	if snap.SelectedLevel != nil {
		http.Redirect(w, r, h.path("/evaluation"), http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.LevelsPage(h.catalog.Entries()).Render(r.Context(), w); err != nil {
		slog.Error("render error", "error", err)
	}
}

func (h *Handler) handleSelectLevel(w http.ResponseWriter, r *http.Request) {
	level := model.Level(r.FormValue("level"))
	if _, ok := h.catalog.Get(level); !ok {
		http.Error(w, "unknown level", http.StatusBadRequest)
		return
	}
	if err := h.store.SelectLevel(h.sessionToken(r), &level); err != nil {
		h.redirectToLogin(w, r)
		return
	}
	http.Redirect(w, r, h.path("/evaluation"), http.StatusSeeOther)
}

func (h *Handler) handleEvaluationPage(w http.ResponseWriter, r *http.Request) {
	h.renderEvaluation(w, r, "", http.StatusOK)
}

// renderEvaluation renders the evaluation page with an optional flash
// message. Redirects to the level selector when no level is chosen.
func (h *Handler) renderEvaluation(w http.ResponseWriter, r *http.Request, flashMsg string, status int) {
	snap, err := h.store.Snapshot(h.sessionToken(r))
	if err != nil {
		h.redirectToLogin(w, r)
		return
	}
	if snap.SelectedLevel == nil {
		http.Redirect(w, r, h.path("/"), http.StatusSeeOther)
		return
	}
	entry, ok := h.catalog.Get(*snap.SelectedLevel)
	if !ok {
		http.Error(w, "unknown level", http.StatusInternalServerError)
		return
	}
	view := views.EvaluationView{
		Entry:   entry,
		Session: snap,
		Targets: h.catalog.PromotionTargets(entry.Level),
		Flash:   flashMsg,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := views.EvaluationPage(view).Render(r.Context(), w); err != nil {
		slog.Error("render error", "error", err)
	}
}

func (h *Handler) handleStudentUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	var patch model.StudentInfoPatch
	if v, ok := formValue(r, "name"); ok {
		patch.Name = &v
	}
	if v, ok := formValue(r, "age"); ok {
		patch.Age = &v
	}
	if v, ok := formValue(r, "class"); ok {
		patch.Class = &v
	}
	if v, ok := formValue(r, "teacher"); ok {
		patch.Teacher = &v
	}
	if err := h.store.UpdateStudentInfo(h.sessionToken(r), patch); err != nil {
		h.redirectToLogin(w, r)
		return
	}
	http.Redirect(w, r, h.path("/evaluation"), http.StatusSeeOther)
}

// formValue distinguishes "field absent" from "field present but empty"
// so a partial form cannot blank out fields it does not carry.
func formValue(r *http.Request, key string) (string, bool) {
	vs, ok := r.PostForm[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

func (h *Handler) handleRating(w http.ResponseWriter, r *http.Request) {
	activityID := chi.URLParam(r, "activityID")
	rating := model.Rating(r.FormValue("rating"))
	if !rating.Valid() {
		http.Error(w, "invalid rating", http.StatusBadRequest)
		return
	}
	observation := r.FormValue("observation")
	if err := h.store.UpsertRating(h.sessionToken(r), activityID, rating, observation); err != nil {
		h.redirectToLogin(w, r)
		return
	}
	http.Redirect(w, r, h.path("/evaluation"), http.StatusSeeOther)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Reset(h.sessionToken(r)); err != nil {
		h.redirectToLogin(w, r)
		return
	}
	http.Redirect(w, r, h.path("/"), http.StatusSeeOther)
}
