package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/acquagyn/swimeval/internal/export"
	appI18n "github.com/acquagyn/swimeval/internal/i18n"
	"github.com/acquagyn/swimeval/internal/model"
)

func (h *Handler) handleExportReport(w http.ResponseWriter, r *http.Request) {
	token := h.sessionToken(r)
	snap, err := h.store.Snapshot(token)
	if err != nil {
		h.redirectToLogin(w, r)
		return
	}

	if _, err := export.ValidateReport(h.catalog, snap); err != nil {
		h.renderEvaluation(w, r, reportGateMessage(r.Context(), err), http.StatusUnprocessableEntity)
		return
	}

	if err := h.store.BeginExport(token, model.ExportReport); err != nil {
		h.renderEvaluation(w, r, appI18n.T(r.Context(), "ErrExportInFlight"), http.StatusConflict)
		return
	}
	defer h.store.EndExport(token, model.ExportReport)

	data, filename, err := h.exporter.Report(r.Context(), snap)
	if err != nil {
		slog.Error("report export failed", "error", err)
		h.renderEvaluation(w, r, appI18n.T(r.Context(), "ErrExportFailed"), http.StatusInternalServerError)
		return
	}
	servePDF(w, data, filename)
}

func (h *Handler) handleExportCertificate(w http.ResponseWriter, r *http.Request) {
	token := h.sessionToken(r)
	snap, err := h.store.Snapshot(token)
	if err != nil {
		h.redirectToLogin(w, r)
		return
	}
	target := model.Level(r.FormValue("new_level"))

	if err := export.ValidateCertificate(h.catalog, snap, target); err != nil {
		h.renderEvaluation(w, r, certificateGateMessage(r.Context(), err), http.StatusUnprocessableEntity)
		return
	}

	if err := h.store.BeginExport(token, model.ExportCertificate); err != nil {
		h.renderEvaluation(w, r, appI18n.T(r.Context(), "ErrExportInFlight"), http.StatusConflict)
		return
	}
	defer h.store.EndExport(token, model.ExportCertificate)

	data, filename, err := h.exporter.Certificate(r.Context(), snap, target)
	if err != nil {
		slog.Error("certificate export failed", "error", err)
		h.renderEvaluation(w, r, appI18n.T(r.Context(), "ErrExportFailed"), http.StatusInternalServerError)
		return
	}
	servePDF(w, data, filename)
}

func servePDF(w http.ResponseWriter, data []byte, filename string) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(filename)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		slog.Warn("pdf download interrupted", "error", err)
	}
}

// reportGateMessage maps a report-gate failure to its localized message.
func reportGateMessage(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, export.ErrStudentInfo):
		return appI18n.T(ctx, "ErrFillStudent")
	case errors.Is(err, export.ErrIncompleteRatings):
		return appI18n.T(ctx, "ErrRateAll")
	case errors.Is(err, export.ErrNoLevel):
		return appI18n.T(ctx, "ErrNoLevel")
	}
	return appI18n.T(ctx, "ErrExportFailed")
}

// certificateGateMessage maps a certificate-gate failure to its localized
// message.
func certificateGateMessage(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, export.ErrStudentInfo):
		return appI18n.T(ctx, "ErrFillName")
	case errors.Is(err, export.ErrNoLevel):
		return appI18n.T(ctx, "ErrNoLevel")
	case errors.Is(err, export.ErrNoTargetLevel):
		return appI18n.T(ctx, "ErrSelectNewLevel")
	case errors.Is(err, export.ErrInvalidTarget):
		return appI18n.T(ctx, "ErrInvalidTarget")
	}
	return appI18n.T(ctx, "ErrExportFailed")
}
