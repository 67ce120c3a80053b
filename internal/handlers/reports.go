package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hoopsreport/dashboard/internal/logic"
	"github.com/hoopsreport/dashboard/internal/models"
	"github.com/hoopsreport/dashboard/internal/storage"
)

// reportDate reads the {date} URL parameter; "today" resolves to the
// current date in the report time zone.
func (h *Handler) reportDate(r *http.Request) (string, error) {
	date := chi.URLParam(r, "date")
	if date == "today" {
		return h.reports.Today(), nil
	}
	if err := logic.ValidateDate(date); err != nil {
		return "", err
	}
	return date, nil
}

// loadReport writes the error response itself and returns nil on failure.
func (h *Handler) loadReport(w http.ResponseWriter, r *http.Request) *models.Report {
	date, err := h.reportDate(r)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD or today")
		return nil
	}

	report, err := h.reports.GetReport(r.Context(), date)
	if err != nil {
		if errors.Is(err, storage.ErrReportNotFound) {
			h.errorResponse(w, http.StatusNotFound, "No data available for "+date)
			return nil
		}
		h.logger.Errorw("Failed to get report", "error", err, "date", date)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load report")
		return nil
	}
	return report
}

// GetReportSummary returns the formatted games table for a date
func (h *Handler) GetReportSummary(w http.ResponseWriter, r *http.Request) {
	report := h.loadReport(w, r)
	if report == nil {
		return
	}
	h.jsonResponse(w, http.StatusOK, models.SummaryResponse{
		Date:     report.Date,
		LoadedAt: report.LoadedAt,
		Table:    logic.FormatSummary(report.Summary),
	})
}

// GetReportRawData returns the unformatted Raw Data sheet for a date
func (h *Handler) GetReportRawData(w http.ResponseWriter, r *http.Request) {
	report := h.loadReport(w, r)
	if report == nil {
		return
	}
	h.jsonResponse(w, http.StatusOK, report.RawData)
}

// RefreshReport queues a background reload of a date's report
func (h *Handler) RefreshReport(w http.ResponseWriter, r *http.Request) {
	date, err := h.reportDate(r)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD or today")
		return
	}
	if h.refresher == nil || !h.refresher.Enqueue(date) {
		h.errorResponse(w, http.StatusServiceUnavailable, "Refresh queue unavailable")
		return
	}
	h.jsonResponse(w, http.StatusAccepted, map[string]string{
		"status": "queued",
		"date":   date,
	})
}
