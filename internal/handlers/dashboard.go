package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/a-h/templ"

	"github.com/hoopsreport/dashboard/internal/logic"
	"github.com/hoopsreport/dashboard/internal/storage"
	"github.com/hoopsreport/dashboard/internal/views"
)

// dashboardQuery holds the dashboard query string
type dashboardQuery struct {
	Tab  string `validate:"omitempty,oneof=games scraper compare"`
	Date string `validate:"omitempty,datetime=2006-01-02"`
}

// Dashboard renders the single-page dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	q := dashboardQuery{
		Tab:  r.URL.Query().Get("tab"),
		Date: r.URL.Query().Get("date"),
	}

	data := views.PageData{ActiveTab: q.Tab}
	if data.ActiveTab == "" {
		data.ActiveTab = views.TabGames
	}

	if err := h.validator.Struct(q); err != nil {
		h.logger.Warnw("Invalid dashboard query", "tab", q.Tab, "date", q.Date, "error", err)
		data.ActiveTab = views.TabGames
		data.Notices = []views.Notice{{
			Level:   views.LevelError,
			Message: fmt.Sprintf("Invalid request: tab must be one of games, scraper, compare and date must be YYYY-MM-DD (got tab=%q date=%q)", q.Tab, q.Date),
		}}
		h.render(w, r, http.StatusBadRequest, data)
		return
	}

	if data.ActiveTab == views.TabGames {
		h.fillGames(r, &data, q.Date)
	}
	h.render(w, r, http.StatusOK, data)
}

// fillGames loads the report for date (today when empty) into the page.
// Load failures become notices; the page itself still renders.
func (h *Handler) fillGames(r *http.Request, data *views.PageData, date string) {
	today := h.reports.Today()
	if date == "" {
		date = today
	}
	data.Date = date
	data.IsToday = date == today

	noData := fmt.Sprintf("No data available for %s", date)
	if data.IsToday {
		noData = fmt.Sprintf("No data available for today (%s)", date)
	}

	report, err := h.reports.GetReport(r.Context(), date)
	switch {
	case err == nil:
		summary := logic.FormatSummary(report.Summary)
		raw := logic.FormatSheet(report.RawData)
		data.Summary = &summary
		data.RawData = &raw
		data.LoadedAt = report.LoadedAt.In(h.loc).Format("2006-01-02 15:04 MST")
	case errors.Is(err, storage.ErrReportNotFound):
		data.Notices = append(data.Notices,
			views.Notice{Level: views.LevelWarning, Message: fmt.Sprintf("No data available for %s. The scraper may not have run yet.", date)},
			views.Notice{Level: views.LevelError, Message: noData},
		)
	default:
		h.logger.Errorw("Failed to load report", "error", err, "date", date)
		data.Notices = append(data.Notices,
			views.Notice{Level: views.LevelError, Message: fmt.Sprintf("Error loading data: %v", err)},
			views.Notice{Level: views.LevelError, Message: noData},
		)
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, data views.PageData) {
	templ.Handler(views.Page(data), templ.WithStatus(status)).ServeHTTP(w, r)
}
