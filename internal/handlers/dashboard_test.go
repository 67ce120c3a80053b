package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/hoopsreport/dashboard/internal/models"
	"github.com/hoopsreport/dashboard/internal/storage"
)

func serveDashboard(t *testing.T, h *Handler, target string) (*httptest.ResponseRecorder, *goquery.Document) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.Dashboard(w, req)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(w.Body.String()))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return w, doc
}

func noticeTexts(doc *goquery.Document, level string) []string {
	var out []string
	doc.Find(".notice-" + level).Each(func(_ int, s *goquery.Selection) {
		out = append(out, s.Text())
	})
	return out
}

func TestDashboard_TodaysGames(t *testing.T) {
	var requested string
	reports := &MockReportService{
		GetReportFunc: func(ctx context.Context, date string) (*models.Report, error) {
			requested = date
			return sampleReport(date), nil
		},
	}
	h := newTestHandler(reports, nil)

	w, doc := serveDashboard(t, h, "/")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if requested != testToday {
		t.Errorf("requested date = %q, want %q", requested, testToday)
	}
	if got := doc.Find("h1").First().Text(); got != "Today's Games" {
		t.Errorf("h1 = %q", got)
	}
	if got := doc.Find(".tab.active").Text(); got != "Today's Games" {
		t.Errorf("active tab = %q", got)
	}

	rows := doc.Find("table#summary tbody tr")
	if rows.Length() != 2 {
		t.Fatalf("summary rows = %d, want 2", rows.Length())
	}
	// ordered by time: 7:00 PM before 9:00 PM
	first := rows.Eq(0).Find("td")
	if got := first.Eq(1).Text(); got != "Duke vs North Carolina" {
		t.Errorf("first matchup = %q", got)
	}
	if got := first.Eq(2).Text(); got != "56.0%" {
		t.Errorf("win prob = %q, want 56.0%%", got)
	}

	second := rows.Eq(1).Find("td")
	style, _ := second.Eq(3).Attr("style")
	if !strings.Contains(style, "#ffcdd2") {
		t.Errorf("negative delta style = %q", style)
	}
	if got := second.Eq(3).Text(); got != "-2.3" {
		t.Errorf("delta text = %q, want -2.3", got)
	}

	if doc.Find("details.raw-data table#raw").Length() != 1 {
		t.Error("raw data table missing")
	}
	if got := doc.Find(".caption").Text(); !strings.Contains(got, "2024-03-01 15:04 UTC") {
		t.Errorf("caption = %q", got)
	}
	if doc.Find(".notice").Length() != 0 {
		t.Errorf("unexpected notices: %q", doc.Find(".notice").Text())
	}
}

func TestDashboard_NotFound(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		date      string
		wantError string
	}{
		{"today", "/", testToday, "No data available for today (2024-03-01)"},
		{"other day", "/?date=2024-02-28", "2024-02-28", "No data available for 2024-02-28"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reports := &MockReportService{
				GetReportFunc: func(ctx context.Context, date string) (*models.Report, error) {
					return nil, fmt.Errorf("fetch %s: %w", date, storage.ErrReportNotFound)
				},
			}
			w, doc := serveDashboard(t, newTestHandler(reports, nil), tt.target)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			warnings := noticeTexts(doc, "warning")
			wantWarning := "No data available for " + tt.date + ". The scraper may not have run yet."
			if len(warnings) != 1 || warnings[0] != wantWarning {
				t.Errorf("warnings = %q, want %q", warnings, wantWarning)
			}
			errs := noticeTexts(doc, "error")
			if len(errs) != 1 || errs[0] != tt.wantError {
				t.Errorf("errors = %q, want %q", errs, tt.wantError)
			}
			if doc.Find("table").Length() != 0 {
				t.Error("no table expected without data")
			}
		})
	}
}

func TestDashboard_LoadError(t *testing.T) {
	reports := &MockReportService{
		GetReportFunc: func(ctx context.Context, date string) (*models.Report, error) {
			return nil, errors.New("access denied")
		},
	}
	_, doc := serveDashboard(t, newTestHandler(reports, nil), "/")

	errs := noticeTexts(doc, "error")
	if len(errs) != 2 {
		t.Fatalf("errors = %q, want 2 notices", errs)
	}
	if errs[0] != "Error loading data: access denied" {
		t.Errorf("first error = %q", errs[0])
	}
	if errs[1] != "No data available for today (2024-03-01)" {
		t.Errorf("second error = %q", errs[1])
	}
}

func TestDashboard_OtherDate(t *testing.T) {
	_, doc := serveDashboard(t, newTestHandler(nil, nil), "/?tab=games&date=2024-02-28")

	if got := doc.Find("h1").First().Text(); got != "Games for 2024-02-28" {
		t.Errorf("h1 = %q", got)
	}
	if got, _ := doc.Find(`input[name="date"]`).Attr("value"); got != "2024-02-28" {
		t.Errorf("date input = %q", got)
	}
}

func TestDashboard_DisabledTabs(t *testing.T) {
	tests := []struct {
		tab     string
		heading string
		want    string
	}{
		{"scraper", "h1", "Custom Game Scraper"},
		{"compare", "h2", "Compare two teams"},
	}

	for _, tt := range tests {
		t.Run(tt.tab, func(t *testing.T) {
			reports := &MockReportService{
				GetReportFunc: func(ctx context.Context, date string) (*models.Report, error) {
					t.Fatal("disabled tabs must not load a report")
					return nil, nil
				},
			}
			w, doc := serveDashboard(t, newTestHandler(reports, nil), "/?tab="+tt.tab)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			if got := doc.Find("section.tab-panel " + tt.heading).Text(); got != tt.want {
				t.Errorf("%s = %q, want %q", tt.heading, got, tt.want)
			}
			if doc.Find(".disabled-note").Length() != 1 {
				t.Error("disabled note missing")
			}
		})
	}
}

func TestDashboard_InvalidQuery(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"unknown tab", "/?tab=bogus"},
		{"bad date", "/?date=03-01-2024"},
		{"impossible date", "/?date=2023-02-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, doc := serveDashboard(t, newTestHandler(nil, nil), tt.target)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			if len(noticeTexts(doc, "error")) != 1 {
				t.Error("expected one error notice")
			}
			if doc.Find("table").Length() != 0 {
				t.Error("no table expected on a bad request")
			}
		})
	}
}
