package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hoopsreport/dashboard/internal/models"
)

// MockReportService
type MockReportService struct {
	GetReportFunc     func(ctx context.Context, date string) (*models.Report, error)
	RefreshReportFunc func(ctx context.Context, date string) (*models.Report, error)
	TodayFunc         func() string
}

func (m *MockReportService) GetReport(ctx context.Context, date string) (*models.Report, error) {
	if m.GetReportFunc != nil {
		return m.GetReportFunc(ctx, date)
	}
	return sampleReport(date), nil
}

func (m *MockReportService) RefreshReport(ctx context.Context, date string) (*models.Report, error) {
	if m.RefreshReportFunc != nil {
		return m.RefreshReportFunc(ctx, date)
	}
	return sampleReport(date), nil
}

func (m *MockReportService) Today() string {
	if m.TodayFunc != nil {
		return m.TodayFunc()
	}
	return testToday
}

// MockRefreshQueue
type MockRefreshQueue struct {
	EnqueueFunc func(date string) bool
	Depth       int
}

func (m *MockRefreshQueue) Enqueue(date string) bool {
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(date)
	}
	return true
}

func (m *MockRefreshQueue) QueueDepth() int { return m.Depth }

// MockPinger
type MockPinger struct {
	Err error
}

func (m *MockPinger) Ping(ctx context.Context) error { return m.Err }

const testToday = "2024-03-01"

func sampleReport(date string) *models.Report {
	return &models.Report{
		Date: date,
		Summary: models.Sheet{
			Name: models.SummarySheet,
			Columns: []string{
				models.ColTime, "Matchup", models.ColWinProbability,
				models.ColTeamADelta, models.ColTeamBDelta,
			},
			Rows: [][]models.Cell{
				{models.StringCell("9:00 PM"), models.StringCell("Gonzaga vs Saint Mary's"), models.NumberCell(0.6123), models.NumberCell(-2.31), models.NumberCell(1.26)},
				{models.StringCell("7:00 PM"), models.StringCell("Duke vs North Carolina"), models.NumberCell(0.5561), models.NumberCell(0), {}},
			},
		},
		RawData: models.Sheet{
			Name:    models.RawDataSheet,
			Columns: []string{"Team", "AdjO"},
			Rows: [][]models.Cell{
				{models.StringCell("Duke"), models.NumberCell(120.11)},
			},
		},
		LoadedAt: time.Date(2024, 3, 1, 15, 4, 0, 0, time.UTC),
	}
}

func newTestHandler(reports *MockReportService, queue RefreshQueue) *Handler {
	if reports == nil {
		reports = &MockReportService{}
	}
	return New(Config{
		Reports:   reports,
		Refresher: queue,
		Storage:   &MockPinger{},
		Location:  time.UTC,
		Logger:    zap.NewNop(),
	})
}
