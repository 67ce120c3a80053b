package logic

import (
	"context"

	"github.com/hoopsreport/dashboard/internal/models"
)

// ReportFetcher downloads the raw workbook for a date
type ReportFetcher interface {
	Fetch(ctx context.Context, date string) ([]byte, error)
}

// ReportCache stores parsed reports. Get returns (nil, nil) on a miss.
type ReportCache interface {
	Get(ctx context.Context, date string) (*models.Report, error)
	Set(ctx context.Context, report *models.Report) error
}

// ReportService loads daily scouting reports
type ReportService interface {
	// GetReport returns the report for date, served from cache when possible.
	GetReport(ctx context.Context, date string) (*models.Report, error)
	// RefreshReport reloads the report for date from storage and updates the cache.
	RefreshReport(ctx context.Context, date string) (*models.Report, error)
	// Today returns the current date in the report time zone.
	Today() string
}
