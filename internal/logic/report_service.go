package logic

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/hoopsreport/dashboard/internal/models"
	"github.com/hoopsreport/dashboard/internal/storage"
)

// Prometheus metrics
var (
	reportLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scouting_report_loads_total",
		Help: "Report loads by outcome (hit, miss, not_found, error)",
	}, []string{"outcome"})

	reportFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scouting_report_fetch_duration_seconds",
		Help:    "Duration of fetching and parsing a report from object storage",
		Buckets: prometheus.DefBuckets,
	})
)

// ReportServiceConfig configures the report service
type ReportServiceConfig struct {
	Store        ReportFetcher
	Cache        ReportCache // optional
	Location     *time.Location
	FetchTimeout time.Duration
	Logger       *zap.Logger
	Now          func() time.Time // optional, for tests
}

type reportService struct {
	store   ReportFetcher
	cache   ReportCache
	loc     *time.Location
	timeout time.Duration
	now     func() time.Time
	group   singleflight.Group
	logger  *zap.SugaredLogger
}

func NewReportService(cfg ReportServiceConfig) ReportService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 20 * time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &reportService{
		store:   cfg.Store,
		cache:   cfg.Cache,
		loc:     cfg.Location,
		timeout: cfg.FetchTimeout,
		now:     cfg.Now,
		logger:  cfg.Logger.Sugar(),
	}
}

func (s *reportService) Today() string {
	return s.now().In(s.loc).Format(models.DateLayout)
}

func (s *reportService) GetReport(ctx context.Context, date string) (*models.Report, error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}

	if s.cache != nil {
		report, err := s.cache.Get(ctx, date)
		if err != nil {
			s.logger.Warnw("Report cache read failed", "date", date, "error", err)
		} else if report != nil {
			reportLoads.WithLabelValues("hit").Inc()
			return report, nil
		}
	}

	return s.load(ctx, date)
}

func (s *reportService) RefreshReport(ctx context.Context, date string) (*models.Report, error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}
	return s.load(ctx, date)
}

// load fetches and parses the report, collapsing concurrent loads of the
// same date into one storage round trip.
func (s *reportService) load(ctx context.Context, date string) (*models.Report, error) {
	ch := s.group.DoChan(date, func() (interface{}, error) {
		// detached from the first caller so its cancellation does not fail
		// the others waiting on the same load
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.fetchAndParse(fetchCtx, date)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.Report), nil
	}
}

func (s *reportService) fetchAndParse(ctx context.Context, date string) (*models.Report, error) {
	start := time.Now()
	data, err := s.store.Fetch(ctx, date)
	if err != nil {
		if errors.Is(err, storage.ErrReportNotFound) {
			reportLoads.WithLabelValues("not_found").Inc()
			s.logger.Infow("No report for date", "date", date)
			return nil, err
		}
		reportLoads.WithLabelValues("error").Inc()
		s.logger.Errorw("Failed to fetch report", "date", date, "error", err)
		return nil, err
	}

	report, err := ParseReport(date, data)
	if err != nil {
		reportLoads.WithLabelValues("error").Inc()
		s.logger.Errorw("Failed to parse report", "date", date, "bytes", len(data), "error", err)
		return nil, err
	}
	reportFetchDuration.Observe(time.Since(start).Seconds())
	reportLoads.WithLabelValues("miss").Inc()

	s.logger.Infow("Report loaded",
		"date", date,
		"summaryRows", len(report.Summary.Rows),
		"rawRows", len(report.RawData.Rows),
	)

	if s.cache != nil {
		if err := s.cache.Set(ctx, report); err != nil {
			s.logger.Warnw("Report cache write failed", "date", date, "error", err)
		}
	}
	return report, nil
}
