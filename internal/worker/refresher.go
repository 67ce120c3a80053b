// Package worker keeps cached scouting reports fresh in the background.
// Dates are queued either by the periodic ticker (today's report) or on
// request, and a small pool of workers reloads them from object storage.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/hoopsreport/dashboard/internal/logic"
	"github.com/hoopsreport/dashboard/internal/storage"
)

// Prometheus metrics
var (
	refreshRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scouting_report_refresh_total",
		Help: "Background report refreshes by outcome (ok, not_found, error)",
	}, []string{"outcome"})

	refreshLastSuccess = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scouting_report_refresh_last_success_timestamp_seconds",
		Help: "Unix time of the last successful background refresh",
	})

	refreshQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scouting_report_refresh_queue_depth",
		Help: "Current depth of the refresh queue",
	})

	refreshDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scouting_report_refresh_dropped_total",
		Help: "Refresh requests dropped because the queue was full",
	})
)

// RefresherConfig configures the refresher
type RefresherConfig struct {
	Reports     logic.ReportService
	Interval    time.Duration // 0 disables periodic refresh of today's report
	WorkerCount int
	QueueSize   int
	Logger      *zap.Logger
}

// Refresher reloads reports into the cache
type Refresher struct {
	config   RefresherConfig
	jobQueue chan string
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.RWMutex
	stopped  bool
	logger   *zap.SugaredLogger
}

// NewRefresher creates a refresher; call Start to run it.
func NewRefresher(cfg RefresherConfig) *Refresher {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Refresher{
		config:   cfg,
		jobQueue: make(chan string, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
}

// Start launches the workers and, when an interval is set, the ticker that
// queues today's report.
func (r *Refresher) Start(ctx context.Context) {
	r.ctx, r.cancel = context.WithCancel(ctx)

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	if r.config.Interval > 0 {
		r.wg.Add(1)
		go r.tick()
	}

	r.logger.Infow("Refresher started",
		"workers", r.config.WorkerCount,
		"queueSize", r.config.QueueSize,
		"interval", r.config.Interval,
	)
}

// Stop cancels in-flight refreshes and waits for the workers to exit.
func (r *Refresher) Stop() {
	r.logger.Info("Stopping refresher...")

	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	close(r.jobQueue)
	r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
	r.logger.Info("Refresher stopped")
}

// Enqueue asks for date to be reloaded. It never blocks: when the queue is
// full or the refresher is stopped the request is dropped and false returned.
func (r *Refresher) Enqueue(date string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.stopped {
		return false
	}

	select {
	case r.jobQueue <- date:
		refreshQueueDepth.Set(float64(len(r.jobQueue)))
		return true
	default:
		refreshDropped.Inc()
		r.logger.Warnw("Refresh queue full, dropping request", "date", date)
		return false
	}
}

// QueueDepth returns current queue size
func (r *Refresher) QueueDepth() int {
	return len(r.jobQueue)
}

func (r *Refresher) tick() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	r.Enqueue(r.config.Reports.Today())
	for {
		select {
		case <-ticker.C:
			r.Enqueue(r.config.Reports.Today())
		case <-r.ctx.Done():
			return
		}
	}
}

func (r *Refresher) worker(id int) {
	defer r.wg.Done()

	for {
		select {
		case date, ok := <-r.jobQueue:
			if !ok {
				return
			}
			refreshQueueDepth.Set(float64(len(r.jobQueue)))
			r.refresh(id, date)
		case <-r.ctx.Done():
			return
		}
	}
}

func (r *Refresher) refresh(id int, date string) {
	start := time.Now()
	report, err := r.config.Reports.RefreshReport(r.ctx, date)
	switch {
	case err == nil:
		refreshRuns.WithLabelValues("ok").Inc()
		refreshLastSuccess.SetToCurrentTime()
		r.logger.Infow("Report refreshed",
			"worker", id,
			"date", date,
			"summaryRows", len(report.Summary.Rows),
			"duration", time.Since(start),
		)
	case errors.Is(err, storage.ErrReportNotFound):
		refreshRuns.WithLabelValues("not_found").Inc()
		r.logger.Infow("Report not published yet", "worker", id, "date", date)
	case errors.Is(err, context.Canceled):
		r.logger.Infow("Refresh canceled", "worker", id, "date", date)
	default:
		refreshRuns.WithLabelValues("error").Inc()
		r.logger.Errorw("Report refresh failed", "worker", id, "date", date, "error", err)
	}
}
