package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hoopsreport/dashboard/internal/cache"
	"github.com/hoopsreport/dashboard/internal/config"
	"github.com/hoopsreport/dashboard/internal/handlers"
	"github.com/hoopsreport/dashboard/internal/logic"
	"github.com/hoopsreport/dashboard/internal/storage"
	"github.com/hoopsreport/dashboard/internal/worker"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Sugar().Errorw("Dashboard exited", "error", err)
		logger.Sync()
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	log := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s3Client, err := storage.NewS3Client(ctx, storage.ClientConfig{
		Region:          cfg.AWSRegion,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
		Endpoint:        cfg.S3Endpoint,
	})
	if err != nil {
		return err
	}
	store := storage.NewReportStore(s3Client, cfg.ReportBucket, cfg.ReportPrefix)

	serviceCfg := logic.ReportServiceConfig{
		Store:        store,
		Location:     cfg.ReportTimezone,
		FetchTimeout: cfg.FetchTimeout,
		Logger:       logger,
	}
	handlerCfg := handlers.Config{
		Storage:  store,
		Location: cfg.ReportTimezone,
		Logger:   logger,
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		reportCache := cache.New(rdb, cfg.ReportCacheTTL)
		if err := reportCache.Ping(ctx); err != nil {
			log.Warnw("Redis unreachable, reports will be cached once it recovers", "error", err)
		}
		// assigned only when set so the interfaces never hold a typed nil
		serviceCfg.Cache = reportCache
		handlerCfg.Cache = reportCache
		log.Infow("Report cache enabled", "ttl", cfg.ReportCacheTTL)
	}

	reports := logic.NewReportService(serviceCfg)

	refresher := worker.NewRefresher(worker.RefresherConfig{
		Reports:     reports,
		Interval:    cfg.RefreshInterval,
		WorkerCount: 2,
		QueueSize:   16,
		Logger:      logger,
	})
	refresher.Start(ctx)
	defer refresher.Stop()

	handlerCfg.Reports = reports
	handlerCfg.Refresher = refresher
	h := handlers.New(handlerCfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h.Router(cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.FetchTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("Dashboard listening",
			"addr", srv.Addr,
			"env", cfg.Env,
			"bucket", cfg.ReportBucket,
			"prefix", cfg.ReportPrefix,
			"timezone", cfg.ReportTimezone.String(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
