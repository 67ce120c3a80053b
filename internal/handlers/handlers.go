package handlers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hoopsreport/dashboard/internal/logic"
)

// RefreshQueue defines the interface for the background report refresher
type RefreshQueue interface {
	Enqueue(date string) bool
	QueueDepth() int
}

// Pinger is a dependency that can report its health
type Pinger interface {
	Ping(ctx context.Context) error
}

type Config struct {
	Reports   logic.ReportService
	Refresher RefreshQueue
	Storage   Pinger
	Cache     Pinger // optional
	Location  *time.Location
	Logger    *zap.Logger
}

type Handler struct {
	reports   logic.ReportService
	refresher RefreshQueue
	storage   Pinger
	cache     Pinger
	loc       *time.Location
	logger    *zap.SugaredLogger
	validator *validator.Validate
}

func New(cfg Config) *Handler {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Handler{
		reports:   cfg.Reports,
		refresher: cfg.Refresher,
		storage:   cfg.Storage,
		cache:     cfg.Cache,
		loc:       loc,
		logger:    cfg.Logger.Sugar(),
		validator: validator.New(),
	}
}
