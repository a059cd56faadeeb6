package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/internal/ai"
	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/internal/analytics"
	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/internal/config"
	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/internal/database"
	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/internal/events"
	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/internal/shortlist"
	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/pkg/models"
)

// App is the dependency container for the CLI and the HTTP server
type App struct {
	Config     *config.Config
	Log        *logrus.Logger
	Store      *database.Store
	Publisher  events.Publisher
	Engine     *ai.Engine
	Shortlists *shortlist.Service
	Analytics  *analytics.Service
}

// NewApp loads the config and wires every service
func NewApp(ctx context.Context) (*App, error) {
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	return Build(ctx, config.AppConfig)
}

// Build wires an App from an already loaded config
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	log, err := NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	store, err := database.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	publisher := newPublisher(ctx, cfg.RedisURL, log)

	var predictor ai.Predictor
	if cfg.PredictionURL != "" {
		predictor = ai.NewHTTPPredictor(cfg.PredictionURL, cfg.PredictionTimeout)
	} else {
		log.Warn("no prediction_url configured, shortlists use the heuristic fallback")
	}
	engine := ai.NewEngine(predictor, ai.NewFallback(cfg.FallbackSeed), log)

	return &App{
		Config:     cfg,
		Log:        log,
		Store:      store,
		Publisher:  publisher,
		Engine:     engine,
		Shortlists: shortlist.NewService(store, store, store, engine, publisher, log),
		Analytics:  analytics.NewService(store, publisher, log),
	}, nil
}

// newPublisher connects to Redis when configured. A failed connection is
// logged and events are dropped.
func newPublisher(ctx context.Context, redisURL string, log *logrus.Logger) events.Publisher {
	if redisURL == "" {
		return events.Nop{}
	}
	rdb, err := events.NewRedisClient(ctx, redisURL)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, events disabled")
		return events.Nop{}
	}
	return events.NewRedisPublisher(rdb)
}

// PostJob stores job and, when autoShortlist is set, generates its
// shortlist with the configured limit. A failed generation is logged and
// leaves the saved job in place; the result is nil in that case.
func (a *App) PostJob(ctx context.Context, job *models.Job, autoShortlist bool) (*shortlist.Result, error) {
	if err := a.Store.SaveJob(ctx, job); err != nil {
		return nil, err
	}
	if !autoShortlist {
		return nil, nil
	}

	res, err := a.Shortlists.Generate(ctx, job.ID, a.Config.ShortlistLimit)
	switch {
	case errors.Is(err, models.ErrNoEligibleContractors):
		a.Log.WithField("job_id", job.ID).WithError(err).Warn("no contractor can take this job yet")
		return nil, nil
	case err != nil:
		a.Log.WithField("job_id", job.ID).WithError(err).Error("automatic shortlist failed")
		return nil, nil
	}
	return res, nil
}

// Close closes all resources
func (a *App) Close() error {
	if a.Publisher != nil {
		if err := a.Publisher.Close(); err != nil {
			a.Log.WithError(err).Warn("failed to close event publisher")
		}
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
