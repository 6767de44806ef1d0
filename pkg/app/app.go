// Package app is the composition root. Boot loads config, connects the
// database, cache and storage disks, starts the background pool and builds
// the services that the HTTP server and the CLI share.
//
//	a, err := app.Boot(ctx)
//	if err != nil {
//	    return err
//	}
//	defer a.Close(context.Background())
package app

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storehub/app/repositories"
	"github.com/shashiranjanraj/storehub/app/services"
	"github.com/shashiranjanraj/storehub/config"
	"github.com/shashiranjanraj/storehub/internal/kernel"
	"github.com/shashiranjanraj/storehub/pkg/cache"
	"github.com/shashiranjanraj/storehub/pkg/database"
	"github.com/shashiranjanraj/storehub/pkg/logger"
	"github.com/shashiranjanraj/storehub/pkg/middleware"
	"github.com/shashiranjanraj/storehub/pkg/router"
	"github.com/shashiranjanraj/storehub/pkg/storage"
	"github.com/shashiranjanraj/storehub/pkg/workerpool"
)

// Application holds booted infrastructure and the services built on it.
type Application struct {
	DB       *gorm.DB
	Repos    *repositories.Repos
	Pool     *workerpool.Pool
	Services services.Set
}

// BootDB loads config and connects only the database. Migration and
// seeding commands need nothing else.
func BootDB() (*gorm.DB, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.Connect(); err != nil {
		return nil, err
	}
	return database.DB, nil
}

// Boot connects everything. Redis is optional: when it cannot be reached
// order tracking runs uncached.
func Boot(ctx context.Context) (*Application, error) {
	db, err := BootDB()
	if err != nil {
		return nil, err
	}

	opts := services.Options{
		TokenTTL:        config.TokenTTL(),
		DefaultCurrency: config.DefaultCurrency(),
		TrackingTTL:     time.Duration(config.TrackingCacheSeconds()) * time.Second,
	}
	if err := cache.Connect(ctx); err != nil {
		logger.Warn("cache disabled", "error", err.Error())
	} else {
		opts.Cache = cache.Default
	}

	storage.Connect(ctx)
	opts.Disk = storage.Default()

	pool := workerpool.New("media-purge", config.WorkerCount())
	opts.Pool = pool

	repos := repositories.New(db)
	return &Application{
		DB:       db,
		Repos:    repos,
		Pool:     pool,
		Services: services.NewSet(repos, opts),
	}, nil
}

// Router builds the full HTTP route table for a.
func (a *Application) Router(ctx context.Context) *router.Router {
	return kernel.NewRouter(ctx, kernel.Options{
		Services:        a.Services,
		DB:              a.DB,
		CORS:            middleware.CORSFromConfig(),
		RatePerMinute:   config.RateLimitPerMinute(),
		StrictPerMinute: config.StrictRateLimitPerMinute(),
	})
}

// Close drains the worker pool and releases connections.
func (a *Application) Close(ctx context.Context) error {
	var firstErr error
	if a.Pool != nil {
		if err := a.Pool.Shutdown(ctx); err != nil {
			firstErr = fmt.Errorf("worker pool: %w", err)
		}
	}
	if err := cache.Default.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("cache: %w", err)
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("database: %w", err)
			}
		}
	}
	return firstErr
}
