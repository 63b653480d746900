// Package app wires configuration, stores, the generation client, and the
// HTTP surface into one runnable unit.
package app

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"tripforge/internal/config"
	"tripforge/internal/genclient"
	"tripforge/internal/httpapi"
	"tripforge/internal/imageresolver"
	"tripforge/internal/imagestore"
	"tripforge/internal/llm"
	"tripforge/internal/pipeline"
	"tripforge/internal/runhub"
	"tripforge/internal/server"
)

type App struct {
	server *server.Server
	close  func(context.Context) error
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := log.New(os.Stdout, "tripforge ", log.LstdFlags|log.Lmsgprefix)

	store, closeStore, err := newDocstore(cfg.Docstore, logger)
	if err != nil {
		return nil, err
	}

	textClient, err := newTextClient(cfg.LLM)
	if err != nil {
		return nil, err
	}
	mws := []llm.Middleware{llm.WithLogging(logger)}
	if cfg.LLM.RPS > 0 {
		mws = append(mws, llm.RateLimit(cfg.LLM.RPS, cfg.LLM.Burst))
	}
	wrapped := llm.Wrap(textClient, mws...)

	policy := genclient.LinearBackoff(cfg.Gen.BaseDelay)
	if cfg.Gen.MaxAttempts > 0 {
		policy.MaxAttempts = cfg.Gen.MaxAttempts
	}
	gen := genclient.New(wrapped, policy)
	gen.AttemptTimeout = cfg.Gen.AttemptTimeout

	images := newImageResolver(cfg.Image, logger)

	hub := runhub.New(pipeline.Ports{
		Store:  store,
		Gen:    gen,
		Images: images,
		NewID:  uuid.NewString,
	}, logger)

	tripHandler := httpapi.NewTripHandler(store, hub, logger)
	watchHandler := httpapi.NewWatchHandler(hub, logger)

	mux := server.NewMux(tripHandler, watchHandler)
	srv := server.New(cfg.Port, mux)

	return &App{
		server: srv,
		close: func(ctx context.Context) error {
			_ = wrapped.Close()
			if closeStore != nil {
				return closeStore(ctx)
			}
			return nil
		},
	}, nil
}

func newImageResolver(cfg config.ImageConfig, logger *log.Logger) *imageresolver.Resolver {
	var mirror *imagestore.Store
	if cfg.S3.Enabled {
		s, err := imagestore.New(imagestore.Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			UseSSL:    cfg.S3.UseSSL,
		})
		if err != nil {
			logger.Printf("image mirror disabled: %v", err)
		} else {
			mirror = s
		}
	}
	return imageresolver.New(imageresolver.Config{
		SearchEndpoint: cfg.SearchEndpoint,
		APIKey:         cfg.SearchAPIKey,
	}, mirror)
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	if err := a.server.Shutdown(ctx); err != nil {
		return err
	}
	if a.close != nil {
		return a.close(ctx)
	}
	return nil
}
