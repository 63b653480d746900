package app

import (
	"context"
	"fmt"
	"log"

	"tripforge/internal/config"
	"tripforge/internal/docstore"
	"tripforge/internal/docstore/memory"
	mongostore "tripforge/internal/docstore/mongo"
	"tripforge/internal/docstore/postgres"
)

// newDocstore picks the backing store from config: mongo when a URI is set,
// otherwise postgres when a DSN is set, otherwise in-memory for local runs.
func newDocstore(cfg config.DocstoreConfig, logger *log.Logger) (docstore.Store, func(context.Context) error, error) {
	if cfg.MongoURI != "" {
		store, err := mongostore.New(context.Background(), cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize mongo docstore: %w", err)
		}
		logger.Printf("docstore: mongo db=%s", cfg.MongoDB)
		return store, store.Close, nil
	}
	if cfg.PostgresDSN != "" {
		store, err := postgres.New(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize postgres docstore: %w", err)
		}
		logger.Printf("docstore: postgres")
		return store, func(context.Context) error { return store.Close() }, nil
	}
	logger.Printf("docstore: in-memory (no DOCSTORE_MONGO_URI or DOCSTORE_PG_DSN set)")
	return memory.New(), nil, nil
}
