// Package docstore defines the document-store port the pipeline persists
// through. Adapters live in subpackages: memory (tests and local runs),
// postgres, and mongo.
package docstore

import (
	"context"
	"errors"

	"tripforge/internal/trip"
)

// ErrNotFound is returned for missing templates and instances.
var ErrNotFound = errors.New("docstore: not found")

// TemplateStore holds the shared, cache-keyed templates. Writes are
// last-write-wins; concurrent writers for the same key produce semantically
// equivalent content, so the race is accepted instead of arbitrated.
type TemplateStore interface {
	GetTemplate(ctx context.Context, key string) (trip.Template, error)
	PutTemplate(ctx context.Context, tpl trip.Template) error
}

// InstanceStore holds per-user trip instances.
type InstanceStore interface {
	PutInstance(ctx context.Context, inst trip.Instance) error
	GetInstance(ctx context.Context, userID, id string) (trip.Instance, error)
	ListInstances(ctx context.Context, userID string) ([]trip.Instance, error)
	DeleteInstance(ctx context.Context, userID, id string) error
	SetInstanceActive(ctx context.Context, userID, id string, active bool) error
}

// Store is the full port the orchestrator and HTTP layer consume.
type Store interface {
	TemplateStore
	InstanceStore
}
