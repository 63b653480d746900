// Package postgres is the docstore adapter backed by Postgres through the
// pgx stdlib driver. Templates get an LRU read cache: they are immutable
// once written, so cached reads never go stale.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"tripforge/internal/docstore"
	"tripforge/internal/trip"
)

const templateCacheSize = 256

type Store struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error

	templateCache *lru.Cache[string, trip.Template]
}

func New(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, trip.Template](templateCacheSize)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, templateCache: cache}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) ensureSchema(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS trip_templates (
    cache_key  TEXT PRIMARY KEY,
    itinerary  JSONB NOT NULL,
    image_url  TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS trip_instances (
    id         TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL,
    doc        JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS trip_instances_user_idx ON trip_instances (user_id);
`)
	})
	return s.schemaErr
}

func (s *Store) GetTemplate(ctx context.Context, key string) (trip.Template, error) {
	if tpl, ok := s.templateCache.Get(key); ok {
		return tpl, nil
	}
	if err := s.ensureSchema(ctx); err != nil {
		return trip.Template{}, err
	}
	var (
		tpl trip.Template
		doc []byte
	)
	row := s.db.QueryRowContext(ctx,
		`SELECT cache_key, itinerary, image_url, created_at FROM trip_templates WHERE cache_key = $1`, key)
	if err := row.Scan(&tpl.Key, &doc, &tpl.ImageURL, &tpl.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return trip.Template{}, docstore.ErrNotFound
		}
		return trip.Template{}, fmt.Errorf("get template %q: %w", key, err)
	}
	if err := json.Unmarshal(doc, &tpl.Itinerary); err != nil {
		return trip.Template{}, fmt.Errorf("decode template %q: %w", key, err)
	}
	s.templateCache.Add(key, tpl)
	return tpl, nil
}

func (s *Store) PutTemplate(ctx context.Context, tpl trip.Template) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	doc, err := json.Marshal(tpl.Itinerary)
	if err != nil {
		return fmt.Errorf("encode template %q: %w", tpl.Key, err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO trip_templates (cache_key, itinerary, image_url, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (cache_key) DO UPDATE
SET itinerary = EXCLUDED.itinerary, image_url = EXCLUDED.image_url`,
		tpl.Key, doc, tpl.ImageURL, tpl.CreatedAt)
	if err != nil {
		return fmt.Errorf("put template %q: %w", tpl.Key, err)
	}
	s.templateCache.Add(tpl.Key, tpl)
	return nil
}

func (s *Store) PutInstance(ctx context.Context, inst trip.Instance) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	doc, err := json.Marshal(inst)
	if err != nil {
		return fmt.Errorf("encode instance %q: %w", inst.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO trip_instances (id, user_id, doc, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`,
		inst.ID, inst.UserID, doc, inst.CreatedAt)
	if err != nil {
		return fmt.Errorf("put instance %q: %w", inst.ID, err)
	}
	return nil
}

func (s *Store) GetInstance(ctx context.Context, userID, id string) (trip.Instance, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return trip.Instance{}, err
	}
	var doc []byte
	row := s.db.QueryRowContext(ctx,
		`SELECT doc FROM trip_instances WHERE id = $1 AND user_id = $2`, id, userID)
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return trip.Instance{}, docstore.ErrNotFound
		}
		return trip.Instance{}, fmt.Errorf("get instance %q: %w", id, err)
	}
	var inst trip.Instance
	if err := json.Unmarshal(doc, &inst); err != nil {
		return trip.Instance{}, fmt.Errorf("decode instance %q: %w", id, err)
	}
	return inst, nil
}

func (s *Store) ListInstances(ctx context.Context, userID string) ([]trip.Instance, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc FROM trip_instances WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list instances for %q: %w", userID, err)
	}
	defer rows.Close()

	out := make([]trip.Instance, 0, 8)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var inst trip.Instance
		if err := json.Unmarshal(doc, &inst); err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, rows.Err()
}

func (s *Store) DeleteInstance(ctx context.Context, userID, id string) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM trip_instances WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete instance %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (s *Store) SetInstanceActive(ctx context.Context, userID, id string, active bool) error {
	inst, err := s.GetInstance(ctx, userID, id)
	if err != nil {
		return err
	}
	inst.Active = active
	return s.PutInstance(ctx, inst)
}
