// Package memory is the in-process docstore adapter used by tests and local
// runs without a database.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"tripforge/internal/docstore"
	"tripforge/internal/trip"
)

type Store struct {
	mu        sync.RWMutex
	templates map[string]trip.Template
	instances map[string]map[string]trip.Instance // userID -> id -> instance
}

func New() *Store {
	return &Store{
		templates: make(map[string]trip.Template),
		instances: make(map[string]map[string]trip.Instance),
	}
}

func (s *Store) GetTemplate(_ context.Context, key string) (trip.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tpl, ok := s.templates[key]
	if !ok {
		return trip.Template{}, docstore.ErrNotFound
	}
	return cloneTemplate(tpl), nil
}

func (s *Store) PutTemplate(_ context.Context, tpl trip.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[tpl.Key] = cloneTemplate(tpl)
	return nil
}

func (s *Store) PutInstance(_ context.Context, inst trip.Instance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byID, ok := s.instances[inst.UserID]
	if !ok {
		byID = make(map[string]trip.Instance)
		s.instances[inst.UserID] = byID
	}
	byID[inst.ID] = cloneInstance(inst)
	return nil
}

func (s *Store) GetInstance(_ context.Context, userID, id string) (trip.Instance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.instances[userID][id]
	if !ok {
		return trip.Instance{}, docstore.ErrNotFound
	}
	return cloneInstance(inst), nil
}

func (s *Store) ListInstances(_ context.Context, userID string) ([]trip.Instance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]trip.Instance, 0, len(s.instances[userID]))
	for _, inst := range s.instances[userID] {
		out = append(out, cloneInstance(inst))
	}
	return out, nil
}

func (s *Store) DeleteInstance(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.instances[userID][id]; !ok {
		return docstore.ErrNotFound
	}
	delete(s.instances[userID], id)
	return nil
}

func (s *Store) SetInstanceActive(ctx context.Context, userID, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.instances[userID][id]
	if !ok {
		return docstore.ErrNotFound
	}
	inst.Active = active
	s.instances[userID][id] = inst
	return nil
}

// Itineraries carry maps, so copies go through JSON to keep callers from
// mutating stored state.
func cloneTemplate(tpl trip.Template) trip.Template {
	b, _ := json.Marshal(tpl)
	var out trip.Template
	_ = json.Unmarshal(b, &out)
	return out
}

func cloneInstance(inst trip.Instance) trip.Instance {
	b, _ := json.Marshal(inst)
	var out trip.Instance
	_ = json.Unmarshal(b, &out)
	return out
}
