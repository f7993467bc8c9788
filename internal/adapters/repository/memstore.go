package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/okian/venkman/internal/domain/frame"
	"github.com/okian/venkman/internal/domain/rules"
	"github.com/okian/venkman/pkg/logger"
)

// MemoryStore is a Store held in maps, for tests and simulators.
type MemoryStore struct {
	mu             sync.RWMutex
	configurations map[ID]Configuration
	behaviors      map[ID]frame.Parameters
	stimuli        map[ID]*rules.Document
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		configurations: make(map[ID]Configuration),
		behaviors:      make(map[ID]frame.Parameters),
		stimuli:        make(map[ID]*rules.Document),
	}
}

// ConfigurationNames implements Store.
func (s *MemoryStore) ConfigurationNames(ctx context.Context, version string) ([]string, error) {
	return configurationNames(ctx, s, logger.Discard(), version)
}

// Resolve implements Store.
func (s *MemoryStore) Resolve(ctx context.Context, name string) (Resolved, error) {
	return resolve(ctx, s, name)
}

func (s *MemoryStore) ids(_ context.Context, category Category) ([]ID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []ID
	switch category {
	case CategoryConfiguration:
		for id := range s.configurations {
			ids = append(ids, id)
		}
	case CategoryBehavior:
		for id := range s.behaviors {
			ids = append(ids, id)
		}
	case CategoryStimulus:
		for id := range s.stimuli {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].FullName() < ids[j].FullName() })
	return ids, nil
}

// Configuration implements Store.
func (s *MemoryStore) Configuration(_ context.Context, id ID) (Configuration, error) {
	id.Category = CategoryConfiguration
	s.mu.RLock()
	cfg, ok := s.configurations[id]
	s.mu.RUnlock()
	if !ok {
		return Configuration{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return cfg, nil
}

// Behavior implements Store.
func (s *MemoryStore) Behavior(_ context.Context, id ID) (frame.Parameters, error) {
	id.Category = CategoryBehavior
	s.mu.RLock()
	p, ok := s.behaviors[id]
	s.mu.RUnlock()
	if !ok {
		return frame.Parameters{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, nil
}

// Stimulus implements Store.
func (s *MemoryStore) Stimulus(_ context.Context, id ID) (*rules.Document, error) {
	id.Category = CategoryStimulus
	s.mu.RLock()
	doc, ok := s.stimuli[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return doc, nil
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, id ID, v interface{}) error {
	if err := checkValue(id, v); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch t := v.(type) {
	case Configuration:
		return s.saveConfiguration(id, t)
	case *Configuration:
		return s.saveConfiguration(id, *t)
	case frame.Parameters:
		s.behaviors[id] = t
	case *frame.Parameters:
		s.behaviors[id] = *t
	case *rules.Document:
		s.stimuli[id] = t
	}
	return nil
}

func (s *MemoryStore) saveConfiguration(id ID, cfg Configuration) error {
	bound, err := bindConfiguration(id, cfg)
	if err != nil {
		return err
	}
	s.configurations[id] = bound
	return nil
}
