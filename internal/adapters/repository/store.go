// Package repository stores the named configurations a tracker can open.
//
// Documents are addressed by category, group and name. A configuration
// references one behavior parameter collection and optionally one stimulus
// rule document; Resolve follows both references.
package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/okian/venkman/internal/domain/frame"
	"github.com/okian/venkman/internal/domain/rules"
	"github.com/okian/venkman/pkg/logger"
)

// Configuration binds behavior parameters and a stimulus rule under one name.
type Configuration struct {
	ID       ID  `yaml:"-"`
	Behavior ID  `yaml:"behavior"`
	Stimulus *ID `yaml:"stimulus,omitempty"`
}

// Resolved is a configuration with its references loaded.
type Resolved struct {
	Configuration Configuration
	Parameters    frame.Parameters
	// Rule is nil when the configuration has no stimulus.
	Rule *rules.Document
}

// Store provides read/write access to configuration documents.
type Store interface {
	// ConfigurationNames returns the sorted full names of configurations whose
	// stimulus rule supports version.
	ConfigurationNames(ctx context.Context, version string) ([]string, error)

	// Resolve loads the named configuration and everything it references.
	// Returns ErrNotFound if any document is missing.
	Resolve(ctx context.Context, name string) (Resolved, error)

	Configuration(ctx context.Context, id ID) (Configuration, error)
	Behavior(ctx context.Context, id ID) (frame.Parameters, error)
	Stimulus(ctx context.Context, id ID) (*rules.Document, error)

	// Save stores v under id. v must match the id's category: a
	// Configuration, frame.Parameters or *rules.Document.
	Save(ctx context.Context, id ID, v interface{}) error
}

// source is what the shared lookups need from a concrete store.
type source interface {
	ids(ctx context.Context, category Category) ([]ID, error)
	Configuration(ctx context.Context, id ID) (Configuration, error)
	Behavior(ctx context.Context, id ID) (frame.Parameters, error)
	Stimulus(ctx context.Context, id ID) (*rules.Document, error)
}

func configurationNames(ctx context.Context, s source, log logger.Logger, version string) ([]string, error) {
	ids, err := s.ids(ctx, CategoryConfiguration)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cfg, err := s.Configuration(ctx, id)
		if err != nil {
			log.Warn(ctx, "skipping unreadable configuration", logger.String("id", id.String()), logger.Error(err))
			continue
		}
		if cfg.Stimulus == nil {
			continue
		}
		doc, err := s.Stimulus(ctx, *cfg.Stimulus)
		if err != nil {
			log.Warn(ctx, "skipping configuration with unreadable stimulus",
				logger.String("id", id.String()), logger.Error(err))
			continue
		}
		if doc.SupportsVersion(version) {
			names = append(names, id.FullName())
		}
	}
	sort.Strings(names)
	return names, nil
}

func resolve(ctx context.Context, s source, name string) (Resolved, error) {
	id, err := ParseID(CategoryConfiguration, name)
	if err != nil {
		return Resolved{}, err
	}
	cfg, err := s.Configuration(ctx, id)
	if err != nil {
		return Resolved{}, err
	}
	params, err := s.Behavior(ctx, cfg.Behavior)
	if err != nil {
		return Resolved{}, fmt.Errorf("configuration %s: %w", id.FullName(), err)
	}
	r := Resolved{Configuration: cfg, Parameters: params}
	if cfg.Stimulus != nil {
		r.Rule, err = s.Stimulus(ctx, *cfg.Stimulus)
		if err != nil {
			return Resolved{}, fmt.Errorf("configuration %s: %w", id.FullName(), err)
		}
	}
	return r, nil
}

// checkValue verifies v has the type stored under category.
func checkValue(id ID, v interface{}) error {
	ok := false
	switch v.(type) {
	case Configuration, *Configuration:
		ok = id.Category == CategoryConfiguration
	case frame.Parameters, *frame.Parameters:
		ok = id.Category == CategoryBehavior
	case *rules.Document:
		ok = id.Category == CategoryStimulus && v.(*rules.Document) != nil
	}
	if !ok {
		return fmt.Errorf("%w: %T cannot be stored as %s", ErrInvalidDocument, v, id.Category)
	}
	return nil
}

// IsNotFound reports whether err means a document or name does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidName)
}
