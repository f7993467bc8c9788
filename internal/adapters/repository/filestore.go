package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/okian/venkman/internal/domain/frame"
	"github.com/okian/venkman/internal/domain/rules"
	"github.com/okian/venkman/pkg/logger"
)

const defaultExtension = ".yaml"

// FileStore keeps one YAML document per file under
// <root>/<category>/<group>/<name>.yaml.
type FileStore struct {
	root   string
	ext    string
	logger logger.Logger

	// mu serializes writers against readers of the same tree.
	mu sync.RWMutex
}

// NewFileStore creates a store rooted at root. The tree is created lazily
// by Save.
func NewFileStore(root string, opts ...Option) *FileStore {
	s := &FileStore{
		root:   root,
		ext:    defaultExtension,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the store directory.
func (s *FileStore) Root() string { return s.root }

func (s *FileStore) path(id ID) string {
	return filepath.Join(s.root, string(id.Category), id.Group, id.Name+s.ext)
}

// ConfigurationNames implements Store.
func (s *FileStore) ConfigurationNames(ctx context.Context, version string) ([]string, error) {
	return configurationNames(ctx, s, s.logger, version)
}

// Resolve implements Store.
func (s *FileStore) Resolve(ctx context.Context, name string) (Resolved, error) {
	return resolve(ctx, s, name)
}

func (s *FileStore) ids(ctx context.Context, category Category) ([]ID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups, err := os.ReadDir(filepath.Join(s.root, string(category)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", category, err)
	}

	var ids []ID
	for _, g := range groups {
		if !g.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(s.root, string(category), g.Name()))
		if err != nil {
			return nil, fmt.Errorf("list %s/%s: %w", category, g.Name(), err)
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), s.ext) {
				continue
			}
			ids = append(ids, ID{Category: category, Group: g.Name(), Name: strings.TrimSuffix(f.Name(), s.ext)})
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].FullName() < ids[j].FullName() })
	return ids, nil
}

func (s *FileStore) load(id ID, out interface{}) error {
	s.mu.RLock()
	data, err := os.ReadFile(s.path(id))
	s.mu.RUnlock()
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", id, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidDocument, id, err)
	}
	return nil
}

// Configuration implements Store.
func (s *FileStore) Configuration(_ context.Context, id ID) (Configuration, error) {
	id.Category = CategoryConfiguration
	var cfg Configuration
	if err := s.load(id, &cfg); err != nil {
		return Configuration{}, err
	}
	return bindConfiguration(id, cfg)
}

// Behavior implements Store. Missing keys keep their defaults.
func (s *FileStore) Behavior(_ context.Context, id ID) (frame.Parameters, error) {
	id.Category = CategoryBehavior
	p := frame.DefaultParameters()
	if err := s.load(id, &p); err != nil {
		return frame.Parameters{}, err
	}
	return p, nil
}

// Stimulus implements Store.
func (s *FileStore) Stimulus(_ context.Context, id ID) (*rules.Document, error) {
	id.Category = CategoryStimulus
	doc := new(rules.Document)
	if err := s.load(id, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Save implements Store. The file is replaced atomically.
func (s *FileStore) Save(ctx context.Context, id ID, v interface{}) error {
	if err := checkValue(id, v); err != nil {
		return err
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidDocument, id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.path(id)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("save %s: %w", id, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), ".save-*")
	if err != nil {
		return fmt.Errorf("save %s: %w", id, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", id, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("save %s: %w", id, err)
	}
	s.logger.Debug(ctx, "saved document", logger.String("id", id.String()))
	return nil
}

// bindConfiguration sets the categories the YAML form leaves implicit.
func bindConfiguration(id ID, cfg Configuration) (Configuration, error) {
	cfg.ID = id
	if cfg.Behavior.Name == "" {
		return Configuration{}, fmt.Errorf("%w: %s has no behavior", ErrInvalidDocument, id)
	}
	cfg.Behavior.Category = CategoryBehavior
	if cfg.Stimulus != nil {
		stim := *cfg.Stimulus
		stim.Category = CategoryStimulus
		cfg.Stimulus = &stim
	}
	return cfg, nil
}
