package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/cmr/meta/internal/metagrammar"
)

// Service compiles registry-stored grammar sources into resolved
// metagrammar.Table values, caching the result per (name, version) so a
// repeatedly-parsed grammar is only compiled once.
type Service struct {
	repo Repository

	mu    sync.RWMutex
	cache map[cacheKey]*metagrammar.Table
}

type cacheKey struct {
	name    string
	version string
}

// NewService wraps repo with a compiled-table cache.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, cache: make(map[cacheKey]*metagrammar.Table)}
}

// Compile loads the active grammar record named name, compiling and
// resolving its textual source with the bootstrap grammar on first use.
// Subsequent calls for the same (name, version) return the cached Table.
func (s *Service) Compile(ctx context.Context, name string) (*metagrammar.Table, error) {
	rec, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load grammar %q: %w", name, err)
	}

	key := cacheKey{name: rec.Name, version: rec.Version}

	s.mu.RLock()
	table, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return table, nil
	}

	table, err = metagrammar.CompileText(rec.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to compile grammar %q: %w", name, err)
	}

	s.mu.Lock()
	s.cache[key] = table
	s.mu.Unlock()

	return table, nil
}

// Invalidate drops the cached compilation of (name, version), so the next
// Compile call that loads that version recompiles its source.
func (s *Service) Invalidate(name, version string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, cacheKey{name: name, version: version})
}

// List returns the grammar records known to the repository.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]*GrammarRecord, error) {
	return s.repo.List(ctx, activeOnly)
}

// GetByName returns the stored record for a grammar without compiling it.
func (s *Service) GetByName(ctx context.Context, name string) (*GrammarRecord, error) {
	return s.repo.GetByName(ctx, name)
}

// Save persists a grammar source under name, compiling it first so a
// malformed grammar is rejected before it ever reaches storage.
func (s *Service) Save(ctx context.Context, name, source, version string) (*GrammarRecord, error) {
	if _, err := metagrammar.CompileText(source); err != nil {
		return nil, fmt.Errorf("refusing to save invalid grammar %q: %w", name, err)
	}

	rec := &GrammarRecord{Name: name, Source: source, Version: version, Active: true}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save grammar %q: %w", name, err)
	}
	return rec, nil
}
