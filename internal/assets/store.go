package assets

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"sort"
	"sync"

	"github.com/3-lines-studio/prerender/internal/adapters/fs"
	"github.com/3-lines-studio/prerender/internal/core"
)

// MemoryStore is the asset set of one build. It remembers which assets were
// written after loading so only those are flushed back to disk.
type MemoryStore struct {
	mu      sync.RWMutex
	assets  map[string]core.Asset
	written []string
	dirty   map[string]bool
}

var _ core.AssetStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		assets: make(map[string]core.Asset),
		dirty:  make(map[string]bool),
	}
}

func (s *MemoryStore) Asset(name string) (core.Asset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assets[name]
	return a, ok
}

func (s *MemoryStore) SetAsset(name string, asset core.Asset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[name] = asset
	if !s.dirty[name] {
		s.dirty[name] = true
		s.written = append(s.written, name)
	}
}

// Names returns every asset name, sorted.
func (s *MemoryStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.assets))
	for name := range s.assets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Written returns the names set since the store was created or loaded, in
// first-write order.
func (s *MemoryStore) Written() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.written...)
}

func (s *MemoryStore) load(name string, asset core.Asset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[name] = asset
}

// LoadDir reads every file below dir into a new store. Asset names are
// relative to dir and use forward slashes.
func LoadDir(fsys fs.FileSystem, dir string) (*MemoryStore, error) {
	store := NewMemoryStore()

	err := fsys.WalkDir(dir, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		data, err := fsys.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read asset %s: %w", rel, err)
		}
		store.load(filepath.ToSlash(rel), core.RawSource(data))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load build output %s: %w", dir, err)
	}

	return store, nil
}

var ErrOutsideDir = errors.New("asset name escapes the output directory")

// Flush writes the assets produced since loading below dir and returns the
// file paths it wrote. Nothing is written when any asset name would land
// outside dir.
func Flush(fsys fs.FileSystem, dir string, store *MemoryStore) ([]string, error) {
	names := store.Written()
	for _, name := range names {
		if !filepath.IsLocal(filepath.FromSlash(name)) {
			return nil, fmt.Errorf("failed to write %s: %w", name, ErrOutsideDir)
		}
	}

	files := make([]string, 0, len(names))
	for _, name := range names {
		asset, _ := store.Asset(name)
		target := filepath.Join(dir, filepath.FromSlash(name))

		if err := fsys.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return files, fmt.Errorf("failed to create directory for %s: %w", name, err)
		}
		if err := fsys.WriteFile(target, []byte(asset.Source()), 0644); err != nil {
			return files, fmt.Errorf("failed to write %s: %w", name, err)
		}
		files = append(files, target)
	}

	return files, nil
}
