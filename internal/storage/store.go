package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Storer provides read access to a set of loaded definitions.
type Storer[T ValidatingSpec] interface {
	Get(Identifier) T
	GetAll() map[Identifier]T
}

// FileStore loads every json asset below a directory once and serves them
// read-only afterwards.
type FileStore[T ValidatingSpec] struct {
	path    string
	records map[Identifier]T

	mu sync.RWMutex
}

func NewFileStore[T ValidatingSpec](path string) (*FileStore[T], error) {
	s := &FileStore[T]{
		path:    path,
		records: map[Identifier]T{},
	}

	err := s.load()
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *FileStore[T]) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = map[Identifier]T{}

	err := filepath.Walk(s.path, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		asset, err := s.loadAsset(path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", filepath.Base(path), err)
		}

		err = asset.Validate()
		if err != nil {
			return fmt.Errorf("validating %s: %w", filepath.Base(path), err)
		}

		if _, ok := s.records[asset.Id()]; ok {
			return fmt.Errorf("duplicate key detected: %s", asset.Id())
		}

		s.records[asset.Id()] = asset.Spec
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("assets loaded", "path", s.path, "count", len(s.records))
	return nil
}

// LoadAll returns every definition found when the store was opened.
func (s *FileStore[T]) LoadAll() map[Identifier]T {
	return s.GetAll()
}

func (s *FileStore[T]) Get(id Identifier) T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.records[id]
}

func (s *FileStore[T]) GetAll() map[Identifier]T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vals := make(map[Identifier]T, len(s.records))
	for id, v := range s.records {
		vals[id] = v
	}

	return vals
}

func (s *FileStore[T]) loadAsset(path string) (*Asset[T], error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	// Ignoring close error - file is read-only, error is not actionable
	defer func() { _ = file.Close() }()

	jsonData, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	asset := &Asset[T]{}
	err = json.Unmarshal(jsonData, asset)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling asset: %w", err)
	}

	return asset, nil
}

// MemoryStore is a Storer over a fixed map, used when definitions are built
// in code rather than read from disk.
type MemoryStore[T ValidatingSpec] struct {
	records map[Identifier]T
}

func NewMemoryStore[T ValidatingSpec](records map[Identifier]T) *MemoryStore[T] {
	if records == nil {
		records = map[Identifier]T{}
	}
	return &MemoryStore[T]{records: records}
}

func (s *MemoryStore[T]) Get(id Identifier) T {
	return s.records[id]
}

func (s *MemoryStore[T]) GetAll() map[Identifier]T {
	vals := make(map[Identifier]T, len(s.records))
	for id, v := range s.records {
		vals[id] = v
	}
	return vals
}
