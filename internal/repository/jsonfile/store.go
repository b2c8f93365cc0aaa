// Package jsonfile keeps the circulation document in a single JSON file.
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"library-lending-backend/internal/domain"
	"library-lending-backend/internal/logger"
	"library-lending-backend/internal/repository"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Load(ctx context.Context) (*domain.LibraryState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Save rewrites the file through a temporary sibling and a rename, so readers
// never see a partial document.
func (s *Store) Save(ctx context.Context, state *domain.LibraryState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read()
	if err != nil {
		return err
	}
	if current.Version != state.Version {
		logger.Warn("Snapshot version mismatch", "path", s.path, "stored", current.Version, "given", state.Version)
		return repository.ErrSnapshotConflict
	}

	doc := *state
	doc.Version = state.Version + 1
	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}

	state.Version = doc.Version
	logger.Debug("Snapshot saved", "path", s.path, "version", state.Version)
	return nil
}

func (s *Store) read() (*domain.LibraryState, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.NewLibraryState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	state := &domain.LibraryState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", s.path, err)
	}
	state.Normalize()
	return state, nil
}
