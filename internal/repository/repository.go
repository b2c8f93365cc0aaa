package repository

import (
	"context"
	"errors"
	"fmt"

	"library-lending-backend/internal/domain"
)

// ErrSnapshotConflict is returned by Save when the stored document has moved on
// since the caller loaded it.
var ErrSnapshotConflict = errors.New("snapshot was modified concurrently")

// SnapshotRepository persists the whole circulation document as one unit.
type SnapshotRepository interface {
	// Load returns the stored document, or an empty one with Version 0 when
	// nothing has been saved yet.
	Load(ctx context.Context) (*domain.LibraryState, error)
	// Save replaces the stored document if its version still equals
	// state.Version, then increments state.Version.
	Save(ctx context.Context, state *domain.LibraryState) error
}

// Seed copies the document held by src into dst when dst has never been
// written. It reports whether anything was copied.
func Seed(ctx context.Context, dst, src SnapshotRepository) (bool, error) {
	current, err := dst.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load target snapshot: %w", err)
	}
	if current.Version != 0 {
		return false, nil
	}

	seed, err := src.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load seed snapshot: %w", err)
	}
	seed.Version = 0
	if err := dst.Save(ctx, seed); err != nil {
		return false, fmt.Errorf("save seeded snapshot: %w", err)
	}
	return true, nil
}
