package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"library-lending-backend/internal/domain"
	"library-lending-backend/internal/logger"
	"library-lending-backend/internal/repository"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type snapshotRepository struct {
	db   *sql.DB
	name string
}

func NewSnapshotRepository(db *sql.DB, name string) repository.SnapshotRepository {
	return &snapshotRepository{db: db, name: name}
}

func (r *snapshotRepository) Load(ctx context.Context) (*domain.LibraryState, error) {
	logger.EnterMethod("snapshotRepository.Load", "name", r.name)

	query := `SELECT version, data FROM library_snapshots WHERE name = $1`
	var version int64
	var data []byte
	err := r.db.QueryRowContext(ctx, query, r.name).Scan(&version, &data)
	if errors.Is(err, sql.ErrNoRows) {
		logger.ExitMethod("snapshotRepository.Load", "name", r.name, "version", 0)
		return domain.NewLibraryState(), nil
	}
	if err != nil {
		logger.ExitMethodWithError("snapshotRepository.Load", err, "name", r.name)
		return nil, fmt.Errorf("query snapshot %q: %w", r.name, err)
	}

	state := &domain.LibraryState{}
	if err := json.Unmarshal(data, state); err != nil {
		logger.ExitMethodWithError("snapshotRepository.Load", err, "name", r.name)
		return nil, fmt.Errorf("decode snapshot %q: %w", r.name, err)
	}
	state.Normalize()
	state.Version = version

	logger.ExitMethod("snapshotRepository.Load", "name", r.name, "version", version)
	return state, nil
}

func (r *snapshotRepository) Save(ctx context.Context, state *domain.LibraryState) error {
	logger.EnterMethod("snapshotRepository.Save", "name", r.name, "version", state.Version)

	next := state.Version + 1
	doc := *state
	doc.Version = next
	data, err := json.Marshal(&doc)
	if err != nil {
		logger.ExitMethodWithError("snapshotRepository.Save", err, "name", r.name)
		return fmt.Errorf("encode snapshot %q: %w", r.name, err)
	}

	now := time.Now().UTC()
	var res sql.Result
	if state.Version == 0 {
		query := `INSERT INTO library_snapshots (name, version, data, updated_on)
		          VALUES ($1, $2, $3, $4) ON CONFLICT (name) DO NOTHING`
		res, err = r.db.ExecContext(ctx, query, r.name, next, data, now)
	} else {
		query := `UPDATE library_snapshots SET version = $1, data = $2, updated_on = $3
		          WHERE name = $4 AND version = $5`
		res, err = r.db.ExecContext(ctx, query, next, data, now, r.name, state.Version)
	}
	if err != nil {
		logger.ExitMethodWithError("snapshotRepository.Save", err, "name", r.name)
		return fmt.Errorf("write snapshot %q: %w", r.name, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		logger.ExitMethodWithError("snapshotRepository.Save", err, "name", r.name)
		return fmt.Errorf("write snapshot %q: %w", r.name, err)
	}
	if rows == 0 {
		logger.ExitMethodWithError("snapshotRepository.Save", repository.ErrSnapshotConflict, "name", r.name, "version", state.Version)
		return repository.ErrSnapshotConflict
	}

	state.Version = next
	logger.ExitMethod("snapshotRepository.Save", "name", r.name, "version", next)
	return nil
}
