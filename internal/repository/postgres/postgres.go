package postgres

import (
	"context"
	"database/sql"

	"library-lending-backend/internal/logger"
	"library-lending-backend/internal/repository"

	_ "github.com/lib/pq"
)

const schema = `CREATE TABLE IF NOT EXISTS library_snapshots (
	name       TEXT PRIMARY KEY,
	version    BIGINT NOT NULL,
	data       JSONB NOT NULL,
	updated_on TIMESTAMPTZ NOT NULL
)`

type Store struct {
	db *sql.DB
	repository.SnapshotRepository
}

// NewStore binds the store to the snapshot row called name.
func NewStore(db *sql.DB, name string) *Store {
	return &Store{
		db:                 db,
		SnapshotRepository: NewSnapshotRepository(db, name),
	}
}

// EnsureSchema creates the snapshot table if it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	logger.DatabaseCall("CREATE TABLE", "library_snapshots")
	_, err := s.db.ExecContext(ctx, schema)
	logger.DatabaseResult("CREATE TABLE", 0, err)
	return err
}
