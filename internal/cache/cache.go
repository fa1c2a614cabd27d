// Package cache persists embeddings in a local SQLite database, keyed by
// model and content hash. It saves repeated API spend across runs of the
// corpus builder: every run still reprocesses the full input set, but
// unchanged chunks hit the cache instead of the embedding provider.
package cache

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

const schema = `
CREATE TABLE IF NOT EXISTS embeddings (
    model TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    dim INTEGER NOT NULL,
    vector BLOB NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (model, content_hash)
);
`

// Store is a SQLite-backed embedding cache. Safe for use from a single
// process; SQLite's single-writer model is enough for a batch tool.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the cache database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	// WAL keeps readers unblocked during writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns the cached vector for (model, hash), if present.
func (s *Store) Get(ctx context.Context, model, hash string) ([]float32, bool, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT vector FROM embeddings WHERE model = ? AND content_hash = ?",
		model, hash,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return deserializeVector(blob), true, nil
}

// Put stores a vector for (model, hash), replacing any previous entry.
func (s *Store) Put(ctx context.Context, model, hash string, vector []float32) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO embeddings (model, content_hash, dim, vector) VALUES (?, ?, ?, ?)",
		model, hash, len(vector), serializeVector(vector),
	)
	return err
}

// Len reports the number of cached embeddings across all models.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM embeddings").Scan(&n)
	return n, err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// serializeVector converts a float32 slice to a byte blob (little-endian)
func serializeVector(vector []float32) []byte {
	blob := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	return blob
}

// deserializeVector converts a byte blob back to a float32 slice
func deserializeVector(blob []byte) []float32 {
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		bits := binary.LittleEndian.Uint32(blob[i*4:])
		vector[i] = math.Float32frombits(bits)
	}
	return vector
}
