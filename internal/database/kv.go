package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// KVRepository is the durable key-value store. Values are opaque
// strings; callers own their serialization format.
type KVRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewKVRepository creates a new key-value repository
func NewKVRepository(db *sql.DB, log zerolog.Logger) *KVRepository {
	return &KVRepository{
		db:  db,
		log: log.With().Str("repository", "kv").Logger(),
	}
}

// Get retrieves a value by key. Returns nil if the key doesn't exist
// (not an error).
func (r *KVRepository) Get(key string) (*string, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return &value, nil
}

// Set stores a value, replacing any previous one for the key.
func (r *KVRepository) Set(key, value string) error {
	now := time.Now().Unix()

	_, err := r.db.Exec(`
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, now)
	if err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}
