package market

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// CacheRepository stores the latest snapshot batch in SQLite, one
// msgpack-encoded row per asset. The cache is ephemeral: every refresh
// replaces the whole batch, preserving market-cap order via rank.
type CacheRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewCacheRepository creates a new snapshot cache repository
func NewCacheRepository(db *sql.DB, log zerolog.Logger) *CacheRepository {
	return &CacheRepository{
		db:  db,
		log: log.With().Str("repository", "snapshot_cache").Logger(),
	}
}

// SaveBatch replaces the cached batch with the given snapshots.
func (r *CacheRepository) SaveBatch(snapshots []Snapshot) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin cache transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM snapshot_cache"); err != nil {
		return fmt.Errorf("failed to clear snapshot cache: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO snapshot_cache (symbol, rank, data, fetched_at)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare cache insert: %w", err)
	}
	defer stmt.Close()

	for i, snap := range snapshots {
		data, err := msgpack.Marshal(snap)
		if err != nil {
			return fmt.Errorf("failed to encode snapshot %s: %w", snap.Symbol, err)
		}
		if _, err := stmt.Exec(snap.Symbol, i, data, snap.FetchedAt.Unix()); err != nil {
			return fmt.Errorf("failed to insert snapshot %s: %w", snap.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot cache: %w", err)
	}
	return nil
}

// Latest returns the cached batch in market-cap order. An empty cache
// returns an empty slice, not an error.
func (r *CacheRepository) Latest() ([]Snapshot, error) {
	rows, err := r.db.Query("SELECT data FROM snapshot_cache ORDER BY rank")
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot cache: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}

		var snap Snapshot
		if err := msgpack.Unmarshal(data, &snap); err != nil {
			// A single corrupt row should not hide the rest of the batch.
			r.log.Warn().Err(err).Msg("Skipping undecodable cached snapshot")
			continue
		}
		snapshots = append(snapshots, snap)
	}

	return snapshots, rows.Err()
}
