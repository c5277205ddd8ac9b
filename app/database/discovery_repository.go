package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// DiscoveryRepositoryImpl handles database operations for the feed
// discovery cache
type DiscoveryRepositoryImpl struct {
	db *DB
}

var _ DiscoveryRepository = (*DiscoveryRepositoryImpl)(nil)

func NewDiscoveryRepository(db *DB) *DiscoveryRepositoryImpl {
	return &DiscoveryRepositoryImpl{db: db}
}

const discoveryColumns = `source_origin_hash, source_origin, source_url, candidates,
	       status, COALESCE(last_error, ''), checked_at, expires_at, created_at, updated_at`

// GetEntry retrieves a cache entry by origin hash, expired or not.
// TTL interpretation is the caller's concern.
func (r *DiscoveryRepositoryImpl) GetEntry(sourceOriginHash string) (*DiscoveryEntry, error) {
	row := r.db.QueryRow(`
		SELECT `+discoveryColumns+`
		FROM discovery_cache
		WHERE source_origin_hash = $1
	`, sourceOriginHash)

	entry, err := scanDiscoveryEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get discovery entry: %w", err)
	}

	return entry, nil
}

// UpsertEntry inserts or replaces the cache row for an origin.
// Concurrent probes of the same origin race here; last write wins,
// which is acceptable because both writers computed equivalent results.
func (r *DiscoveryRepositoryImpl) UpsertEntry(entry DiscoveryEntry) (*DiscoveryEntry, error) {
	candidates, err := json.Marshal(entry.Candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal candidates: %w", err)
	}

	row := r.db.QueryRow(`
		INSERT INTO discovery_cache (
			source_origin_hash, source_origin, source_url, candidates,
			status, last_error, checked_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)
		ON CONFLICT (source_origin_hash) DO UPDATE SET
			source_url = EXCLUDED.source_url,
			candidates = EXCLUDED.candidates,
			status = EXCLUDED.status,
			last_error = EXCLUDED.last_error,
			checked_at = EXCLUDED.checked_at,
			expires_at = EXCLUDED.expires_at,
			updated_at = NOW()
		RETURNING `+discoveryColumns+`
	`, entry.SourceOriginHash, entry.SourceOrigin, entry.SourceURL, candidates,
		entry.Status, entry.LastError, entry.CheckedAt, entry.ExpiresAt)

	stored, err := scanDiscoveryEntry(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert discovery entry: %w", err)
	}

	return stored, nil
}

// GetEntryCount returns the total number of cached discovery results
func (r *DiscoveryRepositoryImpl) GetEntryCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM discovery_cache").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get discovery entry count: %w", err)
	}
	return count, nil
}

func scanDiscoveryEntry(row rowScanner) (*DiscoveryEntry, error) {
	var entry DiscoveryEntry
	var candidates []byte

	err := row.Scan(
		&entry.SourceOriginHash, &entry.SourceOrigin, &entry.SourceURL, &candidates,
		&entry.Status, &entry.LastError, &entry.CheckedAt, &entry.ExpiresAt,
		&entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(candidates) > 0 {
		if err := json.Unmarshal(candidates, &entry.Candidates); err != nil {
			return nil, fmt.Errorf("failed to unmarshal candidates: %w", err)
		}
	}

	return &entry, nil
}
