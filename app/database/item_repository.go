package database

import (
	"database/sql"
	"fmt"

	"github.com/readstash/readstash/app/content"
)

// ItemRepositoryImpl handles database operations for canonical items
type ItemRepositoryImpl struct {
	db *DB
}

var _ ItemRepository = (*ItemRepositoryImpl)(nil)

func NewItemRepository(db *DB) *ItemRepositoryImpl {
	return &ItemRepositoryImpl{db: db}
}

const itemColumns = `id, provider, provider_id, content_type, title,
	       COALESCE(description, ''), canonical_url, COALESCE(image_url, ''),
	       creator, COALESCE(creator_id, ''), COALESCE(creator_image_url, ''),
	       published_at, duration_seconds, created_at`

// UpsertItem inserts a canonical item. Items are immutable content
// truth: when a row for the same (provider, provider_id) or canonical
// URL already exists (including a lost race against a concurrent
// ingestion), the existing row is returned unchanged.
func (r *ItemRepositoryImpl) UpsertItem(item content.Item) (*content.Item, error) {
	row := r.db.QueryRow(`
		INSERT INTO items (
			id, provider, provider_id, content_type, title, description,
			canonical_url, image_url, creator, creator_id, creator_image_url,
			published_at, duration_seconds, created_at
		) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, NULLIF($8, ''), $9,
			NULLIF($10, ''), NULLIF($11, ''), $12, $13, $14)
		ON CONFLICT DO NOTHING
		RETURNING `+itemColumns+`
	`, item.ID, string(item.Provider), item.ProviderID, string(item.ContentType),
		item.Title, item.Description, item.CanonicalURL, item.ImageURL,
		item.Creator, item.CreatorID, item.CreatorImageURL,
		nullableInt64(item.PublishedAt), nullableInt(item.DurationSeconds), item.CreatedAt)

	stored, err := scanItem(row)
	if err == sql.ErrNoRows {
		// Insert lost to an existing row; the uniqueness constraint is
		// the final arbiter, so read back whichever row won.
		existing, err := r.GetItemByProviderID(string(item.Provider), item.ProviderID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			existing, err = r.GetItemByCanonicalURL(item.CanonicalURL)
			if err != nil {
				return nil, err
			}
		}
		if existing == nil {
			return nil, fmt.Errorf("item insert conflicted but no existing row found for %s/%s",
				item.Provider, item.ProviderID)
		}
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to upsert item: %w", err)
	}

	return stored, nil
}

// GetItemByProviderID retrieves an item by its provider-native id
func (r *ItemRepositoryImpl) GetItemByProviderID(provider, providerID string) (*content.Item, error) {
	row := r.db.QueryRow(`
		SELECT `+itemColumns+`
		FROM items
		WHERE provider = $1 AND provider_id = $2
	`, provider, providerID)

	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item by provider id: %w", err)
	}
	return item, nil
}

// GetItemByCanonicalURL retrieves an item by its canonical URL
func (r *ItemRepositoryImpl) GetItemByCanonicalURL(canonicalURL string) (*content.Item, error) {
	row := r.db.QueryRow(`
		SELECT `+itemColumns+`
		FROM items
		WHERE canonical_url = $1
	`, canonicalURL)

	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item by canonical URL: %w", err)
	}
	return item, nil
}

// GetRecentItems returns the most recently ingested items
func (r *ItemRepositoryImpl) GetRecentItems(limit int) ([]content.Item, error) {
	rows, err := r.db.Query(`
		SELECT `+itemColumns+`
		FROM items
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent items: %w", err)
	}
	defer rows.Close()

	var items []content.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}

	return items, nil
}

// GetItemCount returns the total number of stored items
func (r *ItemRepositoryImpl) GetItemCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM items").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get item count: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*content.Item, error) {
	var item content.Item
	var provider, contentType string
	var publishedAt, durationSeconds sql.NullInt64

	err := row.Scan(
		&item.ID, &provider, &item.ProviderID, &contentType, &item.Title,
		&item.Description, &item.CanonicalURL, &item.ImageURL,
		&item.Creator, &item.CreatorID, &item.CreatorImageURL,
		&publishedAt, &durationSeconds, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Provider = content.Provider(provider)
	item.ContentType = content.ContentType(contentType)
	if publishedAt.Valid {
		ts := publishedAt.Int64
		item.PublishedAt = &ts
	}
	if durationSeconds.Valid {
		d := int(durationSeconds.Int64)
		item.DurationSeconds = &d
	}

	return &item, nil
}

func nullableInt64(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
