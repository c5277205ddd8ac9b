package database

import (
	"database/sql"
	"fmt"
)

// CreatorRepositoryImpl handles database operations for creators
type CreatorRepositoryImpl struct {
	db *DB
}

var _ CreatorRepository = (*CreatorRepositoryImpl)(nil)

func NewCreatorRepository(db *DB) *CreatorRepositoryImpl {
	return &CreatorRepositoryImpl{db: db}
}

const creatorColumns = `id, provider, COALESCE(provider_creator_id, ''), name, normalized_name,
	       COALESCE(image_url, ''), COALESCE(description, ''), COALESCE(handle, ''),
	       COALESCE(external_url, ''), created_at, updated_at`

// GetCreator retrieves a creator by its identity hash
func (r *CreatorRepositoryImpl) GetCreator(id string) (*Creator, error) {
	var creator Creator
	err := r.db.QueryRow(`
		SELECT `+creatorColumns+`
		FROM creators
		WHERE id = $1
	`, id).Scan(
		&creator.ID, &creator.Provider, &creator.ProviderCreatorID,
		&creator.Name, &creator.NormalizedName,
		&creator.ImageURL, &creator.Description, &creator.Handle,
		&creator.ExternalURL, &creator.CreatedAt, &creator.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}

	return &creator, nil
}

// InsertCreator inserts a new creator record. Callers must handle a
// unique violation from a concurrent insert by re-reading the row.
func (r *CreatorRepositoryImpl) InsertCreator(creator Creator) error {
	_, err := r.db.Exec(`
		INSERT INTO creators (
			id, provider, provider_creator_id, name, normalized_name,
			image_url, description, handle, external_url
		) VALUES ($1, $2, NULLIF($3, ''), $4, $5,
			NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''))
	`, creator.ID, creator.Provider, creator.ProviderCreatorID,
		creator.Name, creator.NormalizedName,
		creator.ImageURL, creator.Description, creator.Handle, creator.ExternalURL)

	if err != nil {
		return fmt.Errorf("failed to insert creator: %w", err)
	}

	return nil
}

// UpdateCreator writes the merged descriptive fields of an existing
// creator and bumps updated_at. Callers only invoke this when at least
// one field actually changed, so updated_at stays meaningful.
func (r *CreatorRepositoryImpl) UpdateCreator(creator Creator) error {
	_, err := r.db.Exec(`
		UPDATE creators
		SET name = $2, normalized_name = $3, image_url = NULLIF($4, ''),
		    description = NULLIF($5, ''), handle = NULLIF($6, ''),
		    external_url = NULLIF($7, ''), updated_at = NOW()
		WHERE id = $1
	`, creator.ID, creator.Name, creator.NormalizedName,
		creator.ImageURL, creator.Description, creator.Handle, creator.ExternalURL)

	if err != nil {
		return fmt.Errorf("failed to update creator: %w", err)
	}

	return nil
}

// GetCreatorCount returns the total number of creators
func (r *CreatorRepositoryImpl) GetCreatorCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM creators").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get creator count: %w", err)
	}
	return count, nil
}
