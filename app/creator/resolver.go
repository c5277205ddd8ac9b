package creator

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/readstash/readstash/app/content"
	"github.com/readstash/readstash/app/database"
)

// Params carries the raw identity fields a provider supplied for a
// content author, channel or show. Nil optional fields mean "not
// supplied" and never overwrite stored data.
type Params struct {
	Provider          content.Provider
	ProviderCreatorID string // empty when the provider has no stable creator id
	Name              string
	ImageURL          *string
	Description       *string
	Handle            *string
	ExternalURL       *string
}

// NormalizeName produces the case-insensitive matching form of a
// creator name: lowercased and trimmed, with internal whitespace and
// non-ASCII characters preserved.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SyntheticID derives a deterministic 32-hex-character identity from a
// provider and a key, so identical inputs always map to the same
// creator regardless of call time.
func SyntheticID(provider, key string) string {
	sum := sha256.Sum256([]byte(provider + "\x00" + key))
	return hex.EncodeToString(sum[:])[:32]
}

// IdentityID resolves the identity key for a creator: the provider's
// native id when one exists, otherwise the normalized display name.
func IdentityID(provider content.Provider, providerCreatorID, name string) string {
	if providerCreatorID != "" {
		return SyntheticID(string(provider), providerCreatorID)
	}
	return SyntheticID(string(provider), NormalizeName(name))
}

// Resolver deduplicates creator identities across providers. It
// implements an idempotent upsert-with-merge: resolving the same params
// twice yields the same creator and never regresses known fields.
type Resolver struct {
	repo database.CreatorRepository
}

func NewResolver(repo database.CreatorRepository) *Resolver {
	return &Resolver{repo: repo}
}

// FindOrCreate returns the creator for the given raw identity fields,
// inserting a new record on first encounter and enriching the stored
// record on subsequent ones. Absent incoming fields never erase stored
// values; when nothing changed, no write is issued at all.
func (r *Resolver) FindOrCreate(params Params) (*database.Creator, error) {
	id := IdentityID(params.Provider, params.ProviderCreatorID, params.Name)

	existing, err := r.repo.GetCreator(id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up creator: %w", err)
	}

	if existing == nil {
		candidate := database.Creator{
			ID:                id,
			Provider:          string(params.Provider),
			ProviderCreatorID: params.ProviderCreatorID,
			Name:              params.Name,
			NormalizedName:    NormalizeName(params.Name),
			ImageURL:          stringValue(params.ImageURL),
			Description:       stringValue(params.Description),
			Handle:            stringValue(params.Handle),
			ExternalURL:       stringValue(params.ExternalURL),
			CreatedAt:         time.Now().UTC(),
			UpdatedAt:         time.Now().UTC(),
		}

		err := r.repo.InsertCreator(candidate)
		if err == nil {
			slog.Debug("Creator created", "creator_id", id,
				"provider", params.Provider, "normalized_name", candidate.NormalizedName)
			return &candidate, nil
		}
		if !database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("failed to insert creator: %w", err)
		}

		// Lost a race against a concurrent ingestion of the same
		// creator; the winner's row is authoritative, so merge into it.
		existing, err = r.repo.GetCreator(id)
		if err != nil {
			return nil, fmt.Errorf("failed to re-read creator after insert conflict: %w", err)
		}
		if existing == nil {
			return nil, fmt.Errorf("creator insert conflicted but no existing row found for %s", id)
		}
	}

	merged, changed := merge(*existing, params)
	if !changed {
		return existing, nil
	}

	if err := r.repo.UpdateCreator(merged); err != nil {
		return nil, fmt.Errorf("failed to update creator: %w", err)
	}
	merged.UpdatedAt = time.Now().UTC()

	slog.Debug("Creator enriched", "creator_id", id, "provider", params.Provider)

	return &merged, nil
}

// merge computes the field-level diff between a stored creator and
// incoming params. Only concrete, non-empty incoming values that differ
// from the stored ones produce a change.
func merge(stored database.Creator, params Params) (database.Creator, bool) {
	changed := false

	if params.Name != "" && params.Name != stored.Name {
		stored.Name = params.Name
		stored.NormalizedName = NormalizeName(params.Name)
		changed = true
	}

	optionals := []struct {
		incoming *string
		target   *string
	}{
		{params.ImageURL, &stored.ImageURL},
		{params.Description, &stored.Description},
		{params.Handle, &stored.Handle},
		{params.ExternalURL, &stored.ExternalURL},
	}
	for _, f := range optionals {
		if f.incoming != nil && *f.incoming != "" && *f.incoming != *f.target {
			*f.target = *f.incoming
			changed = true
		}
	}

	return stored, changed
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
