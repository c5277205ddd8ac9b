package database

import (
	"time"
)

// Creator is a deduplicated identity for a content author, channel or
// show, shared across all items attributed to it. Optional fields use
// the empty string for "not known"; creators are only ever enriched,
// never erased or deleted.
type Creator struct {
	ID                string // synthetic or provider-derived identity hash
	Provider          string
	ProviderCreatorID string // empty when the provider supplies no stable id
	Name              string
	NormalizedName    string
	ImageURL          string
	Description       string
	Handle            string
	ExternalURL       string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Discovery cache status values
const (
	DiscoveryStatusSuccess = "SUCCESS"
	DiscoveryStatusFailure = "FAILURE"
)

// FeedCandidate is one discovered syndication feed for an origin.
type FeedCandidate struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
	Type  string `json:"type,omitempty"`
}

// DiscoveryEntry is the cached result of probing a web origin for
// syndication feeds. Rows past ExpiresAt are treated as absent.
type DiscoveryEntry struct {
	SourceOriginHash string
	SourceOrigin     string
	SourceURL        string
	Candidates       []FeedCandidate
	Status           string
	LastError        string
	CheckedAt        time.Time
	ExpiresAt        time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsLive reports whether the entry may still be served at the given time.
func (e *DiscoveryEntry) IsLive(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}
