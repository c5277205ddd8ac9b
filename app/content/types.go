package content

import (
	"github.com/google/uuid"
)

// Provider identifies the source platform a piece of content came from.
type Provider string

const (
	ProviderYouTube Provider = "youtube"
	ProviderSpotify Provider = "spotify"
	ProviderX       Provider = "x"
	ProviderWeb     Provider = "web"
)

func (p Provider) IsValid() bool {
	switch p {
	case ProviderYouTube, ProviderSpotify, ProviderX, ProviderWeb:
		return true
	}
	return false
}

// ContentType classifies the kind of content an item holds.
type ContentType string

const (
	TypeVideo   ContentType = "video"
	TypePodcast ContentType = "podcast"
	TypeArticle ContentType = "article"
	TypePost    ContentType = "post"
)

func (t ContentType) IsValid() bool {
	switch t {
	case TypeVideo, TypePodcast, TypeArticle, TypePost:
		return true
	}
	return false
}

// Item is the canonical, provider-agnostic representation of a saved
// piece of content. It carries content truth only; user state
// (read/bookmarked/archived) lives elsewhere.
type Item struct {
	ID          string
	ProviderID  string // source-native id, unique per provider
	Provider    Provider
	ContentType ContentType

	Title           string
	Description     string
	CanonicalURL    string
	ImageURL        string
	Creator         string // display name
	CreatorID       string // optional link to a creators row
	CreatorImageURL string

	PublishedAt     *int64 // epoch milliseconds
	DurationSeconds *int
	CreatedAt       int64 // epoch milliseconds, set once at ingestion
}

// NewID returns a globally unique, lexicographically sortable item id.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does; fall back to v4
		return uuid.NewString()
	}
	return id.String()
}
