package database

import (
	"github.com/readstash/readstash/app/content"
)

type ItemRepository interface {
	GetItemByProviderID(provider, providerID string) (*content.Item, error)
	GetItemByCanonicalURL(canonicalURL string) (*content.Item, error)
	GetRecentItems(limit int) ([]content.Item, error)
	GetItemCount() (int, error)

	UpsertItem(item content.Item) (*content.Item, error)
}

type CreatorRepository interface {
	GetCreator(id string) (*Creator, error)
	GetCreatorCount() (int, error)

	InsertCreator(creator Creator) error
	UpdateCreator(creator Creator) error
}

type DiscoveryRepository interface {
	GetEntry(sourceOriginHash string) (*DiscoveryEntry, error)
	GetEntryCount() (int, error)

	UpsertEntry(entry DiscoveryEntry) (*DiscoveryEntry, error)
}
