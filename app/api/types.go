package api

import (
	"context"

	"github.com/readstash/readstash/app/content"
	"github.com/readstash/readstash/app/database"
	"github.com/readstash/readstash/app/discovery"
	"github.com/readstash/readstash/app/ingest"
)

type IngesterInterface interface {
	IngestPayload(ctx context.Context, req ingest.Request) (*content.Item, error)
	IngestURL(ctx context.Context, rawURL string) (*content.Item, error)
}

var _ IngesterInterface = (*ingest.Service)(nil)

type DiscovererInterface interface {
	GetOrProbe(ctx context.Context, origin string) (*database.DiscoveryEntry, error)
}

var _ DiscovererInterface = (*discovery.Service)(nil)

type Handler struct {
	itemRepo      database.ItemRepository
	creatorRepo   database.CreatorRepository
	discoveryRepo database.DiscoveryRepository
	ingester      IngesterInterface
	discoverer    DiscovererInterface
}
