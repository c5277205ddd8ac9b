package discovery

import (
	"context"

	"github.com/readstash/readstash/app/database"
)

// FeedProber performs the expensive feed-autodiscovery probe against a
// web origin.
type FeedProber interface {
	Run(ctx context.Context, origin string) ([]database.FeedCandidate, error)
}
