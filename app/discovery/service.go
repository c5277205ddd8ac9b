package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/readstash/readstash/app/database"
)

// Service is the TTL-bounded cache in front of the feed prober. Live
// entries are served without probing; expired entries are treated as
// absent and refreshed. Probe failures are recorded as data with a
// shorter TTL so they retry sooner than successes.
type Service struct {
	repo       database.DiscoveryRepository
	prober     FeedProber
	successTTL time.Duration
	failureTTL time.Duration
}

func NewService(repo database.DiscoveryRepository, prober FeedProber,
	successTTL, failureTTL time.Duration) *Service {
	return &Service{
		repo:       repo,
		prober:     prober,
		successTTL: successTTL,
		failureTTL: failureTTL,
	}
}

// GetOrProbe returns the discovery result for an origin, probing only
// when no live cache entry exists. Concurrent refreshes of the same
// origin may race; last write wins on the cache row.
func (s *Service) GetOrProbe(ctx context.Context, rawOrigin string) (*database.DiscoveryEntry, error) {
	origin, err := NormalizeOrigin(rawOrigin)
	if err != nil {
		return nil, fmt.Errorf("invalid origin: %w", err)
	}
	hash := OriginHash(origin)

	cached, err := s.repo.GetEntry(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to read discovery cache: %w", err)
	}

	now := time.Now().UTC()
	if cached != nil && cached.IsLive(now) {
		slog.Debug("Discovery cache hit", "origin", origin, "status", cached.Status)
		return cached, nil
	}

	candidates, probeErr := s.prober.Run(ctx, origin)

	entry := database.DiscoveryEntry{
		SourceOriginHash: hash,
		SourceOrigin:     origin,
		SourceURL:        origin + "/",
		CheckedAt:        now,
	}

	if probeErr != nil {
		entry.Status = database.DiscoveryStatusFailure
		entry.LastError = probeErr.Error()
		entry.ExpiresAt = now.Add(s.failureTTL)
		slog.Info("Feed probe failed", "origin", origin, "error", probeErr)
	} else {
		entry.Status = database.DiscoveryStatusSuccess
		entry.Candidates = candidates
		entry.ExpiresAt = now.Add(s.successTTL)
		slog.Info("Feed probe succeeded", "origin", origin, "candidates", len(candidates))
	}

	stored, err := s.repo.UpsertEntry(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to store discovery entry: %w", err)
	}

	return stored, nil
}
