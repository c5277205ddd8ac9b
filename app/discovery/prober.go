package discovery

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/readstash/readstash/app/database"
)

// Feed MIME types advertised via <link rel="alternate">
var feedLinkTypes = map[string]bool{
	"application/rss+xml":   true,
	"application/atom+xml":  true,
	"application/feed+json": true,
	"application/json":      true,
}

// Paths tried when the homepage advertises no feed links
var wellKnownFeedPaths = []string{
	"/feed",
	"/rss",
	"/feed.xml",
	"/rss.xml",
	"/atom.xml",
	"/index.xml",
}

const (
	maxProbeBytes     = 2 << 20
	maxFeedCandidates = 5
)

// Prober discovers syndication feeds for a web origin by scanning the
// homepage for alternate links and falling back to well-known feed
// paths, verifying every candidate by actually parsing it as a feed.
type Prober struct {
	httpClient *http.Client
	feedParser *gofeed.Parser
	userAgent  string
}

var _ FeedProber = (*Prober)(nil)

func NewProber(httpClient *http.Client, userAgent string) *Prober {
	return &Prober{
		httpClient: httpClient,
		feedParser: gofeed.NewParser(),
		userAgent:  userAgent,
	}
}

// Run probes an origin and returns the verified feed candidates in
// discovery order. An error is returned only when the origin itself
// could not be fetched; an origin with no feeds is a valid empty
// result.
func (p *Prober) Run(ctx context.Context, origin string) ([]database.FeedCandidate, error) {
	data, err := p.fetch(ctx, origin+"/")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch origin page: %w", err)
	}

	links := p.advertisedFeedLinks(data, origin)
	if len(links) == 0 {
		for _, path := range wellKnownFeedPaths {
			links = append(links, origin+path)
		}
	}
	if len(links) > maxFeedCandidates {
		links = links[:maxFeedCandidates]
	}

	var candidates []database.FeedCandidate
	for _, link := range links {
		candidate, ok := p.verify(ctx, link)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate)
	}

	slog.Debug("Feed probe completed", "origin", origin,
		"links_checked", len(links), "candidates", len(candidates))

	return candidates, nil
}

// advertisedFeedLinks scans homepage HTML for alternate feed links.
func (p *Prober) advertisedFeedLinks(data []byte, origin string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		return nil
	}

	base, err := url.Parse(origin + "/")
	if err != nil {
		return nil
	}

	var links []string
	seen := make(map[string]bool)

	doc.Find(`link[rel="alternate"]`).Each(func(_ int, s *goquery.Selection) {
		linkType, _ := s.Attr("type")
		if !feedLinkTypes[strings.ToLower(strings.TrimSpace(linkType))] {
			return
		}
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		parsed, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(parsed).String()
		if !seen[resolved] {
			seen[resolved] = true
			links = append(links, resolved)
		}
	})

	return links
}

// verify fetches a candidate URL and confirms it parses as a feed.
func (p *Prober) verify(ctx context.Context, feedURL string) (database.FeedCandidate, bool) {
	data, err := p.fetch(ctx, feedURL)
	if err != nil {
		slog.Debug("Feed candidate fetch failed", "url", feedURL, "error", err)
		return database.FeedCandidate{}, false
	}

	feed, err := p.feedParser.ParseString(string(data))
	if err != nil {
		slog.Debug("Feed candidate did not parse", "url", feedURL, "error", err)
		return database.FeedCandidate{}, false
	}

	return database.FeedCandidate{
		URL:   feedURL,
		Title: feed.Title,
		Type:  feed.FeedType,
	}, true
}

func (p *Prober) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxProbeBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
