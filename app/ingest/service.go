package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/readstash/readstash/app/content"
	"github.com/readstash/readstash/app/creator"
	"github.com/readstash/readstash/app/database"
	"github.com/readstash/readstash/app/extract"
)

// ErrFetchFailed reports that a URL ingestion could not fetch or parse
// the target page at all. Callers surface this as "could not save this
// link" rather than an internal error.
var ErrFetchFailed = errors.New("could not fetch the page")

// ArticleSource fetches a URL and extracts article content from it.
// A nil result means the page was unreachable or unparseable.
type ArticleSource interface {
	Run(ctx context.Context, rawURL string) *extract.Article
}

// Request is one provider-payload ingestion. The payload is the
// provider's decoded JSON response; the flat fields are the canonical
// item values the caller already mapped from it.
type Request struct {
	Provider    content.Provider
	ContentType content.ContentType

	ProviderID   string
	Title        string
	Description  string
	CanonicalURL string
	ImageURL     string
	Creator      string // display name fallback when the payload has no creator

	PublishedAt     *int64
	DurationSeconds *int

	Payload map[string]interface{}
}

// Service is the composition point of the ingestion pipeline. It runs
// extraction, creator resolution, validation and the store upsert in
// sequence for each request; every step's semantics live in its own
// package.
type Service struct {
	items    database.ItemRepository
	creators *creator.Resolver
	articles ArticleSource
}

func NewService(items database.ItemRepository, creators *creator.Resolver, articles ArticleSource) *Service {
	return &Service{
		items:    items,
		creators: creators,
		articles: articles,
	}
}

// IngestPayload normalizes a provider payload into a canonical item and
// persists it. The creator is resolved from the payload when it carries
// one; validation failures are returned to the caller unwrapped.
func (s *Service) IngestPayload(ctx context.Context, req Request) (*content.Item, error) {
	item := content.Item{
		ID:              content.NewID(),
		ProviderID:      req.ProviderID,
		Provider:        req.Provider,
		ContentType:     req.ContentType,
		Title:           req.Title,
		Description:     req.Description,
		CanonicalURL:    req.CanonicalURL,
		ImageURL:        req.ImageURL,
		Creator:         req.Creator,
		PublishedAt:     req.PublishedAt,
		DurationSeconds: req.DurationSeconds,
		CreatedAt:       time.Now().UTC().UnixMilli(),
	}

	if meta := extract.CreatorFromPayload(req.Provider, req.Payload); meta != nil {
		resolved, err := s.creators.FindOrCreate(creatorParams(req.Provider, meta))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve creator: %w", err)
		}
		item.Creator = resolved.Name
		item.CreatorID = resolved.ID
		item.CreatorImageURL = resolved.ImageURL
	}

	if err := content.Validate(item); err != nil {
		return nil, err
	}

	stored, err := s.items.UpsertItem(item)
	if err != nil {
		return nil, fmt.Errorf("failed to store item: %w", err)
	}

	slog.Info("Item ingested", "provider", stored.Provider,
		"provider_id", stored.ProviderID, "content_type", stored.ContentType)

	return stored, nil
}

// IngestURL saves a bare web URL as an article item. The page is
// fetched and run through readability; pages that are reachable but not
// readable still save with whatever metadata could be recovered.
func (s *Service) IngestURL(ctx context.Context, rawURL string) (*content.Item, error) {
	article := s.articles.Run(ctx, rawURL)
	if article == nil {
		return nil, fmt.Errorf("%w: %s", ErrFetchFailed, rawURL)
	}

	creatorName := article.Author
	if creatorName == "" {
		creatorName = article.SiteName
	}

	params := creator.Params{
		Provider: content.ProviderWeb,
		Name:     creatorName,
	}
	if article.AuthorImageURL != "" {
		params.ImageURL = &article.AuthorImageURL
	}
	if origin := pageOrigin(rawURL); origin != "" {
		params.ExternalURL = &origin
	}

	resolved, err := s.creators.FindOrCreate(params)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve creator: %w", err)
	}

	title := article.Title
	if title == "" {
		title = rawURL
	}

	item := content.Item{
		ID:              content.NewID(),
		ProviderID:      rawURL,
		Provider:        content.ProviderWeb,
		ContentType:     content.TypeArticle,
		Title:           title,
		CanonicalURL:    rawURL,
		ImageURL:        article.ThumbnailURL,
		Creator:         resolved.Name,
		CreatorID:       resolved.ID,
		CreatorImageURL: resolved.ImageURL,
		CreatedAt:       time.Now().UTC().UnixMilli(),
	}

	if err := content.Validate(item); err != nil {
		return nil, err
	}

	stored, err := s.items.UpsertItem(item)
	if err != nil {
		return nil, fmt.Errorf("failed to store item: %w", err)
	}

	slog.Info("URL ingested", "url", rawURL, "is_article", article.IsArticle,
		"word_count", article.WordCount)

	return stored, nil
}

// IngestFeedItem saves one parsed syndication feed item, typically a
// post from a feed the discovery cache surfaced. The feed title stands
// in as the creator when the item carries no author of its own.
func (s *Service) IngestFeedItem(ctx context.Context, feedTitle string, feedItem *gofeed.Item) (*content.Item, error) {
	meta := extract.FromFeedItem(feedItem)
	if meta == nil {
		return nil, errors.New("feed item has no usable identity")
	}

	creatorName := meta.AuthorName
	if creatorName == "" {
		creatorName = feedTitle
	}

	resolved, err := s.creators.FindOrCreate(creator.Params{
		Provider: content.ProviderWeb,
		Name:     creatorName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve creator: %w", err)
	}

	contentType := content.TypeArticle
	if meta.DurationSeconds != nil {
		contentType = content.TypePodcast
	}

	item := content.Item{
		ID:              content.NewID(),
		ProviderID:      meta.ProviderID,
		Provider:        content.ProviderWeb,
		ContentType:     contentType,
		Title:           meta.Title,
		Description:     meta.Description,
		CanonicalURL:    meta.Link,
		ImageURL:        meta.ImageURL,
		Creator:         resolved.Name,
		CreatorID:       resolved.ID,
		CreatorImageURL: resolved.ImageURL,
		PublishedAt:     meta.PublishedAtMillis,
		DurationSeconds: meta.DurationSeconds,
		CreatedAt:       time.Now().UTC().UnixMilli(),
	}

	if err := content.Validate(item); err != nil {
		return nil, err
	}

	stored, err := s.items.UpsertItem(item)
	if err != nil {
		return nil, fmt.Errorf("failed to store item: %w", err)
	}

	slog.Info("Feed item ingested", "provider_id", stored.ProviderID,
		"content_type", stored.ContentType)

	return stored, nil
}

func creatorParams(provider content.Provider, meta *extract.CreatorMeta) creator.Params {
	params := creator.Params{
		Provider:          provider,
		ProviderCreatorID: meta.ProviderCreatorID,
		Name:              meta.Name,
	}
	if meta.ImageURL != "" {
		params.ImageURL = &meta.ImageURL
	}
	if meta.Handle != "" {
		params.Handle = &meta.Handle
	}
	return params
}

func pageOrigin(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}
