package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	"github.com/readstash/readstash/app/content"
	"github.com/readstash/readstash/app/creator"
	"github.com/readstash/readstash/app/database"
	"github.com/readstash/readstash/app/extract"
)

type fakeItemRepo struct {
	items   map[string]content.Item // keyed by provider + "\x00" + provider id
	upserts int
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[string]content.Item)}
}

func itemKey(provider content.Provider, providerID string) string {
	return string(provider) + "\x00" + providerID
}

func (f *fakeItemRepo) GetItemByProviderID(provider, providerID string) (*content.Item, error) {
	if item, ok := f.items[itemKey(content.Provider(provider), providerID)]; ok {
		copied := item
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeItemRepo) GetItemByCanonicalURL(canonicalURL string) (*content.Item, error) {
	for _, item := range f.items {
		if item.CanonicalURL == canonicalURL {
			copied := item
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeItemRepo) GetRecentItems(limit int) ([]content.Item, error) {
	var items []content.Item
	for _, item := range f.items {
		items = append(items, item)
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (f *fakeItemRepo) GetItemCount() (int, error) {
	return len(f.items), nil
}

func (f *fakeItemRepo) UpsertItem(item content.Item) (*content.Item, error) {
	f.upserts++
	key := itemKey(item.Provider, item.ProviderID)
	if existing, ok := f.items[key]; ok {
		copied := existing
		return &copied, nil
	}
	f.items[key] = item
	copied := item
	return &copied, nil
}

type fakeCreatorRepo struct {
	creators map[string]database.Creator
}

func newFakeCreatorRepo() *fakeCreatorRepo {
	return &fakeCreatorRepo{creators: make(map[string]database.Creator)}
}

func (f *fakeCreatorRepo) GetCreator(id string) (*database.Creator, error) {
	if c, ok := f.creators[id]; ok {
		copied := c
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeCreatorRepo) GetCreatorCount() (int, error) {
	return len(f.creators), nil
}

func (f *fakeCreatorRepo) InsertCreator(c database.Creator) error {
	f.creators[c.ID] = c
	return nil
}

func (f *fakeCreatorRepo) UpdateCreator(c database.Creator) error {
	f.creators[c.ID] = c
	return nil
}

type fakeArticleSource struct {
	article *extract.Article
}

func (f *fakeArticleSource) Run(ctx context.Context, rawURL string) *extract.Article {
	return f.article
}

func newTestService(articles ArticleSource) (*Service, *fakeItemRepo, *fakeCreatorRepo) {
	items := newFakeItemRepo()
	creators := newFakeCreatorRepo()
	service := NewService(items, creator.NewResolver(creators), articles)
	return service, items, creators
}

func videoRequest() Request {
	publishedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).UnixMilli()
	duration := 1260

	return Request{
		Provider:        content.ProviderYouTube,
		ContentType:     content.TypeVideo,
		ProviderID:      "vid-1",
		Title:           "Testing in Production",
		CanonicalURL:    "https://youtube.example/watch?v=vid-1",
		PublishedAt:     &publishedAt,
		DurationSeconds: &duration,
		Payload: map[string]interface{}{
			"channelId":    "UC123",
			"channelTitle": "Test Channel",
		},
	}
}

func TestIngestPayloadResolvesCreatorFromPayload(t *testing.T) {
	service, items, creators := newTestService(nil)

	stored, err := service.IngestPayload(context.Background(), videoRequest())
	if err != nil {
		t.Fatalf("IngestPayload() error = %v", err)
	}

	if stored.Creator != "Test Channel" {
		t.Errorf("Expected creator name from payload, got %q", stored.Creator)
	}

	expectedID := creator.SyntheticID("youtube", "UC123")
	if stored.CreatorID != expectedID {
		t.Errorf("Expected creator id %q, got %q", expectedID, stored.CreatorID)
	}

	resolved, ok := creators.creators[expectedID]
	if !ok {
		t.Fatal("Expected creator row to be created")
	}
	if resolved.NormalizedName != "test channel" {
		t.Errorf("Expected normalized name, got %q", resolved.NormalizedName)
	}

	if items.upserts != 1 {
		t.Errorf("Expected 1 item upsert, got %d", items.upserts)
	}
}

func TestIngestPayloadReusesExistingItem(t *testing.T) {
	service, _, _ := newTestService(nil)

	first, err := service.IngestPayload(context.Background(), videoRequest())
	if err != nil {
		t.Fatalf("IngestPayload() error = %v", err)
	}

	second, err := service.IngestPayload(context.Background(), videoRequest())
	if err != nil {
		t.Fatalf("IngestPayload() error = %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("Expected the stored item to win, got new id %q", second.ID)
	}
}

func TestIngestPayloadFallsBackToRequestCreator(t *testing.T) {
	service, _, creators := newTestService(nil)

	req := videoRequest()
	req.Payload = nil
	req.Creator = "Fallback Channel"

	stored, err := service.IngestPayload(context.Background(), req)
	if err != nil {
		t.Fatalf("IngestPayload() error = %v", err)
	}

	if stored.Creator != "Fallback Channel" {
		t.Errorf("Expected request creator fallback, got %q", stored.Creator)
	}
	if stored.CreatorID != "" {
		t.Errorf("Expected no creator link without payload identity, got %q", stored.CreatorID)
	}
	if len(creators.creators) != 0 {
		t.Errorf("Expected no creator rows, got %d", len(creators.creators))
	}
}

func TestIngestPayloadRejectsInvalidItem(t *testing.T) {
	service, items, _ := newTestService(nil)

	req := videoRequest()
	req.Title = ""

	_, err := service.IngestPayload(context.Background(), req)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	var validationErr *content.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Expected ValidationError, got %T", err)
	}
	if validationErr.Field != "title" {
		t.Errorf("Expected field title, got %q", validationErr.Field)
	}
	if items.upserts != 0 {
		t.Errorf("Expected no upsert on validation failure, got %d", items.upserts)
	}
}

func TestIngestURLSavesArticle(t *testing.T) {
	articles := &fakeArticleSource{article: &extract.Article{
		IsArticle:          true,
		Title:              "A Long Read",
		Content:            "<p>body</p>",
		Author:             "Jane Writer",
		WordCount:          850,
		ReadingTimeMinutes: 5,
		ThumbnailURL:       "https://cdn.example.com/thumb.jpg",
		SiteName:           "Example",
	}}
	service, _, creators := newTestService(articles)

	stored, err := service.IngestURL(context.Background(), "https://www.example.com/posts/long-read")
	if err != nil {
		t.Fatalf("IngestURL() error = %v", err)
	}

	if stored.Provider != content.ProviderWeb || stored.ContentType != content.TypeArticle {
		t.Errorf("Expected web article, got %s/%s", stored.Provider, stored.ContentType)
	}
	if stored.Title != "A Long Read" {
		t.Errorf("Expected article title, got %q", stored.Title)
	}
	if stored.Creator != "Jane Writer" {
		t.Errorf("Expected byline as creator, got %q", stored.Creator)
	}
	if stored.ImageURL != "https://cdn.example.com/thumb.jpg" {
		t.Errorf("Expected og:image thumbnail, got %q", stored.ImageURL)
	}

	row, ok := creators.creators[stored.CreatorID]
	if !ok {
		t.Fatal("Expected creator row for the byline")
	}
	if row.ExternalURL != "https://www.example.com" {
		t.Errorf("Expected page origin as creator url, got %q", row.ExternalURL)
	}
}

func TestIngestURLSavesDegradedPage(t *testing.T) {
	articles := &fakeArticleSource{article: &extract.Article{
		IsArticle:    false,
		ThumbnailURL: "https://cdn.example.com/preview.png",
		SiteName:     "Example",
	}}
	service, _, _ := newTestService(articles)

	stored, err := service.IngestURL(context.Background(), "https://www.example.com/gallery")
	if err != nil {
		t.Fatalf("IngestURL() error = %v", err)
	}

	// No readable title on the page; the URL itself stands in
	if stored.Title != "https://www.example.com/gallery" {
		t.Errorf("Expected URL fallback title, got %q", stored.Title)
	}
	if stored.Creator != "Example" {
		t.Errorf("Expected site name as creator, got %q", stored.Creator)
	}
}

func TestIngestURLReportsFetchFailure(t *testing.T) {
	service, items, _ := newTestService(&fakeArticleSource{article: nil})

	_, err := service.IngestURL(context.Background(), "https://unreachable.example/post")
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("Expected ErrFetchFailed, got %v", err)
	}
	if items.upserts != 0 {
		t.Errorf("Expected no upsert on fetch failure, got %d", items.upserts)
	}
}

func TestIngestFeedItemSavesPost(t *testing.T) {
	service, _, _ := newTestService(nil)

	published := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	feedItem := &gofeed.Item{
		GUID:            "post-42",
		Title:           "Notes on Caching",
		Link:            "https://blog.example.com/posts/caching",
		PublishedParsed: &published,
	}

	stored, err := service.IngestFeedItem(context.Background(), "Example Blog", feedItem)
	if err != nil {
		t.Fatalf("IngestFeedItem() error = %v", err)
	}

	if stored.ProviderID != "post-42" {
		t.Errorf("Expected GUID as provider id, got %q", stored.ProviderID)
	}
	if stored.ContentType != content.TypeArticle {
		t.Errorf("Expected article content type, got %q", stored.ContentType)
	}
	if stored.Creator != "Example Blog" {
		t.Errorf("Expected feed title as creator fallback, got %q", stored.Creator)
	}
	if stored.PublishedAt == nil || *stored.PublishedAt != published.UnixMilli() {
		t.Errorf("Expected published timestamp carried over, got %v", stored.PublishedAt)
	}
}

func TestIngestFeedItemClassifiesPodcastByDuration(t *testing.T) {
	service, _, _ := newTestService(nil)

	feedItem := &gofeed.Item{
		GUID:  "ep-7",
		Title: "Episode 7",
		Link:  "https://podcast.example.com/ep-7",
		Author: &gofeed.Person{
			Name: "Example Podcast",
		},
		ITunesExt: &ext.ITunesItemExtension{
			Duration: "42:30",
		},
	}

	stored, err := service.IngestFeedItem(context.Background(), "", feedItem)
	if err != nil {
		t.Fatalf("IngestFeedItem() error = %v", err)
	}

	if stored.ContentType != content.TypePodcast {
		t.Errorf("Expected podcast content type, got %q", stored.ContentType)
	}
	if stored.DurationSeconds == nil || *stored.DurationSeconds != 2550 {
		t.Errorf("Expected 2550 second duration, got %v", stored.DurationSeconds)
	}
}

func TestIngestFeedItemRejectsItemWithoutIdentity(t *testing.T) {
	service, items, _ := newTestService(nil)

	_, err := service.IngestFeedItem(context.Background(), "Example Blog", &gofeed.Item{Title: "No links"})
	if err == nil {
		t.Fatal("Expected error for feed item without GUID or link")
	}
	if items.upserts != 0 {
		t.Errorf("Expected no upsert, got %d", items.upserts)
	}
}
