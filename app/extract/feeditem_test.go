package extract

import (
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

func TestFromFeedItem(t *testing.T) {
	published := time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)
	item := &gofeed.Item{
		GUID:            "item-1",
		Title:           "Test Item",
		Link:            "https://example.com/item1",
		Description:     "A description",
		PublishedParsed: &published,
		Author:          &gofeed.Person{Name: "Test Author"},
	}

	meta := FromFeedItem(item)
	if meta == nil {
		t.Fatal("Expected meta, got nil")
	}
	if meta.ProviderID != "item-1" {
		t.Errorf("Expected provider id 'item-1', got %q", meta.ProviderID)
	}
	if meta.AuthorName != "Test Author" {
		t.Errorf("Expected author 'Test Author', got %q", meta.AuthorName)
	}
	if meta.PublishedAtMillis == nil || *meta.PublishedAtMillis != published.UnixMilli() {
		t.Errorf("Expected published millis %d, got %v", published.UnixMilli(), meta.PublishedAtMillis)
	}
}

func TestFromFeedItemFallsBackToLink(t *testing.T) {
	meta := FromFeedItem(&gofeed.Item{Link: "https://example.com/item2", Title: "No GUID"})
	if meta == nil {
		t.Fatal("Expected meta, got nil")
	}
	if meta.ProviderID != "https://example.com/item2" {
		t.Errorf("Expected link as provider id, got %q", meta.ProviderID)
	}
}

func TestFromFeedItemNoIdentity(t *testing.T) {
	if meta := FromFeedItem(&gofeed.Item{Title: "Orphan"}); meta != nil {
		t.Errorf("Expected nil for item without GUID or link, got %+v", meta)
	}
	if meta := FromFeedItem(nil); meta != nil {
		t.Errorf("Expected nil for nil item, got %+v", meta)
	}
}

func TestFromFeedItemPodcastDuration(t *testing.T) {
	item := &gofeed.Item{
		GUID:      "ep-1",
		Link:      "https://example.com/ep1",
		ITunesExt: &ext.ITunesItemExtension{Duration: "28:19"},
	}

	meta := FromFeedItem(item)
	if meta == nil {
		t.Fatal("Expected meta, got nil")
	}
	if meta.DurationSeconds == nil || *meta.DurationSeconds != 28*60+19 {
		t.Errorf("Expected duration 1699, got %v", meta.DurationSeconds)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		raw     string
		seconds int
		ok      bool
	}{
		{"90", 90, true},
		{"02:30", 150, true},
		{"01:00:05", 3605, true},
		{"", 0, false},
		{"abc", 0, false},
		{"1:2:3:4", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseDuration(tt.raw)
		if ok != tt.ok || got != tt.seconds {
			t.Errorf("parseDuration(%q) = (%d, %v), expected (%d, %v)", tt.raw, got, ok, tt.seconds, tt.ok)
		}
	}
}
