package extract

import (
	"cmp"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"
)

// FeedItemMeta is the partial canonical record mapped from a parsed
// syndication feed item.
type FeedItemMeta struct {
	ProviderID        string
	Title             string
	Description       string
	Link              string
	ImageURL          string
	AuthorName        string
	PublishedAtMillis *int64
	DurationSeconds   *int
}

// FromFeedItem maps a gofeed item to partial canonical fields. Returns
// nil when the item carries no usable identity (no GUID and no link).
func FromFeedItem(item *gofeed.Item) *FeedItemMeta {
	if item == nil {
		return nil
	}

	guid := cmp.Or(item.GUID, item.Link)
	if guid == "" {
		return nil
	}

	meta := &FeedItemMeta{
		ProviderID:  guid,
		Title:       item.Title,
		Description: item.Description,
		Link:        item.Link,
	}

	if item.Image != nil {
		meta.ImageURL = item.Image.URL
	}

	if len(item.Authors) > 0 && item.Authors[0] != nil {
		meta.AuthorName = item.Authors[0].Name
	} else if item.Author != nil {
		meta.AuthorName = item.Author.Name
	}

	if item.PublishedParsed != nil {
		ms := item.PublishedParsed.UnixMilli()
		meta.PublishedAtMillis = &ms
	}

	if item.ITunesExt != nil && item.ITunesExt.Duration != "" {
		if seconds, ok := parseDuration(item.ITunesExt.Duration); ok {
			meta.DurationSeconds = &seconds
		}
	}

	return meta
}

// parseDuration handles the "ss", "mm:ss" and "hh:mm:ss" forms used by
// podcast feeds.
func parseDuration(raw string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) == 0 || len(parts) > 3 {
		return 0, false
	}

	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0, false
		}
		total = total*60 + n
	}

	return total, true
}
