package extract

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// readingSpeedWPM is the fixed reading speed used for the reading time
// estimate.
const readingSpeedWPM = 200

// ParseArticle runs a readability pass over raw HTML fetched from
// sourceURL. Parsing is lenient: malformed, empty, or fragment-only
// input degrades to a non-article result instead of failing. Page
// metadata (thumbnail, author image, site name) is extracted even when
// the page is not readable.
func ParseArticle(rawHTML string, sourceURL string) *Article {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		slog.Debug("Failed to parse HTML document", "url", sourceURL, "error", err)
		return nil
	}

	base, err := url.Parse(sourceURL)
	if err != nil {
		base = nil
	}

	result := &Article{
		ThumbnailURL:   resolveURL(metaContent(doc, `meta[property="og:image"]`), base),
		AuthorImageURL: resolveURL(authorImage(doc), base),
		SiteName:       siteName(doc, sourceURL),
	}

	if !readability.Check(strings.NewReader(rawHTML)) {
		return result
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), base)
	if err != nil {
		slog.Debug("Readability extraction failed", "url", sourceURL, "error", err)
		return result
	}

	result.IsArticle = true
	result.Title = article.Title
	result.Content = article.Content
	result.Author = article.Byline

	words := len(strings.Fields(article.TextContent))
	result.WordCount = words
	result.ReadingTimeMinutes = (words + readingSpeedWPM - 1) / readingSpeedWPM
	if result.ReadingTimeMinutes == 0 && words > 0 {
		result.ReadingTimeMinutes = 1
	}

	return result
}

// authorImage returns the first author image meta tag in priority
// order.
func authorImage(doc *goquery.Document) string {
	selectors := []string{
		`meta[property="article:author:image"]`,
		`meta[property="author:image"]`,
		`meta[name="author:image"]`,
	}
	for _, sel := range selectors {
		if v := metaContent(doc, sel); v != "" {
			return v
		}
	}
	return ""
}

// siteName prefers an explicit site-name meta tag and falls back to a
// name derived from the page's domain.
func siteName(doc *goquery.Document, sourceURL string) string {
	if v := metaContent(doc, `meta[property="og:site_name"]`); v != "" {
		return v
	}
	return siteNameFromURL(sourceURL)
}

// siteNameFromURL derives a display name from a URL's host: strip a
// leading "www.", take the label that follows, capitalize it.
// TODO: multi-level TLDs are not handled, so bbc.co.uk yields "Co";
// fixing this needs a public-suffix list.
func siteNameFromURL(sourceURL string) string {
	u, err := url.Parse(sourceURL)
	if err != nil || u.Hostname() == "" {
		return "Unknown"
	}

	parts := strings.Split(u.Hostname(), ".")
	label := parts[0]
	if len(parts) > 2 {
		label = parts[1]
	}
	if label == "" {
		return "Unknown"
	}

	return strings.ToUpper(label[:1]) + label[1:]
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

// resolveURL makes an image URL absolute against the source page.
// Protocol-relative URLs take the source URL's scheme.
func resolveURL(raw string, base *url.URL) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if parsed.IsAbs() {
		return raw
	}
	if base == nil {
		return raw
	}

	return base.ResolveReference(parsed).String()
}
