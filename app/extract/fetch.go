package extract

import (
	"context"
	"io"
	"log/slog"
	"net/http"
)

// maxArticleBytes caps how much of a page is read for extraction.
const maxArticleBytes = 5 << 20

// ArticleFetcher fetches a page over HTTP and runs article extraction
// on it. Fetching is best-effort: every failure mode (bad URL, network
// error, DNS failure, timeout, non-2xx status) yields nil rather than
// an error, so a single bad page never aborts an ingestion batch.
type ArticleFetcher struct {
	httpClient *http.Client
	userAgent  string
}

func NewArticleFetcher(httpClient *http.Client, userAgent string) *ArticleFetcher {
	return &ArticleFetcher{
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

func (f *ArticleFetcher) Run(ctx context.Context, rawURL string) *Article {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		slog.Debug("Failed to create article request", "url", rawURL, "error", err)
		return nil
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		slog.Debug("Failed to fetch article", "url", rawURL, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Debug("Article fetch returned non-2xx status", "url", rawURL, "status", resp.StatusCode)
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArticleBytes))
	if err != nil {
		slog.Debug("Failed to read article body", "url", rawURL, "error", err)
		return nil
	}

	return ParseArticle(string(data), rawURL)
}
