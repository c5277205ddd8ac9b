package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestArticleFetcherRun(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "ReadStash-Test/1.0" {
			t.Errorf("Expected descriptive user agent, got %q", r.Header.Get("User-Agent"))
		}
		if r.Header.Get("Accept") == "" {
			t.Error("Expected an Accept header requesting HTML")
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(readablePage))
	}))
	defer server.Close()

	fetcher := NewArticleFetcher(server.Client(), "ReadStash-Test/1.0")

	result := fetcher.Run(context.Background(), server.URL)
	if result == nil {
		t.Fatal("Expected article result, got nil")
	}
	if !result.IsArticle {
		t.Error("Expected fetched page to be an article")
	}
}

func TestArticleFetcherRunNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	fetcher := NewArticleFetcher(server.Client(), "ReadStash-Test/1.0")

	if result := fetcher.Run(context.Background(), server.URL+"/missing"); result != nil {
		t.Errorf("Expected nil for 404 response, got %+v", result)
	}
}

func TestArticleFetcherRunNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	fetcher := NewArticleFetcher(&http.Client{Timeout: 2 * time.Second}, "ReadStash-Test/1.0")

	if result := fetcher.Run(context.Background(), url); result != nil {
		t.Errorf("Expected nil for connection failure, got %+v", result)
	}
}

func TestArticleFetcherRunTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	fetcher := NewArticleFetcher(server.Client(), "ReadStash-Test/1.0")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if result := fetcher.Run(ctx, server.URL); result != nil {
		t.Errorf("Expected nil on timeout, got %+v", result)
	}
}

func TestArticleFetcherRunBadURL(t *testing.T) {
	fetcher := NewArticleFetcher(http.DefaultClient, "ReadStash-Test/1.0")

	if result := fetcher.Run(context.Background(), "://not-a-url"); result != nil {
		t.Errorf("Expected nil for unparsable URL, got %+v", result)
	}
}
