package httpapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rohmanhakim/docs-crawler/internal/httpapi"
	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/pkg/rotation"
)

func TestPipeline_Scrape_FetchesCleanAndConvertsToMarkdown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><article><h1>Title</h1><p>Hello world, this is a sufficiently long paragraph of real content for the extractor to treat as meaningful.</p></article></body></html>`))
	}))
	defer upstream.Close()

	pipeline := httpapi.NewPipeline(metadata.NoopSink{}, t.TempDir(), 0, rotation.NewRoundRobinRotator(nil, nil, "test-agent/1.0"))

	target, err := url.Parse(upstream.URL)
	require.NoError(t, err)

	result, scrapeErr := pipeline.Scrape(context.Background(), *target, httpapi.ScrapeOptions{SkipCache: true})
	require.Nil(t, scrapeErr)
	require.Contains(t, string(result.Markdown), "Title")
	require.False(t, result.FromCache)
}

func TestPipeline_Scrape_SecondCallWithinTTLIsServedFromCache(t *testing.T) {
	var fetchCount int
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetchCount++
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><article><h1>Cached</h1><p>Hello world, this is a sufficiently long paragraph of real content for the extractor to treat as meaningful.</p></article></body></html>`))
	}))
	defer upstream.Close()

	pipeline := httpapi.NewPipeline(metadata.NoopSink{}, t.TempDir(), 0, rotation.NewRoundRobinRotator(nil, nil, "test-agent/1.0"))
	target, err := url.Parse(upstream.URL)
	require.NoError(t, err)

	first, scrapeErr := pipeline.Scrape(context.Background(), *target, httpapi.ScrapeOptions{})
	require.Nil(t, scrapeErr)
	require.False(t, first.FromCache)

	second, scrapeErr := pipeline.Scrape(context.Background(), *target, httpapi.ScrapeOptions{})
	require.Nil(t, scrapeErr)
	require.True(t, second.FromCache)
	require.Equal(t, first.Markdown, second.Markdown)
	require.Equal(t, 1, fetchCount)
}
