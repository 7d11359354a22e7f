package search

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultPageFixture = `<html><body>
<div class="result">
  <a class="result__a" href="https://example.com/dbs">DBS Group Holdings</a>
  <a class="result__snippet">Singapore's largest bank by market capitalisation.</a>
</div>
<div class="result">
  <a class="result__a" href="https://example.com/ocbc">OCBC Bank</a>
  <a class="result__snippet">Second largest bank in Southeast Asia.</a>
</div>
<div class="result">
  <a class="result__a" href="">No link result</a>
  <a class="result__snippet">Dropped because the href is empty.</a>
</div>
<div class="result">
  <a class="result__a" href="https://example.com/uob">UOB</a>
  <a class="result__snippet">United Overseas Bank.</a>
</div>
</body></html>`

func parseFixture(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func TestParseResults(t *testing.T) {
	results := parseResults(parseFixture(t, resultPageFixture), 0)

	assert.Equal(t, []Result{
		{Title: "DBS Group Holdings", Snippet: "Singapore's largest bank by market capitalisation.", Link: "https://example.com/dbs"},
		{Title: "OCBC Bank", Snippet: "Second largest bank in Southeast Asia.", Link: "https://example.com/ocbc"},
		{Title: "UOB", Snippet: "United Overseas Bank.", Link: "https://example.com/uob"},
	}, results)
}

func TestParseResultsCapsAtMaxResults(t *testing.T) {
	results := parseResults(parseFixture(t, resultPageFixture), 2)

	assert.Len(t, results, 2)
	assert.Equal(t, "DBS Group Holdings", results[0].Title)
	assert.Equal(t, "OCBC Bank", results[1].Title)
}

func TestParseResultsEmptyPage(t *testing.T) {
	assert.Empty(t, parseResults(parseFixture(t, "<html><body></body></html>"), 10))
}

func TestSearchRetriesThenReturnsResults(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		assert.Equal(t, "dbs market cap", r.URL.Query().Get("q"))
		assert.Equal(t, "sg-en", r.URL.Query().Get("kl"))
		w.Write([]byte(resultPageFixture))
	}))
	defer server.Close()

	var slept []time.Duration
	c := &Client{httpClient: server.Client(), sleep: func(d time.Duration) { slept = append(slept, d) }}
	c.searchURL = server.URL

	results := c.Search(context.Background(), "dbs market cap", 1)

	assert.Len(t, results, 1)
	assert.Equal(t, 3, requests)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, slept)
}

func TestSearchEmptyAfterExhaustingRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	var slept []time.Duration
	c := &Client{httpClient: server.Client(), sleep: func(d time.Duration) { slept = append(slept, d) }}
	c.searchURL = server.URL

	results := c.Search(context.Background(), "dbs market cap", 5)

	assert.Empty(t, results)
	assert.NotNil(t, results)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 6 * time.Second}, slept)
}

func TestSearchDecodesGzipResponses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		gz.Write([]byte(resultPageFixture))
		gz.Close()
	}))
	defer server.Close()

	c := &Client{httpClient: server.Client(), sleep: func(time.Duration) {}}
	c.searchURL = server.URL

	results := c.Search(context.Background(), "dbs", 0)
	assert.Len(t, results, 3)
}
