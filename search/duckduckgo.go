// Package search retrieves ranked result snippets from the DuckDuckGo HTML
// endpoint. It is the fallback data source when structural page extraction
// cannot locate a metric.
package search

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"github.com/phuslu/log"
)

const (
	searchURL = "https://html.duckduckgo.com/html/"
	region    = "sg-en"

	retries = 3
	backoff = 2 * time.Second
)

// Result is a single ranked search hit.
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// Client scrapes the search provider. Transient failures are retried with
// linear backoff; after exhaustion Search returns an empty list rather than
// an error, so a degraded provider never fails the pipeline.
type Client struct {
	httpClient *http.Client
	searchURL  string
	sleep      func(time.Duration)
}

// NewClient creates a search client with a 30 second request timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		searchURL:  searchURL,
		sleep:      time.Sleep,
	}
}

// Search returns up to maxResults ranked snippets for query. The result list
// is empty when the provider stays unreachable through all retries.
func (c *Client) Search(ctx context.Context, query string, maxResults int) []Result {
	for attempt := 0; attempt <= retries; attempt++ {
		results, err := c.doSearch(ctx, query, maxResults)
		if err == nil {
			return results
		}
		log.Error().Err(err).Str("query", query).Int("attempt", attempt+1).Msg("failed to retrieve search results")
		if attempt < retries {
			c.sleep(time.Duration(attempt+1) * backoff)
		}
	}
	return []Result{}
}

func (c *Client) doSearch(ctx context.Context, query string, maxResults int) ([]Result, error) {
	params := url.Values{}
	params.Add("q", query)
	params.Add("kl", region)

	req, err := http.NewRequestWithContext(ctx, "GET", c.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:134.0) Gecko/20100101 Firefox/134.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br, zstd")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	var reader io.Reader
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %v", err)
		}
		defer gzReader.Close()
		reader = gzReader
	case "deflate":
		flReader := flate.NewReader(resp.Body)
		defer flReader.Close()
		reader = flReader
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "zstd":
		zstdReader, err := zstd.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %v", err)
		}
		defer zstdReader.Close()
		reader = zstdReader
	default:
		reader = resp.Body
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %v", err)
	}

	return parseResults(doc, maxResults), nil
}

// parseResults extracts ranked results from a DuckDuckGo HTML result page.
func parseResults(doc *goquery.Document, maxResults int) []Result {
	var results []Result
	doc.Find("div.result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if maxResults > 0 && len(results) >= maxResults {
			return false
		}

		anchor := s.Find("a.result__a").First()
		title := strings.TrimSpace(anchor.Text())
		link, _ := anchor.Attr("href")
		snippet := strings.TrimSpace(s.Find(".result__snippet").Text())

		if title != "" && link != "" {
			results = append(results, Result{Title: title, Snippet: snippet, Link: link})
		}
		return true
	})
	return results
}
