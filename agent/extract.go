// Package agent extracts financial metrics from unstructured web search
// results: snippets in, one normalized number out. It is the fallback path
// when structural page extraction cannot locate a metric.
package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"finscraper/numeric"
	"finscraper/scraper"
	"finscraper/search"

	"github.com/PuerkitoBio/goquery"
	"github.com/phuslu/log"
)

const (
	maxSnippets = 10
	// Pages fed to the model as context are truncated to this many bytes.
	maxPageContext = 10000
)

// metricPattern matches a currency-prefixed number with an optional magnitude
// suffix in a model reply, e.g. "S$400 million".
var metricPattern = regexp.MustCompile(`S\$[0-9]+[\.,]*[0-9]*\s*(?:(?:million)|(?:billion))*`)

// Searcher returns ranked snippets for a query.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) []search.Result
}

// Invoker turns a prompt into model text; empty string means no answer.
type Invoker interface {
	Invoke(ctx context.Context, userMsg, systemMsg string) string
}

// Fetcher obtains rendered HTML for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) string
}

// FinancialData is the full set of metrics the fallback path extracts for an
// entity. Zero values mean "not found", not absence.
type FinancialData struct {
	SharePrice       int64   `json:"share_price"`
	EarningsPerShare float64 `json:"earnings_per_share"`
	DividendYield    int64   `json:"dividend_yield"`
	MarketCap        int64   `json:"market_cap"`
	Debt             int64   `json:"debt"`
	NetAssets        int64   `json:"net_assets"`
	NetProfits       int64   `json:"net_profits"`
}

// Extractor runs the search + language-model inference pipeline.
type Extractor struct {
	search  Searcher
	llm     Invoker
	fetcher Fetcher
}

// New creates an Extractor. fetcher may be nil, which disables the
// scrape-first-result fallback.
func New(searcher Searcher, llm Invoker, fetcher Fetcher) *Extractor {
	return &Extractor{search: searcher, llm: llm, fetcher: fetcher}
}

// ExtractAll gathers the full metric set for a named entity, one sequential
// search + inference pass per metric.
func (e *Extractor) ExtractAll(ctx context.Context, name string) FinancialData {
	return FinancialData{
		SharePrice:       int64(e.ExtractMetric(ctx, name, "share price")),
		EarningsPerShare: e.ExtractMetric(ctx, name, "earnings per share"),
		DividendYield:    int64(e.ExtractMetric(ctx, name, "dividend yield")),
		MarketCap:        int64(e.ExtractMetric(ctx, name, "market cap")),
		Debt:             int64(e.ExtractMetric(ctx, name, "debt")),
		NetAssets:        int64(e.ExtractMetric(ctx, name, "net assets")),
		NetProfits:       int64(e.ExtractMetric(ctx, name, "net profits")),
	}
}

// ExtractMetric resolves one metric for a named entity. Zero is the explicit
// "not found" sentinel. Per-share metrics keep their fractional part; all
// other metrics are truncated to whole units.
func (e *Extractor) ExtractMetric(ctx context.Context, name, metric string) float64 {
	query := fmt.Sprintf("%s %s", name, metric)

	results := e.search.Search(ctx, query, maxSnippets)
	if len(results) == 0 {
		log.Warn().Str("query", query).Msg("no search results found")
		return 0
	}

	var contextBlock strings.Builder
	for _, r := range results {
		contextBlock.WriteString(fmt.Sprintf("** %s\n %s\n\n", r.Title, r.Snippet))
	}

	prompt := fmt.Sprintf(extractInformationPrompt, query, strings.TrimRight(contextBlock.String(), "\n"), query)
	log.Trace().Str("prompt", prompt).Msg("fallback extraction prompt")

	reply := e.llm.Invoke(ctx, prompt, "")
	log.Trace().Str("reply", reply).Msg("model reply")

	if v, ok := e.parseReply(reply, metric); ok {
		return v
	}

	log.Info().Str("query", query).Msg("no matches found in model reply, scraping from first result")
	if v, ok := e.extractFromPage(ctx, query, metric, results[0].Link); ok {
		return v
	}
	return 0
}

// extractFromPage is the last resort: render the top-ranked result, convert
// it to Markdown and give the model one more pass over the page content.
func (e *Extractor) extractFromPage(ctx context.Context, query, metric, link string) (float64, bool) {
	if e.fetcher == nil || link == "" {
		return 0, false
	}

	html := e.fetcher.Fetch(ctx, link)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Error().Err(err).Str("link", link).Msg("failed to parse scraped page")
		return 0, false
	}

	content := scraper.Markdown(doc, link)
	if len(content) > maxPageContext {
		content = content[:maxPageContext]
	}
	if content == "" {
		return 0, false
	}

	prompt := fmt.Sprintf(extractInformationPrompt, query, content, query)
	return e.parseReply(e.llm.Invoke(ctx, prompt, ""), metric)
}

// parseReply pulls the first currency-tagged number out of a model reply and
// normalizes it. ok is false when the reply holds no match, which is distinct
// from an explicit "S$0" answer.
func (e *Extractor) parseReply(reply, metric string) (float64, bool) {
	match := metricPattern.FindString(reply)
	if match == "" {
		return 0, false
	}

	value, err := numeric.Parse(match)
	if err != nil {
		log.Warn().Str("match", match).Msg("model reply is not a valid number")
		return 0, true
	}

	if metric == "earnings per share" {
		return value, true
	}
	return float64(int64(value)), true
}
