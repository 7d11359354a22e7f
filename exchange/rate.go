// Package exchange resolves currency conversion rates from a rendered
// rate-calculator page.
package exchange

import (
	"context"
	"fmt"
	"strings"

	"finscraper/dom"
	"finscraper/numeric"

	"github.com/PuerkitoBio/goquery"
	"github.com/phuslu/log"
)

const rootExchangeURL = "https://www.x-rates.com/calculator"

// Fetcher obtains rendered HTML for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) string
}

// Resolver extracts conversion rates via label-anchored lookup.
type Resolver struct {
	fetcher Fetcher
}

// NewResolver creates a Resolver backed by the given fetcher.
func NewResolver(fetcher Fetcher) *Resolver {
	return &Resolver{fetcher: fetcher}
}

// Rate returns the conversion rate for 1 unit of from into to. A nil result
// means the rate could not be determined, which is distinct from a genuine
// rate of zero.
func (r *Resolver) Rate(ctx context.Context, from, to string) *float64 {
	url := fmt.Sprintf("%s/?from=%s&to=%s&amount=1", rootExchangeURL, from, to)

	doc, err := dom.Parse(r.fetcher.Fetch(ctx, url))
	if err != nil {
		log.Error().Err(err).Str("from", from).Str("to", to).Msg("failed to parse conversion page")
		return nil
	}

	// The anchor is the span announcing the converted amount, e.g.
	// "1.00 USD =".
	needle := fmt.Sprintf("1.00 %s", from)
	anchors := doc.Find("span").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(dom.TextOf(s), needle)
	})
	if anchors.Length() == 0 {
		log.Error().Str("from", from).Str("to", to).Msg("no conversion span found")
		return nil
	}

	siblings := dom.Siblings(anchors.First(), dom.Next)
	if len(siblings) == 0 {
		log.Error().Str("from", from).Str("to", to).Msg("conversion span has no value sibling")
		return nil
	}

	text := dom.FirstTextNode(siblings[0])
	log.Debug().Str("value", text).Msg("extracted conversion value")

	rate, err := numeric.ParsePlain(text)
	if err != nil {
		log.Error().Err(err).Str("from", from).Str("to", to).Str("value", text).Msg("failed to parse conversion value")
		return nil
	}
	return &rate
}
