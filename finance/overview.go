package finance

import (
	"regexp"
	"strings"

	"finscraper/dom"

	"github.com/PuerkitoBio/goquery"
	"github.com/phuslu/log"
)

var parenSuffix = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// ExtractOverview reads sector, exchange currency and name from a security's
// main quote page. Each field is located independently; a missing anchor
// leaves that field empty and never aborts the others.
func ExtractOverview(doc *dom.Document, id string) Overview {
	var out Overview

	if anchor := doc.FindByExactText("Sector"); anchor == nil {
		log.Error().Str("id", id).Msg("no sector information found")
	} else {
		siblings := append(dom.Siblings(anchor, dom.Prev), dom.Siblings(anchor, dom.Next)...)
		if len(siblings) == 0 {
			log.Error().Str("id", id).Msg("no siblings found for sector element")
		} else {
			if len(siblings) > 1 {
				log.Warn().Str("id", id).Int("count", len(siblings)).Msg("multiple siblings found for sector element, using the first one")
			}
			out.Sector = dom.TextOf(siblings[0])
		}
	}

	container := doc.Find("span.exchange").First()
	if container.Length() == 0 {
		log.Error().Str("id", id).Msg("no currency information found")
	} else {
		out.ExchangeCurrency = dom.TextOf(container.Find("span").Last())
	}

	heading := doc.Find("h1").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(strings.ToLower(s.Text()), strings.ToLower(id))
	}).First()
	if heading.Length() == 0 {
		log.Error().Str("id", id).Msg("no heading containing identifier found")
	} else {
		out.Name = strings.TrimSpace(parenSuffix.ReplaceAllString(dom.TextOf(heading), ""))
	}

	return out
}
