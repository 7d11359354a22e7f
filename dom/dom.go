// Package dom wraps a parsed HTML tree with the label-anchored traversal
// primitives the extractors are built on. Pages scraped here have no stable
// selectors, so elements are located by their text and values are read from
// positionally adjacent nodes.
package dom

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/phuslu/log"
	"golang.org/x/net/html"
)

// Direction selects which siblings to walk.
type Direction int

const (
	Prev Direction = iota
	Next
)

// Document is a parsed HTML page.
type Document struct {
	*goquery.Document
}

// Parse builds a Document from raw HTML.
func Parse(htmlText string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil, err
	}
	return &Document{doc}, nil
}

// FindByExactText returns the first leaf element whose trimmed text equals
// label, or nil if none matches. Multiple matches log a warning and the first
// in document order wins.
func (d *Document) FindByExactText(label string) *goquery.Selection {
	matches := d.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Children().Length() == 0 && strings.TrimSpace(s.Text()) == label
	})
	if matches.Length() == 0 {
		return nil
	}
	if matches.Length() > 1 {
		log.Warn().Str("label", label).Int("count", matches.Length()).Msg("multiple anchors match label, using the first one")
	}
	return matches.First()
}

// FindByTextMatch returns the first leaf element matching selector whose text
// matches re, or nil if none does.
func (d *Document) FindByTextMatch(selector string, re *regexp.Regexp) *goquery.Selection {
	matches := d.Find(selector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Children().Length() == 0 && re.MatchString(strings.TrimSpace(s.Text()))
	})
	if matches.Length() == 0 {
		return nil
	}
	if matches.Length() > 1 {
		log.Warn().Str("selector", selector).Int("count", matches.Length()).Msg("multiple elements match pattern, using the first one")
	}
	return matches.First()
}

// Siblings returns the element siblings of s in the given direction, nearest
// first. The sibling links are walked directly so the ordering is the one the
// positional extractors rely on.
func Siblings(s *goquery.Selection, dir Direction) []*goquery.Selection {
	if s == nil || len(s.Nodes) == 0 {
		return nil
	}

	var out []*goquery.Selection
	node := s.Nodes[0]
	if dir == Prev {
		for c := node.PrevSibling; c != nil; c = c.PrevSibling {
			if c.Type == html.ElementNode {
				out = append(out, goquery.NewDocumentFromNode(c).Selection)
			}
		}
	} else {
		for c := node.NextSibling; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				out = append(out, goquery.NewDocumentFromNode(c).Selection)
			}
		}
	}
	return out
}

// TextOf returns the trimmed flattened text of s; nil selections yield "".
func TextOf(s *goquery.Selection) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(s.Text())
}

// FirstTextNode returns the first non-empty direct text child of s, without
// descending into child elements.
func FirstTextNode(s *goquery.Selection) string {
	if s == nil || len(s.Nodes) == 0 {
		return ""
	}
	for c := s.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			if t := strings.TrimSpace(c.Data); t != "" {
				return t
			}
		}
	}
	return ""
}
