// Package scraper converts an arbitrary rendered webpage into Markdown text
// suitable for use as language-model context.
package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Markdown extracts the most relevant content of a page as Markdown: title,
// headings, paragraphs, lists and blockquotes, in document order.
func Markdown(doc *goquery.Document, url string) string {
	var sb strings.Builder

	if title := extractTitle(doc); title != "" {
		sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	}
	sb.WriteString(fmt.Sprintf("*Source: %s*\n\n", url))

	doc.Find("h1, h2, h3, h4, p, li, blockquote").Each(func(_ int, s *goquery.Selection) {
		text := CleanText(s.Text())
		if text == "" {
			return
		}

		switch goquery.NodeName(s) {
		case "h1":
			sb.WriteString("# " + text + "\n\n")
		case "h2":
			sb.WriteString("## " + text + "\n\n")
		case "h3":
			sb.WriteString("### " + text + "\n\n")
		case "h4":
			sb.WriteString("#### " + text + "\n\n")
		case "li":
			sb.WriteString("* " + text + "\n")
		case "blockquote":
			sb.WriteString("> " + text + "\n\n")
		default:
			sb.WriteString(text + "\n\n")
		}
	})

	return strings.TrimSpace(sb.String())
}

// extractTitle gets the most likely title of the page.
func extractTitle(doc *goquery.Document) string {
	title := CleanText(doc.Find("title").First().Text())

	if title == "" || len(title) > 150 {
		title = CleanText(doc.Find("h1").First().Text())
	}
	if title == "" {
		title, _ = doc.Find("meta[property='og:title']").Attr("content")
		title = CleanText(title)
	}
	return title
}

// CleanText removes extra whitespace from text.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "\t", " ")

	for strings.Contains(text, "  ") {
		text = strings.ReplaceAll(text, "  ", " ")
	}
	return strings.TrimSpace(text)
}
