package finance

import (
	"regexp"
	"strings"

	"finscraper/dom"
	"finscraper/numeric"

	"github.com/PuerkitoBio/goquery"
	"github.com/phuslu/log"
)

// Row labels used as anchors on the financial statement pages. Matches must
// be exact; the pages reuse fragments of these strings elsewhere.
const (
	incomeLabel      = "Diluted NI available to com stockholders"
	sharesLabel      = "Diluted average shares"
	assetsLabel      = "Total assets"
	liabilitiesLabel = "Total liabilities net minority interest"
	bookValueLabel   = "Tangible book value"
)

var currencyPattern = regexp.MustCompile(`Currency in (.+)`)

// ExtractIncomeStatement reads the diluted income and share-count rows from a
// financials page, zipped positionally against the period headers. A cell
// that fails conversion stores nil for that field only; the row survives.
func ExtractIncomeStatement(doc *dom.Document, id string) IncomeStatement {
	var out IncomeStatement

	headers := statementHeaders(doc, id)
	if headers == nil {
		return out
	}

	income := statementValues(doc, id, incomeLabel)
	shares := statementValues(doc, id, sharesLabel)
	if income == nil || shares == nil {
		return out
	}

	for i, h := range headers {
		row := IncomeRow{Period: h}
		if i < len(income) {
			row.Income = parseThousands(income[i], id, incomeLabel)
		}
		if i < len(shares) {
			row.Shares = parseThousands(shares[i], id, sharesLabel)
		}
		out.Rows = append(out.Rows, row)
	}

	out.Currency = statementCurrency(doc, id)
	return out
}

// ExtractBalanceSheet reads total assets, total liabilities and tangible book
// value rows from a balance sheet page, with the same positional-zip shape as
// the income statement.
func ExtractBalanceSheet(doc *dom.Document, id string) BalanceSheet {
	var out BalanceSheet

	headers := statementHeaders(doc, id)
	if headers == nil {
		return out
	}

	assets := statementValues(doc, id, assetsLabel)
	liabilities := statementValues(doc, id, liabilitiesLabel)
	bookValue := statementValues(doc, id, bookValueLabel)
	if assets == nil || liabilities == nil || bookValue == nil {
		return out
	}

	for i, h := range headers {
		row := BalanceRow{Period: h}
		if i < len(assets) {
			row.Assets = parseThousands(assets[i], id, assetsLabel)
		}
		if i < len(liabilities) {
			row.Liabilities = parseThousands(liabilities[i], id, liabilitiesLabel)
		}
		if i < len(bookValue) {
			row.BookValue = parseThousands(bookValue[i], id, bookValueLabel)
		}
		out.Rows = append(out.Rows, row)
	}

	return out
}

// statementHeaders returns the period labels from the fixed table header
// container, dropping the first cell (the row-label column). Returns nil when
// the container is missing or too short to be a real header.
func statementHeaders(doc *dom.Document, id string) []string {
	container := doc.Find("div.tableHeader").First()
	if container.Length() == 0 {
		log.Error().Str("id", id).Msg("no table header container found in statement page")
		return nil
	}

	var headers []string
	container.Find("div").First().Find("div").Each(func(_ int, s *goquery.Selection) {
		headers = append(headers, dom.TextOf(s))
	})
	if len(headers) < 2 {
		log.Error().Str("id", id).Int("count", len(headers)).Msg("not enough headers found in statement page")
		return nil
	}
	return headers[1:]
}

// statementValues locates the row labelled label and returns the text of its
// next siblings, which align positionally with the period headers. Returns
// nil when the anchor is missing or the row is implausibly short.
func statementValues(doc *dom.Document, id, label string) []string {
	anchor := doc.FindByExactText(label)
	if anchor == nil {
		log.Error().Str("id", id).Str("label", label).Msg("row label not found in statement page")
		return nil
	}

	siblings := dom.Siblings(anchor.Parent(), dom.Next)
	if len(siblings) < 2 {
		log.Error().Str("id", id).Str("label", label).Msg("not enough data cells found in statement row")
		return nil
	}

	values := make([]string, len(siblings))
	for i, s := range siblings {
		values[i] = dom.TextOf(s)
	}
	return values
}

// parseThousands converts a statement cell to absolute units (the source
// reports values in thousands). Empty or unparsable cells yield nil.
func parseThousands(text, id, label string) *int64 {
	if text == "" {
		return nil
	}
	v, err := numeric.ParsePlain(text)
	if err != nil {
		log.Error().Err(err).Str("id", id).Str("label", label).Msg("error converting statement cell to float")
		return nil
	}
	n := int64(v * 1000)
	return &n
}

func statementCurrency(doc *dom.Document, id string) string {
	span := doc.FindByTextMatch("span", currencyPattern)
	if span == nil {
		log.Error().Str("id", id).Msg("no currency information found in statement page")
		return ""
	}
	m := currencyPattern.FindStringSubmatch(dom.TextOf(span))
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}
