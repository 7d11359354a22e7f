package finance

import (
	"strings"

	"finscraper/dom"
	"finscraper/numeric"

	"github.com/PuerkitoBio/goquery"
	"github.com/phuslu/log"
)

// ExtractPrice reads the most recent close from the first table of a price
// history page. The close column is resolved by case-insensitive substring
// match over the header cells, first match wins. Missing table, header row,
// close column or data row each yield PriceNoData; a row whose close cell
// will not parse yields PriceInvalid.
func ExtractPrice(doc *dom.Document, id string) float64 {
	tables := doc.Find("table")
	if tables.Length() == 0 {
		log.Error().Str("id", id).Msg("no table found in price page")
		return PriceNoData
	}
	if tables.Length() > 1 {
		log.Warn().Str("id", id).Int("count", tables.Length()).Msg("multiple tables found, using the first one")
	}
	table := tables.First()

	headerRow := table.Find("thead tr").First()
	if headerRow.Length() == 0 {
		log.Error().Str("id", id).Msg("no header row found in price table")
		return PriceNoData
	}

	closeIndex := -1
	headerRow.Find("th").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(dom.TextOf(s)), "close") {
			closeIndex = i
			return false
		}
		return true
	})
	if closeIndex < 0 {
		log.Error().Str("id", id).Msg("close price not found in table headers")
		return PriceNoData
	}

	firstRow := table.Find("tbody tr").First()
	if firstRow.Length() == 0 {
		log.Error().Str("id", id).Msg("no data rows found in price table")
		return PriceNoData
	}

	cells := firstRow.Find("td")
	if closeIndex >= cells.Length() {
		log.Error().Str("id", id).Int("index", closeIndex).Msg("data row shorter than header row")
		return PriceNoData
	}

	price, err := numeric.ParsePlain(dom.TextOf(cells.Eq(closeIndex)))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("error converting close price to float")
		return PriceInvalid
	}
	return price
}
