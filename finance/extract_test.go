package finance

import (
	"testing"

	"finscraper/dom"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const overviewFixture = `
<html><body>
  <h1>DBS Group Holdings Ltd (D05.SI)</h1>
  <div class="quoteInfo"><span>Sector</span><span>Financial Services</span></div>
  <span class="exchange"><span>SGX</span><span>-</span><span>SGD</span></span>
</body></html>`

const overviewNoCurrencyFixture = `
<html><body>
  <h1>DBS Group Holdings Ltd (D05.SI)</h1>
  <div class="quoteInfo"><span>Sector</span><span>Financial Services</span></div>
</body></html>`

const priceFixture = `
<html><body>
  <table>
    <thead><tr><th>Date</th><th>Open</th><th>Close</th><th>Volume</th></tr></thead>
    <tbody>
      <tr><td>2024-01-01</td><td>10</td><td>10.50</td><td>1000</td></tr>
      <tr><td>2023-12-29</td><td>9</td><td>10.00</td><td>900</td></tr>
    </tbody>
  </table>
</body></html>`

const priceNoCloseFixture = `
<html><body>
  <table>
    <thead><tr><th>Date</th><th>Open</th><th>Volume</th></tr></thead>
    <tbody><tr><td>2024-01-01</td><td>10</td><td>1000</td></tr></tbody>
  </table>
</body></html>`

const priceBadCellFixture = `
<html><body>
  <table>
    <thead><tr><th>Date</th><th>Close</th></tr></thead>
    <tbody><tr><td>2024-01-01</td><td>n/a</td></tr></tbody>
  </table>
</body></html>`

const incomeFixture = `
<html><body>
  <span>Currency in USD</span>
  <div class="tableHeader">
    <div><div>Breakdown</div><div>2024</div><div>2023</div><div>2022</div></div>
  </div>
  <div class="tableBody">
    <div class="row">
      <div><div>Diluted NI available to com stockholders</div></div>
      <div>1,000</div><div>900</div><div>800</div>
    </div>
    <div class="row">
      <div><div>Diluted average shares</div></div>
      <div>50</div><div>—</div><div>45</div>
    </div>
  </div>
</body></html>`

const balanceFixture = `
<html><body>
  <div class="tableHeader">
    <div><div>Breakdown</div><div>2024</div><div>2023</div></div>
  </div>
  <div class="tableBody">
    <div class="row">
      <div><div>Total assets</div></div>
      <div>5,000</div><div>4,500</div>
    </div>
    <div class="row">
      <div><div>Total liabilities net minority interest</div></div>
      <div>—</div><div>2,900</div>
    </div>
    <div class="row">
      <div><div>Tangible book value</div></div>
      <div>1,800</div><div>1,600</div>
    </div>
  </div>
</body></html>`

func parseFixture(t *testing.T, html string) *dom.Document {
	t.Helper()
	doc, err := dom.Parse(html)
	require.NoError(t, err)
	return doc
}

func TestExtractOverview(t *testing.T) {
	overview := ExtractOverview(parseFixture(t, overviewFixture), "D05.SI")

	assert.Equal(t, "Financial Services", overview.Sector)
	assert.Equal(t, "SGD", overview.ExchangeCurrency)
	assert.Equal(t, "DBS Group Holdings Ltd", overview.Name)
}

func TestExtractOverviewMissingCurrencyContainer(t *testing.T) {
	// Partial success: the missing container empties that field only.
	overview := ExtractOverview(parseFixture(t, overviewNoCurrencyFixture), "D05.SI")

	assert.Equal(t, "Financial Services", overview.Sector)
	assert.Equal(t, "", overview.ExchangeCurrency)
	assert.Equal(t, "DBS Group Holdings Ltd", overview.Name)
}

func TestExtractOverviewEmptyPage(t *testing.T) {
	overview := ExtractOverview(parseFixture(t, "<html><body></body></html>"), "D05.SI")
	assert.Equal(t, Overview{}, overview)
}

func TestExtractPrice(t *testing.T) {
	assert.Equal(t, 10.50, ExtractPrice(parseFixture(t, priceFixture), "D05.SI"))
}

func TestExtractPriceNoTable(t *testing.T) {
	assert.Equal(t, PriceNoData, ExtractPrice(parseFixture(t, "<html><body></body></html>"), "D05.SI"))
}

func TestExtractPriceNoCloseColumn(t *testing.T) {
	assert.Equal(t, PriceNoData, ExtractPrice(parseFixture(t, priceNoCloseFixture), "D05.SI"))
}

func TestExtractPriceUnparsableCell(t *testing.T) {
	// Row present but invalid is a distinct state from no data at all.
	assert.Equal(t, PriceInvalid, ExtractPrice(parseFixture(t, priceBadCellFixture), "D05.SI"))
}

func TestExtractIncomeStatement(t *testing.T) {
	statement := ExtractIncomeStatement(parseFixture(t, incomeFixture), "D05.SI")

	assert.Equal(t, "USD", statement.Currency)
	require.Len(t, statement.Rows, 3)

	assert.Equal(t, "2024", statement.Rows[0].Period)
	require.NotNil(t, statement.Rows[0].Income)
	assert.Equal(t, int64(1_000_000), *statement.Rows[0].Income)
	require.NotNil(t, statement.Rows[0].Shares)
	assert.Equal(t, int64(50_000), *statement.Rows[0].Shares)

	// The em-dash share cell nils that field only; income survives.
	assert.Equal(t, "2023", statement.Rows[1].Period)
	require.NotNil(t, statement.Rows[1].Income)
	assert.Equal(t, int64(900_000), *statement.Rows[1].Income)
	assert.Nil(t, statement.Rows[1].Shares)

	require.NotNil(t, statement.Rows[2].Income)
	assert.Equal(t, int64(800_000), *statement.Rows[2].Income)
}

func TestExtractIncomeStatementMissingAnchor(t *testing.T) {
	statement := ExtractIncomeStatement(parseFixture(t, "<html><body></body></html>"), "D05.SI")
	assert.Empty(t, statement.Rows)
	assert.Equal(t, "", statement.Currency)
}

func TestExtractBalanceSheet(t *testing.T) {
	balance := ExtractBalanceSheet(parseFixture(t, balanceFixture), "D05.SI")

	require.Len(t, balance.Rows, 2)

	assert.Equal(t, "2024", balance.Rows[0].Period)
	require.NotNil(t, balance.Rows[0].Assets)
	assert.Equal(t, int64(5_000_000), *balance.Rows[0].Assets)
	assert.Nil(t, balance.Rows[0].Liabilities)
	require.NotNil(t, balance.Rows[0].BookValue)
	assert.Equal(t, int64(1_800_000), *balance.Rows[0].BookValue)

	assert.Equal(t, "2023", balance.Rows[1].Period)
	require.NotNil(t, balance.Rows[1].Liabilities)
	assert.Equal(t, int64(2_900_000), *balance.Rows[1].Liabilities)
}
