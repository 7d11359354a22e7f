// Package finance extracts structured financial metrics for a security from
// rendered quote pages. The markup carries no stable selectors, so every
// extractor anchors on label text and reads values from adjacent nodes.
package finance

import "finscraper/numeric"

// Price sentinels. NoData means the page had no usable table at all;
// PriceInvalid means a row was present but its close cell would not parse.
const (
	PriceNoData  float64 = -1
	PriceInvalid float64 = 0
)

// Overview describes a security's listing. Fields are left empty when their
// anchor cannot be found; partial success never aborts the record.
type Overview struct {
	Sector           string `json:"sector"`
	ExchangeCurrency string `json:"exchange_currency"`
	Name             string `json:"name"`
}

// IncomeRow is one reporting period of the income statement. Values are in
// absolute units (the source reports thousands). A nil field means the cell
// was present but unparsable; the row is still kept.
type IncomeRow struct {
	Period string `json:"period"`
	Income *int64 `json:"income"`
	Shares *int64 `json:"shares"`
}

// IncomeStatement is the extracted income statement. Currency is the
// statement's own reporting currency, which may differ from the trading
// currency in Overview.
type IncomeStatement struct {
	Currency string      `json:"currency"`
	Rows     []IncomeRow `json:"rows"`
}

// BalanceRow is one reporting period of the balance sheet.
type BalanceRow struct {
	Period      string `json:"period"`
	Assets      *int64 `json:"assets"`
	Liabilities *int64 `json:"liabilities"`
	BookValue   *int64 `json:"book_value"`
}

// BalanceSheet is the extracted balance sheet.
type BalanceSheet struct {
	Rows []BalanceRow `json:"rows"`
}

// Record merges the four per-security extractions. Growth is fitted over the
// income series and is nil when fewer than two periods parsed.
type Record struct {
	Overview     Overview          `json:"overview"`
	Close        float64           `json:"close"`
	Financials   IncomeStatement   `json:"financials"`
	BalanceSheet BalanceSheet      `json:"balance_sheet"`
	Growth       *numeric.Estimate `json:"growth,omitempty"`
}
