package finance

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureFetcher serves canned pages keyed by URL suffix; unknown URLs
// behave like a failed fetch and return empty content.
type fixtureFetcher struct {
	pages map[string]string
}

func (f *fixtureFetcher) Fetch(_ context.Context, url string) string {
	for suffix, html := range f.pages {
		if strings.HasSuffix(url, suffix) {
			return html
		}
	}
	return ""
}

func TestRecordMergesAllFourFetches(t *testing.T) {
	svc := NewService(&fixtureFetcher{pages: map[string]string{
		"/quote/D05.SI":               overviewFixture,
		"/quote/D05.SI/history":       priceFixture,
		"/quote/D05.SI/financials":    incomeFixture,
		"/quote/D05.SI/balance-sheet": balanceFixture,
	}})

	record, err := svc.Record(context.Background(), "D05.SI")
	require.NoError(t, err)

	assert.Equal(t, "Financial Services", record.Overview.Sector)
	assert.Equal(t, "SGD", record.Overview.ExchangeCurrency)
	assert.Equal(t, 10.50, record.Close)
	assert.Equal(t, "USD", record.Financials.Currency)
	require.Len(t, record.Financials.Rows, 3)
	require.Len(t, record.BalanceSheet.Rows, 2)

	// Income series 800k -> 900k -> 1000k, oldest first. The fitted growth
	// for three equally spaced log points is (last/first)^(1/2)-1.
	require.NotNil(t, record.Growth)
	assert.InDelta(t, 0.1180, record.Growth.GrowthRate, 1e-3)
	assert.Greater(t, record.Growth.AverageValue, 0.0)
}

func TestRecordToleratesPartialFailure(t *testing.T) {
	// Only the overview page renders; every other fetch comes back empty.
	svc := NewService(&fixtureFetcher{pages: map[string]string{
		"/quote/D05.SI": overviewFixture,
	}})

	record, err := svc.Record(context.Background(), "D05.SI")
	require.NoError(t, err)

	assert.Equal(t, "Financial Services", record.Overview.Sector)
	assert.Equal(t, PriceNoData, record.Close)
	assert.Empty(t, record.Financials.Rows)
	assert.Empty(t, record.BalanceSheet.Rows)
	assert.Nil(t, record.Growth)
}

func TestRecordAllFetchesEmpty(t *testing.T) {
	svc := NewService(&fixtureFetcher{})

	record, err := svc.Record(context.Background(), "D05.SI")
	require.NoError(t, err)
	assert.Equal(t, Overview{}, record.Overview)
	assert.Equal(t, PriceNoData, record.Close)
}
