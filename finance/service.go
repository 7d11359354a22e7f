package finance

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"finscraper/dom"
	"finscraper/numeric"

	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"
)

const rootQuoteURL = "https://sg.finance.yahoo.com/quote"

// Fetcher obtains rendered HTML for a URL. Fetch failures surface as empty
// content, which the extractors turn into their sentinel results.
type Fetcher interface {
	Fetch(ctx context.Context, url string) string
}

// Service runs the DOM extraction pipeline for a security.
type Service struct {
	fetcher Fetcher
}

// NewService creates a Service backed by the given fetcher.
func NewService(fetcher Fetcher) *Service {
	return &Service{fetcher: fetcher}
}

func (s *Service) fetchDoc(ctx context.Context, url string) (*dom.Document, error) {
	html := s.fetcher.Fetch(ctx, url)
	doc, err := dom.Parse(html)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// Overview extracts the listing overview from the security's main page.
func (s *Service) Overview(ctx context.Context, id string) (Overview, error) {
	doc, err := s.fetchDoc(ctx, fmt.Sprintf("%s/%s", rootQuoteURL, id))
	if err != nil {
		return Overview{}, err
	}
	return ExtractOverview(doc, id), nil
}

// Price extracts the latest close from the security's history page.
func (s *Service) Price(ctx context.Context, id string) (float64, error) {
	doc, err := s.fetchDoc(ctx, fmt.Sprintf("%s/%s/history", rootQuoteURL, id))
	if err != nil {
		return PriceNoData, err
	}
	return ExtractPrice(doc, id), nil
}

// IncomeStatement extracts the income statement from the financials page.
func (s *Service) IncomeStatement(ctx context.Context, id string) (IncomeStatement, error) {
	doc, err := s.fetchDoc(ctx, fmt.Sprintf("%s/%s/financials", rootQuoteURL, id))
	if err != nil {
		return IncomeStatement{}, err
	}
	return ExtractIncomeStatement(doc, id), nil
}

// BalanceSheet extracts the balance sheet from the balance-sheet page.
func (s *Service) BalanceSheet(ctx context.Context, id string) (BalanceSheet, error) {
	doc, err := s.fetchDoc(ctx, fmt.Sprintf("%s/%s/balance-sheet", rootQuoteURL, id))
	if err != nil {
		return BalanceSheet{}, err
	}
	return ExtractBalanceSheet(doc, id), nil
}

// Record runs the four extractions concurrently, each over its own fetch, and
// merges the results. Per-field failures are tolerated; the join waits for
// all four before assembling the record.
func (s *Service) Record(ctx context.Context, id string) (Record, error) {
	record := Record{Close: PriceNoData}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		overview, err := s.Overview(gctx, id)
		if err != nil {
			log.Error().Err(err).Str("id", id).Msg("overview extraction failed")
			return nil // non-fatal
		}
		mu.Lock()
		record.Overview = overview
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		price, err := s.Price(gctx, id)
		if err != nil {
			log.Error().Err(err).Str("id", id).Msg("price extraction failed")
			return nil
		}
		mu.Lock()
		record.Close = price
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		statement, err := s.IncomeStatement(gctx, id)
		if err != nil {
			log.Error().Err(err).Str("id", id).Msg("income statement extraction failed")
			return nil
		}
		mu.Lock()
		record.Financials = statement
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		balance, err := s.BalanceSheet(gctx, id)
		if err != nil {
			log.Error().Err(err).Str("id", id).Msg("balance sheet extraction failed")
			return nil
		}
		mu.Lock()
		record.BalanceSheet = balance
		mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		return record, err
	}

	record.Growth = incomeGrowth(record.Financials, id)
	return record, nil
}

// incomeGrowth fits a trend over the income series, oldest period first.
// Insufficient data is expected for thin statements and leaves Growth unset.
func incomeGrowth(statement IncomeStatement, id string) *numeric.Estimate {
	var series []float64
	for i := len(statement.Rows) - 1; i >= 0; i-- {
		if v := statement.Rows[i].Income; v != nil {
			series = append(series, float64(*v))
		}
	}

	estimate, err := numeric.Forecast(series)
	if err != nil {
		if errors.Is(err, numeric.ErrInsufficientData) {
			log.Debug().Str("id", id).Int("points", len(series)).Msg("not enough income periods for a growth estimate")
		}
		return nil
	}
	return &estimate
}
