// Package browser drives a headless Chrome session to obtain fully rendered
// HTML. Every fetch launches an isolated browser context, so no cookies or
// session state leak between calls; call volume is low enough that paying the
// launch cost per fetch is a fair trade for that isolation.
package browser

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/phuslu/log"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"

// Client fetches rendered pages with a fixed navigation timeout.
type Client struct {
	Timeout  time.Duration
	Headless bool
}

// NewClient creates a fetcher with the given navigation timeout.
func NewClient(timeout time.Duration, headless bool) *Client {
	return &Client{Timeout: timeout, Headless: headless}
}

// Fetch navigates to url and returns the rendered HTML. Navigation failures
// (DNS, timeout) are logged and whatever content has loaded so far is still
// read; financial sites often finish their critical DOM writes well before
// the load event fires. If content retrieval itself fails, Fetch returns an
// empty string. The browser is released on every exit path.
func (c *Client) Fetch(ctx context.Context, url string) string {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", c.Headless),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(userAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()

	navCtx, navCancel := context.WithTimeout(browserCtx, c.Timeout)
	defer navCancel()

	if err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(time.Second),
	); err != nil {
		log.Error().Err(err).Str("url", url).Msg("error loading page")
	}

	// Read whatever is currently rendered, even after a navigation timeout.
	readCtx, readCancel := context.WithTimeout(browserCtx, 5*time.Second)
	defer readCancel()

	var htmlContent string
	if err := chromedp.Run(readCtx, chromedp.OuterHTML("html", &htmlContent, chromedp.ByQuery)); err != nil {
		log.Error().Err(err).Str("url", url).Msg("error retrieving page content")
		return ""
	}
	return htmlContent
}
