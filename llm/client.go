// Package llm wraps the Anthropic API behind the retry contract the fallback
// extractor relies on: throttling errors are retried with linear backoff, any
// other failure degrades to an empty answer.
package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/phuslu/log"
)

const (
	retryLimit = 10
	retryDelay = 2 * time.Second
)

// Config describes the model and credentials to use.
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int64
	Temperature float64
}

// Client is an injected dependency rather than a package singleton, so the
// retry policy is testable against a fake provider.
type Client struct {
	cfg Config
	api anthropic.Client

	complete func(ctx context.Context, userMsg, systemMsg string) (string, error)
	sleep    func(time.Duration)
}

// New creates a client for the configured model.
func New(cfg Config) *Client {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}

	c := &Client{
		cfg:   cfg,
		api:   anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		sleep: time.Sleep,
	}
	c.complete = c.anthropicComplete
	return c
}

// Invoke sends a user message (and optional system message) to the model and
// returns the generated text. Throttling errors are retried up to retryLimit
// times, sleeping retryDelay × attempt between tries; any other error, or
// exhaustion of the retries, yields an empty string. Callers always interpret
// an empty string as "no answer".
func (c *Client) Invoke(ctx context.Context, userMsg, systemMsg string) string {
	for i := 0; i < retryLimit; i++ {
		output, err := c.complete(ctx, userMsg, systemMsg)
		if err == nil {
			return output
		}
		if !isThrottled(err) {
			log.Error().Err(err).Msg("fatal error from model provider")
			return ""
		}
		log.Warn().Err(err).Int("attempt", i+1).Msg("failed to generate output")
		c.sleep(time.Duration(i+1) * retryDelay)
	}

	log.Error().Int("retries", retryLimit).Msg("failed to generate output after retries")
	return ""
}

func (c *Client) anthropicComplete(ctx context.Context, userMsg, systemMsg string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.cfg.Model),
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: anthropic.Float(c.cfg.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	}
	if systemMsg != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemMsg}}
	}

	resp, err := c.api.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	return out.String(), nil
}

// isThrottled reports whether err is a throttling-class provider error.
func isThrottled(err error) bool {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return apierr.StatusCode == http.StatusTooManyRequests ||
			apierr.StatusCode == http.StatusServiceUnavailable
	}
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "overloaded")
}
