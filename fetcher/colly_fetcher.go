package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/rs/zerolog"
)

// CollyFetcher implements the Fetcher interface using colly
type CollyFetcher struct {
	userAgent string
	timeout   time.Duration
	log       zerolog.Logger
}

// NewCollyFetcher creates a new CollyFetcher instance
func NewCollyFetcher(userAgent string, timeout time.Duration, log zerolog.Logger) *CollyFetcher {
	return &CollyFetcher{
		userAgent: userAgent,
		timeout:   timeout,
		log:       log,
	}
}

// Fetch implements the Fetcher interface. Every call uses a fresh collector so
// that the same URL can be visited on every run.
func (cf *CollyFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	opts := []colly.CollectorOption{
		colly.StdlibContext(ctx),
		colly.ParseHTTPErrorResponse(),
		colly.MaxBodySize(0),
	}
	if cf.userAgent != "" {
		opts = append(opts, colly.UserAgent(cf.userAgent))
	}
	c := colly.NewCollector(opts...)
	c.SetRequestTimeout(cf.timeout)

	var (
		body   []byte
		status int
	)
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})

	if err := c.Visit(url); err != nil {
		return nil, fmt.Errorf("failed to visit URL: %w", err)
	}
	c.Wait()

	if status == 0 {
		return nil, fmt.Errorf("failed to visit URL: no response received from %s", url)
	}
	if status >= http.StatusBadRequest {
		return nil, &StatusError{URL: url, StatusCode: status}
	}
	cf.log.Info().Msgf("HTTP STATUS CODE: %d", status)

	return body, nil
}
