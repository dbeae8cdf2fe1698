package fetcher

import (
	"context"
	"fmt"

	"link-notifier/config"

	"github.com/rs/zerolog"
)

// Fetcher defines the contract for downloading the watched page
type Fetcher interface {
	// Fetch performs one GET against url and returns the raw response body
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// StatusError is returned when the server answers with an HTTP error status
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: HTTP status %d", e.URL, e.StatusCode)
}

// New creates the Fetcher selected by cfg.Driver
func New(cfg config.FetcherConfig, log zerolog.Logger) (Fetcher, error) {
	switch cfg.Driver {
	case "", "http":
		return NewHTTPFetcher(cfg.Timeout, log), nil
	case "colly":
		return NewCollyFetcher(cfg.UserAgent, cfg.Timeout, log), nil
	case "rod":
		return NewRodFetcher(cfg.Timeout, log), nil
	default:
		return nil, fmt.Errorf("unknown fetcher driver %q", cfg.Driver)
	}
}
