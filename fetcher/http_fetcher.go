package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// HTTPFetcher implements the Fetcher interface with a plain net/http GET
type HTTPFetcher struct {
	client *http.Client
	log    zerolog.Logger
}

// NewHTTPFetcher creates a new HTTPFetcher. A zero timeout means no timeout.
func NewHTTPFetcher(timeout time.Duration, log zerolog.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Fetch implements the Fetcher interface
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	f.log.Info().Msgf("HTTP STATUS CODE: %d", resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
