package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"
)

// stableWindow is how long the DOM must stay unchanged before the HTML is read
const stableWindow = 500 * time.Millisecond

// RodFetcher implements the Fetcher interface using rod (headless browser).
// It is meant for pages whose marked links are rendered by JavaScript.
type RodFetcher struct {
	timeout time.Duration
	log     zerolog.Logger
}

// NewRodFetcher creates a new RodFetcher instance
func NewRodFetcher(timeout time.Duration, log zerolog.Logger) *RodFetcher {
	return &RodFetcher{
		timeout: timeout,
		log:     log,
	}
}

// browserPaths lists the system Chrome/Chromium binaries tried before rod
// downloads its own build
var browserPaths = []string{
	"/usr/bin/google-chrome",
	"/usr/bin/google-chrome-stable",
	"/usr/bin/chromium",
	"/usr/bin/chromium-browser",
	"/snap/bin/chromium",
}

// systemBrowser returns the first installed browser from browserPaths
func systemBrowser() (string, bool) {
	for _, path := range browserPaths {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// Fetch implements the Fetcher interface. The browser lives only for the
// duration of the call.
func (rf *RodFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if rf.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rf.timeout)
		defer cancel()
	}

	l := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(true).
		Leakless(false).
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-first-run").
		Set("no-default-browser-check").
		Set("mute-audio")
	if path, ok := systemBrowser(); ok {
		l = l.Bin(path)
	}
	defer l.Cleanup()

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().Context(ctx).ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			rf.log.Warn().Err(err).Msg("Failed to close browser")
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer page.Close()

	// The first document response is the one for url; redirects are not
	// reported as responses.
	status := 0
	waitResponse := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument || e.Response == nil {
			return false
		}
		status = e.Response.Status
		return true
	})

	if err := page.Navigate(url); err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	waitResponse()

	if status == 0 {
		return nil, fmt.Errorf("failed to open page: no response received from %s", url)
	}
	if status >= http.StatusBadRequest {
		return nil, &StatusError{URL: url, StatusCode: status}
	}
	rf.log.Info().Msgf("HTTP STATUS CODE: %d", status)

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed to load page: %w", err)
	}
	if err := page.WaitStable(stableWindow); err != nil {
		rf.log.Warn().Err(err).Msg("Page did not stabilize, continuing anyway")
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to get HTML: %w", err)
	}
	rf.log.Info().Str("url", url).Msg("Page rendered")

	return []byte(html), nil
}
