// Package runner performs one fetch, diff, persist and notify pass over the watched page.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"link-notifier/fetcher"
	"link-notifier/models"
	"link-notifier/notifier"

	"github.com/rs/zerolog"
)

// Fatal phases of a run. Errors returned by Run wrap exactly one of them.
var (
	ErrFetch         = errors.New("fetch failed")
	ErrExtract       = errors.New("link extraction failed")
	ErrReadSnapshot  = errors.New("reading previous links failed")
	ErrWriteSnapshot = errors.New("writing links failed")
)

// LinkExtractor turns a fetched page into the sequence of marked hrefs
type LinkExtractor interface {
	ExtractLinks(html []byte) ([]string, error)
}

// SnapshotStore holds the links seen by the previous run
type SnapshotStore interface {
	Read(ctx context.Context) (models.LinkSet, error)
	Write(ctx context.Context, links models.LinkSet) error
}

// LinkFilter drops links that should never be reported
type LinkFilter interface {
	ApplyFilters(links []string) []string
}

// Reporter records new links somewhere besides the push notification
type Reporter interface {
	AppendLinks(ctx context.Context, links []string, sourceURL string, at time.Time) error
}

// Runner wires the components of a run together
type Runner struct {
	URL       string
	Fetcher   fetcher.Fetcher
	Extractor LinkExtractor
	Store     SnapshotStore
	Notifier  notifier.Notifier
	Filter    LinkFilter // optional
	Reporter  Reporter   // optional
	Log       zerolog.Logger

	now func() time.Time
}

// Result describes what a run did
type Result struct {
	Extracted int
	NewLinks  []string
	Written   bool
	Delivered int
}

// Run executes one pass. A returned error is fatal for the run; notification
// failures are logged by the notifier and only reflected in Result.Delivered.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	r.Log.Info().Msg("START")

	html, err := r.Fetcher.Fetch(ctx, r.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: error fetching URL %s: %w", ErrFetch, r.URL, err)
	}

	extracted, err := r.Extractor.ExtractLinks(html)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtract, err)
	}

	current := r.currentLinks(extracted)
	result := &Result{Extracted: current.Len()}

	previous, err := r.Store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadSnapshot, err)
	}

	if current.Equal(previous) {
		r.Log.Info().Msg("No new links found.")
		return result, nil
	}

	if err := r.Store.Write(ctx, current); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteSnapshot, err)
	}
	result.Written = true

	result.NewLinks = current.Difference(previous)
	for _, link := range result.NewLinks {
		if r.Notifier.Send(ctx, link) {
			result.Delivered++
		}
	}
	r.Log.Info().
		Int("new", len(result.NewLinks)).
		Int("delivered", result.Delivered).
		Msg("New links found and notified.")

	r.report(ctx, result.NewLinks)

	return result, nil
}

// currentLinks collapses the extracted entries into a set. Entries of elements
// without an href are empty and are not links.
func (r *Runner) currentLinks(extracted []string) models.LinkSet {
	if r.Filter != nil {
		extracted = r.Filter.ApplyFilters(extracted)
	}

	current := models.NewLinkSet()
	for _, link := range extracted {
		if link == "" {
			continue
		}
		current.Add(link)
	}
	return current
}

func (r *Runner) report(ctx context.Context, links []string) {
	if r.Reporter == nil || len(links) == 0 {
		return
	}
	now := time.Now
	if r.now != nil {
		now = r.now
	}
	if err := r.Reporter.AppendLinks(ctx, links, r.URL, now()); err != nil {
		r.Log.Warn().Err(err).Msg("Failed to report new links")
	}
}
