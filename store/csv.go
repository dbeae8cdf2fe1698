package store

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"link-notifier/models"

	"github.com/rs/zerolog"
)

// CSVStore keeps the snapshot as a single comma-separated record in a file
type CSVStore struct {
	path string
	log  zerolog.Logger
}

// NewCSVStore creates a CSVStore backed by path
func NewCSVStore(path string, log zerolog.Logger) *CSVStore {
	return &CSVStore{path: path, log: log}
}

// Read returns the links of the first line. Later lines are ignored, and a
// blank first line is an empty snapshot.
func (s *CSVStore) Read(ctx context.Context) (models.LinkSet, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.Info().Msg("No previous links file found. Creating new one.")
			return models.NewLinkSet(), nil
		}
		return nil, fmt.Errorf("failed to open links file: %w", err)
	}

	// encoding/csv skips blank lines, which would promote the second line
	if bytes.HasPrefix(data, []byte("\n")) || bytes.HasPrefix(data, []byte("\r\n")) {
		return models.NewLinkSet(), nil
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	record, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return models.NewLinkSet(), nil
		}
		return nil, fmt.Errorf("failed to read links file: %w", err)
	}

	return models.NewLinkSet(record...), nil
}

// Write truncates the file and writes links as one record
func (s *CSVStore) Write(ctx context.Context, links models.LinkSet) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to write csv file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(links.Sorted()); err != nil {
		f.Close()
		return fmt.Errorf("failed to write csv file: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write csv file: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write csv file: %w", err)
	}
	return nil
}

// Close implements Store; the file is only open while reading or writing
func (s *CSVStore) Close() error {
	return nil
}
