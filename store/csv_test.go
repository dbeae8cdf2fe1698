package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"link-notifier/config"
	"link-notifier/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVStoreMissingFile(t *testing.T) {
	var buf bytes.Buffer
	s := NewCSVStore(filepath.Join(t.TempDir(), "links.csv"), zerolog.New(&buf))

	links, err := s.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, links.Len())
	assert.Contains(t, buf.String(), "No previous links file found")
	assert.Contains(t, buf.String(), `"level":"info"`)
}

func TestCSVStoreRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		links models.LinkSet
	}{
		{"single", models.NewLinkSet("/a")},
		{"several", models.NewLinkSet("/a", "/b", "https://example.com/c?x=1")},
		{"quotes and spaces", models.NewLinkSet(`/say "hi"`, " /leading-space", "/日本語")},
		{"embedded comma", models.NewLinkSet("/a,b", "/c")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewCSVStore(filepath.Join(t.TempDir(), "links.csv"), zerolog.Nop())
			ctx := context.Background()

			require.NoError(t, s.Write(ctx, tt.links))
			got, err := s.Read(ctx)
			require.NoError(t, err)
			assert.True(t, tt.links.Equal(got), "got %v, want %v", got.Sorted(), tt.links.Sorted())
		})
	}
}

func TestCSVStoreWriteFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.csv")
	s := NewCSVStore(path, zerolog.Nop())

	require.NoError(t, s.Write(context.Background(), models.NewLinkSet("/b", "/a", "/c,d")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/a,/b,\"/c,d\"\n", string(data))
}

func TestCSVStoreOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.csv")
	s := NewCSVStore(path, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, models.NewLinkSet("/a", "/b", "/c")))
	require.NoError(t, s.Write(ctx, models.NewLinkSet("/d")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/d\n", string(data))
}

func TestCSVStoreReadsFirstRowOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.csv")
	require.NoError(t, os.WriteFile(path, []byte("/a,/b\n/c,/d,/e\n"), 0o644))

	got, err := NewCSVStore(path, zerolog.Nop()).Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/b"}, got.Sorted())
}

func TestCSVStoreBlankFirstLine(t *testing.T) {
	for _, data := range []string{"\n/a,/b\n", "\r\n/a,/b\r\n"} {
		path := filepath.Join(t.TempDir(), "links.csv")
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		got, err := NewCSVStore(path, zerolog.Nop()).Read(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, got.Len(), "data %q", data)
	}
}

func TestCSVStoreEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	got, err := NewCSVStore(path, zerolog.Nop()).Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestCSVStoreEmptySetRoundTrip(t *testing.T) {
	s := NewCSVStore(filepath.Join(t.TempDir(), "links.csv"), zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, models.NewLinkSet()))
	got, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestCSVStoreMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.csv")
	require.NoError(t, os.WriteFile(path, []byte("\"/a,/b\n"), 0o644))

	_, err := NewCSVStore(path, zerolog.Nop()).Read(context.Background())
	assert.Error(t, err)
}

func TestCSVStoreUnreadablePath(t *testing.T) {
	dir := t.TempDir()
	s := NewCSVStore(dir, zerolog.Nop())

	_, err := s.Read(context.Background())
	assert.Error(t, err)
}

func TestCSVStoreWriteFailure(t *testing.T) {
	s := NewCSVStore(filepath.Join(t.TempDir(), "missing", "links.csv"), zerolog.Nop())
	assert.Error(t, s.Write(context.Background(), models.NewLinkSet("/a")))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	csvStore, err := Open(ctx, configFor("csv", filepath.Join(dir, "links.csv")), zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &CSVStore{}, csvStore)

	sqliteStore, err := Open(ctx, configFor("sqlite", filepath.Join(dir, "links.db")), zerolog.Nop())
	require.NoError(t, err)
	defer sqliteStore.Close()
	require.NoError(t, sqliteStore.Write(ctx, models.NewLinkSet("/a")))

	_, err = Open(ctx, configFor("redis", ""), zerolog.Nop())
	assert.Error(t, err)
}

func configFor(driver, path string) config.StoreConfig {
	return config.StoreConfig{Driver: driver, Path: path}
}
