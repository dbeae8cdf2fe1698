package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFilters(t *testing.T) {
	links := []string{
		"/news/1",
		"/news/2.pdf",
		"https://ads.example.com/banner",
		"https://ads.example.com/deep/banner",
		"/about",
	}

	tests := []struct {
		name     string
		patterns []string
		expected []string
	}{
		{"no patterns keeps everything", nil, links},
		{"extension", []string{"*.pdf", "/news/*.pdf"}, []string{"/news/1", "https://ads.example.com/banner", "https://ads.example.com/deep/banner", "/about"}},
		{"single segment star", []string{"https://ads.example.com/*"}, []string{"/news/1", "/news/2.pdf", "https://ads.example.com/deep/banner", "/about"}},
		{"super star", []string{"https://ads.example.com/**"}, []string{"/news/1", "/news/2.pdf", "/about"}},
		{"alternatives", []string{"{/about,/news/1}"}, []string{"/news/2.pdf", "https://ads.example.com/banner", "https://ads.example.com/deep/banner"}},
		{"everything", []string{"**"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFilter(tt.patterns)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f.ApplyFilters(links))
		})
	}
}

func TestNewFilterInvalidPattern(t *testing.T) {
	_, err := NewFilter([]string{"[unclosed"})
	assert.Error(t, err)
}
