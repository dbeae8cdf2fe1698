package filter

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Filter drops links matching any of the configured exclude patterns
type Filter struct {
	patterns []string
	globs    []glob.Glob
}

// NewFilter compiles the exclude patterns. '*' does not cross '/'; use '**' for that.
func NewFilter(patterns []string) (*Filter, error) {
	f := &Filter{patterns: patterns}
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		f.globs = append(f.globs, g)
	}
	return f, nil
}

// ApplyFilters returns the links that match none of the exclude patterns, in order
func (f *Filter) ApplyFilters(links []string) []string {
	if len(f.globs) == 0 {
		return links
	}

	var filtered []string
	for _, link := range links {
		if !f.excluded(link) {
			filtered = append(filtered, link)
		}
	}
	return filtered
}

func (f *Filter) excluded(link string) bool {
	for _, g := range f.globs {
		if g.Match(link) {
			return true
		}
	}
	return false
}
