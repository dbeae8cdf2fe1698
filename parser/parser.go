package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// LinkExtractor extracts href values from elements carrying a CSS class
type LinkExtractor struct {
	classMarker string
	matcher     cascadia.Selector
}

// NewLinkExtractor creates a LinkExtractor for the given class marker
func NewLinkExtractor(classMarker string) (*LinkExtractor, error) {
	classMarker = strings.TrimSpace(classMarker)
	if classMarker == "" {
		return nil, fmt.Errorf("class marker is empty")
	}
	if strings.ContainsAny(classMarker, " \t\n") {
		return nil, fmt.Errorf("class marker %q must be a single class name", classMarker)
	}

	sel, err := cascadia.Compile("." + cssEscape(classMarker))
	if err != nil {
		return nil, fmt.Errorf("failed to compile selector for class %q: %w", classMarker, err)
	}

	return &LinkExtractor{
		classMarker: classMarker,
		matcher:     sel,
	}, nil
}

// ClassMarker returns the class the extractor selects on
func (e *LinkExtractor) ClassMarker() string {
	return e.classMarker
}

// ExtractLinks returns one entry per element carrying the class marker, in
// document order. Elements without an href attribute yield an empty entry.
func (e *LinkExtractor) ExtractLinks(html []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	sel := doc.FindMatcher(e.matcher)
	links := make([]string, 0, sel.Length())
	sel.Each(func(i int, s *goquery.Selection) {
		links = append(links, s.AttrOr("href", ""))
	})

	return links, nil
}

// cssEscape escapes characters that would otherwise end a class selector
func cssEscape(ident string) string {
	var b strings.Builder
	for i, r := range ident {
		switch {
		case r == '-' || r == '_' || r >= 0x80:
			b.WriteRune(r)
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				fmt.Fprintf(&b, "\\%x ", r)
			} else {
				b.WriteRune(r)
			}
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}
