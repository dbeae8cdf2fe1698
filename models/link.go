package models

import "sort"

// LinkSet is an unordered set of links taken from href attributes
type LinkSet map[string]struct{}

// NewLinkSet creates a set holding the given links, collapsing duplicates
func NewLinkSet(links ...string) LinkSet {
	s := make(LinkSet, len(links))
	for _, link := range links {
		s[link] = struct{}{}
	}
	return s
}

// Add inserts a link into the set
func (s LinkSet) Add(link string) {
	s[link] = struct{}{}
}

// Has reports whether the link is in the set
func (s LinkSet) Has(link string) bool {
	_, ok := s[link]
	return ok
}

// Len returns the number of links in the set
func (s LinkSet) Len() int {
	return len(s)
}

// Equal reports whether both sets hold exactly the same links
func (s LinkSet) Equal(other LinkSet) bool {
	if len(s) != len(other) {
		return false
	}
	for link := range s {
		if !other.Has(link) {
			return false
		}
	}
	return true
}

// Difference returns the links present in s but absent from other, sorted
func (s LinkSet) Difference(other LinkSet) []string {
	var added []string
	for link := range s {
		if !other.Has(link) {
			added = append(added, link)
		}
	}
	sort.Strings(added)
	return added
}

// Sorted returns the links in lexicographic order
func (s LinkSet) Sorted() []string {
	links := make([]string, 0, len(s))
	for link := range s {
		links = append(links, link)
	}
	sort.Strings(links)
	return links
}
