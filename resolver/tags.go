package resolver

import (
	"fmt"
	"strings"
)

// ParseTagSlugs splits a tag path segment on "+" into an ordered list of tag
// slugs: "python+django" names posts carrying both tags. Order is preserved
// for display; matching treats the set as unordered. Empty components and
// slugs with characters outside the slug alphabet are rejected.
func ParseTagSlugs(segment string) ([]string, error) {
	if segment == "" {
		return nil, fmt.Errorf("empty tag segment")
	}
	parts := strings.Split(segment, "+")
	slugs := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, part := range parts {
		if !validSlug(part) {
			return nil, fmt.Errorf("invalid tag slug %q", part)
		}
		if seen[part] {
			continue
		}
		seen[part] = true
		slugs = append(slugs, part)
	}
	return slugs, nil
}

// validSlug reports whether s is a non-empty run of word characters or
// hyphens, the slug alphabet shared by posts, pages, categories, tags and
// author usernames.
func validSlug(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '-':
		default:
			return false
		}
	}
	return true
}
