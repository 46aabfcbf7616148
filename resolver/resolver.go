// Package resolver maps request paths to content. Site operators configure
// free-text prefix templates per content type, so the same literal path can
// be claimed by several types; classification applies a fixed priority order
// (rss > post > archive > category > tag > author > page) and per-type
// disambiguation rules so every path has exactly one answer.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
)

// RouteConfig is the routing slice of the site configuration: which content
// types are enabled and the prefix template or literal prefix for each.
// Category, tag and author prefixes are literal reserved segments and must be
// non-empty while enabled; the post prefix may be empty and the archive
// prefix may be empty.
type RouteConfig struct {
	PostPrefix string

	ArchiveEnabled bool
	ArchivePrefix  string

	CategoryEnabled bool
	CategoryPrefix  string

	TagEnabled bool
	TagPrefix  string

	AuthorEnabled bool
	AuthorPrefix  string

	RSSEnabled bool
	RSSPath    string
}

// Rules is an immutable compiled snapshot of a RouteConfig. It is built as a
// unit on startup or reload and swapped into the Resolver atomically, so a
// request sees either the fully old or fully new rule set.
type Rules struct {
	cfg  RouteConfig
	post Pattern
}

// Config returns the RouteConfig the rules were compiled from.
func (r *Rules) Config() RouteConfig { return r.cfg }

// PostPattern returns the compiled post prefix pattern.
func (r *Rules) PostPattern() Pattern { return r.post }

// BuildRules compiles a RouteConfig into Rules. Malformed templates and
// missing mandatory prefixes are fatal. Configurations where two enabled
// prefixes can claim the same literal path are legal, the priority order
// still yields a deterministic winner, but they are reported through warn
// so the operator knows the resolution is intentional.
func BuildRules(cfg RouteConfig, warn *log.Logger) (*Rules, error) {
	post, err := Compile(cfg.PostPrefix)
	if err != nil {
		return nil, fmt.Errorf("post prefix: %w", err)
	}
	if err := checkLiteralPrefix("archive", cfg.ArchivePrefix, false); err != nil {
		return nil, err
	}
	if cfg.CategoryEnabled {
		if err := checkLiteralPrefix("category", cfg.CategoryPrefix, true); err != nil {
			return nil, err
		}
	}
	if cfg.TagEnabled {
		if err := checkLiteralPrefix("tag", cfg.TagPrefix, true); err != nil {
			return nil, err
		}
	}
	if cfg.AuthorEnabled {
		if err := checkLiteralPrefix("author", cfg.AuthorPrefix, true); err != nil {
			return nil, err
		}
	}
	if cfg.RSSEnabled && cfg.RSSPath == "" {
		return nil, errors.New("rss path must not be empty while rss is enabled")
	}

	rules := &Rules{cfg: cfg, post: post}
	if warn != nil {
		for _, msg := range rules.ambiguities() {
			warn.Printf("ambiguous configuration: %s", msg)
		}
	}
	return rules, nil
}

// checkLiteralPrefix validates a reserved-segment prefix: no placeholders,
// no slashes beyond interior separators, and non-empty where required.
func checkLiteralPrefix(name, prefix string, required bool) error {
	if prefix == "" {
		if required {
			return fmt.Errorf("%s prefix must not be empty while %s is enabled", name, name)
		}
		return nil
	}
	if strings.Contains(prefix, "{{") {
		return fmt.Errorf("%s prefix: %w: placeholders are only valid in the post prefix", name, ErrInvalidTemplate)
	}
	if strings.HasPrefix(prefix, "/") || strings.HasSuffix(prefix, "/") {
		return fmt.Errorf("%s prefix %q must not have leading or trailing slashes", name, prefix)
	}
	return nil
}

// ambiguities lists prefix combinations that can claim the same literal path.
// Advisory only: priority order always picks a deterministic winner.
func (r *Rules) ambiguities() []string {
	var msgs []string
	cfg := r.cfg

	if r.post.IsEmpty() {
		msgs = append(msgs, "post prefix is empty; a post slug and a root page slug can collide, posts win")
	}
	if cfg.ArchiveEnabled && cfg.ArchivePrefix == "" && r.post.HasDateFields() {
		msgs = append(msgs, "archive prefix is empty and the post prefix starts with date fields; date-only paths resolve as archives, dated slug paths as posts")
	}

	literals := map[string]string{}
	add := func(name, prefix string, enabled bool) {
		if !enabled || prefix == "" {
			return
		}
		if other, dup := literals[prefix]; dup {
			msgs = append(msgs, fmt.Sprintf("%s and %s share the prefix %q; %s wins by priority", other, name, prefix, other))
			return
		}
		literals[prefix] = name
	}
	add("category", cfg.CategoryPrefix, cfg.CategoryEnabled)
	add("tag", cfg.TagPrefix, cfg.TagEnabled)
	add("author", cfg.AuthorPrefix, cfg.AuthorEnabled)
	add("rss", cfg.RSSPath, cfg.RSSEnabled)
	return msgs
}

// Resolver classifies paths against an atomically swappable rule snapshot and
// a content lookup port. Resolution is a pure computation over the snapshot
// plus read-only lookups, safe for concurrent use.
type Resolver struct {
	rules  atomic.Pointer[Rules]
	lookup Lookup
}

// New creates a Resolver over the given lookup port and initial rules.
func New(lookup Lookup, rules *Rules) *Resolver {
	r := &Resolver{lookup: lookup}
	r.rules.Store(rules)
	return r
}

// Rules returns the current rule snapshot.
func (r *Resolver) Rules() *Rules { return r.rules.Load() }

// Swap atomically replaces the rule snapshot. In-flight resolutions keep the
// snapshot they started with.
func (r *Resolver) Swap(rules *Rules) { r.rules.Store(rules) }

// Resolve classifies a request path. The path is normalized (leading and
// trailing slashes stripped) before matching. A nil error with a NotFound or
// Invalid result is the normal miss outcome; a non-nil error means a lookup
// failed and the result is meaningless.
func (r *Resolver) Resolve(ctx context.Context, path string) (Result, error) {
	rules := r.rules.Load()
	path = strings.Trim(path, "/")
	if path == "" {
		return NotFound, nil
	}
	cfg := rules.cfg

	// 1. Special paths.
	if cfg.RSSEnabled && path == cfg.RSSPath {
		return Result{Kind: KindRSS}, nil
	}

	// 2. Single post. A structural match that finds no published post falls
	// through: free-text prefixes mean a post-shaped path can still be a
	// page or another index view.
	if capture, slug, ok := rules.post.Match(path); ok && validSlug(slug) {
		if date, err := ValidateDateParts(capture.Year, capture.Month, capture.Day); err == nil {
			post, err := r.disambiguatePost(ctx, slug, date)
			if err != nil {
				return NotFound, err
			}
			if post != nil {
				return Result{Kind: KindPost, Post: post}, nil
			}
		}
	}

	// 3. Date archive. Calendar-impossible dates are Invalid, not NotFound,
	// and an archive with no posts in range is still a valid archive.
	if cfg.ArchiveEnabled {
		if year, month, day, ok := matchArchive(cfg.ArchivePrefix, path); ok {
			date, err := ValidateDateParts(year, month, day)
			if err != nil {
				return Invalid, nil
			}
			return Result{Kind: KindArchive, Archive: date}, nil
		}
	}

	// 4. Category. The prefix is a reserved literal segment, so an unknown
	// slug under it is a definitive miss rather than a fallthrough.
	if cfg.CategoryEnabled {
		if slug, ok := stripPrefix(cfg.CategoryPrefix, path); ok && validSlug(slug) {
			cat, err := r.lookup.Category(ctx, slug)
			if err != nil {
				return NotFound, err
			}
			if cat == nil {
				return NotFound, nil
			}
			return Result{Kind: KindCategory, Category: cat}, nil
		}
	}

	// 5. Tag set. Every named tag must exist; a partial match is a miss.
	if cfg.TagEnabled {
		if segment, ok := stripPrefix(cfg.TagPrefix, path); ok {
			slugs, err := ParseTagSlugs(segment)
			if err == nil {
				found, err := r.lookup.Tags(ctx, slugs)
				if err != nil {
					return NotFound, err
				}
				if found == nil {
					return NotFound, nil
				}
				tags := make([]Tag, len(slugs))
				for i, s := range slugs {
					tags[i] = found[s]
				}
				return Result{Kind: KindTag, Tags: tags}, nil
			}
		}
	}

	// 6. Author.
	if cfg.AuthorEnabled {
		if slug, ok := stripPrefix(cfg.AuthorPrefix, path); ok && validSlug(slug) {
			author, err := r.lookup.Author(ctx, slug)
			if err != nil {
				return NotFound, err
			}
			if author == nil {
				return NotFound, nil
			}
			return Result{Kind: KindAuthor, Author: author}, nil
		}
	}

	// 7. Page fallback: any remaining path is a candidate page hierarchy.
	return r.resolvePage(ctx, strings.Split(path, "/"))
}

// disambiguatePost finds the published post for (slug, partial date). When a
// coarse prefix leaves several candidates, the most recently published wins;
// operators using year-only prefixes rely on that policy for slug reuse.
func (r *Resolver) disambiguatePost(ctx context.Context, slug string, date PartialDate) (*Post, error) {
	posts, err := r.lookup.PublishedPosts(ctx, slug, date.Range())
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	latest := posts[0]
	for _, p := range posts[1:] {
		if p.PublishedAt.After(latest.PublishedAt) {
			latest = p
		}
	}
	return &latest, nil
}

// resolvePage walks the segments left to right, each step matching a page
// slug under the page found at the previous step. There is no partial-match
// fallback: the same slug can exist under several parents, and a prefix match
// on the wrong branch would silently serve the wrong page.
func (r *Resolver) resolvePage(ctx context.Context, segments []string) (Result, error) {
	var current *Page
	var parentID int64
	for _, segment := range segments {
		if !validSlug(segment) {
			return NotFound, nil
		}
		page, err := r.lookup.Page(ctx, segment, parentID)
		if err != nil {
			return NotFound, err
		}
		if page == nil {
			return NotFound, nil
		}
		current = page
		parentID = page.ID
	}
	return Result{Kind: KindPage, Page: current}, nil
}

// matchArchive matches prefix/year[/month[/day]] and returns the raw digit
// fields. The prefix is literal and may be empty.
func matchArchive(prefix, path string) (year, month, day string, ok bool) {
	rest := path
	if prefix != "" {
		var stripped bool
		if rest, stripped = stripPrefix(prefix, path); !stripped {
			return "", "", "", false
		}
	}
	parts := strings.Split(rest, "/")
	if len(parts) < 1 || len(parts) > 3 {
		return "", "", "", false
	}
	if len(parts[0]) != 4 || !allDigits(parts[0]) {
		return "", "", "", false
	}
	year = parts[0]
	if len(parts) > 1 {
		if len(parts[1]) != 2 || !allDigits(parts[1]) {
			return "", "", "", false
		}
		month = parts[1]
	}
	if len(parts) > 2 {
		if len(parts[2]) != 2 || !allDigits(parts[2]) {
			return "", "", "", false
		}
		day = parts[2]
	}
	return year, month, day, true
}

// stripPrefix removes a literal prefix and its separating slash, returning
// the non-empty remainder.
func stripPrefix(prefix, path string) (string, bool) {
	if prefix == "" || !strings.HasPrefix(path, prefix) {
		return "", false
	}
	rest := path[len(prefix):]
	if len(rest) < 2 || rest[0] != '/' {
		return "", false
	}
	return rest[1:], true
}
