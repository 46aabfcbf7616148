package pathpress

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pathpress/pathpress/resolver"
)

// ErrNotFound is returned when requested content does not exist.
var ErrNotFound = sql.ErrNoRows

// ContentCache is an in-memory snapshot of all published content with TTL,
// sitting between the resolver and the Store. It serves the resolver's
// lookup ports and the index view listings from memory; concurrent reloads
// on an expired snapshot are collapsed by singleflight so the store sees one
// query burst per expiry. Admin writes call Invalidate.
type ContentCache struct {
	mu      sync.RWMutex
	snap    *contentSnapshot
	fetched time.Time
	ttl     time.Duration
	store   *Store
	group   singleflight.Group
}

// contentSnapshot is one immutable load of the published content set.
type contentSnapshot struct {
	posts      []resolver.Post // newest first
	pages      []resolver.Page
	categories map[string]resolver.Category
	tags       map[string]resolver.Tag
	authors    map[string]resolver.Author
}

// NewContentCache creates a ContentCache backed by the given Store.
func NewContentCache(s *Store, ttl time.Duration) *ContentCache {
	return &ContentCache{store: s, ttl: ttl}
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ContentCache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
}

func (c *ContentCache) snapshot(ctx context.Context) (*contentSnapshot, error) {
	c.mu.RLock()
	if c.snap != nil && time.Since(c.fetched) < c.ttl {
		snap := c.snap
		c.mu.RUnlock()
		return snap, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do("reload", func() (any, error) {
		// The flight is shared by every collapsed caller, so it must not die
		// with whichever request happened to start it.
		snap, err := c.load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.snap = snap
		c.fetched = time.Now()
		c.mu.Unlock()
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*contentSnapshot), nil
}

func (c *ContentCache) load(ctx context.Context) (*contentSnapshot, error) {
	posts, _, err := c.store.ListPosts(ctx, PostFilter{}, 1<<30, 0)
	if err != nil {
		return nil, err
	}
	pages, err := c.store.ListPages(ctx)
	if err != nil {
		return nil, err
	}
	cats, err := c.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	// Tag and author rows referenced by no published post are invisible to
	// resolution; the store queries carry that constraint.
	tags, err := c.store.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	authors, err := c.store.ListAuthors(ctx)
	if err != nil {
		return nil, err
	}

	snap := &contentSnapshot{
		posts:      posts,
		pages:      pages,
		categories: make(map[string]resolver.Category, len(cats)),
		tags:       make(map[string]resolver.Tag, len(tags)),
		authors:    make(map[string]resolver.Author, len(authors)),
	}
	for _, cat := range cats {
		snap.categories[cat.Slug] = cat
	}
	for _, tag := range tags {
		snap.tags[tag.Slug] = tag
	}
	for _, author := range authors {
		snap.authors[author.Slug] = author
	}
	return snap, nil
}

// --- resolver.Lookup ---

func (c *ContentCache) PublishedPosts(ctx context.Context, slug string, r resolver.DateRange) ([]resolver.Post, error) {
	snap, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	var out []resolver.Post
	for _, p := range snap.posts {
		if p.Slug == slug && r.Contains(p.PublishedAt) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *ContentCache) Page(ctx context.Context, slug string, parentID int64) (*resolver.Page, error) {
	snap, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range snap.pages {
		if p.Slug == slug && p.ParentID == parentID {
			page := p
			return &page, nil
		}
	}
	return nil, nil
}

func (c *ContentCache) Category(ctx context.Context, slug string) (*resolver.Category, error) {
	snap, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if cat, ok := snap.categories[slug]; ok {
		return &cat, nil
	}
	return nil, nil
}

func (c *ContentCache) Tags(ctx context.Context, slugs []string) (map[string]resolver.Tag, error) {
	snap, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]resolver.Tag, len(slugs))
	for _, slug := range slugs {
		tag, ok := snap.tags[slug]
		if !ok {
			return nil, nil
		}
		out[slug] = tag
	}
	return out, nil
}

func (c *ContentCache) Author(ctx context.Context, slug string) (*resolver.Author, error) {
	snap, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if a, ok := snap.authors[slug]; ok {
		author := a
		return &author, nil
	}
	return nil, nil
}

// --- listings for handlers ---

// ListPosts returns one page of cached published posts matching the filter,
// newest first, plus the total match count.
func (c *ContentCache) ListPosts(ctx context.Context, f PostFilter, limit, offset int) ([]resolver.Post, int, error) {
	snap, err := c.snapshot(ctx)
	if err != nil {
		return nil, 0, err
	}
	var matched []resolver.Post
	for _, p := range snap.posts {
		if matchFilter(p, f) {
			matched = append(matched, p)
		}
	}
	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func matchFilter(p resolver.Post, f PostFilter) bool {
	if !f.Range.IsZero() && !f.Range.Contains(p.PublishedAt) {
		return false
	}
	if f.Category != "" && !containsFold(p.Categories, f.Category) {
		return false
	}
	for _, tag := range f.Tags {
		if !containsFold(p.Tags, tag) {
			return false
		}
	}
	if f.Author != "" && p.AuthorSlug != f.Author {
		return false
	}
	return true
}

func containsFold(vals []string, want string) bool {
	for _, v := range vals {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

// ListPages returns all cached published pages.
func (c *ContentCache) ListPages(ctx context.Context) ([]resolver.Page, error) {
	snap, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.pages, nil
}

// ListTagSlugs returns the sorted slugs of every tag on a published post.
func (c *ContentCache) ListTagSlugs(ctx context.Context) ([]string, error) {
	snap, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	slugs := make([]string, 0, len(snap.tags))
	for slug := range snap.tags {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs, nil
}
