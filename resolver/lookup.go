package resolver

import (
	"context"
	"time"
)

// Post is a dated piece of content. Posts are unique on (slug, published_at):
// several posts may share a slug as long as their publication dates differ.
type Post struct {
	ID          int64
	Slug        string
	Title       string
	Content     string
	PublishedAt time.Time
	UpdatedAt   time.Time
	AuthorSlug  string
	Categories  []string
	Tags        []string
}

// Page is hierarchical content. ParentID 0 means a root page; a page's
// canonical path is the chain of ancestor slugs down to itself. Pages are
// unique on (slug, parent): the same slug may appear under different parents.
type Page struct {
	ID          int64
	Slug        string
	Title       string
	Content     string
	ParentID    int64
	MenuOrder   int
	PublishedAt time.Time
	UpdatedAt   time.Time
}

// Category groups posts. The slug is unique.
type Category struct {
	ID    int64
	Slug  string
	Title string
}

// Tag labels posts. The slug is unique.
type Tag struct {
	ID    int64
	Slug  string
	Title string
}

// Author is a post author, addressed by username slug.
type Author struct {
	ID   int64
	Slug string
	Name string
}

// Lookup is the narrow read surface the resolver needs from the content
// store. Absence is not an error: a missing entity is reported as a nil
// pointer (or nil map for Tags) with a nil error. Errors signal storage
// failure and abort resolution.
type Lookup interface {
	// PublishedPosts returns the published posts with the given slug whose
	// publication date falls inside r. A zero range means all time. Future
	// and unpublished posts are excluded.
	PublishedPosts(ctx context.Context, slug string, r DateRange) ([]Post, error)

	// Page returns the published page with the given slug under the given
	// parent, or nil. parentID 0 selects root pages.
	Page(ctx context.Context, slug string, parentID int64) (*Page, error)

	// Category returns the category with the given slug, or nil.
	Category(ctx context.Context, slug string) (*Category, error)

	// Tags resolves every slug or none: if any slug is unknown the result is
	// nil. Keys of the returned map are the requested slugs.
	Tags(ctx context.Context, slugs []string) (map[string]Tag, error)

	// Author returns the author with the given username slug, or nil.
	Author(ctx context.Context, slug string) (*Author, error)
}
