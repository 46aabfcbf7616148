package resolver

import "strings"

// URL generation: the inverse of classification. Paths are returned with a
// leading slash and no trailing slash; the HTTP layer appends one when it
// redirects to canonical trailing-slash form.

// PostPath returns the path for a post under the compiled post prefix, with
// the post's publication date substituted into any placeholders.
func (r *Rules) PostPath(p Post) string {
	prefix := r.post.Expand(p.PublishedAt.UTC())
	if prefix == "" {
		return "/" + p.Slug
	}
	return "/" + prefix + "/" + p.Slug
}

// PagePath returns the path for a page given its ancestor slugs, outermost
// first, ending with the page's own slug.
func (r *Rules) PagePath(segments []string) string {
	return "/" + strings.Join(segments, "/")
}

// ArchivePath returns the path for a date archive at the partial date's
// granularity.
func (r *Rules) ArchivePath(d PartialDate) string {
	if r.cfg.ArchivePrefix == "" {
		return "/" + d.String()
	}
	return "/" + r.cfg.ArchivePrefix + "/" + d.String()
}

// CategoryPath returns the path for a category index view.
func (r *Rules) CategoryPath(c Category) string {
	return "/" + r.cfg.CategoryPrefix + "/" + c.Slug
}

// TagPath returns the path for a tag index view over the given slugs, joined
// with "+" in the given order.
func (r *Rules) TagPath(slugs []string) string {
	return "/" + r.cfg.TagPrefix + "/" + strings.Join(slugs, "+")
}

// AuthorPath returns the path for an author index view.
func (r *Rules) AuthorPath(a Author) string {
	return "/" + r.cfg.AuthorPrefix + "/" + a.Slug
}

// FeedPath returns the configured RSS feed path.
func (r *Rules) FeedPath() string {
	return "/" + r.cfg.RSSPath
}
