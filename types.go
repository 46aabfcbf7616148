package pathpress

// Image is an uploaded media file, stored resized and re-encoded under the
// static uploads directory.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}

// Pagination describes one page of an index view.
type Pagination struct {
	Page    int // 1-based
	PerPage int
	Total   int // total matching posts
}

// Pages returns the number of pages, at least 1.
func (p Pagination) Pages() int {
	if p.PerPage <= 0 || p.Total <= 0 {
		return 1
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

// HasPrev reports whether an earlier page exists.
func (p Pagination) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a later page exists.
func (p Pagination) HasNext() bool { return p.Page < p.Pages() }

// Offset returns the row offset of the first entry on this page.
func (p Pagination) Offset() int { return (p.Page - 1) * p.PerPage }

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}
