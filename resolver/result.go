package resolver

// Kind identifies which variant of a Result is populated.
type Kind int

const (
	// KindNotFound: the path is well formed but names no content.
	KindNotFound Kind = iota
	// KindInvalid: the path matched the archive shape but the captured
	// date is not a real calendar date. Callers map this to a 400-class
	// response, distinct from 404.
	KindInvalid
	// KindPost: a single published post.
	KindPost
	// KindPage: a single hierarchical page.
	KindPage
	// KindArchive: a date archive index view. Valid even when no posts
	// fall in the range; an empty archive is not NotFound.
	KindArchive
	// KindCategory: a category index view.
	KindCategory
	// KindTag: a tag index view, possibly over several tags (AND).
	KindTag
	// KindAuthor: an author index view.
	KindAuthor
	// KindRSS: the configured feed path.
	KindRSS
)

var kindNames = map[Kind]string{
	KindNotFound: "not_found",
	KindInvalid:  "invalid",
	KindPost:     "post",
	KindPage:     "page",
	KindArchive:  "archive",
	KindCategory: "category",
	KindTag:      "tag",
	KindAuthor:   "author",
	KindRSS:      "rss",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Result is the outcome of classifying one path. Exactly one variant is
// populated, selected by Kind; the engine never returns an ambiguous result.
type Result struct {
	Kind Kind

	Post     *Post
	Page     *Page
	Archive  PartialDate
	Category *Category
	Tags     []Tag
	Author   *Author
}

// NotFound is the canonical miss result.
var NotFound = Result{Kind: KindNotFound}

// Invalid is the canonical malformed-date result.
var Invalid = Result{Kind: KindInvalid}
