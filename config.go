package pathpress

import (
	"time"

	"github.com/pathpress/pathpress/plugins"
	"github.com/pathpress/pathpress/resolver"
)

// DefaultPostPrefix is the post prefix template applied when the operator has
// not chosen one. An empty post prefix is a valid, distinct configuration
// (slug-only post URLs); opt into it with SiteConfig.EmptyPostPrefix rather
// than an empty string.
const DefaultPostPrefix = "{{ year }}/{{ month }}/{{ day }}"

// SiteConfig holds all configuration for a pathpress site. Routing sections
// (archive, category, tag, author, rss) default to enabled; set the Disable*
// flags to turn them off. The config is validated and compiled into an
// immutable rule snapshot at startup and on reload, never consulted
// field-by-field at request time.
type SiteConfig struct {
	Name        string // Site name (default "Blog")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/site.db")

	// Routing. Prefixes are free text; the post prefix may also carry
	// {{ year }}, {{ month }} and {{ day }} placeholders.
	PostPrefix      string // default DefaultPostPrefix
	EmptyPostPrefix bool   // force an empty post prefix (slug-only URLs)
	ArchivePrefix   string // literal, may be empty (default "")
	CategoryPrefix  string // literal, mandatory while enabled (default "category")
	TagPrefix       string // literal, mandatory while enabled (default "tag")
	AuthorPrefix    string // literal, mandatory while enabled (default "author")
	RSSPath         string // feed path (default "rss")

	DisableArchive  bool
	DisableCategory bool
	DisableTag      bool
	DisableAuthor   bool
	DisableRSS      bool

	PostsPerPage int    // index view page size (default 20)
	TruncateTag  string // summary cut marker in post content (default "<!--more-->")

	AdminPassword string // Required: admin login password
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	LoginMaxAttempts int           // failed logins allowed per IP per window (default 5)
	LoginWindow      time.Duration // sliding window for login throttling (default 1min)

	ContentCacheTTL time.Duration // content cache TTL (default 5min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/site.db"
	}
	if c.EmptyPostPrefix {
		c.PostPrefix = ""
	} else if c.PostPrefix == "" {
		c.PostPrefix = DefaultPostPrefix
	}
	if c.CategoryPrefix == "" {
		c.CategoryPrefix = "category"
	}
	if c.TagPrefix == "" {
		c.TagPrefix = "tag"
	}
	if c.AuthorPrefix == "" {
		c.AuthorPrefix = "author"
	}
	if c.RSSPath == "" {
		c.RSSPath = "rss"
	}
	if c.PostsPerPage == 0 {
		c.PostsPerPage = 20
	}
	if c.TruncateTag == "" {
		c.TruncateTag = "<!--more-->"
	}
	if c.LoginMaxAttempts == 0 {
		c.LoginMaxAttempts = 5
	}
	if c.LoginWindow == 0 {
		c.LoginWindow = time.Minute
	}
	if c.ContentCacheTTL == 0 {
		c.ContentCacheTTL = 5 * time.Minute
	}
}

// routeConfig maps the site configuration onto the resolver's routing slice.
func (c *SiteConfig) routeConfig() resolver.RouteConfig {
	return resolver.RouteConfig{
		PostPrefix:      c.PostPrefix,
		ArchiveEnabled:  !c.DisableArchive,
		ArchivePrefix:   c.ArchivePrefix,
		CategoryEnabled: !c.DisableCategory,
		CategoryPrefix:  c.CategoryPrefix,
		TagEnabled:      !c.DisableTag,
		TagPrefix:       c.TagPrefix,
		AuthorEnabled:   !c.DisableAuthor,
		AuthorPrefix:    c.AuthorPrefix,
		RSSEnabled:      !c.DisableRSS,
		RSSPath:         c.RSSPath,
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithPlugins installs a plugin registry whose content filters run around
// markdown rendering and whose observers see every resolution result.
func WithPlugins(reg *plugins.Registry) Option {
	return func(a *App) {
		a.Plugins = reg
	}
}
