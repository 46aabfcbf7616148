// Package pathpress is a blog publishing engine built with Go, Echo, and
// templ. Its core is a URL resolution engine: operator-configured prefix
// templates map request paths to posts, hierarchical pages, date archives,
// category/tag/author index views, or the RSS feed, with a fixed priority
// order deciding every ambiguity.
//
// Users provide their own templ templates via the ViewFuncs struct, and
// pathpress handles the routing, handler logic, middleware, and database
// operations.
package pathpress

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/pathpress/pathpress/markdown"
	"github.com/pathpress/pathpress/plugins"
	"github.com/pathpress/pathpress/resolver"
)

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages. This is the inversion-of-control mechanism that
// lets users own and customize all templates.
type ViewFuncs struct {
	Index    func(posts []resolver.Post, pg Pagination) templ.Component
	Post     func(post resolver.Post, path string) templ.Component
	Page     func(page resolver.Page, path string) templ.Component
	Archive  func(date resolver.PartialDate, posts []resolver.Post, pg Pagination) templ.Component
	Category func(category resolver.Category, posts []resolver.Post, pg Pagination) templ.Component
	Tag      func(tags []resolver.Tag, posts []resolver.Post, pg Pagination) templ.Component
	Author   func(author resolver.Author, posts []resolver.Post, pg Pagination) templ.Component

	NotFound    func() templ.Component
	BadRequest  func() templ.Component
	ServerError func() templ.Component

	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(posts []resolver.Post, pages []resolver.Page, message, csrfToken string) templ.Component
	AdminPostForm  func(post resolver.Post, csrfToken string) templ.Component
	AdminPageForm  func(page resolver.Page, parents []resolver.Page, csrfToken string) templ.Component
	AdminImages    func(images []Image, csrfToken string) templ.Component
}

// App is the central pathpress application. It wires together the store,
// cache, resolver, handlers, middleware, and user-provided templates.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Store    *Store
	Cache    *ContentCache
	Resolver *resolver.Resolver
	Views    ViewFuncs
	Plugins  *plugins.Registry

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates a new pathpress App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the database, cache, resolver, middleware, and routes,
// then starts the server. A malformed prefix template fails here, before the
// first request.
func (a *App) Start() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("pathpress: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("pathpress: SessionSecret is required")
	}

	rules, err := resolver.BuildRules(a.Config.routeConfig(), log.Default())
	if err != nil {
		return fmt.Errorf("pathpress: routing config: %w", err)
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("pathpress: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewContentCache(store, a.Config.ContentCacheTTL)
	a.Resolver = resolver.New(a.Cache, rules)
	a.loginLimiter = NewLoginLimiter(a.Config.LoginMaxAttempts, a.Config.LoginWindow)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Reload validates and applies a new configuration. The compiled rule
// snapshot is swapped atomically: in-flight requests finish on the old rules,
// new requests see the new ones. A malformed template leaves the running
// configuration untouched.
func (a *App) Reload(cfg SiteConfig) error {
	cfg.setDefaults()
	rules, err := resolver.BuildRules(cfg.routeConfig(), log.Default())
	if err != nil {
		return fmt.Errorf("pathpress: reload: %w", err)
	}
	a.Config = cfg
	a.Resolver.Swap(rules)
	a.Cache.Invalidate()
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)

	// Admin routes — password-protected dashboard for posts and pages.
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/post/:id/", a.handleAdminPost)
	e.POST("/admin/post/save/", a.handleAdminSavePost)
	e.GET("/admin/page/:id/", a.handleAdminPage)
	e.POST("/admin/page/save/", a.handleAdminSavePage)
	e.DELETE("/admin/content/:id/", a.handleAdminDelete)
	e.GET("/admin/images/", a.handleImageList)
	e.POST("/admin/images/upload/", a.handleImageUpload)
	e.DELETE("/admin/images/:filename/", a.handleImageDelete)

	// Everything else is owned by the resolver: the index at the root and
	// the catch-all entry point for every content path.
	e.GET("/", a.handleIndex)
	e.GET("/*", a.handleEntry)
}

// RenderContent renders post or page markdown to HTML, passing it through
// the registered plugin content filters on both sides.
func (a *App) RenderContent(content string) templ.Component {
	if a.Plugins != nil {
		content = a.Plugins.FilterContent(plugins.PreRenderContent, content)
	}
	html, err := markdown.Render(content)
	if err != nil {
		return templ.Raw("")
	}
	if a.Plugins != nil {
		html = a.Plugins.FilterContent(plugins.PostRenderContent, html)
	}
	return templ.Raw(html)
}

// Summary returns the part of content before the configured truncate tag.
func (a *App) Summary(content string) string {
	return markdown.Summary(content, a.Config.TruncateTag)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("pathpress: required environment variable %s is not set", key)
	}
	return v
}
