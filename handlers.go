package pathpress

import (
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/pathpress/pathpress/resolver"
)

// Render writes a templ component as a 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with the given HTTP status code. The
// component streams straight into the response writer, so an error mid-render
// cannot change the status anymore.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// handleIndex renders the front page: the newest published posts, paginated.
func (a *App) handleIndex(c echo.Context) error {
	ctx := c.Request().Context()
	pg := a.pagination(c)
	posts, total, err := a.Cache.ListPosts(ctx, PostFilter{}, pg.PerPage, pg.Offset())
	if err != nil {
		return err
	}
	pg.Total = total
	return Render(c, a.Views.Index(posts, pg))
}

// handleEntry is the catch-all content handler. Every path that no explicit
// route claims is classified by the resolver and dispatched to the matching
// view.
func (a *App) handleEntry(c echo.Context) error {
	ctx := c.Request().Context()
	path := c.Request().URL.Path

	res, err := a.Resolver.Resolve(ctx, path)
	if err != nil {
		return err
	}
	if a.Plugins != nil {
		a.Plugins.NotifyResolution(ctx, path, res.Kind.String())
	}

	switch res.Kind {
	case resolver.KindRSS:
		return a.handleFeed(c)

	case resolver.KindPost:
		return Render(c, a.Views.Post(*res.Post, a.Resolver.Rules().PostPath(*res.Post)))

	case resolver.KindPage:
		return Render(c, a.Views.Page(*res.Page, path))

	case resolver.KindArchive:
		pg := a.pagination(c)
		posts, total, err := a.Cache.ListPosts(ctx, PostFilter{Range: res.Archive.Range()}, pg.PerPage, pg.Offset())
		if err != nil {
			return err
		}
		pg.Total = total
		return Render(c, a.Views.Archive(res.Archive, posts, pg))

	case resolver.KindCategory:
		pg := a.pagination(c)
		posts, total, err := a.Cache.ListPosts(ctx, PostFilter{Category: res.Category.Slug}, pg.PerPage, pg.Offset())
		if err != nil {
			return err
		}
		pg.Total = total
		return Render(c, a.Views.Category(*res.Category, posts, pg))

	case resolver.KindTag:
		pg := a.pagination(c)
		slugs := make([]string, len(res.Tags))
		for i, tag := range res.Tags {
			slugs[i] = tag.Slug
		}
		posts, total, err := a.Cache.ListPosts(ctx, PostFilter{Tags: slugs}, pg.PerPage, pg.Offset())
		if err != nil {
			return err
		}
		pg.Total = total
		return Render(c, a.Views.Tag(res.Tags, posts, pg))

	case resolver.KindAuthor:
		pg := a.pagination(c)
		posts, total, err := a.Cache.ListPosts(ctx, PostFilter{Author: res.Author.Slug}, pg.PerPage, pg.Offset())
		if err != nil {
			return err
		}
		pg.Total = total
		return Render(c, a.Views.Author(*res.Author, posts, pg))

	case resolver.KindInvalid:
		return RenderStatus(c, http.StatusBadRequest, a.Views.BadRequest())

	default:
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
}

// pagination reads the ?page= query parameter, clamped to 1.
func (a *App) pagination(c echo.Context) Pagination {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	return Pagination{Page: page, PerPage: a.Config.PostsPerPage}
}

func (a *App) handleFeed(c echo.Context) error {
	posts, _, err := a.Cache.ListPosts(c.Request().Context(), PostFilter{}, a.Config.PostsPerPage, 0)
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleSitemap(c echo.Context) error {
	ctx := c.Request().Context()
	posts, _, err := a.Cache.ListPosts(ctx, PostFilter{}, 1<<30, 0)
	if err != nil {
		return err
	}
	pages, err := a.Cache.ListPages(ctx)
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts, pages)
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(a.staticDir + "/robots.txt")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
