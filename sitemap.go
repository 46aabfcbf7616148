package pathpress

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pathpress/pathpress/resolver"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (a *App) renderSitemap(c echo.Context, posts []resolver.Post, pages []resolver.Page) error {
	rules := a.Resolver.Rules()
	urls := []sitemapURL{
		{Loc: BuildURL(a.Config.URL, "/")},
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(a.Config.URL, rules.PostPath(p)),
			LastMod: p.UpdatedAt.Format(time.DateOnly),
		})
	}
	byID := make(map[int64]resolver.Page, len(pages))
	for _, p := range pages {
		byID[p.ID] = p
	}
	for _, p := range pages {
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(a.Config.URL, rules.PagePath(pageSegments(byID, p))),
			LastMod: p.UpdatedAt.Format(time.DateOnly),
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}

// pageSegments walks the parent chain upward and returns the slug path from
// the root ancestor down to p.
func pageSegments(byID map[int64]resolver.Page, p resolver.Page) []string {
	var segments []string
	for {
		segments = append([]string{p.Slug}, segments...)
		if p.ParentID == 0 {
			return segments
		}
		parent, ok := byID[p.ParentID]
		if !ok {
			return segments
		}
		p = parent
	}
}
