package pathpress

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pathpress/pathpress/markdown"
	"github.com/pathpress/pathpress/resolver"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate"`
	Author      string   `xml:"author,omitempty"`
	Categories  []string `xml:"category,omitempty"`
	GUID        string   `xml:"guid"`
}

func (a *App) renderRSS(c echo.Context, posts []resolver.Post) error {
	rules := a.Resolver.Rules()
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		postURL := BuildURL(a.Config.URL, rules.PostPath(p))
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: markdown.Summary(p.Content, a.Config.TruncateTag),
			PubDate:     p.PublishedAt.Format(time.RFC1123Z),
			Author:      p.AuthorSlug,
			Categories:  p.Categories,
			GUID:        postURL,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        a.Config.URL,
			Description: a.Config.Description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
