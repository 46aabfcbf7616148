// Command pathpress runs a minimal pathpress site with plain built-in
// templates. Real deployments embed pathpress as a library and supply their
// own templ views; this binary exists for local evaluation.
package main

import (
	"context"
	"fmt"
	"html"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/a-h/templ"

	"github.com/pathpress/pathpress"
	"github.com/pathpress/pathpress/resolver"
)

func main() {
	cfg := pathpress.SiteConfig{
		Name:          pathpress.EnvOr("SITE_NAME", "Pathpress"),
		URL:           pathpress.EnvOr("SITE_URL", "http://localhost:3000"),
		Description:   pathpress.EnvOr("SITE_DESCRIPTION", "A pathpress site"),
		Addr:          pathpress.EnvOr("ADDR", ":3000"),
		DatabasePath:  pathpress.EnvOr("DATABASE_PATH", "data/site.db"),
		PostPrefix:    pathpress.EnvOr("POST_PREFIX", ""),
		AdminPassword: pathpress.MustEnv("ADMIN_PASSWORD"),
		SessionSecret: pathpress.MustEnv("SESSION_SECRET"),
	}

	app := pathpress.New(cfg, builtinViews(cfg))

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Shutdown(ctx); err != nil {
			log.Printf("shutdown: %v", err)
		}
		app.Close()
	}()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

func page(title string, body func(w io.Writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, "<!doctype html><html><head><title>%s</title></head><body>", html.EscapeString(title))
		body(w)
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}

func postList(w io.Writer, posts []resolver.Post) {
	io.WriteString(w, "<ul>")
	for _, p := range posts {
		fmt.Fprintf(w, `<li><a href="/%s">%s</a> <time>%s</time></li>`,
			html.EscapeString(p.Slug), html.EscapeString(p.Title),
			p.PublishedAt.Format("2006-01-02"))
	}
	io.WriteString(w, "</ul>")
}

func builtinViews(cfg pathpress.SiteConfig) pathpress.ViewFuncs {
	return pathpress.ViewFuncs{
		Index: func(posts []resolver.Post, pg pathpress.Pagination) templ.Component {
			return page(cfg.Name, func(w io.Writer) {
				fmt.Fprintf(w, "<h1>%s</h1>", html.EscapeString(cfg.Name))
				postList(w, posts)
			})
		},
		Post: func(p resolver.Post, path string) templ.Component {
			return page(p.Title, func(w io.Writer) {
				fmt.Fprintf(w, "<article><h1>%s</h1><pre>%s</pre></article>",
					html.EscapeString(p.Title), html.EscapeString(p.Content))
			})
		},
		Page: func(p resolver.Page, path string) templ.Component {
			return page(p.Title, func(w io.Writer) {
				fmt.Fprintf(w, "<article><h1>%s</h1><pre>%s</pre></article>",
					html.EscapeString(p.Title), html.EscapeString(p.Content))
			})
		},
		Archive: func(d resolver.PartialDate, posts []resolver.Post, pg pathpress.Pagination) templ.Component {
			return page("Archive "+d.String(), func(w io.Writer) {
				fmt.Fprintf(w, "<h1>Archive: %s</h1>", d.String())
				postList(w, posts)
			})
		},
		Category: func(cat resolver.Category, posts []resolver.Post, pg pathpress.Pagination) templ.Component {
			return page(cat.Title, func(w io.Writer) {
				fmt.Fprintf(w, "<h1>Category: %s</h1>", html.EscapeString(cat.Title))
				postList(w, posts)
			})
		},
		Tag: func(tags []resolver.Tag, posts []resolver.Post, pg pathpress.Pagination) templ.Component {
			return page("Tags", func(w io.Writer) {
				io.WriteString(w, "<h1>Tagged:")
				for _, t := range tags {
					fmt.Fprintf(w, " %s", html.EscapeString(t.Title))
				}
				io.WriteString(w, "</h1>")
				postList(w, posts)
			})
		},
		Author: func(a resolver.Author, posts []resolver.Post, pg pathpress.Pagination) templ.Component {
			return page(a.Name, func(w io.Writer) {
				fmt.Fprintf(w, "<h1>Posts by %s</h1>", html.EscapeString(a.Name))
				postList(w, posts)
			})
		},
		NotFound: func() templ.Component {
			return page("Not Found", func(w io.Writer) { io.WriteString(w, "<h1>404</h1>") })
		},
		BadRequest: func() templ.Component {
			return page("Bad Request", func(w io.Writer) { io.WriteString(w, "<h1>400</h1>") })
		},
		ServerError: func() templ.Component {
			return page("Server Error", func(w io.Writer) { io.WriteString(w, "<h1>500</h1>") })
		},
		AdminLogin: func(showError bool, csrf string) templ.Component {
			return page("Login", func(w io.Writer) {
				if showError {
					io.WriteString(w, "<p>Wrong password.</p>")
				}
				fmt.Fprintf(w, `<form method="post" action="/admin/login/">
<input type="hidden" name="_csrf" value="%s">
<input type="password" name="password"><button>Log in</button></form>`, html.EscapeString(csrf))
			})
		},
		AdminDashboard: func(posts []resolver.Post, pages []resolver.Page, msg, csrf string) templ.Component {
			return page("Admin", func(w io.Writer) {
				if msg != "" {
					fmt.Fprintf(w, "<p>%s</p>", html.EscapeString(msg))
				}
				fmt.Fprintf(w, "<p>%d posts, %d pages</p>", len(posts), len(pages))
			})
		},
		AdminPostForm: func(p resolver.Post, csrf string) templ.Component {
			return page("Edit post", func(w io.Writer) {
				fmt.Fprintf(w, "<h1>Edit %s</h1>", html.EscapeString(p.Slug))
			})
		},
		AdminPageForm: func(p resolver.Page, parents []resolver.Page, csrf string) templ.Component {
			return page("Edit page", func(w io.Writer) {
				fmt.Fprintf(w, "<h1>Edit %s</h1>", html.EscapeString(p.Slug))
			})
		},
		AdminImages: func(images []pathpress.Image, csrf string) templ.Component {
			return page("Images", func(w io.Writer) {
				fmt.Fprintf(w, "<p>%d images</p>", len(images))
			})
		},
	}
}
