package pathpress

import (
	"crypto/subtle"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pathpress/pathpress/resolver"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(c.RealIP())
	return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

// handleAdminPost renders the edit form for one post; id 0 is a new post.
func (a *App) handleAdminPost(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	var post resolver.Post
	if id != 0 {
		var err error
		post, err = a.Store.GetPostAny(c.Request().Context(), id)
		if err != nil {
			if err == sql.ErrNoRows {
				return c.NoContent(http.StatusNotFound)
			}
			return err
		}
	}
	return Render(c, a.Views.AdminPostForm(post, CsrfToken(c)))
}

func (a *App) handleAdminSavePost(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	id, _ := strconv.ParseInt(c.FormValue("id"), 10, 64)
	title := strings.TrimSpace(c.FormValue("title"))
	slug := strings.TrimSpace(c.FormValue("slug"))
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return c.Redirect(http.StatusSeeOther, "/admin/?msg=Slug+is+required.+Add+a+title+or+slug.")
	}

	var published time.Time
	if c.FormValue("published") != "" {
		published = time.Now().UTC()
		if d := strings.TrimSpace(c.FormValue("date")); d != "" {
			t, err := time.Parse("2006-01-02", d)
			if err != nil {
				return c.Redirect(http.StatusSeeOther, "/admin/?msg=Invalid+date+format.+Use+YYYY-MM-DD.")
			}
			published = t.UTC()
		}
	}

	tags := FilterEmpty(strings.Split(c.FormValue("tags"), ","))
	for i := range tags {
		tags[i] = Slugify(tags[i])
	}
	categories := FilterEmpty(strings.Split(c.FormValue("categories"), ","))
	for i := range categories {
		categories[i] = Slugify(categories[i])
	}

	_, err := a.Store.SavePost(c.Request().Context(), resolver.Post{
		ID:          id,
		Slug:        slug,
		Title:       title,
		Content:     c.FormValue("content"),
		PublishedAt: published,
		AuthorSlug:  Slugify(c.FormValue("author")),
		Categories:  categories,
		Tags:        tags,
	})
	if err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "saved")
}

// handleAdminPage renders the edit form for one page; id 0 is a new page.
func (a *App) handleAdminPage(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	ctx := c.Request().Context()
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	var page resolver.Page
	if id != 0 {
		var err error
		page, err = a.Store.GetPageAny(ctx, id)
		if err != nil {
			if err == sql.ErrNoRows {
				return c.NoContent(http.StatusNotFound)
			}
			return err
		}
	}
	// Parent choices: every other page. A page cannot parent itself.
	all, err := a.Store.ListAllPages(ctx)
	if err != nil {
		return err
	}
	parents := all[:0]
	for _, p := range all {
		if p.ID != id {
			parents = append(parents, p)
		}
	}
	return Render(c, a.Views.AdminPageForm(page, parents, CsrfToken(c)))
}

func (a *App) handleAdminSavePage(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	id, _ := strconv.ParseInt(c.FormValue("id"), 10, 64)
	title := strings.TrimSpace(c.FormValue("title"))
	slug := strings.TrimSpace(c.FormValue("slug"))
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return c.Redirect(http.StatusSeeOther, "/admin/?msg=Slug+is+required.+Add+a+title+or+slug.")
	}
	parentID, _ := strconv.ParseInt(c.FormValue("parent_id"), 10, 64)
	if parentID == id && id != 0 {
		return c.Redirect(http.StatusSeeOther, "/admin/?msg=A+page+cannot+be+its+own+parent.")
	}
	menuOrder, _ := strconv.Atoi(c.FormValue("menu_order"))

	var published time.Time
	if c.FormValue("published") != "" {
		published = time.Now().UTC()
	}

	_, err := a.Store.SavePage(c.Request().Context(), resolver.Page{
		ID:          id,
		Slug:        slug,
		Title:       title,
		Content:     c.FormValue("content"),
		ParentID:    parentID,
		MenuOrder:   menuOrder,
		PublishedAt: published,
	})
	if err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "saved")
}

func (a *App) handleAdminDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	if err := a.Store.DeleteContent(c.Request().Context(), id); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "deleted")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	ctx := c.Request().Context()
	posts, err := a.Store.ListAllPosts(ctx)
	if err != nil {
		return err
	}
	pages, err := a.Store.ListAllPages(ctx)
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(posts, pages, msg, CsrfToken(c)))
}
