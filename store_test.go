package pathpress

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/pathpress/pathpress/resolver"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestSaveAndLookupPost(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id, err := s.SavePost(ctx, resolver.Post{
		Slug:        "test-post",
		Title:       "Test Post",
		Content:     "# Test Content",
		PublishedAt: date(2024, 1, 15),
		AuthorSlug:  "sam",
		Categories:  []string{"tech"},
		Tags:        []string{"go", "testing"},
	})
	if err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}
	if id == 0 {
		t.Fatal("SavePost should return a non-zero id")
	}

	got, err := s.PublishedPosts(ctx, "test-post", resolver.DateRange{})
	if err != nil {
		t.Fatalf("PublishedPosts failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("PublishedPosts count = %d, want 1", len(got))
	}
	p := got[0]
	if p.Title != "Test Post" {
		t.Errorf("Title = %q, want %q", p.Title, "Test Post")
	}
	if !p.PublishedAt.Equal(date(2024, 1, 15)) {
		t.Errorf("PublishedAt = %v, want 2024-01-15", p.PublishedAt)
	}
	if p.AuthorSlug != "sam" {
		t.Errorf("AuthorSlug = %q, want %q", p.AuthorSlug, "sam")
	}
	if len(p.Categories) != 1 || p.Categories[0] != "tech" {
		t.Errorf("Categories = %v, want [tech]", p.Categories)
	}
	if len(p.Tags) != 2 {
		t.Errorf("Tags = %v, want [go testing]", p.Tags)
	}
}

func TestPublishedPostsSlugCollision(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for _, d := range []time.Time{date(2024, 1, 5), date(2024, 6, 20)} {
		if _, err := s.SavePost(ctx, resolver.Post{Slug: "hello", Title: "Hello", PublishedAt: d}); err != nil {
			t.Fatalf("SavePost failed: %v", err)
		}
	}

	// Date-free query returns both, newest first.
	got, err := s.PublishedPosts(ctx, "hello", resolver.DateRange{})
	if err != nil {
		t.Fatalf("PublishedPosts failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("count = %d, want 2", len(got))
	}
	if !got[0].PublishedAt.After(got[1].PublishedAt) {
		t.Error("posts should be ordered newest first")
	}

	// Range query narrows to one.
	r := resolver.PartialDate{Year: 2024, Month: 1}.Range()
	got, err = s.PublishedPosts(ctx, "hello", r)
	if err != nil {
		t.Fatalf("PublishedPosts failed: %v", err)
	}
	if len(got) != 1 || !got[0].PublishedAt.Equal(date(2024, 1, 5)) {
		t.Errorf("range query = %v, want the January post", got)
	}
}

func TestDraftsAndFuturePostsAreHidden(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if _, err := s.SavePost(ctx, resolver.Post{Slug: "draft", Title: "Draft"}); err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}
	if _, err := s.SavePost(ctx, resolver.Post{Slug: "future", Title: "Future", PublishedAt: time.Now().UTC().Add(24 * time.Hour)}); err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}

	for _, slug := range []string{"draft", "future"} {
		got, err := s.PublishedPosts(ctx, slug, resolver.DateRange{})
		if err != nil {
			t.Fatalf("PublishedPosts(%s) failed: %v", slug, err)
		}
		if len(got) != 0 {
			t.Errorf("%s should be invisible to public queries", slug)
		}
	}

	all, err := s.ListAllPosts(ctx)
	if err != nil {
		t.Fatalf("ListAllPosts failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ListAllPosts count = %d, want 2", len(all))
	}
}

func TestPageHierarchy(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	rootID, err := s.SavePage(ctx, resolver.Page{Slug: "about", Title: "About", PublishedAt: date(2024, 1, 1)})
	if err != nil {
		t.Fatalf("SavePage failed: %v", err)
	}
	childID, err := s.SavePage(ctx, resolver.Page{Slug: "team", Title: "Team", ParentID: rootID, PublishedAt: date(2024, 1, 1)})
	if err != nil {
		t.Fatalf("SavePage failed: %v", err)
	}

	// Child is only reachable under its parent.
	got, err := s.Page(ctx, "team", rootID)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if got == nil || got.ID != childID {
		t.Fatalf("Page(team, %d) = %v, want id %d", rootID, got, childID)
	}
	got, err = s.Page(ctx, "team", 0)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if got != nil {
		t.Error("team should not exist at the root level")
	}

	segments, err := s.PageSegments(ctx, resolver.Page{ID: childID, Slug: "team", ParentID: rootID})
	if err != nil {
		t.Fatalf("PageSegments failed: %v", err)
	}
	if len(segments) != 2 || segments[0] != "about" || segments[1] != "team" {
		t.Errorf("PageSegments = %v, want [about team]", segments)
	}
}

func TestDeleteContentOrphansChildren(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	rootID, err := s.SavePage(ctx, resolver.Page{Slug: "docs", Title: "Docs", PublishedAt: date(2024, 1, 1)})
	if err != nil {
		t.Fatalf("SavePage failed: %v", err)
	}
	childID, err := s.SavePage(ctx, resolver.Page{Slug: "install", Title: "Install", ParentID: rootID, PublishedAt: date(2024, 1, 1)})
	if err != nil {
		t.Fatalf("SavePage failed: %v", err)
	}

	if err := s.DeleteContent(ctx, rootID); err != nil {
		t.Fatalf("DeleteContent failed: %v", err)
	}

	child, err := s.GetPageAny(ctx, childID)
	if err != nil {
		t.Fatalf("GetPageAny failed: %v", err)
	}
	if child.ParentID != 0 {
		t.Errorf("child ParentID = %d, want 0 after parent delete", child.ParentID)
	}
}

func TestCategoryTagAuthorLookups(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if _, err := s.SavePost(ctx, resolver.Post{
		Slug: "p1", Title: "P1", PublishedAt: date(2024, 1, 1),
		AuthorSlug: "sam", Categories: []string{"tech"}, Tags: []string{"go", "web"},
	}); err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}

	cat, err := s.Category(ctx, "tech")
	if err != nil || cat == nil {
		t.Fatalf("Category(tech) = %v, %v", cat, err)
	}
	if missing, err := s.Category(ctx, "nope"); err != nil || missing != nil {
		t.Errorf("Category(nope) = %v, %v, want nil, nil", missing, err)
	}

	tags, err := s.Tags(ctx, []string{"go", "web"})
	if err != nil {
		t.Fatalf("Tags failed: %v", err)
	}
	if len(tags) != 2 {
		t.Errorf("Tags = %v, want both slugs", tags)
	}
	// All-or-nothing: one unknown slug empties the result.
	tags, err = s.Tags(ctx, []string{"go", "nope"})
	if err != nil {
		t.Fatalf("Tags failed: %v", err)
	}
	if tags != nil {
		t.Errorf("Tags with unknown slug = %v, want nil", tags)
	}

	author, err := s.Author(ctx, "sam")
	if err != nil || author == nil {
		t.Fatalf("Author(sam) = %v, %v", author, err)
	}
}

func TestListPostsFilters(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	seed := []resolver.Post{
		{Slug: "a", Title: "A", PublishedAt: date(2024, 1, 1), Categories: []string{"tech"}, Tags: []string{"go"}},
		{Slug: "b", Title: "B", PublishedAt: date(2024, 2, 1), Categories: []string{"tech"}, Tags: []string{"go", "web"}},
		{Slug: "c", Title: "C", PublishedAt: date(2023, 6, 1), Categories: []string{"life"}, Tags: []string{"travel"}},
	}
	for _, p := range seed {
		if _, err := s.SavePost(ctx, p); err != nil {
			t.Fatalf("SavePost failed: %v", err)
		}
	}

	posts, total, err := s.ListPosts(ctx, PostFilter{Category: "tech"}, 10, 0)
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if total != 2 || len(posts) != 2 {
		t.Errorf("category filter: total=%d len=%d, want 2/2", total, len(posts))
	}
	if posts[0].Slug != "b" {
		t.Errorf("first post = %q, want newest (b)", posts[0].Slug)
	}

	posts, total, err = s.ListPosts(ctx, PostFilter{Tags: []string{"go", "web"}}, 10, 0)
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if total != 1 || posts[0].Slug != "b" {
		t.Errorf("tag intersection = %v (total %d), want only b", posts, total)
	}

	posts, total, err = s.ListPosts(ctx, PostFilter{Range: resolver.PartialDate{Year: 2023}.Range()}, 10, 0)
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if total != 1 || posts[0].Slug != "c" {
		t.Errorf("year filter = %v (total %d), want only c", posts, total)
	}

	// Pagination.
	posts, total, err = s.ListPosts(ctx, PostFilter{}, 2, 2)
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if total != 3 || len(posts) != 1 {
		t.Errorf("page 2: total=%d len=%d, want 3/1", total, len(posts))
	}
}

func TestSavePostUpdate(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id, err := s.SavePost(ctx, resolver.Post{Slug: "update-me", Title: "Original", PublishedAt: date(2024, 1, 1), Tags: []string{"old"}})
	if err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}

	if _, err := s.SavePost(ctx, resolver.Post{ID: id, Slug: "update-me", Title: "Updated", PublishedAt: date(2024, 1, 1), Tags: []string{"new", "more"}}); err != nil {
		t.Fatalf("SavePost update failed: %v", err)
	}

	got, err := s.GetPostAny(ctx, id)
	if err != nil {
		t.Fatalf("GetPostAny failed: %v", err)
	}
	if got.Title != "Updated" {
		t.Errorf("Title = %q, want %q", got.Title, "Updated")
	}
	if len(got.Tags) != 2 {
		t.Errorf("Tags = %v, want the replaced pair", got.Tags)
	}
}

func TestGetPostAnyNotFound(t *testing.T) {
	s := setupTestStore(t)
	if _, err := s.GetPostAny(context.Background(), 999); err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestListTagsAndAuthors(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if _, err := s.SavePost(ctx, resolver.Post{
		Slug: "a", Title: "A", PublishedAt: date(2024, 1, 1),
		AuthorSlug: "sam", Tags: []string{"go", "web"},
	}); err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}
	if _, err := s.SavePost(ctx, resolver.Post{
		Slug: "b", Title: "B", PublishedAt: date(2024, 2, 1),
		AuthorSlug: "sam", Tags: []string{"go"},
	}); err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}
	if _, err := s.SavePost(ctx, resolver.Post{
		Slug: "draft", Title: "Draft", AuthorSlug: "ghost", Tags: []string{"hidden"},
	}); err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}

	tags, err := s.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	if len(tags) != 2 || tags[0].Slug != "go" || tags[1].Slug != "web" {
		t.Errorf("ListTags = %v, want [go web] deduplicated and sorted", tags)
	}

	authors, err := s.ListAuthors(ctx)
	if err != nil {
		t.Fatalf("ListAuthors failed: %v", err)
	}
	if len(authors) != 1 || authors[0].Slug != "sam" {
		t.Errorf("ListAuthors = %v, want only sam", authors)
	}
}

func TestImageMetadata(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	img := Image{Filename: "cat.jpg", OriginalName: "Cat.png", Width: 800, Height: 600, Size: 12345, UploadedAt: "2024-01-01T00:00:00Z"}
	if err := s.SaveImage(ctx, img); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}

	images, err := s.ListImages(ctx)
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}
	if len(images) != 1 || images[0].Filename != "cat.jpg" || images[0].Width != 800 {
		t.Errorf("ListImages = %v", images)
	}

	if err := s.DeleteImage(ctx, "cat.jpg"); err != nil {
		t.Fatalf("DeleteImage failed: %v", err)
	}
	images, err = s.ListImages(ctx)
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}
	if len(images) != 0 {
		t.Errorf("image should be gone, got %v", images)
	}
}
