package pathpress

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pathpress/pathpress/resolver"
)

// Store wraps a SQLite database and provides the content queries behind the
// resolver's lookup ports, the index view listings, and admin CRUD. Posts and
// pages share one table, split by post_type; pages form a parent tree.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode for concurrent read/write access, set a busy timeout
	// so writers wait instead of returning SQLITE_BUSY immediately, and tune
	// performance: synchronous=NORMAL is safe with WAL and avoids an fsync
	// per transaction; larger cache and mmap reduce disk I/O.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS authors (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    slug TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS posts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    post_type TEXT NOT NULL DEFAULT 'post' CHECK (post_type IN ('post', 'page')),
    slug TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '',
    published_at TEXT,
    updated_at TEXT NOT NULL,
    author_id INTEGER REFERENCES authors(id),
    parent_id INTEGER REFERENCES posts(id),
    menu_order INTEGER NOT NULL DEFAULT 0
);
CREATE UNIQUE INDEX IF NOT EXISTS posts_slug_published
    ON posts(slug, published_at) WHERE post_type = 'post';
CREATE UNIQUE INDEX IF NOT EXISTS pages_slug_parent
    ON posts(slug, ifnull(parent_id, 0)) WHERE post_type = 'page';
CREATE INDEX IF NOT EXISTS posts_published_at ON posts(published_at);
CREATE TABLE IF NOT EXISTS categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    slug TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS tags (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    slug TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS post_categories (
    post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
    category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
    PRIMARY KEY (post_id, category_id)
);
CREATE TABLE IF NOT EXISTS post_tags (
    post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
    tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
    PRIMARY KEY (post_id, tag_id)
);
CREATE TABLE IF NOT EXISTS images (
    filename TEXT PRIMARY KEY,
    original_name TEXT NOT NULL DEFAULT '',
    width INTEGER NOT NULL DEFAULT 0,
    height INTEGER NOT NULL DEFAULT 0,
    size INTEGER NOT NULL DEFAULT 0,
    uploaded_at TEXT NOT NULL
);
`)
	return err
}

const postColumns = `p.id, p.slug, p.title, p.content, p.published_at, p.updated_at,
	ifnull(a.slug, ''),
	ifnull((SELECT group_concat(c.slug) FROM post_categories pc
	        JOIN categories c ON c.id = pc.category_id WHERE pc.post_id = p.id), ''),
	ifnull((SELECT group_concat(t.slug) FROM post_tags pt
	        JOIN tags t ON t.id = pt.tag_id WHERE pt.post_id = p.id), '')`

func scanPost(sc interface{ Scan(...any) error }) (resolver.Post, error) {
	var p resolver.Post
	var published sql.NullString
	var updated, cats, tags string
	if err := sc.Scan(&p.ID, &p.Slug, &p.Title, &p.Content, &published, &updated, &p.AuthorSlug, &cats, &tags); err != nil {
		return resolver.Post{}, err
	}
	if published.Valid {
		t, err := time.Parse(time.RFC3339, published.String)
		if err != nil {
			return resolver.Post{}, fmt.Errorf("post %d: bad published_at: %w", p.ID, err)
		}
		p.PublishedAt = t.UTC()
	}
	if t, err := time.Parse(time.RFC3339, updated); err == nil {
		p.UpdatedAt = t.UTC()
	}
	if cats != "" {
		p.Categories = strings.Split(cats, ",")
	}
	if tags != "" {
		p.Tags = strings.Split(tags, ",")
	}
	return p, nil
}

// --- resolver.Lookup ---

// PublishedPosts returns published posts with the given slug inside r,
// newest first. Future-dated posts are not published yet.
func (s *Store) PublishedPosts(ctx context.Context, slug string, r resolver.DateRange) ([]resolver.Post, error) {
	query := `SELECT ` + postColumns + `
		FROM posts p LEFT JOIN authors a ON a.id = p.author_id
		WHERE p.post_type = 'post' AND p.slug = ?
		  AND p.published_at IS NOT NULL AND p.published_at <= ?`
	args := []any{slug, now()}
	if !r.IsZero() {
		query += ` AND p.published_at >= ? AND p.published_at < ?`
		args = append(args, r.Start.UTC().Format(time.RFC3339), r.End.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY p.published_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []resolver.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Page returns the published page with the given slug under parentID
// (0 = root), or nil.
func (s *Store) Page(ctx context.Context, slug string, parentID int64) (*resolver.Page, error) {
	query := `SELECT id, slug, title, content, ifnull(parent_id, 0), menu_order, published_at, updated_at
		FROM posts
		WHERE post_type = 'page' AND slug = ?
		  AND published_at IS NOT NULL AND published_at <= ?`
	args := []any{slug, now()}
	if parentID == 0 {
		query += ` AND parent_id IS NULL`
	} else {
		query += ` AND parent_id = ?`
		args = append(args, parentID)
	}

	var p resolver.Page
	var published sql.NullString
	var updated string
	err := s.db.QueryRowContext(ctx, query, args...).
		Scan(&p.ID, &p.Slug, &p.Title, &p.Content, &p.ParentID, &p.MenuOrder, &published, &updated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if published.Valid {
		if t, err := time.Parse(time.RFC3339, published.String); err == nil {
			p.PublishedAt = t.UTC()
		}
	}
	if t, err := time.Parse(time.RFC3339, updated); err == nil {
		p.UpdatedAt = t.UTC()
	}
	return &p, nil
}

// Category returns the category with the given slug, or nil.
func (s *Store) Category(ctx context.Context, slug string) (*resolver.Category, error) {
	var c resolver.Category
	err := s.db.QueryRowContext(ctx, `SELECT id, slug, title FROM categories WHERE slug = ?`, slug).
		Scan(&c.ID, &c.Slug, &c.Title)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Tags resolves every slug or none.
func (s *Store) Tags(ctx context.Context, slugs []string) (map[string]resolver.Tag, error) {
	out := make(map[string]resolver.Tag, len(slugs))
	for _, slug := range slugs {
		var t resolver.Tag
		err := s.db.QueryRowContext(ctx, `SELECT id, slug, title FROM tags WHERE slug = ?`, slug).
			Scan(&t.ID, &t.Slug, &t.Title)
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		out[slug] = t
	}
	return out, nil
}

// Author returns the author with the given username slug, or nil.
func (s *Store) Author(ctx context.Context, slug string) (*resolver.Author, error) {
	var a resolver.Author
	err := s.db.QueryRowContext(ctx, `SELECT id, slug, name FROM authors WHERE slug = ?`, slug).
		Scan(&a.ID, &a.Slug, &a.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// --- index view listings ---

// PostFilter narrows an index view listing. Zero fields mean no filter; Tags
// use AND semantics (a post must carry every slug).
type PostFilter struct {
	Range    resolver.DateRange
	Category string
	Tags     []string
	Author   string
}

func (f PostFilter) where() (string, []any) {
	clauses := []string{`p.post_type = 'post'`, `p.published_at IS NOT NULL`, `p.published_at <= ?`}
	args := []any{now()}
	if !f.Range.IsZero() {
		clauses = append(clauses, `p.published_at >= ?`, `p.published_at < ?`)
		args = append(args, f.Range.Start.UTC().Format(time.RFC3339), f.Range.End.UTC().Format(time.RFC3339))
	}
	if f.Category != "" {
		clauses = append(clauses, `EXISTS (SELECT 1 FROM post_categories pc
			JOIN categories c ON c.id = pc.category_id
			WHERE pc.post_id = p.id AND c.slug = ?)`)
		args = append(args, f.Category)
	}
	for _, tag := range f.Tags {
		clauses = append(clauses, `EXISTS (SELECT 1 FROM post_tags pt
			JOIN tags t ON t.id = pt.tag_id
			WHERE pt.post_id = p.id AND t.slug = ?)`)
		args = append(args, tag)
	}
	if f.Author != "" {
		clauses = append(clauses, `a.slug = ?`)
		args = append(args, f.Author)
	}
	return strings.Join(clauses, " AND "), args
}

// ListPosts returns one page of published posts matching the filter, newest
// first, along with the total match count for pagination.
func (s *Store) ListPosts(ctx context.Context, f PostFilter, limit, offset int) ([]resolver.Post, int, error) {
	where, args := f.where()

	var total int
	count := `SELECT count(*) FROM posts p LEFT JOIN authors a ON a.id = p.author_id WHERE ` + where
	if err := s.db.QueryRowContext(ctx, count, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + postColumns + `
		FROM posts p LEFT JOIN authors a ON a.id = p.author_id
		WHERE ` + where + ` ORDER BY p.published_at DESC LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []resolver.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}
	return posts, total, rows.Err()
}

// ListPages returns all published pages ordered by menu order then title,
// used for navigation and the sitemap.
func (s *Store) ListPages(ctx context.Context) ([]resolver.Page, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, slug, title, content, ifnull(parent_id, 0), menu_order, published_at, updated_at
		FROM posts
		WHERE post_type = 'page' AND published_at IS NOT NULL AND published_at <= ?
		ORDER BY menu_order, title`, now())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []resolver.Page
	for rows.Next() {
		var p resolver.Page
		var published sql.NullString
		var updated string
		if err := rows.Scan(&p.ID, &p.Slug, &p.Title, &p.Content, &p.ParentID, &p.MenuOrder, &published, &updated); err != nil {
			return nil, err
		}
		if published.Valid {
			if t, err := time.Parse(time.RFC3339, published.String); err == nil {
				p.PublishedAt = t.UTC()
			}
		}
		if t, err := time.Parse(time.RFC3339, updated); err == nil {
			p.UpdatedAt = t.UTC()
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// PageSegments returns the slug chain from the outermost ancestor down to the
// page itself, the input for URL generation.
func (s *Store) PageSegments(ctx context.Context, page resolver.Page) ([]string, error) {
	segments := []string{page.Slug}
	parentID := page.ParentID
	for parentID != 0 {
		var slug string
		var next sql.NullInt64
		err := s.db.QueryRowContext(ctx,
			`SELECT slug, parent_id FROM posts WHERE id = ? AND post_type = 'page'`, parentID).
			Scan(&slug, &next)
		if err != nil {
			return nil, fmt.Errorf("page %d: broken parent chain: %w", page.ID, err)
		}
		segments = append([]string{slug}, segments...)
		parentID = next.Int64
	}
	return segments, nil
}

// ListCategories returns all categories ordered by title.
func (s *Store) ListCategories(ctx context.Context) ([]resolver.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, slug, title FROM categories ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []resolver.Category
	for rows.Next() {
		var c resolver.Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Title); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// ListTags returns the tags carried by at least one published post, in one
// query, ordered by slug.
func (s *Store) ListTags(ctx context.Context) ([]resolver.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT t.id, t.slug, t.title
		FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		JOIN posts p ON p.id = pt.post_id
		WHERE p.post_type = 'post' AND p.published_at IS NOT NULL AND p.published_at <= ?
		ORDER BY t.slug`, now())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []resolver.Tag
	for rows.Next() {
		var t resolver.Tag
		if err := rows.Scan(&t.ID, &t.Slug, &t.Title); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// ListAuthors returns the authors of at least one published post, in one
// query, ordered by slug.
func (s *Store) ListAuthors(ctx context.Context) ([]resolver.Author, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT a.id, a.slug, a.name
		FROM authors a
		JOIN posts p ON p.author_id = a.id
		WHERE p.post_type = 'post' AND p.published_at IS NOT NULL AND p.published_at <= ?
		ORDER BY a.slug`, now())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []resolver.Author
	for rows.Next() {
		var a resolver.Author
		if err := rows.Scan(&a.ID, &a.Slug, &a.Name); err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

// --- admin CRUD ---

// SavePost inserts or updates a post (ID 0 inserts). A zero PublishedAt
// stores NULL, keeping the post out of every public query. Category and tag
// slugs are created on first use.
func (s *Store) SavePost(ctx context.Context, p resolver.Post) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var published any
	if !p.PublishedAt.IsZero() {
		published = p.PublishedAt.UTC().Format(time.RFC3339)
	}
	var authorID any
	if p.AuthorSlug != "" {
		id, err := upsertSlug(tx, "authors", "name", p.AuthorSlug, p.AuthorSlug)
		if err != nil {
			return 0, err
		}
		authorID = id
	}

	id := p.ID
	if id == 0 {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO posts (post_type, slug, title, content, published_at, updated_at, author_id)
			VALUES ('post', ?, ?, ?, ?, ?, ?)`,
			p.Slug, p.Title, p.Content, published, now(), authorID)
		if err != nil {
			return 0, err
		}
		if id, err = res.LastInsertId(); err != nil {
			return 0, err
		}
	} else {
		if _, err := tx.ExecContext(ctx, `
			UPDATE posts SET slug = ?, title = ?, content = ?, published_at = ?, updated_at = ?, author_id = ?
			WHERE id = ? AND post_type = 'post'`,
			p.Slug, p.Title, p.Content, published, now(), authorID, id); err != nil {
			return 0, err
		}
	}

	if err := replaceJoins(tx, "post_categories", "category_id", "categories", id, p.Categories); err != nil {
		return 0, err
	}
	if err := replaceJoins(tx, "post_tags", "tag_id", "tags", id, p.Tags); err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// SavePage inserts or updates a page (ID 0 inserts). ParentID 0 stores NULL.
func (s *Store) SavePage(ctx context.Context, p resolver.Page) (int64, error) {
	var published any
	if !p.PublishedAt.IsZero() {
		published = p.PublishedAt.UTC().Format(time.RFC3339)
	}
	var parent any
	if p.ParentID != 0 {
		parent = p.ParentID
	}
	if p.ID == 0 {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO posts (post_type, slug, title, content, published_at, updated_at, parent_id, menu_order)
			VALUES ('page', ?, ?, ?, ?, ?, ?, ?)`,
			p.Slug, p.Title, p.Content, published, now(), parent, p.MenuOrder)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE posts SET slug = ?, title = ?, content = ?, published_at = ?, updated_at = ?, parent_id = ?, menu_order = ?
		WHERE id = ? AND post_type = 'page'`,
		p.Slug, p.Title, p.Content, published, now(), parent, p.MenuOrder, p.ID)
	return p.ID, err
}

// DeleteContent removes a post or page by id. Join rows cascade; child pages
// become root pages.
func (s *Store) DeleteContent(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `UPDATE posts SET parent_id = NULL WHERE parent_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// GetPostAny returns a post by id regardless of published status (for admin).
func (s *Store) GetPostAny(ctx context.Context, id int64) (resolver.Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+`
		FROM posts p LEFT JOIN authors a ON a.id = p.author_id
		WHERE p.id = ? AND p.post_type = 'post'`, id)
	return scanPost(row)
}

// GetPageAny returns a page by id regardless of published status (for admin).
func (s *Store) GetPageAny(ctx context.Context, id int64) (resolver.Page, error) {
	var p resolver.Page
	var published sql.NullString
	var updated string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, slug, title, content, ifnull(parent_id, 0), menu_order, published_at, updated_at
		FROM posts WHERE id = ? AND post_type = 'page'`, id).
		Scan(&p.ID, &p.Slug, &p.Title, &p.Content, &p.ParentID, &p.MenuOrder, &published, &updated)
	if err != nil {
		return resolver.Page{}, err
	}
	if published.Valid {
		if t, err := time.Parse(time.RFC3339, published.String); err == nil {
			p.PublishedAt = t.UTC()
		}
	}
	if t, err := time.Parse(time.RFC3339, updated); err == nil {
		p.UpdatedAt = t.UTC()
	}
	return p, nil
}

// ListAllPosts returns every post including drafts, newest first (for admin).
func (s *Store) ListAllPosts(ctx context.Context) ([]resolver.Post, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+postColumns+`
		FROM posts p LEFT JOIN authors a ON a.id = p.author_id
		WHERE p.post_type = 'post'
		ORDER BY p.published_at IS NULL DESC, p.published_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []resolver.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListAllPages returns every page including drafts (for admin).
func (s *Store) ListAllPages(ctx context.Context) ([]resolver.Page, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, slug, title, content, ifnull(parent_id, 0), menu_order, published_at, updated_at
		FROM posts WHERE post_type = 'page' ORDER BY menu_order, title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []resolver.Page
	for rows.Next() {
		var p resolver.Page
		var published sql.NullString
		var updated string
		if err := rows.Scan(&p.ID, &p.Slug, &p.Title, &p.Content, &p.ParentID, &p.MenuOrder, &published, &updated); err != nil {
			return nil, err
		}
		if published.Valid {
			if t, err := time.Parse(time.RFC3339, published.String); err == nil {
				p.PublishedAt = t.UTC()
			}
		}
		if t, err := time.Parse(time.RFC3339, updated); err == nil {
			p.UpdatedAt = t.UTC()
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// SaveImage records metadata for an uploaded image.
func (s *Store) SaveImage(ctx context.Context, img Image) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO images (filename, original_name, width, height, size, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(filename) DO UPDATE SET
			original_name = excluded.original_name, width = excluded.width,
			height = excluded.height, size = excluded.size, uploaded_at = excluded.uploaded_at`,
		img.Filename, img.OriginalName, img.Width, img.Height, img.Size, img.UploadedAt)
	return err
}

// ListImages returns uploaded image metadata, newest first.
func (s *Store) ListImages(ctx context.Context) ([]Image, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT filename, original_name, width, height, size, uploaded_at
		FROM images ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.Filename, &img.OriginalName, &img.Width, &img.Height, &img.Size, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// DeleteImage removes image metadata by filename.
func (s *Store) DeleteImage(ctx context.Context, filename string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM images WHERE filename = ?`, filename)
	return err
}

func upsertSlug(tx *sql.Tx, table, titleCol, slug, title string) (int64, error) {
	if _, err := tx.Exec(
		`INSERT INTO `+table+` (slug, `+titleCol+`) VALUES (?, ?) ON CONFLICT(slug) DO NOTHING`,
		slug, title); err != nil {
		return 0, err
	}
	var id int64
	err := tx.QueryRow(`SELECT id FROM `+table+` WHERE slug = ?`, slug).Scan(&id)
	return id, err
}

func replaceJoins(tx *sql.Tx, joinTable, fkCol, targetTable string, postID int64, slugs []string) error {
	if _, err := tx.Exec(`DELETE FROM `+joinTable+` WHERE post_id = ?`, postID); err != nil {
		return err
	}
	for _, slug := range slugs {
		slug = strings.ToLower(strings.TrimSpace(slug))
		if slug == "" {
			continue
		}
		id, err := upsertSlug(tx, targetTable, "title", slug, slug)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO `+joinTable+` (post_id, `+fkCol+`) VALUES (?, ?)`, postID, id); err != nil {
			return err
		}
	}
	return nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
