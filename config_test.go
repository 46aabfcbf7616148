package pathpress

import "testing"

func TestConfigDefaults(t *testing.T) {
	var cfg SiteConfig
	cfg.setDefaults()

	if cfg.PostPrefix != DefaultPostPrefix {
		t.Errorf("PostPrefix = %q, want default", cfg.PostPrefix)
	}
	if cfg.CategoryPrefix != "category" || cfg.TagPrefix != "tag" || cfg.AuthorPrefix != "author" {
		t.Errorf("section prefixes = %q/%q/%q", cfg.CategoryPrefix, cfg.TagPrefix, cfg.AuthorPrefix)
	}
	if cfg.RSSPath != "rss" {
		t.Errorf("RSSPath = %q, want rss", cfg.RSSPath)
	}
	if cfg.PostsPerPage != 20 {
		t.Errorf("PostsPerPage = %d, want 20", cfg.PostsPerPage)
	}
	if cfg.ContentCacheTTL == 0 {
		t.Error("ContentCacheTTL should default to a non-zero value")
	}
}

func TestConfigEmptyPostPrefix(t *testing.T) {
	cfg := SiteConfig{EmptyPostPrefix: true, PostPrefix: "ignored"}
	cfg.setDefaults()
	if cfg.PostPrefix != "" {
		t.Errorf("EmptyPostPrefix should force an empty prefix, got %q", cfg.PostPrefix)
	}
}

func TestRouteConfigMapping(t *testing.T) {
	cfg := SiteConfig{
		PostPrefix:    "posts",
		ArchivePrefix: "archives",
		DisableTag:    true,
		DisableRSS:    true,
	}
	cfg.setDefaults()
	rc := cfg.routeConfig()

	if rc.PostPrefix != "posts" {
		t.Errorf("PostPrefix = %q", rc.PostPrefix)
	}
	if rc.ArchivePrefix != "archives" || !rc.ArchiveEnabled {
		t.Errorf("archive = %q enabled=%v", rc.ArchivePrefix, rc.ArchiveEnabled)
	}
	if rc.TagEnabled {
		t.Error("tag routing should be disabled")
	}
	if rc.RSSEnabled {
		t.Error("rss should be disabled")
	}
	if !rc.CategoryEnabled || rc.CategoryPrefix != "category" {
		t.Errorf("category = %q enabled=%v", rc.CategoryPrefix, rc.CategoryEnabled)
	}
}
