package plugins

import (
	"context"
	"strings"
	"testing"
)

func TestFilterContentOrder(t *testing.T) {
	r := NewRegistry()
	r.OnContent(PreRenderContent, func(s string) string { return s + "-a" })
	r.OnContent(PreRenderContent, func(s string) string { return s + "-b" })
	r.OnContent(PostRenderContent, func(s string) string { return strings.ToUpper(s) })

	got := r.FilterContent(PreRenderContent, "x")
	if got != "x-a-b" {
		t.Fatalf("expected x-a-b, got %q", got)
	}
	got = r.FilterContent(PostRenderContent, "x")
	if got != "X" {
		t.Fatalf("expected X, got %q", got)
	}
}

func TestFilterContentNoFilters(t *testing.T) {
	r := NewRegistry()
	if got := r.FilterContent(PreRenderContent, "unchanged"); got != "unchanged" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestNotifyResolution(t *testing.T) {
	r := NewRegistry()
	var seen []string
	r.OnResolve(func(_ context.Context, path, kind string) {
		seen = append(seen, path+":"+kind)
	})
	r.OnResolve(func(_ context.Context, path, kind string) {
		seen = append(seen, "second")
	})

	r.NotifyResolution(context.Background(), "/2024/01/hello", "post")

	if len(seen) != 2 || seen[0] != "/2024/01/hello:post" || seen[1] != "second" {
		t.Fatalf("unexpected observer calls: %v", seen)
	}
}
