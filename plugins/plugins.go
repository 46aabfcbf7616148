// Package plugins provides the pathpress extension hooks. A Registry holds
// ordered callbacks in two families: content filters, which rewrite post and
// page content around markdown rendering, and resolution observers, which are
// notified of every resolved request path. Registration order is execution
// order.
package plugins

import (
	"context"
	"sync"
)

// Hook identifies a content filter attachment point.
type Hook int

const (
	// PreRenderContent filters run on raw markdown before rendering.
	PreRenderContent Hook = iota
	// PostRenderContent filters run on the rendered HTML.
	PostRenderContent
)

// ContentFilter rewrites content at a hook. The return value replaces the
// input for the next filter in line.
type ContentFilter func(content string) string

// ResolutionObserver is notified after a request path has been resolved.
// kind is the resolved view name ("post", "page", "archive", ...) and path is
// the request path as resolved.
type ResolutionObserver func(ctx context.Context, path, kind string)

// Registry holds registered plugin callbacks. A Registry is safe for
// concurrent use; registration normally happens before the server starts.
type Registry struct {
	mu        sync.RWMutex
	filters   map[Hook][]ContentFilter
	observers []ResolutionObserver
}

// NewRegistry creates an empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{filters: make(map[Hook][]ContentFilter)}
}

// OnContent registers a content filter at the given hook.
func (r *Registry) OnContent(h Hook, f ContentFilter) {
	r.mu.Lock()
	r.filters[h] = append(r.filters[h], f)
	r.mu.Unlock()
}

// OnResolve registers a resolution observer.
func (r *Registry) OnResolve(o ResolutionObserver) {
	r.mu.Lock()
	r.observers = append(r.observers, o)
	r.mu.Unlock()
}

// FilterContent runs content through every filter registered at the hook, in
// registration order, and returns the result.
func (r *Registry) FilterContent(h Hook, content string) string {
	r.mu.RLock()
	filters := r.filters[h]
	r.mu.RUnlock()
	for _, f := range filters {
		content = f(content)
	}
	return content
}

// NotifyResolution calls every registered observer with the resolved path.
func (r *Registry) NotifyResolution(ctx context.Context, path, kind string) {
	r.mu.RLock()
	observers := r.observers
	r.mu.RUnlock()
	for _, o := range observers {
		o(ctx, path, kind)
	}
}
