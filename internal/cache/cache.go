// Package cache keys per-image tool state by opaque image id and resolves
// which value applies to an image: its own override, then the broadcast
// "apply to all" value, then the built-in default.
package cache

// Source reports where a resolved value came from.
type Source int

const (
	SourceDefault Source = iota
	SourceBroadcast
	SourceOverride
)

func (s Source) String() string {
	switch s {
	case SourceOverride:
		return "override"
	case SourceBroadcast:
		return "broadcast"
	}
	return "default"
}

// Registry holds per-image overrides plus an optional broadcast value. It is
// not safe for concurrent use.
type Registry[T any] struct {
	overrides map[string]T
	broadcast *T
	def       func(id string) T
}

// New creates a Registry whose default for an id is produced by def. A nil def
// yields the zero value.
func New[T any](def func(id string) T) *Registry[T] {
	return &Registry[T]{overrides: map[string]T{}, def: def}
}

// Set stores v as the override for id.
func (r *Registry[T]) Set(id string, v T) { r.overrides[id] = v }

// Get returns the override for id, if there is one.
func (r *Registry[T]) Get(id string) (T, bool) {
	v, ok := r.overrides[id]
	return v, ok
}

// Resolve returns the value that applies to id and where it came from.
func (r *Registry[T]) Resolve(id string) (T, Source) {
	if v, ok := r.overrides[id]; ok {
		return v, SourceOverride
	}
	if r.broadcast != nil {
		return *r.broadcast, SourceBroadcast
	}
	if r.def != nil {
		return r.def(id), SourceDefault
	}
	var zero T
	return zero, SourceDefault
}

// Broadcast makes v the value for every image, discarding all overrides.
func (r *Registry[T]) Broadcast(v T) {
	r.broadcast = &v
	clear(r.overrides)
}

// Broadcasted returns the current broadcast value, if any.
func (r *Registry[T]) Broadcasted() (T, bool) {
	if r.broadcast == nil {
		var zero T
		return zero, false
	}
	return *r.broadcast, true
}

// ClearBroadcast drops the broadcast value, keeping overrides.
func (r *Registry[T]) ClearBroadcast() { r.broadcast = nil }

// Remove forgets the override for id.
func (r *Registry[T]) Remove(id string) { delete(r.overrides, id) }

// Reset drops every override and the broadcast value.
func (r *Registry[T]) Reset() {
	clear(r.overrides)
	r.broadcast = nil
}

// Len returns the number of overrides.
func (r *Registry[T]) Len() int { return len(r.overrides) }
