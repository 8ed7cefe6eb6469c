package asset

import "github.com/google/uuid"

// Handle is a strong, reference-counted reference to an asset of type T. Every handle obtained
// from Load, Add or Clone must be released exactly once; the asset is dropped from its store
// when the last handle is released. The zero Handle refers to nothing.
type Handle[T any] struct {
	id    uuid.UUID
	store *Assets[T]
}

// ID returns the asset id.
func (h Handle[T]) ID() uuid.UUID {
	return h.id
}

// IsZero reports whether the handle refers to nothing.
func (h Handle[T]) IsZero() bool {
	return h.store == nil
}

// Get returns the asset if it is loaded.
//
// Returns:
//   - T: the asset, or the zero value
//   - bool: true if the asset is loaded
func (h Handle[T]) Get() (T, bool) {
	if h.store == nil {
		var zero T
		return zero, false
	}
	return h.store.GetByID(h.id)
}

// Clone returns a new strong handle to the same asset.
func (h Handle[T]) Clone() Handle[T] {
	if h.store == nil {
		return h
	}
	h.store.acquire(h.id)
	return h
}

// Release drops this handle's reference.
func (h Handle[T]) Release() {
	if h.store == nil {
		return
	}
	h.store.release(h.id)
}
