package asset

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// store is the type-erased view of an Assets[T] the server uses to apply load results.
type store interface {
	TypeID() uuid.UUID
	insert(id uuid.UUID, value any) (replaced bool, err error)
	acquire(id uuid.UUID)
	release(id uuid.UUID)
	refCount(id uuid.UUID) int
	loaded(id uuid.UUID) bool
	setDropHook(hook func(id uuid.UUID))
}

type assetEntry[T any] struct {
	value  T
	loaded bool
	refs   int
}

// Assets is the arena of assets of one type. Entries exist while at least one handle refers to
// them; a loaded value is immutable from the store's point of view and only replaced on reload.
type Assets[T any] struct {
	mu      sync.RWMutex
	typeID  uuid.UUID
	entries map[uuid.UUID]*assetEntry[T]
	onDrop  func(id uuid.UUID)
}

var _ store = &Assets[int]{}

// NewAssets creates an empty store for assets of type T.
//
// Parameters:
//   - typeID: the asset type id
//
// Returns:
//   - *Assets[T]: the new store
func NewAssets[T any](typeID uuid.UUID) *Assets[T] {
	return &Assets[T]{
		typeID:  typeID,
		entries: make(map[uuid.UUID]*assetEntry[T]),
	}
}

// TypeID returns the asset type id of the store.
func (a *Assets[T]) TypeID() uuid.UUID {
	return a.typeID
}

// Add inserts a value under a fresh id and returns the only handle to it.
//
// Parameters:
//   - value: the asset to store
//
// Returns:
//   - Handle[T]: a strong handle to the new asset
func (a *Assets[T]) Add(value T) Handle[T] {
	id := uuid.New()
	a.mu.Lock()
	a.entries[id] = &assetEntry[T]{value: value, loaded: true, refs: 1}
	a.mu.Unlock()
	return Handle[T]{id: id, store: a}
}

// Reserve returns a strong handle to id, creating an empty entry when none exists yet.
// The asset becomes visible through the handle once a value is inserted under id.
func (a *Assets[T]) Reserve(id uuid.UUID) Handle[T] {
	a.acquire(id)
	return Handle[T]{id: id, store: a}
}

// Get returns the asset a handle refers to if it is loaded.
func (a *Assets[T]) Get(h Handle[T]) (T, bool) {
	return a.GetByID(h.id)
}

// GetByID returns the asset stored under id if it is loaded.
func (a *Assets[T]) GetByID(id uuid.UUID) (T, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	e, ok := a.entries[id]
	if !ok || !e.loaded {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Len returns the number of loaded assets.
func (a *Assets[T]) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	n := 0
	for _, e := range a.entries {
		if e.loaded {
			n++
		}
	}
	return n
}

// IDs returns the ids of all loaded assets.
func (a *Assets[T]) IDs() []uuid.UUID {
	a.mu.RLock()
	defer a.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(a.entries))
	for id, e := range a.entries {
		if e.loaded {
			ids = append(ids, id)
		}
	}
	return ids
}

// RefCount returns the number of live handles to id.
func (a *Assets[T]) RefCount(id uuid.UUID) int {
	return a.refCount(id)
}

func (a *Assets[T]) refCount(id uuid.UUID) int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if e, ok := a.entries[id]; ok {
		return e.refs
	}
	return 0
}

func (a *Assets[T]) loaded(id uuid.UUID) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	e, ok := a.entries[id]
	return ok && e.loaded
}

// insert stores a load result. Results for ids nobody holds a handle to are rejected.
func (a *Assets[T]) insert(id uuid.UUID, value any) (bool, error) {
	v, ok := value.(T)
	if !ok {
		return false, fmt.Errorf("%w: store %s got %T", ErrTypeMismatch, a.typeID, value)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.entries[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrAssetNotFound, id)
	}
	replaced := e.loaded
	e.value = v
	e.loaded = true
	return replaced, nil
}

func (a *Assets[T]) acquire(id uuid.UUID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.entries[id]
	if !ok {
		e = &assetEntry[T]{}
		a.entries[id] = e
	}
	e.refs++
}

func (a *Assets[T]) release(id uuid.UUID) {
	a.mu.Lock()
	e, ok := a.entries[id]
	if !ok {
		a.mu.Unlock()
		return
	}
	e.refs--
	dropped := e.refs <= 0
	if dropped {
		delete(a.entries, id)
	}
	hook := a.onDrop
	a.mu.Unlock()

	if dropped && hook != nil {
		hook(id)
	}
}

func (a *Assets[T]) setDropHook(hook func(id uuid.UUID)) {
	a.mu.Lock()
	a.onDrop = hook
	a.mu.Unlock()
}
