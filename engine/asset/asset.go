// Package asset is the engine's asset system. Bytes are read from a Source and parsed by a Loader
// chosen by file extension on a worker pool; parsed assets land in typed, reference-counted stores
// when the owning goroutine calls Server.Update. Consumers hold Handles and observe readiness.
package asset

import (
	"errors"

	"github.com/google/uuid"
)

// Errors returned by the asset system.
var (
	ErrNoLoader           = errors.New("no loader registered for extension")
	ErrUnknownType        = errors.New("asset type not registered")
	ErrTypeMismatch       = errors.New("asset type does not match handle type")
	ErrDependencyNotFound = errors.New("dependency not found")
	ErrUnknownPath        = errors.New("path was never loaded")
	ErrAssetNotFound      = errors.New("asset not found")
)

// LoadState is the load progress of an asset id.
type LoadState int

const (
	// LoadStateNotLoaded means the id is unknown to the server.
	LoadStateNotLoaded LoadState = iota
	// LoadStateLoading means bytes are being read or parsed.
	LoadStateLoading
	// LoadStateLoaded means the asset is available in its store.
	LoadStateLoaded
	// LoadStateFailed means the last load attempt returned an error.
	LoadStateFailed
)

// String returns a lower-case name for the state.
func (s LoadState) String() string {
	switch s {
	case LoadStateLoading:
		return "loading"
	case LoadStateLoaded:
		return "loaded"
	case LoadStateFailed:
		return "failed"
	default:
		return "not loaded"
	}
}

// EventKind is the kind of change an Event reports.
type EventKind int

const (
	// EventLoaded reports an asset that became available for the first time.
	EventLoaded EventKind = iota
	// EventModified reports a loaded asset replaced by a reload.
	EventModified
	// EventFailed reports a load that returned an error.
	EventFailed
	// EventRemoved reports an asset dropped after its last handle was released.
	EventRemoved
)

// Event describes a store change applied during Server.Update.
type Event struct {
	Kind   EventKind
	ID     uuid.UUID
	TypeID uuid.UUID
	Path   string
	Err    error
}

// PathID returns the deterministic id of the asset of type typeID loaded from path.
// Loading the same path twice always resolves to the same id.
//
// Parameters:
//   - typeID: the asset type id
//   - path: the cleaned asset path
//
// Returns:
//   - uuid.UUID: the asset id
func PathID(typeID uuid.UUID, path string) uuid.UUID {
	return uuid.NewSHA1(typeID, []byte(path))
}
