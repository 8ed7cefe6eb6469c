package asset

import (
	"fmt"
	"path"

	"github.com/google/uuid"
)

// Loader turns raw bytes into an asset value. Implementations must be safe to call from
// multiple worker goroutines at once.
type Loader interface {
	// Extensions returns the lower-case file extensions (without the dot) this loader handles.
	//
	// Returns:
	//   - []string: the handled extensions
	Extensions() []string

	// TypeID returns the id of the asset type this loader produces.
	//
	// Returns:
	//   - uuid.UUID: the asset type id
	TypeID() uuid.UUID

	// Load parses the bytes of the asset at ctx.Path().
	//
	// Parameters:
	//   - ctx: the load context for resolving and declaring sibling dependencies
	//   - data: the raw asset bytes
	//
	// Returns:
	//   - any: the asset value, which must match the store registered for TypeID
	//   - error: error if the bytes cannot be parsed
	Load(ctx *LoadContext, data []byte) (any, error)
}

// LoadContext carries the path of the asset being loaded and collects the dependencies it declares.
type LoadContext struct {
	path         string
	source       Source
	dependencies []string
}

// NewLoadContext creates a context for loading the asset at assetPath from source.
// Loaders receive one from the server; tests construct their own.
func NewLoadContext(assetPath string, source Source) *LoadContext {
	return &LoadContext{path: cleanPath(assetPath), source: source}
}

// Path returns the asset path being loaded.
func (c *LoadContext) Path() string {
	return c.path
}

// Dir returns the directory of the asset path; sibling references resolve against it.
func (c *LoadContext) Dir() string {
	dir := path.Dir(c.path)
	if dir == "." {
		return ""
	}
	return dir
}

// AddDependency declares that the asset needs the sibling at rel. The sibling is resolved against
// Dir and must exist in the source; the server loads it after this asset is stored.
//
// Parameters:
//   - rel: the sibling path relative to Dir
//
// Returns:
//   - string: the resolved asset path
//   - error: error wrapping ErrDependencyNotFound if the source cannot resolve it
func (c *LoadContext) AddDependency(rel string) (string, error) {
	full := cleanPath(path.Join(c.Dir(), rel))
	if c.source == nil || !c.source.Exists(full) {
		return "", fmt.Errorf("%w: %s", ErrDependencyNotFound, full)
	}
	c.dependencies = append(c.dependencies, full)
	return full, nil
}

// Dependencies returns the declared dependency paths in declaration order.
func (c *LoadContext) Dependencies() []string {
	return c.dependencies
}
