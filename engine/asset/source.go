package asset

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

// Source delivers raw asset bytes by slash-separated asset path.
type Source interface {
	// Read returns the bytes stored at p.
	//
	// Parameters:
	//   - p: the asset path
	//
	// Returns:
	//   - []byte: the asset bytes
	//   - error: error if the asset cannot be read
	Read(p string) ([]byte, error)

	// Exists reports whether p can be read.
	//
	// Parameters:
	//   - p: the asset path
	//
	// Returns:
	//   - bool: true if the asset exists
	Exists(p string) bool
}

// fsSource is a Source backed by an fs.FS.
type fsSource struct {
	fsys fs.FS
}

var _ Source = &fsSource{}

// NewFSSource creates a Source reading from fsys.
//
// Parameters:
//   - fsys: the file system holding the assets
//
// Returns:
//   - Source: the source
func NewFSSource(fsys fs.FS) Source {
	return &fsSource{fsys: fsys}
}

// NewDirSource creates a Source reading from a directory on disk.
//
// Parameters:
//   - root: the asset root directory
//
// Returns:
//   - Source: the source
func NewDirSource(root string) Source {
	return NewFSSource(os.DirFS(root))
}

func (s *fsSource) Read(p string) ([]byte, error) {
	data, err := fs.ReadFile(s.fsys, cleanPath(p))
	if err != nil {
		return nil, fmt.Errorf("failed to read asset %s: %w", p, err)
	}
	return data, nil
}

func (s *fsSource) Exists(p string) bool {
	info, err := fs.Stat(s.fsys, cleanPath(p))
	return err == nil && !info.IsDir()
}

// cleanPath normalizes an asset path to the slash-separated, root-relative form used as a key.
func cleanPath(p string) string {
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	p = strings.TrimPrefix(p, "/")
	if p == "." {
		return ""
	}
	return p
}
