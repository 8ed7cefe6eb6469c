package asset

import (
	"fmt"
	"io/fs"
	"time"

	bolt "go.etcd.io/bbolt"
)

// AssetsBucket is the bbolt bucket a resource pack stores asset bytes in, keyed by asset path.
const AssetsBucket = "assets"

// BoltSource is a Source backed by a bbolt resource pack.
type BoltSource struct {
	db *bolt.DB
}

var _ Source = &BoltSource{}

// OpenBoltSource opens a resource pack read-only.
//
// Parameters:
//   - packPath: the pack file path
//
// Returns:
//   - *BoltSource: the opened source; Close it when done
//   - error: error if the pack cannot be opened
func OpenBoltSource(packPath string) (*BoltSource, error) {
	db, err := bolt.Open(packPath, 0o444, &bolt.Options{ReadOnly: true, Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open resource pack %s: %w", packPath, err)
	}
	return &BoltSource{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltSource) Close() error {
	return s.db.Close()
}

func (s *BoltSource) Read(p string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		buck := tx.Bucket([]byte(AssetsBucket))
		if buck == nil {
			return fmt.Errorf("the %s bucket not found", AssetsBucket)
		}
		v := buck.Get([]byte(cleanPath(p)))
		if v == nil {
			return fmt.Errorf("asset '%s' not found: %w", p, fs.ErrNotExist)
		}
		// Values are only valid inside the transaction.
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *BoltSource) Exists(p string) bool {
	found := false
	_ = s.db.View(func(tx *bolt.Tx) error {
		if buck := tx.Bucket([]byte(AssetsBucket)); buck != nil {
			found = buck.Get([]byte(cleanPath(p))) != nil
		}
		return nil
	})
	return found
}

// PackFS writes every regular file of fsys into the resource pack at packPath, creating it if needed.
// Existing entries with the same path are overwritten.
//
// Parameters:
//   - packPath: the pack file path
//   - fsys: the files to pack
//
// Returns:
//   - int: the number of files written
//   - error: error if a file cannot be read or the pack cannot be written
func PackFS(packPath string, fsys fs.FS) (int, error) {
	db, err := bolt.Open(packPath, 0o666, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return 0, fmt.Errorf("failed to open resource pack %s: %w", packPath, err)
	}
	defer db.Close()

	count := 0
	err = db.Update(func(tx *bolt.Tx) error {
		buck, err := tx.CreateBucketIfNotExists([]byte(AssetsBucket))
		if err != nil {
			return err
		}
		return fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			data, err := fs.ReadFile(fsys, p)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", p, err)
			}
			if err := buck.Put([]byte(cleanPath(p)), data); err != nil {
				return fmt.Errorf("failed to store %s: %w", p, err)
			}
			count++
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
