// Package loader provides the asset loaders for Spine content: texture atlases, skeleton
// documents and the page images atlases refer to.
package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/Carmen-Shannon/oxy-spine/engine/asset"
	"github.com/Carmen-Shannon/oxy-spine/engine/spine"

	"github.com/google/uuid"
)

// Asset type ids of the loaded types.
var (
	AtlasTypeID        = uuid.MustParse("e58e872a-9d35-41bf-b561-95f843686004")
	SkeletonJSONTypeID = uuid.MustParse("8637cf16-90c4-4825-bdf2-277e38788365")
	ImageTypeID        = uuid.MustParse("3b6f5e0c-8a21-4f7e-a9d2-6c1b0e4d7f93")
)

// Atlas is a loaded Spine texture atlas. It is immutable and shared by every skeleton that
// refers to it.
type Atlas struct {
	path  string
	atlas *spine.Atlas
}

// NewAtlas wraps a parsed atlas as an asset value.
//
// Parameters:
//   - assetPath: the path the atlas was loaded from
//   - atlas: the parsed atlas
//
// Returns:
//   - *Atlas: the asset value
func NewAtlas(assetPath string, atlas *spine.Atlas) *Atlas {
	return &Atlas{path: assetPath, atlas: atlas}
}

// Path returns the asset path the atlas was loaded from.
func (a *Atlas) Path() string {
	return a.path
}

// Spine returns the parsed atlas.
func (a *Atlas) Spine() *spine.Atlas {
	return a.atlas
}

// Pages returns the atlas pages in file order.
func (a *Atlas) Pages() []*spine.AtlasPage {
	return a.atlas.Pages()
}

// FindRegion returns the named region, or nil.
func (a *Atlas) FindRegion(name string) *spine.AtlasRegion {
	return a.atlas.FindRegion(name)
}

// SkeletonJSON is the raw text of a Spine skeleton document. It is parsed only once the atlas it
// needs is available.
type SkeletonJSON struct {
	path string
	data []byte
}

// NewSkeletonJSON stores a copy of data as a skeleton document.
//
// Parameters:
//   - assetPath: the path the document was loaded from
//   - data: the document bytes
//
// Returns:
//   - *SkeletonJSON: the asset value
func NewSkeletonJSON(assetPath string, data []byte) *SkeletonJSON {
	return &SkeletonJSON{path: assetPath, data: append([]byte(nil), data...)}
}

// Path returns the asset path the document was loaded from.
func (j *SkeletonJSON) Path() string {
	return j.path
}

// Bytes returns the document bytes. Callers must not modify them.
func (j *SkeletonJSON) Bytes() []byte {
	return j.data
}

// AtlasParseError reports an atlas that could not be loaded.
type AtlasParseError struct {
	Path string
	Err  error
}

func (e *AtlasParseError) Error() string {
	return fmt.Sprintf("failed to load Spine atlas: %s: %v", e.Path, e.Err)
}

func (e *AtlasParseError) Unwrap() error {
	return e.Err
}

// Stores holds the asset stores the Spine loaders write to.
type Stores struct {
	Atlases   *asset.Assets[*Atlas]
	Skeletons *asset.Assets[*SkeletonJSON]
	Images    *asset.Assets[*common.Image]
}

// Register registers the Spine asset types and their loaders with s.
//
// Parameters:
//   - s: the asset server
//   - options: a variadic list of LoaderBuilderOption functions
//
// Returns:
//   - *Stores: the registered stores; Images is nil when image loading is disabled
//   - error: error if one of the types is already registered
func Register(s asset.Server, options ...LoaderBuilderOption) (*Stores, error) {
	cfg := &registration{images: true, pageDependencies: true}
	for _, option := range options {
		option(cfg)
	}

	stores := &Stores{}
	var err error
	if stores.Atlases, err = asset.RegisterType[*Atlas](s, AtlasTypeID); err != nil {
		return nil, fmt.Errorf("failed to register atlas type: %w", err)
	}
	if stores.Skeletons, err = asset.RegisterType[*SkeletonJSON](s, SkeletonJSONTypeID); err != nil {
		return nil, fmt.Errorf("failed to register skeleton type: %w", err)
	}
	s.RegisterLoader(&AtlasLoader{PageDependencies: cfg.pageDependencies})
	s.RegisterLoader(&SkeletonJSONLoader{})

	if cfg.images {
		if stores.Images, err = asset.RegisterType[*common.Image](s, ImageTypeID); err != nil {
			return nil, fmt.Errorf("failed to register image type: %w", err)
		}
		s.RegisterLoader(&ImageLoader{})
	}
	return stores, nil
}
