package loader

import (
	"github.com/Carmen-Shannon/oxy-spine/engine/asset"
	"github.com/Carmen-Shannon/oxy-spine/engine/spine"

	"github.com/google/uuid"
)

// AtlasLoader loads .atlas files. Page image paths are resolved against the directory of the
// atlas and, when PageDependencies is set, declared as dependencies of the atlas.
type AtlasLoader struct {
	PageDependencies bool
}

var _ asset.Loader = &AtlasLoader{}

func (l *AtlasLoader) Extensions() []string {
	return []string{"atlas"}
}

func (l *AtlasLoader) TypeID() uuid.UUID {
	return AtlasTypeID
}

// Load parses the atlas. Every failure is returned as an *AtlasParseError.
func (l *AtlasLoader) Load(ctx *asset.LoadContext, data []byte) (any, error) {
	atlas, err := spine.ParseAtlas(data, ctx.Dir())
	if err != nil {
		return nil, &AtlasParseError{Path: ctx.Path(), Err: err}
	}
	if l.PageDependencies {
		for _, page := range atlas.Pages() {
			if _, err := ctx.AddDependency(page.Name); err != nil {
				return nil, &AtlasParseError{Path: ctx.Path(), Err: err}
			}
		}
	}
	return NewAtlas(ctx.Path(), atlas), nil
}
