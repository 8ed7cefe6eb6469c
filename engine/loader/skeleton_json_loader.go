package loader

import (
	"github.com/Carmen-Shannon/oxy-spine/engine/asset"

	"github.com/google/uuid"
)

// SkeletonJSONLoader loads .json skeleton documents verbatim. It never fails; the document is
// validated when a skeleton is resolved against its atlas.
type SkeletonJSONLoader struct{}

var _ asset.Loader = &SkeletonJSONLoader{}

func (l *SkeletonJSONLoader) Extensions() []string {
	return []string{"json"}
}

func (l *SkeletonJSONLoader) TypeID() uuid.UUID {
	return SkeletonJSONTypeID
}

func (l *SkeletonJSONLoader) Load(ctx *asset.LoadContext, data []byte) (any, error) {
	return NewSkeletonJSON(ctx.Path(), data), nil
}
