package loader

import (
	"path"
	"strings"

	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/Carmen-Shannon/oxy-spine/engine/asset"

	"github.com/google/uuid"
)

// ImageLoader loads atlas page images. Pixels are decoded lazily through common.Image.Decode.
type ImageLoader struct{}

var _ asset.Loader = &ImageLoader{}

func (l *ImageLoader) Extensions() []string {
	return []string{"png", "jpg", "jpeg"}
}

func (l *ImageLoader) TypeID() uuid.UUID {
	return ImageTypeID
}

func (l *ImageLoader) Load(ctx *asset.LoadContext, data []byte) (any, error) {
	mime := "image/png"
	switch strings.ToLower(path.Ext(ctx.Path())) {
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	}
	return &common.Image{
		Path:     ctx.Path(),
		Data:     append([]byte(nil), data...),
		MimeType: mime,
	}, nil
}
