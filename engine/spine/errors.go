package spine

import "errors"

// Errors returned while parsing atlas and skeleton data or querying a skeleton.
var (
	ErrInvalidAtlas        = errors.New("invalid atlas")
	ErrInvalidSkeleton     = errors.New("invalid skeleton data")
	ErrRegionNotFound      = errors.New("region not found in atlas")
	ErrBoneNotFound        = errors.New("bone not found")
	ErrSlotNotFound        = errors.New("slot not found")
	ErrSkinNotFound        = errors.New("skin not found")
	ErrAttachmentNotFound  = errors.New("attachment not found")
	ErrAnimationNotFound   = errors.New("animation not found")
	ErrEventNotFound       = errors.New("event not found")
	ErrParentMeshNotFound  = errors.New("parent mesh not found")
	ErrUnknownAttachment   = errors.New("unknown attachment type")
	ErrNilAtlas            = errors.New("atlas is nil")
	ErrNegativeTrackIndex  = errors.New("track index must be >= 0")
	ErrNilSkeletonTemplate = errors.New("skeleton data is nil")
)
