package spine

// AttachmentType identifies what kind of attachment a skin entry holds.
type AttachmentType int

const (
	AttachmentTypeRegion AttachmentType = iota
	AttachmentTypeBoundingBox
	AttachmentTypeMesh
	AttachmentTypeLinkedMesh
	AttachmentTypePath
	AttachmentTypePoint
	AttachmentTypeClipping
)

var attachmentTypeNames = map[string]AttachmentType{
	"region":      AttachmentTypeRegion,
	"boundingbox": AttachmentTypeBoundingBox,
	"mesh":        AttachmentTypeMesh,
	"linkedmesh":  AttachmentTypeLinkedMesh,
	"path":        AttachmentTypePath,
	"point":       AttachmentTypePoint,
	"clipping":    AttachmentTypeClipping,
}

// String returns the attachment type name as written in skeleton JSON.
func (t AttachmentType) String() string {
	for name, v := range attachmentTypeNames {
		if v == t {
			return name
		}
	}
	return "unknown"
}

// usesRegion reports whether attachments of this type are textured from the atlas.
func (t AttachmentType) usesRegion() bool {
	return t == AttachmentTypeRegion || t == AttachmentTypeMesh || t == AttachmentTypeLinkedMesh
}

// Attachment is an attachment definition from a skin. Attachments belong to the shared
// template and are never modified after parsing.
type Attachment struct {
	Name string
	Type AttachmentType
	// Path is the atlas region path; it defaults to Name.
	Path string
	// Region is the atlas region for region-like attachments, nil otherwise.
	Region *AtlasRegion
	// Sequence holds the atlas regions of a frame sequence, in frame order.
	Sequence []*AtlasRegion

	X, Y     float32
	Rotation float32
	ScaleX   float32
	ScaleY   float32
	Width    float32
	Height   float32
	Color    Color

	// VertexCount is the number of vertices for mesh-like and bounding attachments.
	VertexCount int
	// ParentMesh and ParentSkin name the source mesh of a linked mesh.
	ParentMesh string
	ParentSkin string
	// EndSlot names the last slot a clipping attachment clips.
	EndSlot string
}
