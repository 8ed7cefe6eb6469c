package spine

import (
	"fmt"
	"strconv"
)

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// White is the default slot and attachment color.
var White = Color{R: 1, G: 1, B: 1, A: 1}

// parseColor reads an RRGGBB or RRGGBBAA hex string.
func parseColor(hex string) (Color, error) {
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("color %q must be RRGGBB or RRGGBBAA", hex)
	}
	component := func(i int) (float32, error) {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return 0, fmt.Errorf("color %q: %w", hex, err)
		}
		return float32(v) / 255, nil
	}

	c := White
	var err error
	if c.R, err = component(0); err != nil {
		return Color{}, err
	}
	if c.G, err = component(1); err != nil {
		return Color{}, err
	}
	if c.B, err = component(2); err != nil {
		return Color{}, err
	}
	if len(hex) == 8 {
		if c.A, err = component(3); err != nil {
			return Color{}, err
		}
	}
	return c, nil
}

// BlendMode is the blending a slot is drawn with.
type BlendMode int

const (
	BlendModeNormal BlendMode = iota
	BlendModeAdditive
	BlendModeMultiply
	BlendModeScreen
)

var blendModeNames = map[string]BlendMode{
	"normal":   BlendModeNormal,
	"additive": BlendModeAdditive,
	"multiply": BlendModeMultiply,
	"screen":   BlendModeScreen,
}

// BoneData is the setup pose of a bone.
type BoneData struct {
	Index    int
	Name     string
	Parent   *BoneData
	Length   float32
	X, Y     float32
	Rotation float32
	ScaleX   float32
	ScaleY   float32
	ShearX   float32
	ShearY   float32
}

// SlotData is the setup pose of a slot.
type SlotData struct {
	Index int
	Name  string
	Bone  *BoneData
	Color Color
	// AttachmentName is the attachment visible in the setup pose, empty for none.
	AttachmentName string
	BlendMode      BlendMode
}

// EventData is a named event that animations can fire.
type EventData struct {
	Name      string
	Int       int
	Float     float32
	String    string
	AudioPath string
}

// Animation is a named animation. Only its identity and duration are kept; timelines
// are validated at parse time but not retained since pose application lives elsewhere.
type Animation struct {
	Name     string
	Duration float32
	// Bones and Slots name the bones and slots the animation keys.
	Bones []string
	Slots []string
}

// SkeletonData is the shared, immutable template produced from a skeleton document.
// Runtime skeletons reference it and never modify it.
type SkeletonData struct {
	Name       string
	Hash       string
	Version    string
	X, Y       float32
	Width      float32
	Height     float32
	FPS        float32
	ImagesPath string
	AudioPath  string

	bones       []*BoneData
	slots       []*SlotData
	skins       []*Skin
	defaultSkin *Skin
	events      []*EventData
	animations  []*Animation
}

// Bones returns the bones in setup order; parents precede children.
func (d *SkeletonData) Bones() []*BoneData { return d.bones }

// Slots returns the slots in setup draw order.
func (d *SkeletonData) Slots() []*SlotData { return d.slots }

// Skins returns every skin including the default skin.
func (d *SkeletonData) Skins() []*Skin { return d.skins }

// DefaultSkin returns the skin named "default", or nil when the document has none.
func (d *SkeletonData) DefaultSkin() *Skin { return d.defaultSkin }

// Events returns the event definitions.
func (d *SkeletonData) Events() []*EventData { return d.events }

// Animations returns the animations in document order.
func (d *SkeletonData) Animations() []*Animation { return d.animations }

// FindBone returns the bone with the given name, or nil.
func (d *SkeletonData) FindBone(name string) *BoneData {
	for _, b := range d.bones {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// FindSlot returns the slot with the given name, or nil.
func (d *SkeletonData) FindSlot(name string) *SlotData {
	for _, s := range d.slots {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// FindSkin returns the skin with the given name, or nil.
func (d *SkeletonData) FindSkin(name string) *Skin {
	for _, s := range d.skins {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// FindEvent returns the event with the given name, or nil.
func (d *SkeletonData) FindEvent(name string) *EventData {
	for _, e := range d.events {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// FindAnimation returns the animation with the given name, or nil.
func (d *SkeletonData) FindAnimation(name string) *Animation {
	for _, a := range d.animations {
		if a.Name == name {
			return a
		}
	}
	return nil
}
