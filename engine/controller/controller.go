// Package controller instantiates per-entity Spine skeletons from resolved skeleton data and
// tells the host, once per entity, when an entity's skeleton is ready.
package controller

import (
	"fmt"
	"maps"
	"slices"

	"github.com/Carmen-Shannon/oxy-spine/engine/spine"
)

// SpawnOptions are applied to an entity's skeleton when it is created.
type SpawnOptions struct {
	// Skin is the initial skin; empty keeps the default skin only.
	Skin string
	// Animation is started on Track when set.
	Animation string
	Track     int
	Loop      bool
}

// SkeletonController is one entity's runtime skeleton and animation state. It references the
// shared template read-only; skin and attachment changes only affect this controller.
type SkeletonController struct {
	Skeleton       *spine.Skeleton
	AnimationState *spine.AnimationState

	skinName  string
	equipped  *spine.Skin
	equipment map[string]string
}

// NewSkeletonController creates a controller from a template and applies opts.
//
// Parameters:
//   - template: the resolved skeleton template
//   - opts: the initial skin and animation
//
// Returns:
//   - *SkeletonController: the controller
//   - error: error if the template is nil or opts name a missing skin or animation
func NewSkeletonController(template *spine.SkeletonData, opts SpawnOptions) (*SkeletonController, error) {
	skel, err := spine.NewSkeleton(template)
	if err != nil {
		return nil, err
	}
	c := &SkeletonController{
		Skeleton:       skel,
		AnimationState: spine.NewAnimationState(template),
		equipment:      make(map[string]string),
	}
	if opts.Skin != "" {
		if err := c.SetSkin(opts.Skin); err != nil {
			return nil, err
		}
	}
	if opts.Animation != "" {
		if _, err := c.AnimationState.SetAnimationByName(opts.Track, opts.Animation, opts.Loop); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// SkinName returns the name of the skin last set with SetSkin.
func (c *SkeletonController) SkinName() string {
	return c.skinName
}

// SetSkin switches to a template skin and drops equipment overrides.
//
// Parameters:
//   - name: the skin name
//
// Returns:
//   - error: error wrapping spine.ErrSkinNotFound
func (c *SkeletonController) SetSkin(name string) error {
	if err := c.Skeleton.SetSkinByName(name); err != nil {
		return err
	}
	c.skinName = name
	c.equipped = nil
	clear(c.equipment)
	return nil
}

// Equip shows an attachment in a slot. The attachment is looked up by placeholder name,
// attachment name or region path among the slot's entries in the active skin, then in every
// template skin. The choice is kept in a skin private to this controller, so it survives
// SetSlotsToSetupPose until the next SetSkin.
//
// Parameters:
//   - slotName: the slot to change
//   - attachment: the placeholder name, attachment name or region path to show
//
// Returns:
//   - error: error wrapping spine.ErrSlotNotFound or spine.ErrAttachmentNotFound
func (c *SkeletonController) Equip(slotName, attachment string) error {
	slot := c.Skeleton.FindSlot(slotName)
	if slot == nil {
		return fmt.Errorf("%w: %s", spine.ErrSlotNotFound, slotName)
	}

	entry, ok := c.findEntry(slot.Data.Index, attachment)
	if !ok {
		return fmt.Errorf("%w: %s (slot %s)", spine.ErrAttachmentNotFound, attachment, slotName)
	}

	// Overrides live under the slot's setup placeholder so the setup pose shows them.
	key := slot.Data.AttachmentName
	if key == "" {
		key = entry.Name
	}
	if c.equipped == nil {
		skin := spine.NewSkin(c.skinName + "+equipment")
		skin.AddSkin(c.Skeleton.Skin())
		skin.SetAttachment(entry.SlotIndex, key, entry.Attachment)
		c.Skeleton.SetSkin(skin)
		c.equipped = skin
	} else {
		c.equipped.SetAttachment(entry.SlotIndex, key, entry.Attachment)
	}
	slot.SetAttachment(entry.Attachment)
	c.equipment[slotName] = attachment
	return nil
}

// Equipment returns the attachments equipped since the last SetSkin, keyed by slot name.
func (c *SkeletonController) Equipment() map[string]string {
	return maps.Clone(c.equipment)
}

func (c *SkeletonController) findEntry(slotIndex int, name string) (spine.SkinEntry, bool) {
	skins := []*spine.Skin{c.Skeleton.Skin()}
	skins = append(skins, c.Skeleton.Data().Skins()...)
	for _, skin := range skins {
		if skin == nil {
			continue
		}
		entries := skin.SlotEntries(slotIndex)
		idx := slices.IndexFunc(entries, func(e spine.SkinEntry) bool {
			return e.Name == name || e.Attachment.Name == name || e.Attachment.Path == name
		})
		if idx >= 0 {
			return entries[idx], true
		}
	}
	return spine.SkinEntry{}, false
}

// Update advances the animation state by delta seconds.
func (c *SkeletonController) Update(delta float32) {
	c.AnimationState.Update(delta)
}
