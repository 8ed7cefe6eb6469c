package spine

import "fmt"

// Bone is the per-instance pose of a bone.
type Bone struct {
	Data     *BoneData
	Parent   *Bone
	X, Y     float32
	Rotation float32
	ScaleX   float32
	ScaleY   float32
	ShearX   float32
	ShearY   float32
}

// SetToSetupPose resets the bone to its setup pose.
func (b *Bone) SetToSetupPose() {
	d := b.Data
	b.X, b.Y = d.X, d.Y
	b.Rotation = d.Rotation
	b.ScaleX, b.ScaleY = d.ScaleX, d.ScaleY
	b.ShearX, b.ShearY = d.ShearX, d.ShearY
}

// Slot is the per-instance state of a slot.
type Slot struct {
	Data       *SlotData
	Bone       *Bone
	Color      Color
	attachment *Attachment
}

// Attachment returns the visible attachment, or nil.
func (s *Slot) Attachment() *Attachment {
	return s.attachment
}

// SetAttachment sets the visible attachment; nil hides the slot.
func (s *Slot) SetAttachment(a *Attachment) {
	s.attachment = a
}

// Skeleton is a runtime instance derived from a shared SkeletonData. Its bones, slots and
// skin are owned by the instance; the template it points at is never modified.
type Skeleton struct {
	data      *SkeletonData
	bones     []*Bone
	slots     []*Slot
	drawOrder []*Slot
	skin      *Skin

	X, Y   float32
	ScaleX float32
	ScaleY float32
}

// NewSkeleton creates a runtime skeleton in its setup pose.
//
// Parameters:
//   - data: the shared skeleton template
//
// Returns:
//   - *Skeleton: the new instance
//   - error: ErrNilSkeletonTemplate if data is nil
func NewSkeleton(data *SkeletonData) (*Skeleton, error) {
	if data == nil {
		return nil, ErrNilSkeletonTemplate
	}

	s := &Skeleton{data: data, ScaleX: 1, ScaleY: 1}

	s.bones = make([]*Bone, len(data.bones))
	for i, bd := range data.bones {
		b := &Bone{Data: bd}
		if bd.Parent != nil {
			b.Parent = s.bones[bd.Parent.Index]
		}
		s.bones[i] = b
	}

	s.slots = make([]*Slot, len(data.slots))
	for i, sd := range data.slots {
		s.slots[i] = &Slot{Data: sd, Bone: s.bones[sd.Bone.Index]}
	}
	s.drawOrder = append([]*Slot(nil), s.slots...)

	s.SetToSetupPose()
	return s, nil
}

// Data returns the shared template.
func (s *Skeleton) Data() *SkeletonData { return s.data }

// Bones returns the instance bones in setup order.
func (s *Skeleton) Bones() []*Bone { return s.bones }

// Slots returns the instance slots in setup order.
func (s *Skeleton) Slots() []*Slot { return s.slots }

// DrawOrder returns the slots in draw order.
func (s *Skeleton) DrawOrder() []*Slot { return s.drawOrder }

// Skin returns the active skin, or nil.
func (s *Skeleton) Skin() *Skin { return s.skin }

// SetToSetupPose resets bones, slots and draw order.
func (s *Skeleton) SetToSetupPose() {
	s.SetBonesToSetupPose()
	s.SetSlotsToSetupPose()
}

// SetBonesToSetupPose resets every bone to its setup pose.
func (s *Skeleton) SetBonesToSetupPose() {
	for _, b := range s.bones {
		b.SetToSetupPose()
	}
}

// SetSlotsToSetupPose resets slot colors, setup attachments and draw order.
func (s *Skeleton) SetSlotsToSetupPose() {
	copy(s.drawOrder, s.slots)
	for i, slot := range s.slots {
		slot.Color = slot.Data.Color
		if slot.Data.AttachmentName == "" {
			slot.attachment = nil
			continue
		}
		slot.attachment = s.GetAttachment(i, slot.Data.AttachmentName)
	}
}

// FindBone returns the instance bone with the given name, or nil.
func (s *Skeleton) FindBone(name string) *Bone {
	for _, b := range s.bones {
		if b.Data.Name == name {
			return b
		}
	}
	return nil
}

// FindSlot returns the instance slot with the given name, or nil.
func (s *Skeleton) FindSlot(name string) *Slot {
	for _, slot := range s.slots {
		if slot.Data.Name == name {
			return slot
		}
	}
	return nil
}

// GetAttachment looks the attachment up in the active skin, then the default skin.
func (s *Skeleton) GetAttachment(slotIndex int, name string) *Attachment {
	if s.skin != nil {
		if a := s.skin.GetAttachment(slotIndex, name); a != nil {
			return a
		}
	}
	return s.data.defaultSkin.GetAttachment(slotIndex, name)
}

// SetSkin changes the active skin. With no previous skin, each slot's setup attachment is looked
// up in the new skin; otherwise attachments from the old skin that are currently visible are
// replaced by the new skin's attachments under the same name. Slots the new skin does not cover
// keep their current attachment.
//
// Parameters:
//   - skin: the new skin, or nil to clear it
func (s *Skeleton) SetSkin(skin *Skin) {
	if skin == s.skin {
		return
	}
	if skin != nil {
		if s.skin != nil {
			skin.attachAll(s, s.skin)
		} else {
			for i, slot := range s.slots {
				name := slot.Data.AttachmentName
				if name == "" {
					continue
				}
				if a := skin.GetAttachment(i, name); a != nil {
					slot.SetAttachment(a)
				}
			}
		}
	}
	s.skin = skin
}

// SetSkinByName sets the active skin to the template skin with the given name.
//
// Parameters:
//   - name: the skin name
//
// Returns:
//   - error: error wrapping ErrSkinNotFound if the template has no such skin
func (s *Skeleton) SetSkinByName(name string) error {
	skin := s.data.FindSkin(name)
	if skin == nil {
		return fmt.Errorf("%w: %s", ErrSkinNotFound, name)
	}
	s.SetSkin(skin)
	return nil
}

// SetAttachment sets a slot's visible attachment by name, looked up through the active skin and
// then the default skin. An empty attachment name hides the slot.
//
// Parameters:
//   - slotName: the slot to change
//   - attachmentName: the attachment placeholder name, or "" to clear
//
// Returns:
//   - error: error wrapping ErrSlotNotFound or ErrAttachmentNotFound
func (s *Skeleton) SetAttachment(slotName, attachmentName string) error {
	slot := s.FindSlot(slotName)
	if slot == nil {
		return fmt.Errorf("%w: %s", ErrSlotNotFound, slotName)
	}
	if attachmentName == "" {
		slot.SetAttachment(nil)
		return nil
	}
	a := s.GetAttachment(slot.Data.Index, attachmentName)
	if a == nil {
		return fmt.Errorf("%w: %s (slot %s)", ErrAttachmentNotFound, attachmentName, slotName)
	}
	slot.SetAttachment(a)
	return nil
}
