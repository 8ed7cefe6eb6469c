package spine

import (
	"cmp"
	"slices"
)

type skinKey struct {
	slot int
	name string
}

// SkinEntry is one attachment of a skin, keyed by slot index and placeholder name.
type SkinEntry struct {
	SlotIndex  int
	Name       string
	Attachment *Attachment
}

// Skin maps (slot, placeholder name) pairs to attachments. Skins owned by a SkeletonData
// are read-only; build a new Skin with NewSkin and AddSkin to mix skins per instance.
type Skin struct {
	name        string
	attachments map[skinKey]*Attachment
}

// NewSkin creates an empty skin.
//
// Parameters:
//   - name: the skin name
//
// Returns:
//   - *Skin: the new skin
func NewSkin(name string) *Skin {
	return &Skin{name: name, attachments: make(map[skinKey]*Attachment)}
}

// Name returns the skin name.
func (s *Skin) Name() string {
	return s.name
}

// SetAttachment adds or replaces the attachment stored under slotIndex and name.
func (s *Skin) SetAttachment(slotIndex int, name string, attachment *Attachment) {
	s.attachments[skinKey{slot: slotIndex, name: name}] = attachment
}

// RemoveAttachment removes the attachment stored under slotIndex and name.
func (s *Skin) RemoveAttachment(slotIndex int, name string) {
	delete(s.attachments, skinKey{slot: slotIndex, name: name})
}

// GetAttachment returns the attachment stored under slotIndex and name, or nil.
func (s *Skin) GetAttachment(slotIndex int, name string) *Attachment {
	if s == nil {
		return nil
	}
	return s.attachments[skinKey{slot: slotIndex, name: name}]
}

// AddSkin copies every attachment of other into s, replacing entries with the same key.
func (s *Skin) AddSkin(other *Skin) {
	if other == nil {
		return
	}
	for k, a := range other.attachments {
		s.attachments[k] = a
	}
}

// Entries returns all attachments ordered by slot index, then name.
func (s *Skin) Entries() []SkinEntry {
	entries := make([]SkinEntry, 0, len(s.attachments))
	for k, a := range s.attachments {
		entries = append(entries, SkinEntry{SlotIndex: k.slot, Name: k.name, Attachment: a})
	}
	slices.SortFunc(entries, func(a, b SkinEntry) int {
		if c := cmp.Compare(a.SlotIndex, b.SlotIndex); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return entries
}

// SlotEntries returns the attachments stored for one slot, ordered by name.
func (s *Skin) SlotEntries(slotIndex int) []SkinEntry {
	var entries []SkinEntry
	for _, e := range s.Entries() {
		if e.SlotIndex == slotIndex {
			entries = append(entries, e)
		}
	}
	return entries
}

// attachAll swaps attachments from oldSkin that are currently visible on the skeleton
// for the attachments s stores under the same key.
func (s *Skin) attachAll(skeleton *Skeleton, oldSkin *Skin) {
	for k, old := range oldSkin.attachments {
		slot := skeleton.slots[k.slot]
		if slot.attachment != old {
			continue
		}
		if a := s.GetAttachment(k.slot, k.name); a != nil {
			slot.SetAttachment(a)
		}
	}
}
