package spine

import (
	"errors"
	"testing"
)

func attachmentName(s *Skeleton, slot string) string {
	a := s.FindSlot(slot).Attachment()
	if a == nil {
		return ""
	}
	return a.Path
}

func TestNewSkeletonSetupPose(t *testing.T) {
	data := mustSkeletonData(t)
	s, err := NewSkeleton(data)
	if err != nil {
		t.Fatalf("new skeleton: %v", err)
	}

	if s.Data() != data {
		t.Fatalf("skeleton should reference the template")
	}
	if len(s.Bones()) != len(data.Bones()) || len(s.Slots()) != len(data.Slots()) {
		t.Fatalf("bone/slot counts should match the template")
	}
	if head := s.FindBone("head"); head.Parent != s.FindBone("torso") || head.X != 60 {
		t.Fatalf("unexpected head bone: %+v", head)
	}

	// Only the default skin is consulted before a skin is set.
	if got := attachmentName(s, "body"); got != "torso" {
		t.Fatalf("expected torso on body, got %q", got)
	}
	if got := attachmentName(s, "goggles"); got != "" {
		t.Fatalf("goggles should be empty without a skin, got %q", got)
	}
	if got := attachmentName(s, "hitbox"); got != "" {
		t.Fatalf("hitbox has no setup attachment, got %q", got)
	}
}

func TestNewSkeletonNilTemplate(t *testing.T) {
	if _, err := NewSkeleton(nil); !errors.Is(err, ErrNilSkeletonTemplate) {
		t.Fatalf("expected ErrNilSkeletonTemplate, got %v", err)
	}
}

func TestSkeletonSetSkinByName(t *testing.T) {
	s, _ := NewSkeleton(mustSkeletonData(t))

	if err := s.SetSkinByName("template"); err != nil {
		t.Fatalf("set template: %v", err)
	}
	if got := attachmentName(s, "goggles"); got != "goggles-normal" {
		t.Fatalf("expected goggles-normal, got %q", got)
	}
	if got := attachmentName(s, "gun"); got != "gun-normal" {
		t.Fatalf("expected gun-normal, got %q", got)
	}

	// Switching skins swaps attachments that came from the previous skin.
	if err := s.SetSkinByName("tactical"); err != nil {
		t.Fatalf("set tactical: %v", err)
	}
	if got := attachmentName(s, "goggles"); got != "goggles-tactical" {
		t.Fatalf("expected goggles-tactical, got %q", got)
	}
	if got := attachmentName(s, "gun"); got != "gun-freeze" {
		t.Fatalf("expected gun-freeze, got %q", got)
	}
	if got := attachmentName(s, "body"); got != "torso" {
		t.Fatalf("default skin attachment should be untouched, got %q", got)
	}

	if err := s.SetSkinByName("missing"); !errors.Is(err, ErrSkinNotFound) {
		t.Fatalf("expected ErrSkinNotFound, got %v", err)
	}
	if s.Skin().Name() != "tactical" {
		t.Fatalf("failed skin change should keep the current skin")
	}
}

func TestSkeletonSetAttachment(t *testing.T) {
	s, _ := NewSkeleton(mustSkeletonData(t))
	if err := s.SetSkinByName("tactical"); err != nil {
		t.Fatalf("set skin: %v", err)
	}

	if err := s.SetAttachment("gun", "gun-alt"); err != nil {
		t.Fatalf("set gun-alt: %v", err)
	}
	if a := s.FindSlot("gun").Attachment(); a.Type != AttachmentTypeLinkedMesh {
		t.Fatalf("expected linked mesh, got %+v", a)
	}

	if err := s.SetAttachment("hitbox", "box"); err != nil {
		t.Fatalf("default skin attachments should be reachable: %v", err)
	}

	if err := s.SetAttachment("gun", ""); err != nil || s.FindSlot("gun").Attachment() != nil {
		t.Fatalf("empty name should clear the slot: %v", err)
	}

	if err := s.SetAttachment("gun", "laser"); !errors.Is(err, ErrAttachmentNotFound) {
		t.Fatalf("expected ErrAttachmentNotFound, got %v", err)
	}
	if err := s.SetAttachment("cape", "cape"); !errors.Is(err, ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound, got %v", err)
	}
}

func TestSkeletonInstancesAreIndependent(t *testing.T) {
	data := mustSkeletonData(t)
	a, _ := NewSkeleton(data)
	b, _ := NewSkeleton(data)

	if err := a.SetSkinByName("tactical"); err != nil {
		t.Fatalf("set skin: %v", err)
	}
	a.FindBone("hip").Rotation = 45

	if b.Skin() != nil || attachmentName(b, "goggles") != "" {
		t.Fatalf("skin change leaked into another instance")
	}
	if b.FindBone("hip").Rotation != 0 || data.FindBone("hip").Rotation != 0 {
		t.Fatalf("bone change leaked into another instance or the template")
	}

	a.SetToSetupPose()
	if a.FindBone("hip").Rotation != 0 {
		t.Fatalf("setup pose should reset bones")
	}
	if got := attachmentName(a, "goggles"); got != "goggles-tactical" {
		t.Fatalf("setup pose should resolve attachments through the active skin, got %q", got)
	}
}

func TestSkinAddSkin(t *testing.T) {
	data := mustSkeletonData(t)
	mixed := NewSkin("mixed")
	mixed.AddSkin(data.FindSkin("template"))

	gunIndex := data.FindSlot("gun").Index
	freeze := data.FindSkin("tactical").GetAttachment(gunIndex, "gun")
	mixed.SetAttachment(gunIndex, "gun", freeze)

	s, _ := NewSkeleton(data)
	s.SetSkin(mixed)
	if got := attachmentName(s, "goggles"); got != "goggles-normal" {
		t.Fatalf("expected goggles-normal, got %q", got)
	}
	if got := attachmentName(s, "gun"); got != "gun-freeze" {
		t.Fatalf("expected gun-freeze, got %q", got)
	}

	if template := data.FindSkin("template"); template.GetAttachment(gunIndex, "gun").Path != "gun-normal" {
		t.Fatalf("mixing must not modify the template skin")
	}

	entries := mixed.Entries()
	if len(entries) != 2 || entries[0].SlotIndex > entries[1].SlotIndex {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if len(mixed.SlotEntries(gunIndex)) != 1 {
		t.Fatalf("expected one gun entry")
	}

	mixed.RemoveAttachment(gunIndex, "gun")
	if mixed.GetAttachment(gunIndex, "gun") != nil {
		t.Fatalf("attachment should be removed")
	}
}
