package controller

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-spine/engine/spine"
	"github.com/Carmen-Shannon/oxy-spine/engine/spine/spinetest"
)

func mustTemplate(t *testing.T) *spine.SkeletonData {
	t.Helper()
	atlas, err := spine.ParseAtlas([]byte(spinetest.Atlas), "spineboy")
	if err != nil {
		t.Fatalf("parse atlas: %v", err)
	}
	data, err := spine.ParseSkeletonJSON([]byte(spinetest.SkeletonJSON), atlas)
	if err != nil {
		t.Fatalf("parse skeleton: %v", err)
	}
	return data
}

func regionOf(c *SkeletonController, slot string) string {
	a := c.Skeleton.FindSlot(slot).Attachment()
	if a == nil {
		return ""
	}
	return a.Path
}

func TestNewSkeletonControllerAppliesOptions(t *testing.T) {
	c, err := NewSkeletonController(mustTemplate(t), SpawnOptions{Skin: "template", Animation: "run", Loop: true})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	if c.SkinName() != "template" || c.Skeleton.Skin().Name() != "template" {
		t.Fatalf("expected template skin, got %s", c.SkinName())
	}
	if got := regionOf(c, "goggles"); got != "goggles-normal" {
		t.Fatalf("expected goggles-normal, got %q", got)
	}
	entry := c.AnimationState.Current(0)
	if entry == nil || entry.Animation.Name != "run" || !entry.Loop {
		t.Fatalf("expected looping run on track 0, got %+v", entry)
	}

	c.Update(0.25)
	if entry.TrackTime != 0.25 {
		t.Fatalf("expected track time 0.25, got %v", entry.TrackTime)
	}
}

func TestNewSkeletonControllerErrors(t *testing.T) {
	tests := []struct {
		name string
		opts SpawnOptions
		want error
	}{
		{"missing skin", SpawnOptions{Skin: "knight"}, spine.ErrSkinNotFound},
		{"missing animation", SpawnOptions{Animation: "fly"}, spine.ErrAnimationNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSkeletonController(mustTemplate(t), tt.opts); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := NewSkeletonController(nil, SpawnOptions{}); !errors.Is(err, spine.ErrNilSkeletonTemplate) {
		t.Fatalf("expected ErrNilSkeletonTemplate, got %v", err)
	}
}

func TestEquipSwapsAttachmentsPerInstance(t *testing.T) {
	template := mustTemplate(t)
	a, _ := NewSkeletonController(template, SpawnOptions{Skin: "template"})
	b, _ := NewSkeletonController(template, SpawnOptions{Skin: "template"})

	tests := []struct {
		slot, attachment, want string
	}{
		{"goggles", "goggles-tactical", "goggles-tactical"},
		{"gun", "gun-freeze", "gun-freeze"},
		{"goggles", "goggles-normal", "goggles-normal"},
		{"gun", "gun-normal", "gun-normal"},
	}
	for _, tt := range tests {
		if err := a.Equip(tt.slot, tt.attachment); err != nil {
			t.Fatalf("equip %s/%s: %v", tt.slot, tt.attachment, err)
		}
		if got := regionOf(a, tt.slot); got != tt.want {
			t.Fatalf("%s: expected %s, got %s", tt.slot, tt.want, got)
		}
	}
	if got := a.Equipment(); got["goggles"] != "goggles-normal" || got["gun"] != "gun-normal" {
		t.Fatalf("unexpected equipment %v", got)
	}

	if err := a.Equip("gun", "gun-freeze"); err != nil {
		t.Fatal(err)
	}
	a.Skeleton.SetSlotsToSetupPose()
	if got := regionOf(a, "gun"); got != "gun-freeze" {
		t.Fatalf("equipment should survive the setup pose, got %s", got)
	}

	if got := regionOf(b, "gun"); got != "gun-normal" {
		t.Fatalf("other instances must be unaffected, got %s", got)
	}
	if template.FindSkin("template").GetAttachment(template.FindSlot("gun").Index, "gun").Path != "gun-normal" {
		t.Fatalf("template skin must not change")
	}

	if err := a.SetSkin("tactical"); err != nil {
		t.Fatal(err)
	}
	if len(a.Equipment()) != 0 || a.Skeleton.Skin().Name() != "tactical" {
		t.Fatalf("SetSkin should drop equipment")
	}
}

func TestEquipErrors(t *testing.T) {
	c, _ := NewSkeletonController(mustTemplate(t), SpawnOptions{Skin: "template"})
	if err := c.Equip("cape", "red"); !errors.Is(err, spine.ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound, got %v", err)
	}
	if err := c.Equip("gun", "goggles-tactical"); !errors.Is(err, spine.ErrAttachmentNotFound) {
		t.Fatalf("expected ErrAttachmentNotFound, got %v", err)
	}
	if regionOf(c, "gun") != "gun-normal" {
		t.Fatalf("failed equip must not change the slot")
	}
}
