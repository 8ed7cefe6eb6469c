package spine

import (
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-spine/engine/spine/spinetest"
)

func mustAtlas(t *testing.T, src string) *Atlas {
	t.Helper()
	atlas, err := ParseAtlas([]byte(src), "spineboy")
	if err != nil {
		t.Fatalf("parse atlas: %v", err)
	}
	return atlas
}

func mustSkeletonData(t *testing.T) *SkeletonData {
	t.Helper()
	data, err := ParseSkeletonJSON([]byte(spinetest.SkeletonJSON), mustAtlas(t, spinetest.Atlas))
	if err != nil {
		t.Fatalf("parse skeleton: %v", err)
	}
	return data
}

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestParseSkeletonJSON(t *testing.T) {
	data := mustSkeletonData(t)

	if data.Hash != "fixture" || data.Version != "4.1.24" || data.Width != 200 || data.FPS != 30 {
		t.Fatalf("unexpected header: %+v", data)
	}

	if len(data.Bones()) != 5 {
		t.Fatalf("expected 5 bones, got %d", len(data.Bones()))
	}
	head := data.FindBone("head")
	if head == nil || head.Parent != data.FindBone("torso") {
		t.Fatalf("head should be parented to torso: %+v", head)
	}
	if head.ScaleX != 1.2 || head.ScaleY != 1 {
		t.Fatalf("unexpected head scale: %v %v", head.ScaleX, head.ScaleY)
	}

	gun := data.FindSlot("gun")
	if gun == nil || gun.BlendMode != BlendModeAdditive || gun.Bone.Name != "gun-bone" {
		t.Fatalf("unexpected gun slot: %+v", gun)
	}
	if headSlot := data.FindSlot("head"); !approx(headSlot.Color.A, 0.8) {
		t.Fatalf("expected head alpha 0.8, got %v", headSlot.Color.A)
	}

	if data.DefaultSkin() == nil || data.DefaultSkin().Name() != "default" {
		t.Fatalf("default skin missing")
	}
	if len(data.Skins()) != 3 {
		t.Fatalf("expected 3 skins, got %d", len(data.Skins()))
	}

	template := data.FindSkin("template")
	goggles := template.GetAttachment(data.FindSlot("goggles").Index, "goggles")
	if goggles == nil || goggles.Region == nil || goggles.Region.Name != "goggles-normal" {
		t.Fatalf("template goggles should use goggles-normal: %+v", goggles)
	}

	hitbox := data.DefaultSkin().GetAttachment(data.FindSlot("hitbox").Index, "box")
	if hitbox.Type != AttachmentTypeBoundingBox || hitbox.Region != nil || hitbox.VertexCount != 4 {
		t.Fatalf("unexpected bounding box: %+v", hitbox)
	}

	tactical := data.FindSkin("tactical")
	gunIndex := gun.Index
	linked := tactical.GetAttachment(gunIndex, "gun-alt")
	if linked.Type != AttachmentTypeLinkedMesh || linked.VertexCount != 4 {
		t.Fatalf("linked mesh should inherit parent vertex count: %+v", linked)
	}
	if mesh := tactical.GetAttachment(data.FindSlot("goggles").Index, "goggles"); mesh.VertexCount != 3 {
		t.Fatalf("mesh vertex count should come from uvs, got %d", mesh.VertexCount)
	}

	if len(data.Events()) != 2 || data.FindEvent("shoot").AudioPath != "gun.wav" {
		t.Fatalf("unexpected events: %+v", data.Events())
	}

	wantAnims := []struct {
		name     string
		duration float32
	}{
		{"run", 0.5333},
		{"idle", 1.5},
		{"shoot", 0.1},
	}
	if len(data.Animations()) != len(wantAnims) {
		t.Fatalf("expected %d animations, got %d", len(wantAnims), len(data.Animations()))
	}
	for i, want := range wantAnims {
		got := data.Animations()[i]
		if got.Name != want.name || !approx(got.Duration, want.duration) {
			t.Fatalf("animation %d: expected %s/%v, got %s/%v", i, want.name, want.duration, got.Name, got.Duration)
		}
	}
	if run := data.FindAnimation("run"); len(run.Bones) != 1 || run.Bones[0] != "hip" {
		t.Fatalf("unexpected run bones: %v", run.Bones)
	}
}

func TestParseSkeletonJSONLegacySkins(t *testing.T) {
	atlas, err := ParseAtlas([]byte(spinetest.LegacyAtlas), "")
	if err != nil {
		t.Fatalf("parse atlas: %v", err)
	}
	data, err := ParseSkeletonJSON([]byte(spinetest.LegacySkeletonJSON), atlas)
	if err != nil {
		t.Fatalf("parse skeleton: %v", err)
	}
	if data.DefaultSkin() == nil {
		t.Fatalf("default skin missing")
	}
	if a := data.DefaultSkin().GetAttachment(data.FindSlot("head").Index, "head"); a == nil || a.Region.Name != "head" {
		t.Fatalf("unexpected head attachment: %+v", a)
	}
	if walk := data.FindAnimation("walk"); walk == nil || !approx(walk.Duration, 1.25) {
		t.Fatalf("unexpected walk animation: %+v", walk)
	}
}

func TestParseSkeletonJSONErrors(t *testing.T) {
	atlas := mustAtlas(t, spinetest.Atlas)

	tests := []struct {
		name    string
		json    string
		wantErr error
	}{
		{
			name:    "malformed",
			json:    `{"bones": [`,
			wantErr: ErrInvalidSkeleton,
		},
		{
			name:    "missing region",
			json:    spinetest.SkeletonJSONMissingRegion,
			wantErr: ErrRegionNotFound,
		},
		{
			name:    "unknown parent bone",
			json:    `{"bones": [{"name": "a", "parent": "b"}]}`,
			wantErr: ErrBoneNotFound,
		},
		{
			name:    "unknown slot bone",
			json:    `{"bones": [{"name": "root"}], "slots": [{"name": "s", "bone": "nope"}]}`,
			wantErr: ErrBoneNotFound,
		},
		{
			name:    "skin for unknown slot",
			json:    `{"bones": [{"name": "root"}], "skins": [{"name": "default", "attachments": {"ghost": {"a": {"type": "point"}}}}]}`,
			wantErr: ErrSlotNotFound,
		},
		{
			name:    "unknown attachment type",
			json:    `{"bones": [{"name": "root"}], "slots": [{"name": "s", "bone": "root"}], "skins": [{"name": "default", "attachments": {"s": {"a": {"type": "sprite"}}}}]}`,
			wantErr: ErrUnknownAttachment,
		},
		{
			name:    "linked mesh without parent",
			json:    `{"bones": [{"name": "root"}], "slots": [{"name": "s", "bone": "root"}], "skins": [{"name": "default", "attachments": {"s": {"a": {"type": "linkedmesh", "path": "torso", "parent": "missing"}}}}]}`,
			wantErr: ErrParentMeshNotFound,
		},
		{
			name:    "animation keys unknown bone",
			json:    `{"bones": [{"name": "root"}], "animations": {"a": {"bones": {"ghost": {}}}}}`,
			wantErr: ErrBoneNotFound,
		},
		{
			name:    "animation fires unknown event",
			json:    `{"bones": [{"name": "root"}], "animations": {"a": {"events": [{"name": "boom"}]}}}`,
			wantErr: ErrEventNotFound,
		},
		{
			name:    "bad slot color",
			json:    `{"bones": [{"name": "root"}], "slots": [{"name": "s", "bone": "root", "color": "zz"}]}`,
			wantErr: ErrInvalidSkeleton,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSkeletonJSON([]byte(tt.json), atlas)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseSkeletonJSONNilAtlas(t *testing.T) {
	if _, err := ParseSkeletonJSON([]byte(spinetest.SkeletonJSON), nil); !errors.Is(err, ErrNilAtlas) {
		t.Fatalf("expected ErrNilAtlas, got %v", err)
	}
}

func TestOrDefault(t *testing.T) {
	tests := []struct {
		name        string
		v, fallback string
		want        string
	}{
		{"set", "gun", "key", "gun"},
		{"empty", "", "key", "key"},
		{"both empty", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := orDefault(tt.v, tt.fallback); got != tt.want {
				t.Fatalf("orDefault(%q, %q) = %q, want %q", tt.v, tt.fallback, got, tt.want)
			}
		})
	}
	if got := orDefault(float32(0), 30); got != 30 {
		t.Fatalf("zero fps should fall back, got %v", got)
	}
	if got := orDefault(float32(24), 30); got != 24 {
		t.Fatalf("explicit fps should be kept, got %v", got)
	}
}
