package spine

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-spine/engine/spine/spinetest"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestParseAtlasCompact(t *testing.T) {
	atlas, err := ParseAtlas([]byte(spinetest.Atlas), "spineboy")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(atlas.Pages()) != 1 {
		t.Fatalf("expected 1 page, got %d", len(atlas.Pages()))
	}
	page := atlas.Pages()[0]
	if page.ImagePath != spinetest.PagePath {
		t.Fatalf("expected image path %s, got %s", spinetest.PagePath, page.ImagePath)
	}
	if page.Width != 256 || page.Height != 256 || !page.PMA {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.MinFilter != TextureFilterLinear || page.MagFilter != TextureFilterLinear {
		t.Fatalf("unexpected filters: %v %v", page.MinFilter, page.MagFilter)
	}

	if len(atlas.Regions()) != 6 {
		t.Fatalf("expected 6 regions, got %d", len(atlas.Regions()))
	}

	head := atlas.FindRegion("head")
	if head == nil {
		t.Fatalf("head region missing")
	}
	if !head.Rotated() || head.X != 64 || head.Width != 70 || head.Height != 80 {
		t.Fatalf("unexpected head region: %+v", head)
	}
	if head.OriginalWidth != 70 || head.OriginalHeight != 80 {
		t.Fatalf("original size should default to packed size: %+v", head)
	}

	tactical := atlas.FindRegion("goggles-tactical")
	if tactical.OffsetX != 1 || tactical.OriginalWidth != 42 || tactical.OriginalHeight != 24 {
		t.Fatalf("unexpected offsets: %+v", tactical)
	}
	if tactical.Page != page {
		t.Fatalf("region should point at its page")
	}

	if atlas.FindRegion("visor") != nil {
		t.Fatalf("expected no visor region")
	}
}

func TestParseAtlasLegacy(t *testing.T) {
	atlas, err := ParseAtlas([]byte(spinetest.LegacyAtlas), "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(atlas.Pages()) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(atlas.Pages()))
	}

	first := atlas.Pages()[0]
	if first.ImagePath != "legacy.png" || first.Format != "RGBA8888" {
		t.Fatalf("unexpected first page: %+v", first)
	}
	if first.UWrap != TextureWrapRepeat || first.VWrap != TextureWrapRepeat {
		t.Fatalf("expected xy repeat: %+v", first)
	}
	if first.MinFilter != TextureFilterNearest || first.MagFilter != TextureFilterMipMapLinearLinear {
		t.Fatalf("unexpected filters: %+v", first)
	}

	torso := atlas.FindRegion("torso")
	if torso.Rotated() || torso.OriginalWidth != 64 || torso.OffsetY != 3 || torso.Index != -1 {
		t.Fatalf("unexpected torso: %+v", torso)
	}
	if !atlas.FindRegion("head").Rotated() {
		t.Fatalf("head should be rotated")
	}

	run := atlas.FindRegion("run")
	if run.Page != atlas.Pages()[1] || run.Index != 3 {
		t.Fatalf("run should be on the second page with index 3: %+v", run)
	}
}

func TestParseAtlasErrors(t *testing.T) {
	tests := []struct {
		name  string
		atlas string
	}{
		{name: "bad size", atlas: "page.png\nsize: a, b\n"},
		{name: "bad filter", atlas: "page.png\nfilter: Blurry, Linear\n"},
		{name: "short bounds", atlas: "page.png\nsize: 1, 1\nregion\nbounds: 1, 2\n"},
		{name: "bad repeat", atlas: "page.png\nrepeat: z\n"},
		{name: "bad rotate", atlas: "page.png\nregion\nrotate: sideways\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAtlas([]byte(tt.atlas), "")
			if !errors.Is(err, ErrInvalidAtlas) {
				t.Fatalf("expected ErrInvalidAtlas, got %v", err)
			}
		})
	}
}

func TestParseAtlasEmpty(t *testing.T) {
	atlas, err := ParseAtlas(nil, "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(atlas.Pages()) != 0 || len(atlas.Regions()) != 0 {
		t.Fatalf("expected empty atlas")
	}
}

func TestAtlasPageSamplerData(t *testing.T) {
	atlas, err := ParseAtlas([]byte(spinetest.LegacyAtlas), "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	repeated := atlas.Pages()[0].SamplerData()
	if repeated.AddressModeU != wgpu.AddressModeRepeat || repeated.AddressModeV != wgpu.AddressModeRepeat {
		t.Fatalf("expected repeat addressing: %+v", repeated)
	}
	if repeated.MinFilter != wgpu.FilterModeNearest || repeated.MagFilter != wgpu.FilterModeLinear {
		t.Fatalf("unexpected filters: %+v", repeated)
	}

	clamped := atlas.Pages()[1].SamplerData()
	if clamped.AddressModeU != wgpu.AddressModeClampToEdge {
		t.Fatalf("expected clamp addressing: %+v", clamped)
	}
}
