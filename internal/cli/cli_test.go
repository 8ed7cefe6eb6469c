package cli

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-spine/engine/spine"
	"github.com/Carmen-Shannon/oxy-spine/engine/spine/spinetest"
)

func writeAssets(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "assets")
	var page bytes.Buffer
	if err := png.Encode(&page, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	files := map[string][]byte{
		spinetest.AtlasPath:    []byte(spinetest.Atlas),
		spinetest.SkeletonPath: []byte(spinetest.SkeletonJSON),
		spinetest.PagePath:     page.Bytes(),
		"broken/broken.json":   []byte(spinetest.SkeletonJSONMissingRegion),
	}
	for name, data := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInspectFromDirectory(t *testing.T) {
	root := writeAssets(t)
	out, err := run(t, "inspect", "--assets", root, "--skeleton", spinetest.SkeletonPath)
	if err != nil {
		t.Fatalf("inspect: %v\n%s", err, out)
	}
	for _, want := range []string{
		"atlas:    spineboy/spineboy.atlas",
		"bones (5)",
		"slots (5)",
		"skins (3)",
		"goggles-tactical",
		"run",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestPackThenInspectFromPack(t *testing.T) {
	root := writeAssets(t)
	pack := filepath.Join(t.TempDir(), "assets.res")

	out, err := run(t, "pack", "--dir", root, "--out", pack)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if !strings.Contains(out, "packed 4 files") {
		t.Fatalf("unexpected pack output %q", out)
	}

	out, err = run(t, "inspect", "--pack", pack, "--skeleton", spinetest.SkeletonPath)
	if err != nil {
		t.Fatalf("inspect from pack: %v\n%s", err, out)
	}
	if !strings.Contains(out, "slots (5)") {
		t.Fatalf("unexpected inspect output:\n%s", out)
	}
}

func TestInspectErrors(t *testing.T) {
	root := writeAssets(t)

	_, err := run(t, "inspect", "--assets", root, "--skeleton", "broken/broken.json", "--atlas", spinetest.AtlasPath)
	if !errors.Is(err, spine.ErrRegionNotFound) {
		t.Errorf("expected ErrRegionNotFound for a missing region, got %v", err)
	}

	if _, err := run(t, "inspect", "--assets", root, "--skeleton", "nope/nope.json"); err == nil {
		t.Errorf("expected an error for a missing skeleton")
	}

	if _, err := run(t, "inspect", "--assets", filepath.Join(root, "missing")); err == nil {
		t.Errorf("expected an error for a missing asset root")
	}
}

func TestPackRejectsFile(t *testing.T) {
	root := writeAssets(t)
	_, err := run(t, "pack", "--dir", filepath.Join(root, spinetest.AtlasPath), "--out", filepath.Join(t.TempDir(), "x.res"))
	if err == nil || !strings.Contains(err.Error(), "not a directory") {
		t.Fatalf("expected not a directory error, got %v", err)
	}
}
