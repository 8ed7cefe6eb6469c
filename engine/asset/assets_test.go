package asset

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/uuid"
)

func TestHandleRefCounting(t *testing.T) {
	a := NewAssets[string](textTypeID)
	var dropped []uuid.UUID
	a.setDropHook(func(id uuid.UUID) { dropped = append(dropped, id) })

	h := a.Add("x")
	c := h.Clone()
	if a.RefCount(h.ID()) != 2 {
		t.Fatalf("expected 2 refs, got %d", a.RefCount(h.ID()))
	}

	h.Release()
	if v, ok := c.Get(); !ok || v != "x" {
		t.Fatalf("asset must survive while a handle remains")
	}
	c.Release()
	if _, ok := a.GetByID(h.ID()); ok {
		t.Fatalf("asset should be dropped after the last release")
	}
	if len(dropped) != 1 || dropped[0] != h.ID() {
		t.Fatalf("expected one drop for %s, got %v", h.ID(), dropped)
	}

	c.Release()
	if len(dropped) != 1 {
		t.Fatalf("releasing an unknown id must not drop again")
	}
}

func TestZeroHandle(t *testing.T) {
	var h Handle[string]
	if !h.IsZero() {
		t.Fatalf("zero handle should report IsZero")
	}
	if _, ok := h.Get(); ok {
		t.Fatalf("zero handle resolves to nothing")
	}
	h.Clone().Release()
}

func TestReserveThenInsert(t *testing.T) {
	a := NewAssets[string](textTypeID)
	id := uuid.New()
	h := a.Reserve(id)
	if _, ok := h.Get(); ok {
		t.Fatalf("reserved entry is not loaded")
	}
	if a.Len() != 0 {
		t.Fatalf("reserved entries are not counted")
	}

	replaced, err := a.insert(id, "v1")
	if err != nil || replaced {
		t.Fatalf("first insert: replaced=%v err=%v", replaced, err)
	}
	replaced, err = a.insert(id, "v2")
	if err != nil || !replaced {
		t.Fatalf("second insert: replaced=%v err=%v", replaced, err)
	}
	if v, _ := h.Get(); v != "v2" {
		t.Fatalf("expected v2, got %q", v)
	}
	if ids := a.IDs(); len(ids) != 1 || ids[0] != id {
		t.Fatalf("unexpected ids %v", ids)
	}

	if _, err := a.insert(id, 42); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
	if _, err := a.insert(uuid.New(), "orphan"); !errors.Is(err, ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}
}

func TestLoadContextDependencies(t *testing.T) {
	src := NewFSSource(fstest.MapFS{
		"rig/page.png": {Data: []byte{1}},
		"page.png":     {Data: []byte{2}},
	})

	tests := []struct {
		name    string
		asset   string
		rel     string
		want    string
		wantErr bool
	}{
		{"sibling", "rig/rig.atlas", "page.png", "rig/page.png", false},
		{"parent", "rig/sub/rig.atlas", "../page.png", "rig/page.png", false},
		{"root", "rig.atlas", "page.png", "page.png", false},
		{"missing", "rig/rig.atlas", "other.png", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewLoadContext(tt.asset, src)
			got, err := ctx.AddDependency(tt.rel)
			if tt.wantErr {
				if !errors.Is(err, ErrDependencyNotFound) {
					t.Fatalf("expected ErrDependencyNotFound, got %v", err)
				}
				if len(ctx.Dependencies()) != 0 {
					t.Fatalf("failed dependency must not be recorded")
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("expected %s, got %s (%v)", tt.want, got, err)
			}
			if deps := ctx.Dependencies(); len(deps) != 1 || deps[0] != tt.want {
				t.Fatalf("unexpected dependencies %v", deps)
			}
		})
	}
}

func TestCleanPath(t *testing.T) {
	tests := map[string]string{
		"a/b.txt":    "a/b.txt",
		"/a/b.txt":   "a/b.txt",
		"./a//b.txt": "a/b.txt",
		"a/../b.txt": "b.txt",
		`a\b.txt`:    "a/b.txt",
		".":          "",
		"":           "",
	}
	for in, want := range tests {
		if got := cleanPath(in); got != want {
			t.Errorf("cleanPath(%q) = %q, want %q", in, got, want)
		}
	}
}
