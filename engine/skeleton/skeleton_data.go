// Package skeleton joins a loaded atlas and a loaded skeleton document into a shared, parsed
// skeleton template. Each SkeletonData is parsed exactly once, after both of its dependencies
// are loaded, by a Resolver the host calls once per tick.
package skeleton

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-spine/engine/asset"
	"github.com/Carmen-Shannon/oxy-spine/engine/loader"
	"github.com/Carmen-Shannon/oxy-spine/engine/spine"

	"github.com/google/uuid"
)

// SkeletonDataTypeID is the asset type id of *SkeletonData.
var SkeletonDataTypeID = uuid.MustParse("7796a37b-37a4-49ea-bf4e-fb7344aa6015")

// ErrAlreadyResolved is returned when replacing the dependencies of a resolved SkeletonData.
var ErrAlreadyResolved = errors.New("skeleton data already resolved")

// State is the resolution state of a SkeletonData.
type State int

const (
	// StatePending means at least one dependency is not loaded yet.
	StatePending State = iota
	// StateResolved means the template was parsed and stored.
	StateResolved
	// StateFailed means parsing the document against the atlas failed.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateResolved:
		return "resolved"
	case StateFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Resolution is an immutable snapshot of a SkeletonData's state. Template is non-nil only when
// State is StateResolved and Err is non-nil only when State is StateFailed.
type Resolution struct {
	State    State
	Template *spine.SkeletonData
	Err      error
}

var pending = &Resolution{State: StatePending}

// SkeletonParseError reports a skeleton document that could not be parsed against its atlas.
type SkeletonParseError struct {
	Path string
	Err  error
}

func (e *SkeletonParseError) Error() string {
	return fmt.Sprintf("failed to parse Spine skeleton %s: %v", e.Path, e.Err)
}

func (e *SkeletonParseError) Unwrap() error {
	return e.Err
}

// ParseFunc parses a skeleton document against an atlas.
type ParseFunc func(json []byte, atlas *spine.Atlas) (*spine.SkeletonData, error)

// SkeletonData is the composite of an atlas handle and a skeleton document handle. It owns both
// handles and releases them when it is removed from its Resolver.
type SkeletonData struct {
	mu    sync.Mutex
	atlas asset.Handle[*loader.Atlas]
	json  asset.Handle[*loader.SkeletonJSON]

	resolution atomic.Pointer[Resolution]
}

// NewFromJSON creates a pending SkeletonData from a skeleton document handle and an atlas
// handle. The SkeletonData takes ownership of both handles.
//
// Parameters:
//   - json: the skeleton document handle
//   - atlas: the atlas handle
//
// Returns:
//   - *SkeletonData: the pending composite
func NewFromJSON(json asset.Handle[*loader.SkeletonJSON], atlas asset.Handle[*loader.Atlas]) *SkeletonData {
	sd := &SkeletonData{atlas: atlas, json: json}
	sd.resolution.Store(pending)
	return sd
}

// Resolution returns the current state snapshot.
func (sd *SkeletonData) Resolution() Resolution {
	return *sd.resolution.Load()
}

// State returns the current state.
func (sd *SkeletonData) State() State {
	return sd.resolution.Load().State
}

// Template returns the parsed template, or nil unless the SkeletonData is resolved.
func (sd *SkeletonData) Template() *spine.SkeletonData {
	return sd.resolution.Load().Template
}

// Err returns the parse error of a failed SkeletonData, or nil.
func (sd *SkeletonData) Err() error {
	return sd.resolution.Load().Err
}

// Atlas returns the atlas handle. The handle remains owned by the SkeletonData.
func (sd *SkeletonData) Atlas() asset.Handle[*loader.Atlas] {
	sd.mu.Lock()
	defer sd.mu.Unlock()
	return sd.atlas
}

// JSON returns the skeleton document handle. The handle remains owned by the SkeletonData.
func (sd *SkeletonData) JSON() asset.Handle[*loader.SkeletonJSON] {
	sd.mu.Lock()
	defer sd.mu.Unlock()
	return sd.json
}

// FindSlot looks up a slot of the template. Returns nil unless resolved.
func (sd *SkeletonData) FindSlot(name string) *spine.SlotData {
	if t := sd.Template(); t != nil {
		return t.FindSlot(name)
	}
	return nil
}

// FindSkin looks up a skin of the template. Returns nil unless resolved.
func (sd *SkeletonData) FindSkin(name string) *spine.Skin {
	if t := sd.Template(); t != nil {
		return t.FindSkin(name)
	}
	return nil
}

// FindAnimation looks up an animation of the template. Returns nil unless resolved.
func (sd *SkeletonData) FindAnimation(name string) *spine.Animation {
	if t := sd.Template(); t != nil {
		return t.FindAnimation(name)
	}
	return nil
}

// SetDependencies replaces both handles of a pending or failed SkeletonData and returns it to
// StatePending; the next evaluation checks the new handles. The SkeletonData takes ownership of
// the new handles and releases the old ones.
//
// Parameters:
//   - json: the new skeleton document handle
//   - atlas: the new atlas handle
//
// Returns:
//   - error: ErrAlreadyResolved if the template was already parsed; the new handles are not taken
func (sd *SkeletonData) SetDependencies(json asset.Handle[*loader.SkeletonJSON], atlas asset.Handle[*loader.Atlas]) error {
	sd.mu.Lock()
	if sd.resolution.Load().State == StateResolved {
		sd.mu.Unlock()
		return ErrAlreadyResolved
	}
	oldJSON, oldAtlas := sd.json, sd.atlas
	sd.json, sd.atlas = json, atlas
	sd.resolution.Store(pending)
	sd.mu.Unlock()

	oldJSON.Release()
	oldAtlas.Release()
	return nil
}

// resolve parses the template if the SkeletonData is pending and both dependencies are loaded.
// It reports whether this call performed the transition.
func (sd *SkeletonData) resolve(parse ParseFunc) (Resolution, bool) {
	if cur := sd.resolution.Load(); cur.State != StatePending {
		return *cur, false
	}

	sd.mu.Lock()
	defer sd.mu.Unlock()
	if cur := sd.resolution.Load(); cur.State != StatePending {
		return *cur, false
	}

	atlas, ok := sd.atlas.Get()
	if !ok {
		return *pending, false
	}
	doc, ok := sd.json.Get()
	if !ok {
		return *pending, false
	}

	next := &Resolution{State: StateResolved}
	template, err := parse(doc.Bytes(), atlas.Spine())
	if err == nil && template == nil {
		err = spine.ErrNilSkeletonTemplate
	}
	if err != nil {
		next = &Resolution{State: StateFailed, Err: &SkeletonParseError{Path: doc.Path(), Err: err}}
	} else {
		next.Template = template
	}
	sd.resolution.Store(next)
	return *next, true
}

// release drops both dependency handles.
func (sd *SkeletonData) release() {
	sd.mu.Lock()
	json, atlas := sd.json, sd.atlas
	sd.json, sd.atlas = asset.Handle[*loader.SkeletonJSON]{}, asset.Handle[*loader.Atlas]{}
	sd.mu.Unlock()

	json.Release()
	atlas.Release()
}
