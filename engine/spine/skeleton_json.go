package spine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type jsonSkeletonHeader struct {
	Hash   string  `json:"hash"`
	Spine  string  `json:"spine"`
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
	FPS    float32 `json:"fps"`
	Images string  `json:"images"`
	Audio  string  `json:"audio"`
}

type jsonDocument struct {
	Skeleton   *jsonSkeletonHeader `json:"skeleton"`
	Bones      []jsonBone          `json:"bones"`
	Slots      []jsonSlot          `json:"slots"`
	Skins      json.RawMessage     `json:"skins"`
	Events     json.RawMessage     `json:"events"`
	Animations json.RawMessage     `json:"animations"`
}

type jsonBone struct {
	Name     string   `json:"name"`
	Parent   string   `json:"parent"`
	Length   float32  `json:"length"`
	X        float32  `json:"x"`
	Y        float32  `json:"y"`
	Rotation float32  `json:"rotation"`
	ScaleX   *float32 `json:"scaleX"`
	ScaleY   *float32 `json:"scaleY"`
	ShearX   float32  `json:"shearX"`
	ShearY   float32  `json:"shearY"`
}

type jsonSlot struct {
	Name       string `json:"name"`
	Bone       string `json:"bone"`
	Color      string `json:"color"`
	Attachment string `json:"attachment"`
	Blend      string `json:"blend"`
}

type jsonSequence struct {
	Count  int  `json:"count"`
	Start  *int `json:"start"`
	Digits int  `json:"digits"`
}

type jsonAttachment struct {
	Name        string        `json:"name"`
	Path        string        `json:"path"`
	Type        string        `json:"type"`
	X           float32       `json:"x"`
	Y           float32       `json:"y"`
	Rotation    float32       `json:"rotation"`
	ScaleX      *float32      `json:"scaleX"`
	ScaleY      *float32      `json:"scaleY"`
	Width       float32       `json:"width"`
	Height      float32       `json:"height"`
	Color       string        `json:"color"`
	VertexCount int           `json:"vertexCount"`
	UVs         []float32     `json:"uvs"`
	Parent      string        `json:"parent"`
	Skin        string        `json:"skin"`
	End         string        `json:"end"`
	Sequence    *jsonSequence `json:"sequence"`
}

type jsonSkin struct {
	Name        string          `json:"name"`
	Attachments json.RawMessage `json:"attachments"`
}

type jsonEvent struct {
	Int    int     `json:"int"`
	Float  float32 `json:"float"`
	String string  `json:"string"`
	Audio  string  `json:"audio"`
}

type jsonEventKey struct {
	Name string `json:"name"`
}

type jsonDrawOrderKey struct {
	Offsets []struct {
		Slot string `json:"slot"`
	} `json:"offsets"`
}

// linkedMesh records a linked mesh whose parent is resolved after all skins are read.
type linkedMesh struct {
	attachment *Attachment
	skin       *Skin
	slotIndex  int
}

// skeletonJSONReader holds the state of one ParseSkeletonJSON call.
type skeletonJSONReader struct {
	atlas        *Atlas
	data         *SkeletonData
	linkedMeshes []linkedMesh
}

// ParseSkeletonJSON parses a skeleton JSON document against a loaded atlas and produces the
// shared skeleton template. Every region-like attachment must resolve to a region in the atlas.
//
// Parameters:
//   - data: the skeleton JSON document
//   - atlas: the atlas the document's attachments are packed in
//
// Returns:
//   - *SkeletonData: the parsed template
//   - error: error if the document is malformed or references data that does not exist
func ParseSkeletonJSON(data []byte, atlas *Atlas) (*SkeletonData, error) {
	if atlas == nil {
		return nil, ErrNilAtlas
	}

	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSkeleton, err)
	}

	r := &skeletonJSONReader{atlas: atlas, data: &SkeletonData{}}

	if h := doc.Skeleton; h != nil {
		r.data.Hash = h.Hash
		r.data.Version = h.Spine
		r.data.X, r.data.Y = h.X, h.Y
		r.data.Width, r.data.Height = h.Width, h.Height
		r.data.FPS = orDefault(h.FPS, 30)
		r.data.ImagesPath = h.Images
		r.data.AudioPath = h.Audio
	}

	if err := r.readBones(doc.Bones); err != nil {
		return nil, err
	}
	if err := r.readSlots(doc.Slots); err != nil {
		return nil, err
	}
	if err := r.readSkins(doc.Skins); err != nil {
		return nil, err
	}
	if err := r.resolveLinkedMeshes(); err != nil {
		return nil, err
	}
	if err := r.readEvents(doc.Events); err != nil {
		return nil, err
	}
	if err := r.readAnimations(doc.Animations); err != nil {
		return nil, err
	}

	return r.data, nil
}

func (r *skeletonJSONReader) readBones(bones []jsonBone) error {
	for i, jb := range bones {
		if jb.Name == "" {
			return fmt.Errorf("%w: bone %d has no name", ErrInvalidSkeleton, i)
		}
		bone := &BoneData{
			Index:    i,
			Name:     jb.Name,
			Length:   jb.Length,
			X:        jb.X,
			Y:        jb.Y,
			Rotation: jb.Rotation,
			ScaleX:   floatOr(jb.ScaleX, 1),
			ScaleY:   floatOr(jb.ScaleY, 1),
			ShearX:   jb.ShearX,
			ShearY:   jb.ShearY,
		}
		if jb.Parent != "" {
			bone.Parent = r.data.FindBone(jb.Parent)
			if bone.Parent == nil {
				return fmt.Errorf("%w: parent of bone %q: %s", ErrBoneNotFound, jb.Name, jb.Parent)
			}
		}
		r.data.bones = append(r.data.bones, bone)
	}
	return nil
}

func (r *skeletonJSONReader) readSlots(slots []jsonSlot) error {
	for i, js := range slots {
		bone := r.data.FindBone(js.Bone)
		if bone == nil {
			return fmt.Errorf("%w: bone of slot %q: %s", ErrBoneNotFound, js.Name, js.Bone)
		}
		slot := &SlotData{
			Index:          i,
			Name:           js.Name,
			Bone:           bone,
			Color:          White,
			AttachmentName: js.Attachment,
		}
		if js.Color != "" {
			c, err := parseColor(js.Color)
			if err != nil {
				return fmt.Errorf("%w: slot %q: %v", ErrInvalidSkeleton, js.Name, err)
			}
			slot.Color = c
		}
		if js.Blend != "" {
			mode, ok := blendModeNames[js.Blend]
			if !ok {
				return fmt.Errorf("%w: slot %q: unknown blend mode %q", ErrInvalidSkeleton, js.Name, js.Blend)
			}
			slot.BlendMode = mode
		}
		r.data.slots = append(r.data.slots, slot)
	}
	return nil
}

// readSkins accepts both the array form ([{name, attachments}]) and the legacy
// object form ({skinName: {slot: {...}}}).
func (r *skeletonJSONReader) readSkins(raw json.RawMessage) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	if raw[0] == '[' {
		var skins []jsonSkin
		if err := json.Unmarshal(raw, &skins); err != nil {
			return fmt.Errorf("%w: skins: %v", ErrInvalidSkeleton, err)
		}
		for _, js := range skins {
			if err := r.readSkin(js.Name, js.Attachments); err != nil {
				return err
			}
		}
		return nil
	}

	names, values, err := orderedObject(raw)
	if err != nil {
		return fmt.Errorf("%w: skins: %v", ErrInvalidSkeleton, err)
	}
	for i, name := range names {
		if err := r.readSkin(name, values[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *skeletonJSONReader) readSkin(name string, raw json.RawMessage) error {
	skin := NewSkin(name)

	slotNames, slotValues, err := orderedObject(raw)
	if err != nil {
		return fmt.Errorf("%w: skin %q: %v", ErrInvalidSkeleton, name, err)
	}
	for i, slotName := range slotNames {
		slot := r.data.FindSlot(slotName)
		if slot == nil {
			return fmt.Errorf("%w: skin %q: %s", ErrSlotNotFound, name, slotName)
		}

		keys, values, err := orderedObject(slotValues[i])
		if err != nil {
			return fmt.Errorf("%w: skin %q slot %q: %v", ErrInvalidSkeleton, name, slotName, err)
		}
		for j, key := range keys {
			attachment, err := r.readAttachment(key, values[j])
			if err != nil {
				return fmt.Errorf("skin %q slot %q: %w", name, slotName, err)
			}
			skin.SetAttachment(slot.Index, key, attachment)
			if attachment.Type == AttachmentTypeLinkedMesh {
				r.linkedMeshes = append(r.linkedMeshes, linkedMesh{attachment: attachment, skin: skin, slotIndex: slot.Index})
			}
		}
	}

	r.data.skins = append(r.data.skins, skin)
	if name == "default" {
		r.data.defaultSkin = skin
	}
	return nil
}

func (r *skeletonJSONReader) readAttachment(key string, raw json.RawMessage) (*Attachment, error) {
	var ja jsonAttachment
	if err := json.Unmarshal(raw, &ja); err != nil {
		return nil, fmt.Errorf("%w: attachment %q: %v", ErrInvalidSkeleton, key, err)
	}

	typ := AttachmentTypeRegion
	if ja.Type != "" {
		t, ok := attachmentTypeNames[strings.ToLower(ja.Type)]
		if !ok {
			return nil, fmt.Errorf("%w: %q (attachment %s)", ErrUnknownAttachment, ja.Type, key)
		}
		typ = t
	}

	name := orDefault(ja.Name, key)
	a := &Attachment{
		Name:        name,
		Type:        typ,
		Path:        orDefault(ja.Path, name),
		X:           ja.X,
		Y:           ja.Y,
		Rotation:    ja.Rotation,
		ScaleX:      floatOr(ja.ScaleX, 1),
		ScaleY:      floatOr(ja.ScaleY, 1),
		Width:       ja.Width,
		Height:      ja.Height,
		Color:       White,
		VertexCount: ja.VertexCount,
		ParentMesh:  ja.Parent,
		ParentSkin:  ja.Skin,
		EndSlot:     ja.End,
	}
	if ja.Color != "" {
		c, err := parseColor(ja.Color)
		if err != nil {
			return nil, fmt.Errorf("%w: attachment %q: %v", ErrInvalidSkeleton, name, err)
		}
		a.Color = c
	}
	if typ == AttachmentTypeMesh && len(ja.UVs) > 0 {
		a.VertexCount = len(ja.UVs) / 2
	}
	if typ == AttachmentTypeClipping && ja.End != "" && r.data.FindSlot(ja.End) == nil {
		return nil, fmt.Errorf("%w: end of clipping %q: %s", ErrSlotNotFound, name, ja.End)
	}

	if !typ.usesRegion() {
		return a, nil
	}

	if ja.Sequence != nil {
		start := 1
		if ja.Sequence.Start != nil {
			start = *ja.Sequence.Start
		}
		for i := 0; i < ja.Sequence.Count; i++ {
			framePath := fmt.Sprintf("%s%0*d", a.Path, ja.Sequence.Digits, start+i)
			region := r.atlas.FindRegion(framePath)
			if region == nil {
				return nil, fmt.Errorf("%w: %s (%s attachment: %s)", ErrRegionNotFound, framePath, typ, name)
			}
			a.Sequence = append(a.Sequence, region)
		}
		if len(a.Sequence) > 0 {
			a.Region = a.Sequence[0]
		}
		return a, nil
	}

	a.Region = r.atlas.FindRegion(a.Path)
	if a.Region == nil {
		return nil, fmt.Errorf("%w: %s (%s attachment: %s)", ErrRegionNotFound, a.Path, typ, name)
	}
	return a, nil
}

func (r *skeletonJSONReader) resolveLinkedMeshes() error {
	for _, lm := range r.linkedMeshes {
		skin := r.data.defaultSkin
		if lm.attachment.ParentSkin != "" {
			skin = r.data.FindSkin(lm.attachment.ParentSkin)
			if skin == nil {
				return fmt.Errorf("%w: %s (linked mesh %s)", ErrSkinNotFound, lm.attachment.ParentSkin, lm.attachment.Name)
			}
		}
		parent := skin.GetAttachment(lm.slotIndex, lm.attachment.ParentMesh)
		if parent == nil {
			return fmt.Errorf("%w: %s (linked mesh %s)", ErrParentMeshNotFound, lm.attachment.ParentMesh, lm.attachment.Name)
		}
		lm.attachment.VertexCount = parent.VertexCount
	}
	r.linkedMeshes = nil
	return nil
}

func (r *skeletonJSONReader) readEvents(raw json.RawMessage) error {
	if isEmptyJSON(raw) {
		return nil
	}
	names, values, err := orderedObject(raw)
	if err != nil {
		return fmt.Errorf("%w: events: %v", ErrInvalidSkeleton, err)
	}
	for i, name := range names {
		var je jsonEvent
		if err := json.Unmarshal(values[i], &je); err != nil {
			return fmt.Errorf("%w: event %q: %v", ErrInvalidSkeleton, name, err)
		}
		r.data.events = append(r.data.events, &EventData{
			Name:      name,
			Int:       je.Int,
			Float:     je.Float,
			String:    je.String,
			AudioPath: je.Audio,
		})
	}
	return nil
}

func (r *skeletonJSONReader) readAnimations(raw json.RawMessage) error {
	if isEmptyJSON(raw) {
		return nil
	}
	names, values, err := orderedObject(raw)
	if err != nil {
		return fmt.Errorf("%w: animations: %v", ErrInvalidSkeleton, err)
	}
	for i, name := range names {
		anim, err := r.readAnimation(name, values[i])
		if err != nil {
			return err
		}
		r.data.animations = append(r.data.animations, anim)
	}
	return nil
}

func (r *skeletonJSONReader) readAnimation(name string, raw json.RawMessage) (*Animation, error) {
	var timelines map[string]json.RawMessage
	if err := json.Unmarshal(raw, &timelines); err != nil {
		return nil, fmt.Errorf("%w: animation %q: %v", ErrInvalidSkeleton, name, err)
	}

	anim := &Animation{Name: name}

	if bones, ok := timelines["bones"]; ok {
		keys, _, err := orderedObject(bones)
		if err != nil {
			return nil, fmt.Errorf("%w: animation %q bones: %v", ErrInvalidSkeleton, name, err)
		}
		for _, bone := range keys {
			if r.data.FindBone(bone) == nil {
				return nil, fmt.Errorf("%w: animation %q: %s", ErrBoneNotFound, name, bone)
			}
		}
		anim.Bones = keys
	}

	if slots, ok := timelines["slots"]; ok {
		keys, _, err := orderedObject(slots)
		if err != nil {
			return nil, fmt.Errorf("%w: animation %q slots: %v", ErrInvalidSkeleton, name, err)
		}
		for _, slot := range keys {
			if r.data.FindSlot(slot) == nil {
				return nil, fmt.Errorf("%w: animation %q: %s", ErrSlotNotFound, name, slot)
			}
		}
		anim.Slots = keys
	}

	if events, ok := timelines["events"]; ok {
		var keys []jsonEventKey
		if err := json.Unmarshal(events, &keys); err != nil {
			return nil, fmt.Errorf("%w: animation %q events: %v", ErrInvalidSkeleton, name, err)
		}
		for _, k := range keys {
			if r.data.FindEvent(k.Name) == nil {
				return nil, fmt.Errorf("%w: animation %q: %s", ErrEventNotFound, name, k.Name)
			}
		}
	}

	for _, key := range []string{"drawOrder", "draworder"} {
		order, ok := timelines[key]
		if !ok {
			continue
		}
		var keys []jsonDrawOrderKey
		if err := json.Unmarshal(order, &keys); err != nil {
			return nil, fmt.Errorf("%w: animation %q draw order: %v", ErrInvalidSkeleton, name, err)
		}
		for _, k := range keys {
			for _, o := range k.Offsets {
				if r.data.FindSlot(o.Slot) == nil {
					return nil, fmt.Errorf("%w: animation %q draw order: %s", ErrSlotNotFound, name, o.Slot)
				}
			}
		}
	}

	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("%w: animation %q: %v", ErrInvalidSkeleton, name, err)
	}
	anim.Duration = float32(maxKeyTime(tree))
	return anim, nil
}

// maxKeyTime returns the largest "time" value found anywhere in a decoded timeline tree.
func maxKeyTime(v any) float64 {
	var m float64
	switch t := v.(type) {
	case map[string]any:
		if time, ok := t["time"].(float64); ok && time > m {
			m = time
		}
		for _, child := range t {
			m = max(m, maxKeyTime(child))
		}
	case []any:
		for _, child := range t {
			m = max(m, maxKeyTime(child))
		}
	}
	return m
}

// orderedObject decodes a JSON object into its keys and raw values, keeping document order.
func orderedObject(raw json.RawMessage) ([]string, []json.RawMessage, error) {
	if isEmptyJSON(raw) {
		return nil, nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys []string
	var values []json.RawMessage
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, nil, err
		}
		keys = append(keys, key)
		values = append(values, value)
	}
	return keys, values, nil
}

func isEmptyJSON(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// orDefault returns v, or fallback when v is the zero value.
func orDefault[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}

func floatOr(v *float32, fallback float32) float32 {
	if v == nil {
		return fallback
	}
	return *v
}
