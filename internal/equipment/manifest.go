// Package equipment reads the equipment manifest that lists the attachment swaps offered by the
// skin demo.
package equipment

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Button is one selectable attachment swap.
type Button struct {
	Label      string `yaml:"label"`
	Slot       string `yaml:"slot"`
	Attachment string `yaml:"attachment"`
	// Group selects which buttons are mutually exclusive. Defaults to the slot name.
	Group string `yaml:"group"`
}

// Manifest lists the buttons in display order.
type Manifest struct {
	Buttons []Button `yaml:"buttons"`
}

// Default mirrors the spineboy goggles and gun swaps.
func Default() Manifest {
	return Manifest{Buttons: []Button{
		{Label: "Normal goggles", Slot: "goggles", Attachment: "goggles-normal", Group: "goggles"},
		{Label: "Tactical goggles", Slot: "goggles", Attachment: "goggles-tactical", Group: "goggles"},
		{Label: "Normal gun", Slot: "gun", Attachment: "gun-normal", Group: "gun"},
		{Label: "Freeze gun", Slot: "gun", Attachment: "gun-freeze", Group: "gun"},
	}}
}

// Parse decodes a manifest from YAML bytes.
func Parse(data []byte) (Manifest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Manifest{}, fmt.Errorf("equipment: manifest is empty")
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("equipment: decode manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m.Normalized(), nil
}

// LoadReader reads a manifest from r.
func LoadReader(r io.Reader) (Manifest, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return Manifest{}, fmt.Errorf("equipment: read manifest: %w", err)
	}
	return Parse(content)
}

// LoadFile reads a manifest from disk.
func LoadFile(p string) (Manifest, error) {
	content, err := os.ReadFile(p)
	if err != nil {
		return Manifest{}, fmt.Errorf("equipment: read %s: %w", p, err)
	}
	m, err := Parse(content)
	if err != nil {
		return Manifest{}, fmt.Errorf("equipment: %s: %w", p, err)
	}
	return m, nil
}

// Validate reports the first button without a slot or attachment, and duplicate buttons.
func (m Manifest) Validate() error {
	if len(m.Buttons) == 0 {
		return fmt.Errorf("equipment: manifest has no buttons")
	}
	seen := make(map[string]int, len(m.Buttons))
	for i, b := range m.Buttons {
		if strings.TrimSpace(b.Slot) == "" {
			return fmt.Errorf("equipment: button %d: slot is required", i)
		}
		if strings.TrimSpace(b.Attachment) == "" {
			return fmt.Errorf("equipment: button %d: attachment is required", i)
		}
		key := strings.TrimSpace(b.Slot) + "\x00" + strings.TrimSpace(b.Attachment)
		if j, ok := seen[key]; ok {
			return fmt.Errorf("equipment: button %d duplicates button %d (%s/%s)", i, j, b.Slot, b.Attachment)
		}
		seen[key] = i
	}
	return nil
}

// Normalized trims fields and fills empty labels and groups.
func (m Manifest) Normalized() Manifest {
	out := Manifest{Buttons: make([]Button, len(m.Buttons))}
	for i, b := range m.Buttons {
		b.Slot = strings.TrimSpace(b.Slot)
		b.Attachment = strings.TrimSpace(b.Attachment)
		b.Label = strings.TrimSpace(b.Label)
		b.Group = strings.TrimSpace(b.Group)
		if b.Label == "" {
			// attachments are often given as image paths: equips/goggles-normal.png
			b.Label = strings.TrimSuffix(path.Base(b.Attachment), path.Ext(b.Attachment))
		}
		if b.Group == "" {
			b.Group = b.Slot
		}
		out.Buttons[i] = b
	}
	return out
}

// Groups returns the group names in first-seen order.
func (m Manifest) Groups() []string {
	var groups []string
	seen := make(map[string]bool)
	for _, b := range m.Buttons {
		if !seen[b.Group] {
			seen[b.Group] = true
			groups = append(groups, b.Group)
		}
	}
	return groups
}

// Candidates returns the attachment names to try when equipping b: the attachment as written,
// then its base name without an image extension.
func (b Button) Candidates() []string {
	base := path.Base(b.Attachment)
	switch strings.ToLower(path.Ext(base)) {
	case ".png", ".jpg", ".jpeg":
		base = strings.TrimSuffix(base, path.Ext(base))
	}
	if base == b.Attachment {
		return []string{b.Attachment}
	}
	return []string{b.Attachment, base}
}
