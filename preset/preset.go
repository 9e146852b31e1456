// Package preset provides named filter snapshots and pluggable
// persistence stores for them.
//
// A store holds one JSON-array blob per caller-chosen key. There is no
// schema version field; callers are responsible for migration if the
// shape changes across releases. Concurrent writers to the same key
// race on read-modify-write with last-write-wins semantics.
package preset

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fastnext-lab/filterbuilder-go/filter"
)

// Preset is a named, timestamped snapshot of a complete filter tree.
type Preset struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Filter      *filter.State `json:"filter"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	IsDefault   bool          `json:"isDefault,omitempty"`
	IsShared    bool          `json:"isShared,omitempty"`
	CreatedBy   string        `json:"createdBy,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
}

// Clone returns a deep copy of the preset.
func (p Preset) Clone() Preset {
	out := p
	out.Filter = p.Filter.Clone()
	if p.Tags != nil {
		out.Tags = make([]string, len(p.Tags))
		copy(out.Tags, p.Tags)
	}
	return out
}

// Store persists preset lists keyed by a caller-supplied string.
//
// Implementations MUST treat a missing key as an empty list and a
// corrupt blob as an empty list, never as an error: preset storage is
// best-effort and the builder degrades to in-memory operation when a
// store misbehaves.
type Store interface {
	// Load returns the preset list stored under key.
	// A missing or corrupt blob loads as an empty list.
	Load(ctx context.Context, key string) ([]Preset, error)

	// Save replaces the preset list stored under key.
	Save(ctx context.Context, key string, presets []Preset) error
}

// decodeList decodes a stored JSON blob, swallowing corruption.
func decodeList(data []byte) []Preset {
	if len(data) == 0 {
		return nil
	}
	var presets []Preset
	if err := json.Unmarshal(data, &presets); err != nil {
		// Corrupt blob degrades to an empty list
		return nil
	}
	return presets
}

// encodeList encodes a preset list to its stored JSON form.
func encodeList(presets []Preset) ([]byte, error) {
	if presets == nil {
		presets = []Preset{}
	}
	return json.Marshal(presets)
}

// clonePresets deep-copies a preset list.
func clonePresets(presets []Preset) []Preset {
	if presets == nil {
		return nil
	}
	out := make([]Preset, len(presets))
	for i, p := range presets {
		out[i] = p.Clone()
	}
	return out
}
