package filterbuilder

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fastnext-lab/filterbuilder-go/filter"
	"github.com/fastnext-lab/filterbuilder-go/internal/safecall"
	"github.com/fastnext-lab/filterbuilder-go/preset"
)

// Presets returns a copy of the preset list, newest first.
func (b *Builder) Presets() []preset.Preset {
	out := make([]preset.Preset, len(b.presets))
	for i, p := range b.presets {
		out[i] = p.Clone()
	}
	return out
}

// ActivePresetID returns the id of the preset the live tree was last
// saved as or loaded from, or an empty string.
func (b *Builder) ActivePresetID() string {
	return b.activePreset
}

// SavePreset snapshots the live tree as a named preset, prepends it
// to the list, and marks it active. When the OnSavePreset callback is
// configured it replaces the local store write; its error aborts the
// save.
func (b *Builder) SavePreset(name, description string) (preset.Preset, error) {
	if !b.features.PresetManagement {
		return preset.Preset{}, ErrFeatureDisabled
	}

	now := time.Now().UTC()
	p := preset.Preset{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Filter:      b.state.Clone(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if b.cfg.OnSavePreset != nil {
		err := safecall.DoErr(b.logger, "onSavePreset", func() error {
			return b.cfg.OnSavePreset(p.Clone())
		})
		if err != nil {
			return preset.Preset{}, err
		}
		b.presets = append([]preset.Preset{p}, b.presets...)
		b.activePreset = p.ID
		return p.Clone(), nil
	}

	b.presets = append([]preset.Preset{p}, b.presets...)
	b.activePreset = p.ID
	b.persistPresets()
	return p.Clone(), nil
}

// LoadPreset copies the preset's tree into the live tree and marks
// the preset active.
func (b *Builder) LoadPreset(id string) error {
	if !b.features.PresetManagement {
		return ErrFeatureDisabled
	}
	p, ok := b.findPreset(id)
	if !ok {
		return ErrPresetNotFound
	}

	b.state = p.Filter.Clone()
	if b.state == nil {
		b.state = filter.NewState()
	}
	b.activePreset = p.ID

	if b.cfg.OnLoadPreset != nil {
		loaded := p.Clone()
		safecall.Do(b.logger, "onLoadPreset", func() { b.cfg.OnLoadPreset(loaded) })
	}
	b.changed()
	return nil
}

// DeletePreset removes the preset from the list, clearing the active
// marker when it pointed at the deleted preset. When the
// OnDeletePreset callback is configured it replaces the local store
// write; its error aborts the deletion.
func (b *Builder) DeletePreset(id string) error {
	if !b.features.PresetManagement {
		return ErrFeatureDisabled
	}
	if _, ok := b.findPreset(id); !ok {
		return ErrPresetNotFound
	}

	if b.cfg.OnDeletePreset != nil {
		err := safecall.DoErr(b.logger, "onDeletePreset", func() error {
			return b.cfg.OnDeletePreset(id)
		})
		if err != nil {
			return err
		}
		b.dropPreset(id)
		return nil
	}

	b.dropPreset(id)
	b.persistPresets()
	return nil
}

// RenamePreset changes the preset's name, bumping its updated
// timestamp. The filter snapshot is untouched.
func (b *Builder) RenamePreset(id, name string) error {
	if !b.features.PresetManagement {
		return ErrFeatureDisabled
	}
	for i := range b.presets {
		if b.presets[i].ID == id {
			b.presets[i].Name = name
			b.presets[i].UpdatedAt = time.Now().UTC()
			b.persistPresets()
			return nil
		}
	}
	return ErrPresetNotFound
}

// SetDefaultPreset marks the preset as the single default, clearing
// the flag on every other preset.
func (b *Builder) SetDefaultPreset(id string) error {
	if !b.features.PresetManagement {
		return ErrFeatureDisabled
	}
	if _, ok := b.findPreset(id); !ok {
		return ErrPresetNotFound
	}
	for i := range b.presets {
		b.presets[i].IsDefault = b.presets[i].ID == id
	}
	b.persistPresets()
	return nil
}

func (b *Builder) findPreset(id string) (preset.Preset, bool) {
	for _, p := range b.presets {
		if p.ID == id {
			return p, true
		}
	}
	return preset.Preset{}, false
}

func (b *Builder) dropPreset(id string) {
	out := b.presets[:0]
	for _, p := range b.presets {
		if p.ID != id {
			out = append(out, p)
		}
	}
	b.presets = out
	if b.activePreset == id {
		b.activePreset = ""
	}
}

// persistPresets writes the full preset list through the configured
// store. A write failure degrades to in-memory-only operation with a
// warning; it never reaches the caller.
func (b *Builder) persistPresets() {
	if b.cfg.Presets == nil {
		return
	}
	if err := b.cfg.Presets.Save(context.Background(), b.presetsKey, b.presets); err != nil {
		b.logger.Warn("Failed to persist presets, continuing in memory",
			"key", b.presetsKey,
			"error", err,
		)
	}
}
