package preset

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/fastnext-lab/filterbuilder-go/filter"
	"github.com/fastnext-lab/filterbuilder-go/internal/encoding"
)

// Archive format: a 5-byte magic header followed by a zstd-compressed
// msgpack payload. Filter trees are stored as their serialized tokens
// rather than nested structures so the payload stays flat and the
// token codec remains the single source of tree encoding.
var archiveMagic = []byte("FBPA\x01")

// archivePayload is the msgpack envelope for an exported preset set.
type archivePayload struct {
	ExportedAt time.Time       `msgpack:"exported_at"`
	Presets    []archivePreset `msgpack:"presets"`
}

// archivePreset flattens a Preset for transport.
type archivePreset struct {
	ID          string    `msgpack:"id"`
	Name        string    `msgpack:"name"`
	Description string    `msgpack:"description"`
	Filter      string    `msgpack:"filter"`
	CreatedAt   time.Time `msgpack:"created_at"`
	UpdatedAt   time.Time `msgpack:"updated_at"`
	IsDefault   bool      `msgpack:"is_default"`
	IsShared    bool      `msgpack:"is_shared"`
	CreatedBy   string    `msgpack:"created_by"`
	Tags        []string  `msgpack:"tags"`
}

// WriteArchive exports a preset set as a compact binary archive,
// suitable for transferring presets between stores or users.
func WriteArchive(w io.Writer, presets []Preset) error {
	payload := archivePayload{
		ExportedAt: time.Now().UTC(),
		Presets:    make([]archivePreset, 0, len(presets)),
	}
	for _, p := range presets {
		token := filter.Serialize(p.Filter)
		if token == "" {
			return fmt.Errorf("preset: cannot archive %q: filter does not serialize", p.Name)
		}
		payload.Presets = append(payload.Presets, archivePreset{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Filter:      token,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
			IsDefault:   p.IsDefault,
			IsShared:    p.IsShared,
			CreatedBy:   p.CreatedBy,
			Tags:        p.Tags,
		})
	}

	packed, err := msgpack.Marshal(payload)
	if err != nil {
		return fmt.Errorf("preset: failed to encode archive: %w", err)
	}
	compressed, err := encoding.Compress(packed)
	if err != nil {
		return fmt.Errorf("preset: failed to compress archive: %w", err)
	}

	if _, err := w.Write(archiveMagic); err != nil {
		return fmt.Errorf("preset: failed to write archive: %w", err)
	}
	if _, err := w.Write(compressed); err != nil {
		return fmt.Errorf("preset: failed to write archive: %w", err)
	}
	return nil
}

// ReadArchive imports a preset set written by WriteArchive.
func ReadArchive(r io.Reader) ([]Preset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("preset: failed to read archive: %w", err)
	}
	if len(data) < len(archiveMagic) || !bytes.Equal(data[:len(archiveMagic)], archiveMagic) {
		return nil, fmt.Errorf("preset: not a preset archive")
	}

	packed, err := encoding.Decompress(data[len(archiveMagic):])
	if err != nil {
		return nil, fmt.Errorf("preset: corrupt archive: %w", err)
	}

	var payload archivePayload
	if err := msgpack.Unmarshal(packed, &payload); err != nil {
		return nil, fmt.Errorf("preset: corrupt archive payload: %w", err)
	}

	presets := make([]Preset, 0, len(payload.Presets))
	for _, ap := range payload.Presets {
		state, err := filter.ParseToken(ap.Filter)
		if err != nil {
			return nil, fmt.Errorf("preset: archive entry %q has invalid filter: %w", ap.Name, err)
		}
		presets = append(presets, Preset{
			ID:          ap.ID,
			Name:        ap.Name,
			Description: ap.Description,
			Filter:      state,
			CreatedAt:   ap.CreatedAt,
			UpdatedAt:   ap.UpdatedAt,
			IsDefault:   ap.IsDefault,
			IsShared:    ap.IsShared,
			CreatedBy:   ap.CreatedBy,
			Tags:        ap.Tags,
		})
	}
	return presets, nil
}
