package filterbuilder

import (
	"errors"
	"log/slog"

	"github.com/fastnext-lab/filterbuilder-go/filter"
	"github.com/fastnext-lab/filterbuilder-go/preset"
)

// Config contains configuration for a filter Builder.
type Config struct {
	// Fields declares the filterable attributes.
	// REQUIRED: MUST be non-empty with unique, non-empty keys.
	Fields []filter.FieldDefinition

	// Initial is the starting filter tree.
	// OPTIONAL: If nil, the builder starts empty. Reset returns to
	// this value.
	Initial *filter.State

	// MaxDepth limits group nesting. Root is depth 0.
	// OPTIONAL: If 0, defaults to 3.
	MaxDepth int

	// MaxConditions limits the total leaf count.
	// OPTIONAL: If 0, defaults to 20.
	MaxConditions int

	// DefaultLogicalOperator is the operator of a fresh root group.
	// OPTIONAL: If empty, filter.And.
	DefaultLogicalOperator filter.LogicalOperator

	// OperatorLabels overrides display strings per operator.
	// OPTIONAL: Missing entries fall back to the built-in labels.
	OperatorLabels map[filter.Operator]string

	// Features toggles optional behavior.
	// OPTIONAL: If nil, all features are enabled.
	Features *Features

	// Presets persists the preset list.
	// OPTIONAL: If nil, presets live in memory only.
	Presets preset.Store

	// PresetsKey is the storage key for the preset blob.
	// OPTIONAL: If empty with a Presets store set, "filter-presets".
	PresetsKey string

	// URLParam names the query parameter mirrored by URL sync.
	// OPTIONAL: If empty with a URL mirror set, "filter".
	URLParam string

	// URL receives the serialized tree on every change when set.
	// OPTIONAL: If nil, URL sync is disabled.
	URL URLMirror

	// Logger for internal logging.
	// OPTIONAL: Uses slog.Default() if nil.
	Logger *slog.Logger

	// OnChange fires after every tree edit with the new tree.
	// OPTIONAL.
	OnChange func(*filter.State)

	// OnApply fires on explicit commit with the committed tree.
	// OPTIONAL.
	OnApply func(*filter.State)

	// OnSavePreset, when set, replaces local preset persistence for
	// saves: the builder calls it instead of writing to the store.
	// OPTIONAL.
	OnSavePreset func(preset.Preset) error

	// OnLoadPreset fires when a preset is loaded into the live tree.
	// OPTIONAL.
	OnLoadPreset func(preset.Preset)

	// OnDeletePreset, when set, replaces local preset persistence
	// for deletions.
	// OPTIONAL.
	OnDeletePreset func(id string) error
}

// Features are fine-grained capability toggles.
// The zero value disables everything; use AllFeatures for defaults.
type Features struct {
	// NestedGroups allows AddGroup below the root.
	NestedGroups bool

	// DisableConditions allows toggling nodes on and off.
	DisableConditions bool

	// DuplicateConditions allows DuplicateCondition.
	DuplicateConditions bool

	// ClearAll allows Clear.
	ClearAll bool

	// PresetManagement allows the preset operations.
	PresetManagement bool
}

// AllFeatures returns a Features value with everything enabled.
func AllFeatures() Features {
	return Features{
		NestedGroups:        true,
		DisableConditions:   true,
		DuplicateConditions: true,
		ClearAll:            true,
		PresetManagement:    true,
	}
}

// Defaults applied by New for optional Config fields.
const (
	DefaultMaxDepth      = 3
	DefaultMaxConditions = 20
	DefaultPresetsKey    = "filter-presets"
	DefaultURLParam      = "filter"
)

// Standard errors returned by the filterbuilder package.
var (
	// ErrInvalidConfig indicates Config validation failed.
	ErrInvalidConfig = errors.New("invalid builder config")

	// ErrFeatureDisabled indicates the operation's feature toggle is off.
	ErrFeatureDisabled = errors.New("feature disabled")

	// ErrUnknownField indicates a field key absent from the schema.
	ErrUnknownField = errors.New("unknown field")

	// ErrLimitExceeded indicates a condition or depth ceiling was hit.
	ErrLimitExceeded = errors.New("limit exceeded")

	// ErrPresetNotFound indicates a preset id did not resolve.
	ErrPresetNotFound = errors.New("preset not found")
)

// validateConfig checks that required Config fields are valid.
func validateConfig(cfg Config) error {
	if len(cfg.Fields) == 0 {
		return errors.New("at least one field definition is required")
	}
	seen := make(map[string]bool, len(cfg.Fields))
	for _, def := range cfg.Fields {
		if def.Key == "" {
			return errors.New("field key cannot be empty")
		}
		if seen[def.Key] {
			return errors.New("duplicate field key: " + def.Key)
		}
		seen[def.Key] = true
	}
	if cfg.MaxDepth < 0 {
		return errors.New("max depth cannot be negative")
	}
	if cfg.MaxConditions < 0 {
		return errors.New("max conditions cannot be negative")
	}
	return nil
}
