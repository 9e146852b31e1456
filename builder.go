package filterbuilder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fastnext-lab/filterbuilder-go/filter"
	"github.com/fastnext-lab/filterbuilder-go/internal/safecall"
	"github.com/fastnext-lab/filterbuilder-go/preset"
)

// Builder owns one live filter tree plus a last-applied snapshot, a
// preset list, and an active-preset marker. Every edit operation
// replaces the tree wholesale and fires the OnChange callback; Apply
// commits the live tree and fires OnApply.
//
// A Builder is single-owner state: it is not safe for concurrent use.
// Create one per editing scope.
type Builder struct {
	cfg      Config
	schema   filter.Schema
	features Features
	logger   *slog.Logger

	maxDepth      int
	maxConditions int
	urlParam      string
	presetsKey    string

	state       *filter.State
	lastApplied *filter.State
	initial     *filter.State

	presets      []preset.Preset
	activePreset string
}

// New creates a Builder from the given configuration.
//
// Initial tree resolution order: a valid token in the configured URL
// mirror wins, then cfg.Initial, then an empty tree. A malformed URL
// token is treated as absent, never as an error. When a preset store
// is configured the preset list is loaded immediately; a failing or
// corrupt store degrades to an empty in-memory list.
func New(cfg Config) (*Builder, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	b := &Builder{
		cfg:           cfg,
		schema:        filter.NewSchema(cfg.Fields),
		features:      AllFeatures(),
		logger:        cfg.Logger,
		maxDepth:      cfg.MaxDepth,
		maxConditions: cfg.MaxConditions,
		urlParam:      cfg.URLParam,
		presetsKey:    cfg.PresetsKey,
	}
	if cfg.Features != nil {
		b.features = *cfg.Features
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.maxDepth == 0 {
		b.maxDepth = DefaultMaxDepth
	}
	if b.maxConditions == 0 {
		b.maxConditions = DefaultMaxConditions
	}
	if b.urlParam == "" {
		b.urlParam = DefaultURLParam
	}
	if b.presetsKey == "" {
		b.presetsKey = DefaultPresetsKey
	}

	rootOp := cfg.DefaultLogicalOperator
	if rootOp == "" {
		rootOp = filter.And
	}

	b.initial = cfg.Initial.Clone()
	if b.initial == nil {
		b.initial = &filter.State{Root: filter.NewGroup(rootOp)}
	}

	b.state = b.restoreFromURL()
	if b.state == nil {
		b.state = b.initial.Clone()
	}
	b.lastApplied = b.state.Clone()

	if cfg.Presets != nil {
		loaded, err := cfg.Presets.Load(context.Background(), b.presetsKey)
		if err != nil {
			b.logger.Warn("Failed to load presets, starting with empty list",
				"key", b.presetsKey,
				"error", err,
			)
		} else {
			b.presets = loaded
		}
	}

	return b, nil
}

// restoreFromURL decodes the configured URL parameter, or nil when
// the mirror is absent, the parameter is missing, or the token is
// malformed.
func (b *Builder) restoreFromURL() *filter.State {
	if b.cfg.URL == nil {
		return nil
	}
	token := b.cfg.URL.Get(b.urlParam)
	if token == "" {
		return nil
	}
	s, err := filter.ParseToken(token)
	if err != nil {
		b.logger.Warn("Ignoring malformed filter token in URL",
			"param", b.urlParam,
			"error", err,
		)
		return nil
	}
	return s
}

// State returns a deep copy of the live tree. Mutating the returned
// value never affects the builder.
func (b *Builder) State() *filter.State {
	return b.state.Clone()
}

// RootID returns the id of the root group.
func (b *Builder) RootID() string {
	return b.state.Root.ID
}

// Schema returns the field schema the builder was configured with.
func (b *Builder) Schema() filter.Schema {
	return b.schema
}

// OperatorLabel returns the display string for an operator, honoring
// the configured overrides.
func (b *Builder) OperatorLabel(op filter.Operator) string {
	if label, ok := b.cfg.OperatorLabels[op]; ok {
		return label
	}
	return op.Label()
}

// ConditionCount returns the number of leaf conditions in the live
// tree, disabled leaves included.
func (b *Builder) ConditionCount() int {
	return filter.CountConditions(b.state.Root)
}

// Depth returns the deepest group nesting level of the live tree.
func (b *Builder) Depth() int {
	return filter.MaxDepth(b.state.Root)
}

// Valid reports tree-wide validity against the schema.
func (b *Builder) Valid() bool {
	return b.state.Valid(b.schema)
}

// CanAddCondition reports whether another condition fits under the
// configured ceiling.
func (b *Builder) CanAddCondition() bool {
	return b.ConditionCount() < b.maxConditions
}

// CanAddGroup reports whether a group may be nested at the given
// depth (the depth of the would-be parent).
func (b *Builder) CanAddGroup(depth int) bool {
	return depth < b.maxDepth
}

// HasChanges reports whether the live tree differs from the last
// applied snapshot.
func (b *Builder) HasChanges() bool {
	return !filter.Equal(b.state, b.lastApplied)
}

// SetState replaces the whole tree. A nil state installs an empty
// tree. The active-preset marker is left untouched.
func (b *Builder) SetState(s *filter.State) {
	if s == nil || s.Root == nil {
		s = filter.NewState()
	}
	b.state = s.Clone()
	b.changed()
}

// Reset restores the originally supplied initial tree (or an empty
// tree if none was given) and clears the active-preset marker.
func (b *Builder) Reset() {
	b.state = b.initial.Clone()
	b.activePreset = ""
	b.changed()
}

// Clear replaces the tree with an empty one and clears the
// active-preset marker.
func (b *Builder) Clear() error {
	if !b.features.ClearAll {
		return ErrFeatureDisabled
	}
	b.state = filter.NewState()
	b.activePreset = ""
	b.changed()
	return nil
}

// Apply commits the live tree: the last-applied snapshot is replaced
// and OnApply fires with a copy of the committed tree. The live tree
// itself is unchanged, so applying twice in a row is idempotent.
func (b *Builder) Apply() {
	b.lastApplied = b.state.Clone()
	if b.cfg.OnApply != nil {
		committed := b.state.Clone()
		safecall.Do(b.logger, "onApply", func() { b.cfg.OnApply(committed) })
	}
}

// AddCondition appends a new condition to the group with the given
// id. When a field key is supplied the condition starts on that field
// with the field's default operator and default value. Unknown group
// ids are a no-op.
func (b *Builder) AddCondition(groupID string, field ...string) error {
	if !b.CanAddCondition() {
		return fmt.Errorf("%w: condition ceiling %d reached", ErrLimitExceeded, b.maxConditions)
	}

	cond := filter.NewCondition("")
	if len(field) > 0 && field[0] != "" {
		def, ok := b.schema.Field(field[0])
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, field[0])
		}
		cond.Field = def.Key
		cond.Operator = b.schema.DefaultOperatorFor(def.Key)
		if def.DefaultValue != nil {
			cond.Value = def.DefaultValue
		}
	}

	b.rewrite(groupID, func(n filter.Node) []filter.Node {
		g, ok := n.(*filter.Group)
		if !ok {
			return []filter.Node{n}
		}
		next := g.Clone()
		next.Children = append(next.Children, cond)
		return []filter.Node{next}
	})
	return nil
}

// UpdateCondition applies the transform to the condition with the
// given id. The transform receives a private copy; the tree is
// rebuilt from it. Unknown ids and group ids are a no-op.
func (b *Builder) UpdateCondition(id string, transform func(*filter.Condition)) {
	if transform == nil {
		return
	}
	b.rewrite(id, func(n filter.Node) []filter.Node {
		c, ok := n.(*filter.Condition)
		if !ok {
			return []filter.Node{n}
		}
		next := c.Clone()
		transform(next)
		next.ID = c.ID
		return []filter.Node{next}
	})
}

// RemoveCondition deletes the condition with the given id. Unknown
// ids are a no-op.
func (b *Builder) RemoveCondition(id string) {
	b.rewrite(id, func(n filter.Node) []filter.Node {
		if _, ok := n.(*filter.Condition); !ok {
			return []filter.Node{n}
		}
		return nil
	})
}

// RemoveGroup deletes the nested group with the given id and its
// whole subtree. The root group cannot be removed; use Clear.
func (b *Builder) RemoveGroup(id string) {
	if id == b.state.Root.ID {
		return
	}
	b.rewrite(id, func(n filter.Node) []filter.Node {
		if _, ok := n.(*filter.Group); !ok {
			return []filter.Node{n}
		}
		return nil
	})
}

// DuplicateCondition inserts a copy of the condition, under a fresh
// id, immediately after the original within the same parent group.
func (b *Builder) DuplicateCondition(id string) error {
	if !b.features.DuplicateConditions {
		return ErrFeatureDisabled
	}
	if !b.CanAddCondition() {
		return fmt.Errorf("%w: condition ceiling %d reached", ErrLimitExceeded, b.maxConditions)
	}
	b.rewrite(id, func(n filter.Node) []filter.Node {
		c, ok := n.(*filter.Condition)
		if !ok {
			return []filter.Node{n}
		}
		dup := c.Clone()
		dup.ID = filter.GenerateID()
		return []filter.Node{c, dup}
	})
	return nil
}

// ToggleCondition flips the disabled flag of the condition with the
// given id.
func (b *Builder) ToggleCondition(id string) error {
	if !b.features.DisableConditions {
		return ErrFeatureDisabled
	}
	b.rewrite(id, func(n filter.Node) []filter.Node {
		c, ok := n.(*filter.Condition)
		if !ok {
			return []filter.Node{n}
		}
		next := c.Clone()
		next.Disabled = !next.Disabled
		return []filter.Node{next}
	})
	return nil
}

// ToggleGroup flips the disabled flag of the group with the given id.
// The root group toggles directly.
func (b *Builder) ToggleGroup(id string) error {
	if !b.features.DisableConditions {
		return ErrFeatureDisabled
	}
	b.rewrite(id, func(n filter.Node) []filter.Node {
		g, ok := n.(*filter.Group)
		if !ok {
			return []filter.Node{n}
		}
		next := g.Clone()
		next.Disabled = !next.Disabled
		return []filter.Node{next}
	})
	return nil
}

// AddGroup appends a nested group to the group with the given id.
// When the operator is omitted the new group contrasts with its
// parent (AND parent gets an OR child and vice versa). Unknown
// parent ids are a no-op.
func (b *Builder) AddGroup(parentID string, op ...filter.LogicalOperator) error {
	if !b.features.NestedGroups {
		return ErrFeatureDisabled
	}
	if !b.CanAddGroup(b.parentDepth(parentID)) {
		return fmt.Errorf("%w: depth ceiling %d reached", ErrLimitExceeded, b.maxDepth)
	}

	b.rewrite(parentID, func(n filter.Node) []filter.Node {
		g, ok := n.(*filter.Group)
		if !ok {
			return []filter.Node{n}
		}
		childOp := g.Operator.Contrast()
		if len(op) > 0 && op[0] != "" {
			childOp = op[0]
		}
		next := g.Clone()
		next.Children = append(next.Children, filter.NewGroup(childOp))
		return []filter.Node{next}
	})
	return nil
}

// SetGroupOperator changes the logical operator of the group with the
// given id. The root group is set directly; nested groups are found
// by traversal. Unknown ids are a no-op.
func (b *Builder) SetGroupOperator(id string, op filter.LogicalOperator) {
	b.rewrite(id, func(n filter.Node) []filter.Node {
		g, ok := n.(*filter.Group)
		if !ok {
			return []filter.Node{n}
		}
		next := g.Clone()
		next.Operator = op
		return []filter.Node{next}
	})
}

// parentDepth returns the nesting depth of the group with the given
// id, or 0 when the id does not resolve.
func (b *Builder) parentDepth(id string) int {
	depth, found := groupDepth(b.state.Root, id, 0)
	if !found {
		return 0
	}
	return depth
}

func groupDepth(g *filter.Group, id string, current int) (int, bool) {
	if g.ID == id {
		return current, true
	}
	for _, child := range g.Children {
		if sub, ok := child.(*filter.Group); ok {
			if d, found := groupDepth(sub, id, current+1); found {
				return d, true
			}
		}
	}
	return 0, false
}

// rewrite replaces the node with the given id using transform and
// installs the rebuilt tree, firing change propagation. The transform
// returns the replacement nodes: empty removes the node, one entry
// replaces it, extra entries insert after it. The path from root to
// the target is rebuilt; untouched siblings are shared. Unknown ids
// leave the tree untouched and fire nothing.
func (b *Builder) rewrite(id string, transform func(filter.Node) []filter.Node) {
	root := b.state.Root

	if root.ID == id {
		out := transform(root)
		if len(out) != 1 {
			// The root is structurally fixed: it cannot be removed
			// or multiplied.
			return
		}
		next, ok := out[0].(*filter.Group)
		if !ok {
			return
		}
		b.state = &filter.State{Root: next}
		b.changed()
		return
	}

	rebuilt, found := rebuildGroup(root, id, transform)
	if !found {
		return
	}
	b.state = &filter.State{Root: rebuilt}
	b.changed()
}

// rebuildGroup returns a copy of g with transform applied to the
// descendant carrying the given id. The second result reports whether
// the id resolved anywhere in the subtree.
func rebuildGroup(g *filter.Group, id string, transform func(filter.Node) []filter.Node) (*filter.Group, bool) {
	found := false
	children := make([]filter.Node, 0, len(g.Children))

	for _, child := range g.Children {
		if !found && child.NodeID() == id {
			found = true
			children = append(children, transform(child)...)
			continue
		}
		if sub, ok := child.(*filter.Group); ok && !found {
			if rebuilt, ok := rebuildGroup(sub, id, transform); ok {
				found = true
				children = append(children, rebuilt)
				continue
			}
		}
		children = append(children, child)
	}

	if !found {
		return g, false
	}
	return &filter.Group{
		ID:       g.ID,
		Operator: g.Operator,
		Children: children,
		Disabled: g.Disabled,
	}, true
}

// changed propagates a tree edit: the URL mirror is refreshed and
// OnChange fires with a copy of the new tree. Callback panics are
// recovered and logged.
func (b *Builder) changed() {
	b.syncURL()
	if b.cfg.OnChange != nil {
		snapshot := b.state.Clone()
		safecall.Do(b.logger, "onChange", func() { b.cfg.OnChange(snapshot) })
	}
}
