package filter

// FieldType identifies the data type of a filterable field.
type FieldType string

const (
	TypeText        FieldType = "text"
	TypeNumber      FieldType = "number"
	TypeDate        FieldType = "date"
	TypeDateTime    FieldType = "datetime"
	TypeSelect      FieldType = "select"
	TypeMultiSelect FieldType = "multiselect"
	TypeBoolean     FieldType = "boolean"
)

// LogicalOperator combines the direct children of a group.
type LogicalOperator string

const (
	And LogicalOperator = "AND"
	Or  LogicalOperator = "OR"
)

// Contrast returns the opposite logical operator.
// Used to pick a default operator for nested groups that visually
// contrasts with the parent.
func (op LogicalOperator) Contrast() LogicalOperator {
	if op == And {
		return Or
	}
	return And
}

// Option is a selectable value for select/multiselect fields.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Validation holds optional bounds for field values.
type Validation struct {
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
}

// FieldDefinition describes one filterable attribute.
// Definitions are supplied by the caller at configuration time and are
// never created or mutated by this package.
type FieldDefinition struct {
	// Key is the unique field name referenced by conditions.
	// REQUIRED: MUST be non-empty and unique within a schema.
	Key string `json:"key" mapstructure:"key"`

	// Label is the display name.
	Label string `json:"label" mapstructure:"label"`

	// Type determines the valid operator set and value shape.
	// REQUIRED: MUST be one of the FieldType constants.
	Type FieldType `json:"type" mapstructure:"type"`

	// Options lists selectable values for select/multiselect fields.
	// OPTIONAL: Ignored for other field types.
	Options []Option `json:"options,omitempty" mapstructure:"options"`

	// Operators overrides the default operator set for the field type.
	// OPTIONAL: If empty, OperatorsForType(Type) applies.
	Operators []Operator `json:"operators,omitempty" mapstructure:"operators"`

	// Validation holds optional value bounds.
	// OPTIONAL.
	Validation *Validation `json:"validation,omitempty" mapstructure:"validation"`

	// Category groups fields for display purposes.
	// OPTIONAL.
	Category string `json:"category,omitempty" mapstructure:"category"`

	// DefaultValue pre-fills new conditions on this field.
	// OPTIONAL.
	DefaultValue any `json:"defaultValue,omitempty" mapstructure:"defaultValue"`
}

// Node is the tagged union of filter tree nodes.
// The only implementations are *Condition and *Group.
// Use a type switch to access node-specific data.
type Node interface {
	// NodeID returns the unique node identifier.
	NodeID() string

	// IsDisabled reports whether the node is excluded from
	// validity and apply semantics.
	IsDisabled() bool

	// CloneNode returns a fully independent deep copy.
	CloneNode() Node

	// nodeMarker prevents external implementation.
	nodeMarker()
}

// Condition is a leaf node: a single field/operator/value test.
type Condition struct {
	ID       string   `json:"id"`
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`

	// Value holds the comparison value. Its shape depends on the
	// operator class: scalar for plain operators, slice for
	// multi-value operators, nil for value-less operators.
	// Values must be JSON-normal (string, float64, bool, []any, nil)
	// for serialization to round-trip exactly.
	Value any `json:"value"`

	// ValueTo is the upper bound, set only for range operators.
	ValueTo any `json:"valueTo,omitempty"`

	Disabled bool `json:"disabled,omitempty"`
}

// NodeID implements Node.
func (c *Condition) NodeID() string { return c.ID }

// IsDisabled implements Node.
func (c *Condition) IsDisabled() bool { return c.Disabled }

// CloneNode implements Node.
func (c *Condition) CloneNode() Node { return c.Clone() }

func (c *Condition) nodeMarker() {}

// Group is an internal node: an AND/OR container of conditions and
// nested groups.
type Group struct {
	ID       string          `json:"id"`
	Operator LogicalOperator `json:"operator"`

	// Children holds the ordered direct children, leaves or nested
	// groups. The JSON key is "conditions" to match the persisted
	// filter shape.
	Children []Node `json:"conditions"`

	Disabled bool `json:"disabled,omitempty"`
}

// NodeID implements Node.
func (g *Group) NodeID() string { return g.ID }

// IsDisabled implements Node.
func (g *Group) IsDisabled() bool { return g.Disabled }

// CloneNode implements Node.
func (g *Group) CloneNode() Node { return g.Clone() }

func (g *Group) nodeMarker() {}

// State is the root container of a filter tree.
// Root is always present; an empty filter is a root group with no
// children, never a nil root.
type State struct {
	Root *Group `json:"rootGroup"`
}

// Schema is an immutable lookup over field definitions.
// The zero value is an empty schema.
type Schema struct {
	fields map[string]FieldDefinition
	order  []string
}

// NewSchema builds a schema from field definitions.
// Duplicate keys keep the last definition.
func NewSchema(defs []FieldDefinition) Schema {
	s := Schema{fields: make(map[string]FieldDefinition, len(defs))}
	for _, def := range defs {
		if _, ok := s.fields[def.Key]; !ok {
			s.order = append(s.order, def.Key)
		}
		s.fields[def.Key] = def
	}
	return s
}

// Field looks up a field definition by key.
func (s Schema) Field(key string) (FieldDefinition, bool) {
	def, ok := s.fields[key]
	return def, ok
}

// Fields returns all definitions in declaration order.
func (s Schema) Fields() []FieldDefinition {
	result := make([]FieldDefinition, 0, len(s.order))
	for _, key := range s.order {
		result = append(result, s.fields[key])
	}
	return result
}

// Len returns the number of fields.
func (s Schema) Len() int { return len(s.fields) }

// OperatorsFor returns the operator set valid for the field with the
// given key: the field's custom override if present, otherwise the
// default set for its type. Returns nil for unknown fields.
func (s Schema) OperatorsFor(key string) []Operator {
	def, ok := s.fields[key]
	if !ok {
		return nil
	}
	if len(def.Operators) > 0 {
		return def.Operators
	}
	return OperatorsForType(def.Type)
}

// DefaultOperatorFor returns the first operator valid for the field,
// or OpEquals for unknown fields.
func (s Schema) DefaultOperatorFor(key string) Operator {
	ops := s.OperatorsFor(key)
	if len(ops) == 0 {
		return OpEquals
	}
	return ops[0]
}
