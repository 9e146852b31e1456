package filter

// Valid reports tree-wide validity: every non-disabled leaf names a
// field and an operator from the field's valid set, and carries the
// values its operator class requires. Group operators do not affect
// validity; they only change runtime semantics when the filter is
// applied. Disabled nodes are skipped. An empty tree is valid.
func (s *State) Valid(schema Schema) bool {
	if s == nil || s.Root == nil {
		return false
	}
	return s.Root.Valid(schema)
}

// Valid reports whether every non-disabled descendant condition of the
// group is valid.
func (g *Group) Valid(schema Schema) bool {
	if g == nil {
		return false
	}
	for _, child := range g.Children {
		if child.IsDisabled() {
			continue
		}
		switch n := child.(type) {
		case *Condition:
			if !n.Valid(schema) {
				return false
			}
		case *Group:
			if !n.Valid(schema) {
				return false
			}
		}
	}
	return true
}

// Valid reports whether the condition is complete: field and operator
// present, operator valid for the field, and required values set.
func (c *Condition) Valid(schema Schema) bool {
	if c == nil || c.Field == "" || c.Operator == "" {
		return false
	}

	if !operatorAllowed(c.Operator, schema.OperatorsFor(c.Field)) {
		return false
	}

	if !c.Operator.NeedsValue() {
		return true
	}

	if c.Operator.IsMultiValue() {
		return !emptyMulti(c.Value)
	}

	if emptyScalar(c.Value) {
		return false
	}
	if c.Operator.IsRange() && emptyScalar(c.ValueTo) {
		return false
	}
	return true
}

func operatorAllowed(op Operator, valid []Operator) bool {
	for _, candidate := range valid {
		if candidate == op {
			return true
		}
	}
	return false
}

// emptyScalar reports whether a value counts as "not provided".
// Zero numbers and false booleans are real values.
func emptyScalar(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	default:
		return false
	}
}

// emptyMulti reports whether a multi-value operand is missing or has
// no entries.
func emptyMulti(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case []any:
		return len(val) == 0
	case []string:
		return len(val) == 0
	default:
		// Multi-value operators require a slice
		return true
	}
}
