package filter

// Operator is a named comparison or test applied by a condition.
type Operator string

const (
	OpEquals             Operator = "equals"
	OpNotEquals          Operator = "not_equals"
	OpContains           Operator = "contains"
	OpNotContains        Operator = "not_contains"
	OpStartsWith         Operator = "starts_with"
	OpEndsWith           Operator = "ends_with"
	OpGreaterThan        Operator = "greater_than"
	OpGreaterThanOrEqual Operator = "greater_than_or_equal"
	OpLessThan           Operator = "less_than"
	OpLessThanOrEqual    Operator = "less_than_or_equal"
	OpBetween            Operator = "between"
	OpNotBetween         Operator = "not_between"
	OpBefore             Operator = "before"
	OpAfter              Operator = "after"
	OpIn                 Operator = "in"
	OpNotIn              Operator = "not_in"
	OpContainsAny        Operator = "contains_any"
	OpContainsAll        Operator = "contains_all"
	OpIsEmpty            Operator = "is_empty"
	OpIsNotEmpty         Operator = "is_not_empty"
	OpIsTrue             Operator = "is_true"
	OpIsFalse            Operator = "is_false"
)

// operatorsByType maps each field type to its default operator set.
// The first entry is the default operator for new conditions on a
// field of that type.
var operatorsByType = map[FieldType][]Operator{
	TypeText: {
		OpEquals, OpNotEquals, OpContains, OpNotContains,
		OpStartsWith, OpEndsWith, OpIsEmpty, OpIsNotEmpty,
	},
	TypeNumber: {
		OpEquals, OpNotEquals, OpGreaterThan, OpGreaterThanOrEqual,
		OpLessThan, OpLessThanOrEqual, OpBetween, OpNotBetween,
		OpIsEmpty, OpIsNotEmpty,
	},
	TypeDate: {
		OpEquals, OpNotEquals, OpBefore, OpAfter,
		OpBetween, OpNotBetween, OpIsEmpty, OpIsNotEmpty,
	},
	TypeDateTime: {
		OpEquals, OpNotEquals, OpBefore, OpAfter,
		OpBetween, OpNotBetween, OpIsEmpty, OpIsNotEmpty,
	},
	TypeSelect: {
		OpEquals, OpNotEquals, OpIn, OpNotIn, OpIsEmpty, OpIsNotEmpty,
	},
	TypeMultiSelect: {
		OpContainsAny, OpContainsAll, OpIsEmpty, OpIsNotEmpty,
	},
	TypeBoolean: {
		OpIsTrue, OpIsFalse,
	},
}

// valuelessOperators require no comparison value.
var valuelessOperators = map[Operator]bool{
	OpIsEmpty:    true,
	OpIsNotEmpty: true,
	OpIsTrue:     true,
	OpIsFalse:    true,
}

// rangeOperators require both Value and ValueTo.
var rangeOperators = map[Operator]bool{
	OpBetween:    true,
	OpNotBetween: true,
}

// multiValueOperators require Value to be a slice.
var multiValueOperators = map[Operator]bool{
	OpIn:          true,
	OpNotIn:       true,
	OpContainsAny: true,
	OpContainsAll: true,
}

// operatorLabels holds default display strings.
// Callers may override per-operator via configuration.
var operatorLabels = map[Operator]string{
	OpEquals:             "equals",
	OpNotEquals:          "does not equal",
	OpContains:           "contains",
	OpNotContains:        "does not contain",
	OpStartsWith:         "starts with",
	OpEndsWith:           "ends with",
	OpGreaterThan:        "greater than",
	OpGreaterThanOrEqual: "greater than or equal",
	OpLessThan:           "less than",
	OpLessThanOrEqual:    "less than or equal",
	OpBetween:            "between",
	OpNotBetween:         "not between",
	OpBefore:             "before",
	OpAfter:              "after",
	OpIn:                 "is any of",
	OpNotIn:              "is none of",
	OpContainsAny:        "contains any of",
	OpContainsAll:        "contains all of",
	OpIsEmpty:            "is empty",
	OpIsNotEmpty:         "is not empty",
	OpIsTrue:             "is true",
	OpIsFalse:            "is false",
}

// OperatorsForType returns the default operator set for a field type.
// The returned slice is a copy and safe to modify.
func OperatorsForType(t FieldType) []Operator {
	ops, ok := operatorsByType[t]
	if !ok {
		return nil
	}
	result := make([]Operator, len(ops))
	copy(result, ops)
	return result
}

// DefaultOperatorForType returns the first operator of the default set
// for a field type, or OpEquals if the type is unknown.
func DefaultOperatorForType(t FieldType) Operator {
	ops, ok := operatorsByType[t]
	if !ok || len(ops) == 0 {
		return OpEquals
	}
	return ops[0]
}

// NeedsValue reports whether the operator requires a comparison value.
func (op Operator) NeedsValue() bool {
	return !valuelessOperators[op]
}

// IsRange reports whether the operator requires both bounds.
func (op Operator) IsRange() bool {
	return rangeOperators[op]
}

// IsMultiValue reports whether the operator requires a slice value.
func (op Operator) IsMultiValue() bool {
	return multiValueOperators[op]
}

// Label returns the default display string for the operator.
// Unknown operators label as themselves.
func (op Operator) Label() string {
	if label, ok := operatorLabels[op]; ok {
		return label
	}
	return string(op)
}
