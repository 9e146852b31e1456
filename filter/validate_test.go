package filter

import "testing"

func TestConditionValidity(t *testing.T) {
	schema := testSchema()

	cases := []struct {
		name string
		cond *Condition
		want bool
	}{
		{
			name: "value-less operator with no value",
			cond: &Condition{ID: "1", Field: "name", Operator: OpIsEmpty},
			want: true,
		},
		{
			name: "equals with empty string value",
			cond: &Condition{ID: "2", Field: "name", Operator: OpEquals, Value: ""},
			want: false,
		},
		{
			name: "equals with value",
			cond: &Condition{ID: "3", Field: "name", Operator: OpEquals, Value: "smith"},
			want: true,
		},
		{
			name: "between missing upper bound",
			cond: &Condition{ID: "4", Field: "age", Operator: OpBetween, Value: float64(18)},
			want: false,
		},
		{
			name: "between with both bounds",
			cond: &Condition{ID: "5", Field: "age", Operator: OpBetween, Value: float64(18), ValueTo: float64(65)},
			want: true,
		},
		{
			name: "missing field",
			cond: &Condition{ID: "6", Operator: OpEquals, Value: "x"},
			want: false,
		},
		{
			name: "missing operator",
			cond: &Condition{ID: "7", Field: "name", Value: "x"},
			want: false,
		},
		{
			name: "operator invalid for field type",
			cond: &Condition{ID: "8", Field: "name", Operator: OpGreaterThan, Value: "x"},
			want: false,
		},
		{
			name: "unknown field",
			cond: &Condition{ID: "9", Field: "missing", Operator: OpEquals, Value: "x"},
			want: false,
		},
		{
			name: "multi-value with empty list",
			cond: &Condition{ID: "10", Field: "status", Operator: OpIn, Value: []any{}},
			want: false,
		},
		{
			name: "multi-value with scalar value",
			cond: &Condition{ID: "11", Field: "status", Operator: OpIn, Value: "active"},
			want: false,
		},
		{
			name: "multi-value with entries",
			cond: &Condition{ID: "12", Field: "status", Operator: OpIn, Value: []any{"active"}},
			want: true,
		},
		{
			name: "boolean is_true without value",
			cond: &Condition{ID: "13", Field: "verified", Operator: OpIsTrue},
			want: true,
		},
		{
			name: "zero is a real value",
			cond: &Condition{ID: "14", Field: "age", Operator: OpEquals, Value: float64(0)},
			want: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cond.Valid(schema); got != tc.want {
				t.Errorf("Valid() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestStateValidity(t *testing.T) {
	schema := testSchema()

	s := NewState()
	if !s.Valid(schema) {
		t.Error("empty tree must be valid")
	}

	incomplete := NewCondition("name") // equals with "" value
	s.Root.Children = append(s.Root.Children, incomplete)
	if s.Valid(schema) {
		t.Error("tree with incomplete condition must be invalid")
	}

	// Disabling the offending leaf restores validity
	incomplete.Disabled = true
	if !s.Valid(schema) {
		t.Error("disabled leaves must not affect validity")
	}

	// Validity is the conjunction of children regardless of group operator
	incomplete.Disabled = false
	s.Root.Operator = Or
	if s.Valid(schema) {
		t.Error("OR groups must still require all enabled children valid")
	}

	if (*State)(nil).Valid(schema) {
		t.Error("nil state must be invalid")
	}
}

func TestNestedGroupValidity(t *testing.T) {
	schema := testSchema()
	s := NewState()

	nested := NewGroup(Or)
	bad := NewCondition("age") // equals "" on number field
	nested.Children = append(nested.Children, bad)
	s.Root.Children = append(s.Root.Children, nested)

	if s.Valid(schema) {
		t.Error("invalid nested leaf must invalidate the tree")
	}

	// Disabling the whole nested group skips its subtree
	nested.Disabled = true
	if !s.Valid(schema) {
		t.Error("disabled nested group must be skipped")
	}
}
