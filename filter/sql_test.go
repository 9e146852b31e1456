package filter

import (
	"reflect"
	"testing"
)

func encodeOne(t *testing.T, c *Condition, opts *EncoderOptions) string {
	t.Helper()
	s := NewState()
	s.Root.Children = append(s.Root.Children, c)
	return NewSQLEncoder(testSchema(), opts).EncodeState(s)
}

func TestSQLEncodeOperators(t *testing.T) {
	cases := []struct {
		name string
		cond *Condition
		want string
	}{
		{
			name: "equals string",
			cond: &Condition{ID: "1", Field: "name", Operator: OpEquals, Value: "O'Brien"},
			want: "name = 'O''Brien'",
		},
		{
			name: "not equals",
			cond: &Condition{ID: "2", Field: "status", Operator: OpNotEquals, Value: "active"},
			want: "status <> 'active'",
		},
		{
			name: "contains",
			cond: &Condition{ID: "3", Field: "name", Operator: OpContains, Value: "smith"},
			want: "name LIKE '%smith%'",
		},
		{
			name: "starts with",
			cond: &Condition{ID: "4", Field: "name", Operator: OpStartsWith, Value: "a"},
			want: "name LIKE 'a%'",
		},
		{
			name: "ends with",
			cond: &Condition{ID: "5", Field: "name", Operator: OpEndsWith, Value: "z"},
			want: "name LIKE '%z'",
		},
		{
			name: "not contains",
			cond: &Condition{ID: "6", Field: "name", Operator: OpNotContains, Value: "x"},
			want: "name NOT LIKE '%x%'",
		},
		{
			name: "greater than",
			cond: &Condition{ID: "7", Field: "age", Operator: OpGreaterThan, Value: float64(18)},
			want: "age > 18",
		},
		{
			name: "between",
			cond: &Condition{ID: "8", Field: "age", Operator: OpBetween, Value: float64(18), ValueTo: float64(65)},
			want: "age BETWEEN 18 AND 65",
		},
		{
			name: "not between",
			cond: &Condition{ID: "9", Field: "age", Operator: OpNotBetween, Value: float64(18), ValueTo: float64(65)},
			want: "NOT (age BETWEEN 18 AND 65)",
		},
		{
			name: "before date",
			cond: &Condition{ID: "10", Field: "created", Operator: OpBefore, Value: "2026-01-01"},
			want: `created < '2026-01-01'`,
		},
		{
			name: "in list",
			cond: &Condition{ID: "11", Field: "status", Operator: OpIn, Value: []any{"active", "inactive"}},
			want: "status IN ('active', 'inactive')",
		},
		{
			name: "not in list",
			cond: &Condition{ID: "12", Field: "status", Operator: OpNotIn, Value: []any{"active"}},
			want: "status NOT IN ('active')",
		},
		{
			name: "contains any duckdb",
			cond: &Condition{ID: "13", Field: "tags", Operator: OpContainsAny, Value: []any{"vip", "beta"}},
			want: "list_has_any(tags, ['vip', 'beta'])",
		},
		{
			name: "contains all duckdb",
			cond: &Condition{ID: "14", Field: "tags", Operator: OpContainsAll, Value: []any{"vip"}},
			want: "list_has_all(tags, ['vip'])",
		},
		{
			name: "is empty text",
			cond: &Condition{ID: "15", Field: "name", Operator: OpIsEmpty},
			want: "(name IS NULL OR name = '')",
		},
		{
			name: "is not empty number",
			cond: &Condition{ID: "16", Field: "age", Operator: OpIsNotEmpty},
			want: "age IS NOT NULL",
		},
		{
			name: "is true",
			cond: &Condition{ID: "17", Field: "verified", Operator: OpIsTrue},
			want: "verified = TRUE",
		},
		{
			name: "is false",
			cond: &Condition{ID: "18", Field: "verified", Operator: OpIsFalse},
			want: "verified = FALSE",
		},
		{
			name: "unknown field skipped",
			cond: &Condition{ID: "19", Field: "missing", Operator: OpEquals, Value: "x"},
			want: "",
		},
		{
			name: "empty value skipped",
			cond: &Condition{ID: "20", Field: "name", Operator: OpEquals, Value: ""},
			want: "",
		},
		{
			name: "between missing bound skipped",
			cond: &Condition{ID: "21", Field: "age", Operator: OpBetween, Value: float64(18)},
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := encodeOne(t, tc.cond, nil); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSQLEncodeGroups(t *testing.T) {
	s := NewState()
	s.Root.Children = append(s.Root.Children,
		&Condition{ID: "1", Field: "name", Operator: OpContains, Value: "smith"},
	)

	or := NewGroup(Or)
	or.Children = append(or.Children,
		&Condition{ID: "2", Field: "age", Operator: OpGreaterThan, Value: float64(65)},
		&Condition{ID: "3", Field: "verified", Operator: OpIsTrue},
	)
	s.Root.Children = append(s.Root.Children, or)

	enc := NewSQLEncoder(testSchema(), nil)
	want := "(name LIKE '%smith%' AND (age > 65 OR verified = TRUE))"
	if got := enc.EncodeState(s); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSQLEncodeSkipsDisabled(t *testing.T) {
	s := NewState()
	active := &Condition{ID: "1", Field: "name", Operator: OpEquals, Value: "a"}
	off := &Condition{ID: "2", Field: "name", Operator: OpEquals, Value: "b", Disabled: true}
	s.Root.Children = append(s.Root.Children, active, off)

	enc := NewSQLEncoder(testSchema(), nil)
	if got := enc.EncodeState(s); got != "name = 'a'" {
		t.Errorf("disabled condition leaked into SQL: %q", got)
	}

	// Disabled root encodes nothing
	s.Root.Disabled = true
	if got := enc.EncodeState(s); got != "" {
		t.Errorf("disabled root must encode empty, got %q", got)
	}
}

func TestSQLEncodeORDropsOnUnencodableChild(t *testing.T) {
	s := NewState()
	or := NewGroup(Or)
	or.Children = append(or.Children,
		&Condition{ID: "1", Field: "name", Operator: OpEquals, Value: "a"},
		&Condition{ID: "2", Field: "missing", Operator: OpEquals, Value: "b"},
	)
	s.Root.Children = append(s.Root.Children, or,
		&Condition{ID: "3", Field: "age", Operator: OpGreaterThan, Value: float64(1)},
	)

	// The OR group is dropped whole; the AND sibling survives.
	enc := NewSQLEncoder(testSchema(), nil)
	if got := enc.EncodeState(s); got != "age > 1" {
		t.Errorf("got %q, want %q", got, "age > 1")
	}
}

func TestSQLEncodeANDSkipsUnencodableChild(t *testing.T) {
	s := NewState()
	s.Root.Children = append(s.Root.Children,
		&Condition{ID: "1", Field: "missing", Operator: OpEquals, Value: "b"},
		&Condition{ID: "2", Field: "age", Operator: OpLessThan, Value: float64(10)},
	)

	enc := NewSQLEncoder(testSchema(), nil)
	if got := enc.EncodeState(s); got != "age < 10" {
		t.Errorf("got %q, want %q", got, "age < 10")
	}
}

func TestSQLEncodeColumnMapping(t *testing.T) {
	cond := &Condition{ID: "1", Field: "created", Operator: OpAfter, Value: "2026-01-01"}
	got := encodeOne(t, cond, &EncoderOptions{
		ColumnMapping: map[string]string{"created": "created_at"},
	})
	if got != "created_at > '2026-01-01'" {
		t.Errorf("column mapping not applied: %q", got)
	}
}

func TestSQLEncodeColumnExpressions(t *testing.T) {
	cond := &Condition{ID: "1", Field: "name", Operator: OpEquals, Value: "ada lovelace"}
	got := encodeOne(t, cond, &EncoderOptions{
		ColumnExpressions: map[string]string{"name": "LOWER(full_name)"},
		ColumnMapping:     map[string]string{"name": "ignored"},
	})
	if got != "LOWER(full_name) = 'ada lovelace'" {
		t.Errorf("column expression not applied: %q", got)
	}
}

func TestSQLEncodeIdentifierQuoting(t *testing.T) {
	schema := NewSchema([]FieldDefinition{
		{Key: "order", Type: TypeText},
		{Key: "weird name", Type: TypeText},
	})
	s := NewState()
	s.Root.Children = append(s.Root.Children,
		&Condition{ID: "1", Field: "order", Operator: OpEquals, Value: "x"},
		&Condition{ID: "2", Field: "weird name", Operator: OpEquals, Value: "y"},
	)

	enc := NewSQLEncoder(schema, nil)
	want := `("order" = 'x' AND "weird name" = 'y')`
	if got := enc.EncodeState(s); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSQLEncodeParamsDuckDB(t *testing.T) {
	s := NewState()
	s.Root.Children = append(s.Root.Children,
		&Condition{ID: "1", Field: "name", Operator: OpEquals, Value: "smith"},
		&Condition{ID: "2", Field: "age", Operator: OpBetween, Value: float64(18), ValueTo: float64(65)},
	)

	enc := NewSQLEncoder(testSchema(), nil)
	clause, args := enc.EncodeParams(s)
	if clause != "(name = ? AND age BETWEEN ? AND ?)" {
		t.Errorf("unexpected clause: %q", clause)
	}
	if !reflect.DeepEqual(args, []any{"smith", float64(18), float64(65)}) {
		t.Errorf("unexpected args: %#v", args)
	}
}

func TestSQLEncodeParamsPostgres(t *testing.T) {
	s := NewState()
	s.Root.Children = append(s.Root.Children,
		&Condition{ID: "1", Field: "status", Operator: OpIn, Value: []any{"active", "inactive"}},
		&Condition{ID: "2", Field: "age", Operator: OpGreaterThan, Value: float64(21)},
	)

	enc := NewSQLEncoder(testSchema(), &EncoderOptions{Dialect: DialectPostgres})
	clause, args := enc.EncodeParams(s)
	if clause != "(status IN ($1, $2) AND age > $3)" {
		t.Errorf("unexpected clause: %q", clause)
	}
	if !reflect.DeepEqual(args, []any{"active", "inactive", float64(21)}) {
		t.Errorf("unexpected args: %#v", args)
	}
}

func TestSQLEncodePostgresArrays(t *testing.T) {
	cond := &Condition{ID: "1", Field: "tags", Operator: OpContainsAll, Value: []any{"vip", "beta"}}
	got := encodeOne(t, cond, &EncoderOptions{Dialect: DialectPostgres})
	if got != "tags @> ARRAY['vip', 'beta']" {
		t.Errorf("got %q", got)
	}

	cond = &Condition{ID: "2", Field: "tags", Operator: OpContainsAny, Value: []any{"vip"}}
	got = encodeOne(t, cond, &EncoderOptions{Dialect: DialectPostgres})
	if got != "tags && ARRAY['vip']" {
		t.Errorf("got %q", got)
	}
}

func TestSQLEncodeEmptyState(t *testing.T) {
	enc := NewSQLEncoder(testSchema(), nil)
	if got := enc.EncodeState(NewState()); got != "" {
		t.Errorf("empty tree must encode empty, got %q", got)
	}
	if got := enc.EncodeState(nil); got != "" {
		t.Errorf("nil state must encode empty, got %q", got)
	}
	clause, args := enc.EncodeParams(NewState())
	if clause != "" || args != nil {
		t.Errorf("empty params encode: %q %v", clause, args)
	}
}
