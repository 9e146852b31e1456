package filter

import (
	"strconv"
	"strings"
)

// Dialect selects SQL syntax details for encoding.
type Dialect string

const (
	// DialectDuckDB emits DuckDB syntax with ? placeholders.
	DialectDuckDB Dialect = "duckdb"

	// DialectPostgres emits PostgreSQL syntax with $n placeholders.
	DialectPostgres Dialect = "postgres"
)

// Encoder converts filter trees to SQL strings.
// Implementations handle dialect-specific syntax.
type Encoder interface {
	// EncodeState converts a tree to a WHERE clause body.
	// Returns the condition portion without the "WHERE" keyword.
	// Returns empty string if nothing can be encoded.
	EncodeState(s *State) string

	// Encode converts a single node to SQL.
	// Returns empty string if the node is unsupported.
	Encode(node Node) string
}

// EncoderOptions configures SQL encoding behavior.
type EncoderOptions struct {
	// Dialect selects target syntax. Default DialectDuckDB.
	Dialect Dialect

	// ColumnMapping maps field keys to target column names.
	// Fields not in the map use their key as the column name.
	ColumnMapping map[string]string

	// ColumnExpressions maps field keys to SQL expressions.
	// Takes precedence over ColumnMapping.
	// Use for computed columns or complex transformations.
	ColumnExpressions map[string]string
}

// SQLEncoder encodes filter trees to SQL against a field schema.
//
// Unsupported or incomplete conditions are skipped rather than
// reported: an AND group keeps its encodable children, while an OR
// group with any unencodable child is dropped whole. Dropping an OR
// branch selectively would narrow the filter; dropping the whole OR
// only widens it, which is safe when the caller re-checks rows.
type SQLEncoder struct {
	schema Schema
	opts   EncoderOptions
	params *[]any
}

// NewSQLEncoder creates a SQL encoder for the given schema.
// If opts is nil, defaults are used.
func NewSQLEncoder(schema Schema, opts *EncoderOptions) *SQLEncoder {
	e := &SQLEncoder{schema: schema}
	if opts != nil {
		e.opts = *opts
	}
	if e.opts.Dialect == "" {
		e.opts.Dialect = DialectDuckDB
	}
	return e
}

// EncodeState converts the tree to a WHERE clause body with inline
// literals. Returns empty string if nothing can be encoded.
func (e *SQLEncoder) EncodeState(s *State) string {
	e.params = nil
	return e.encodeState(s)
}

// EncodeParams converts the tree to a WHERE clause body with bind
// placeholders (? for DuckDB, $n for PostgreSQL) and returns the
// arguments in placeholder order.
func (e *SQLEncoder) EncodeParams(s *State) (string, []any) {
	args := make([]any, 0)
	e.params = &args
	clause := e.encodeState(s)
	e.params = nil
	if clause == "" {
		return "", nil
	}
	return clause, args
}

func (e *SQLEncoder) encodeState(s *State) string {
	if s == nil || s.Root == nil || s.Root.Disabled {
		return ""
	}
	return e.encodeGroup(s.Root)
}

// Encode converts a single node to SQL with inline literals.
func (e *SQLEncoder) Encode(node Node) string {
	switch n := node.(type) {
	case *Condition:
		return e.encodeCondition(n)
	case *Group:
		return e.encodeGroup(n)
	default:
		return ""
	}
}

func (e *SQLEncoder) encodeGroup(g *Group) string {
	var parts []string
	for _, child := range g.Children {
		if child.IsDisabled() {
			continue
		}
		encoded := e.Encode(child)
		if encoded == "" {
			// For OR, a skipped child would widen the branch into
			// matching everything; drop the whole group instead.
			if g.Operator == Or {
				return ""
			}
			continue
		}
		parts = append(parts, encoded)
	}

	if len(parts) == 0 {
		return ""
	}
	if len(parts) == 1 {
		return parts[0]
	}

	sep := " AND "
	if g.Operator == Or {
		sep = " OR "
	}
	return "(" + strings.Join(parts, sep) + ")"
}

func (e *SQLEncoder) encodeCondition(c *Condition) string {
	if c == nil || c.Field == "" || c.Operator == "" {
		return ""
	}
	def, ok := e.schema.Field(c.Field)
	if !ok {
		return ""
	}
	col := e.column(c.Field)

	switch c.Operator {
	case OpEquals:
		return e.binary(col, "=", c.Value)
	case OpNotEquals:
		return e.binary(col, "<>", c.Value)
	case OpGreaterThan, OpAfter:
		return e.binary(col, ">", c.Value)
	case OpGreaterThanOrEqual:
		return e.binary(col, ">=", c.Value)
	case OpLessThan, OpBefore:
		return e.binary(col, "<", c.Value)
	case OpLessThanOrEqual:
		return e.binary(col, "<=", c.Value)
	case OpContains:
		return e.like(col, c.Value, "%", "%", false)
	case OpNotContains:
		return e.like(col, c.Value, "%", "%", true)
	case OpStartsWith:
		return e.like(col, c.Value, "", "%", false)
	case OpEndsWith:
		return e.like(col, c.Value, "%", "", false)
	case OpBetween:
		return e.between(col, c, false)
	case OpNotBetween:
		return e.between(col, c, true)
	case OpIn:
		return e.inList(col, c.Value, false)
	case OpNotIn:
		return e.inList(col, c.Value, true)
	case OpContainsAny:
		return e.listOverlap(col, c.Value, false)
	case OpContainsAll:
		return e.listOverlap(col, c.Value, true)
	case OpIsEmpty:
		return e.isEmpty(col, def, false)
	case OpIsNotEmpty:
		return e.isEmpty(col, def, true)
	case OpIsTrue:
		return col + " = TRUE"
	case OpIsFalse:
		return col + " = FALSE"
	default:
		return ""
	}
}

// column resolves a field key to its SQL form: expression override,
// mapped name, or the quoted key itself.
func (e *SQLEncoder) column(key string) string {
	if expr, ok := e.opts.ColumnExpressions[key]; ok {
		return expr
	}
	if mapped, ok := e.opts.ColumnMapping[key]; ok {
		key = mapped
	}
	return quoteIdentifier(key)
}

func (e *SQLEncoder) binary(col, op string, v any) string {
	operand := e.operand(v)
	if operand == "" {
		return ""
	}
	return col + " " + op + " " + operand
}

func (e *SQLEncoder) like(col string, v any, prefix, suffix string, negate bool) string {
	s, ok := v.(string)
	if !ok || s == "" {
		return ""
	}
	operand := e.operand(prefix+s+suffix)
	if negate {
		return col + " NOT LIKE " + operand
	}
	return col + " LIKE " + operand
}

func (e *SQLEncoder) between(col string, c *Condition, negate bool) string {
	lower := e.operand(c.Value)
	upper := e.operand(c.ValueTo)
	if lower == "" || upper == "" {
		return ""
	}
	clause := col + " BETWEEN " + lower + " AND " + upper
	if negate {
		return "NOT (" + clause + ")"
	}
	return clause
}

func (e *SQLEncoder) inList(col string, v any, negate bool) string {
	values := e.operandList(v)
	if len(values) == 0 {
		return ""
	}
	op := " IN "
	if negate {
		op = " NOT IN "
	}
	return col + op + "(" + strings.Join(values, ", ") + ")"
}

// listOverlap encodes multiselect operators against list-typed
// columns. Syntax differs per dialect; unknown dialects skip the
// condition.
func (e *SQLEncoder) listOverlap(col string, v any, all bool) string {
	values := e.operandList(v)
	if len(values) == 0 {
		return ""
	}
	list := strings.Join(values, ", ")

	switch e.opts.Dialect {
	case DialectDuckDB:
		fn := "list_has_any"
		if all {
			fn = "list_has_all"
		}
		return fn + "(" + col + ", [" + list + "])"
	case DialectPostgres:
		op := " && "
		if all {
			op = " @> "
		}
		return col + op + "ARRAY[" + list + "]"
	default:
		return ""
	}
}

func (e *SQLEncoder) isEmpty(col string, def FieldDefinition, negate bool) string {
	textual := def.Type == TypeText || def.Type == TypeSelect
	if negate {
		if textual {
			return "(" + col + " IS NOT NULL AND " + col + " <> '')"
		}
		return col + " IS NOT NULL"
	}
	if textual {
		return "(" + col + " IS NULL OR " + col + " = '')"
	}
	return col + " IS NULL"
}

// operand renders a single comparison value: a bind placeholder when
// collecting parameters, an inline literal otherwise. Returns empty
// string for values that cannot be rendered.
func (e *SQLEncoder) operand(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok && s == "" {
		return ""
	}

	if e.params != nil {
		*e.params = append(*e.params, v)
		if e.opts.Dialect == DialectPostgres {
			return "$" + strconv.Itoa(len(*e.params))
		}
		return "?"
	}

	switch val := v.(type) {
	case string:
		return quoteLiteral(val)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return ""
	}
}

func (e *SQLEncoder) operandList(v any) []string {
	var items []any
	switch val := v.(type) {
	case []any:
		items = val
	case []string:
		items = make([]any, len(val))
		for i, s := range val {
			items[i] = s
		}
	default:
		return nil
	}

	values := make([]string, 0, len(items))
	for _, item := range items {
		operand := e.operand(item)
		if operand == "" {
			return nil
		}
		values = append(values, operand)
	}
	return values
}

// escapeString escapes single quotes in a string value for SQL.
func escapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// quoteLiteral returns a SQL string literal with proper escaping.
func quoteLiteral(s string) string {
	return "'" + escapeString(s) + "'"
}

// quoteIdentifier returns a quoted identifier if needed.
// Both supported dialects use double quotes for identifiers.
func quoteIdentifier(name string) string {
	if needsQuoting(name) {
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
	return name
}

// needsQuoting returns true if the identifier needs quoting.
func needsQuoting(name string) bool {
	if len(name) == 0 {
		return true
	}

	c := name[0]
	if !isLetter(c) && c != '_' {
		return true
	}
	for i := 1; i < len(name); i++ {
		c = name[i]
		if !isLetter(c) && !isDigit(c) && c != '_' {
			return true
		}
	}

	// Reserved words (simplified list)
	switch strings.ToUpper(name) {
	case "SELECT", "FROM", "WHERE", "AND", "OR", "NOT", "NULL", "TRUE", "FALSE",
		"INSERT", "UPDATE", "DELETE", "CREATE", "DROP", "ALTER", "TABLE", "INDEX",
		"JOIN", "LEFT", "RIGHT", "INNER", "OUTER", "ON", "AS", "IN", "IS", "LIKE",
		"BETWEEN", "EXISTS", "CASE", "WHEN", "THEN", "ELSE", "END", "ORDER", "BY",
		"GROUP", "HAVING", "LIMIT", "OFFSET", "UNION", "EXCEPT", "INTERSECT",
		"ALL", "DISTINCT", "VALUES", "SET", "INTO", "PRIMARY", "KEY", "FOREIGN",
		"REFERENCES", "CONSTRAINT", "DEFAULT", "CHECK", "UNIQUE", "ASC", "DESC",
		"NULLS", "FIRST", "LAST", "CAST", "INTERVAL", "DATE", "TIME", "TIMESTAMP":
		return true
	}

	return false
}

// isLetter returns true if c is an ASCII letter.
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isDigit returns true if c is an ASCII digit.
func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
