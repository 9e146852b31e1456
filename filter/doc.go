// Package filter provides the filter tree data model: conditions,
// AND/OR groups, field schemas, operator classification, URL-safe
// serialization, and SQL encoding.
//
// This package enables admin UIs and tooling to:
//   - Build nested condition trees against a declared field schema
//   - Validate trees per operator arity (value-less, range, multi-value)
//   - Round-trip trees through compact URL-safe tokens
//   - Encode trees to SQL WHERE clauses for backend queries
//
// # Data Model
//
// A tree is a State holding a root Group. Group children are the Node
// union: *Condition leaves and nested *Group containers. Use a type
// switch to branch on node kind:
//
//	switch n := node.(type) {
//	case *filter.Condition:
//	    // leaf: n.Field, n.Operator, n.Value
//	case *filter.Group:
//	    // container: n.Operator, n.Children
//	}
//
// All functions treat trees as immutable: edits produce new nodes
// along the changed path, never in-place mutation of shared nodes.
//
// # Serialization
//
// Serialize produces a URL-safe token (framed base64 of JSON, zstd
// compressed when that wins); Deserialize is its fail-soft inverse:
//
//	token := filter.Serialize(state)
//	restored := filter.Deserialize(token) // nil on malformed input
//
// # SQL Encoding
//
// Encode a tree to a WHERE clause body against a schema:
//
//	enc := filter.NewSQLEncoder(schema, &filter.EncoderOptions{
//	    Dialect: filter.DialectPostgres,
//	    ColumnMapping: map[string]string{"created": "created_at"},
//	})
//	clause, args := enc.EncodeParams(state)
//
// Disabled nodes are skipped. Conditions that cannot be encoded are
// dropped from AND groups; an OR group with an unencodable child is
// dropped whole, so the emitted filter is always at least as wide as
// the requested one.
package filter
