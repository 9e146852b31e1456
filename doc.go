// Package filterbuilder provides a state controller for dynamic
// filter editors: nested AND/OR condition trees over a typed field
// schema, with named presets and shareable URL tokens.
//
// The filterbuilder package sits on top of the filter data model:
//   - Owning one live tree plus a last-applied snapshot for dirty
//     checking
//   - Exposing structural edit operations (add/update/remove/
//     duplicate/toggle conditions and groups) that replace the tree
//     wholesale on every change
//   - Managing named presets through pluggable stores (memory, file,
//     SQLite, PostgreSQL)
//   - Mirroring the serialized tree into a URL query parameter
//
// # Quick Start
//
// Build a filter for a user-administration table:
//
//	b, err := filterbuilder.New(filterbuilder.Config{
//	    Fields: []filter.FieldDefinition{
//	        {Key: "name", Label: "Name", Type: filter.TypeText},
//	        {Key: "age", Label: "Age", Type: filter.TypeNumber},
//	        {Key: "status", Label: "Status", Type: filter.TypeSelect,
//	            Options: []filter.Option{{Value: "active", Label: "Active"}}},
//	    },
//	    OnApply: func(s *filter.State) {
//	        // translate the committed tree into a query
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	b.AddCondition(b.RootID(), "name")
//	id := b.State().Root.Children[0].NodeID()
//	b.UpdateCondition(id, func(c *filter.Condition) {
//	    c.Operator = filter.OpContains
//	    c.Value = "smith"
//	})
//	b.Apply()
//
// # Edit Semantics
//
// Every edit rebuilds the path from root to the target node and
// installs a fresh tree; State always returns an independent deep
// copy. Operations addressing an id that does not resolve are silent
// no-ops, matching a UI holding a stale reference. Nothing in the
// package panics through a caller-supplied callback: panics are
// recovered and logged.
//
// # Presets and URL Sync
//
// SavePreset snapshots the live tree; the whole preset list is
// written through the configured preset.Store on each change. A
// failing store degrades the builder to in-memory presets with a
// warning. When a URLMirror is configured the serialized token tracks
// every edit and the parameter is dropped as soon as the tree is
// empty, so cleared filters do not leave stale share links.
//
// A Builder is not safe for concurrent use; create one per editing
// scope. The preset stores are safe to share.
package filterbuilder
