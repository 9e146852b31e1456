package filter

import (
	"encoding/json"
	"fmt"
)

// The persisted JSON shape distinguishes the two node kinds
// structurally: groups carry a "conditions" array, leaves carry a
// "field" key. Decoding probes for "conditions" first and falls back
// to a leaf, mirroring the shape filters were historically saved in.

// rawNode is the intermediate structure used to discriminate node
// kinds before full decoding.
type rawNode struct {
	Conditions json.RawMessage `json:"conditions"`
}

// rawGroup is the intermediate structure for group decoding.
type rawGroup struct {
	ID         string            `json:"id"`
	Operator   LogicalOperator   `json:"operator"`
	Conditions []json.RawMessage `json:"conditions"`
	Disabled   bool              `json:"disabled"`
}

// UnmarshalJSON decodes a group and its children recursively.
func (g *Group) UnmarshalJSON(data []byte) error {
	var raw rawGroup
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("filter: invalid group: %w", err)
	}

	children := make([]Node, 0, len(raw.Conditions))
	for i, childData := range raw.Conditions {
		child, err := parseNode(childData)
		if err != nil {
			return fmt.Errorf("filter: invalid child %d: %w", i, err)
		}
		children = append(children, child)
	}

	g.ID = raw.ID
	g.Operator = raw.Operator
	g.Children = children
	g.Disabled = raw.Disabled
	return nil
}

// parseNode decodes a single node, group or condition.
func parseNode(data json.RawMessage) (Node, error) {
	var probe rawNode
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}

	if probe.Conditions != nil {
		group := &Group{}
		if err := group.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return group, nil
	}

	var cond Condition
	if err := json.Unmarshal(data, &cond); err != nil {
		return nil, fmt.Errorf("invalid condition: %w", err)
	}
	return &cond, nil
}

// ParseState decodes a filter state from its JSON representation.
// A nil root in the input is rejected: the root group is always
// present in a well-formed state.
func ParseState(data []byte) (*State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s.Root == nil {
		return nil, fmt.Errorf("filter: state has no root group")
	}
	if s.Root.Children == nil {
		s.Root.Children = make([]Node, 0)
	}
	return &s, nil
}

// marshalState encodes a state to canonical JSON.
func marshalState(s *State) ([]byte, error) {
	return json.Marshal(s)
}
