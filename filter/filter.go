package filter

import (
	"math/rand"
	"strconv"
	"time"
)

// GenerateID produces a practically-unique node identifier from the
// current time plus a random suffix. Collision probability is not
// formally bounded; ids are scoped to a single filter session and the
// package never repairs accidental collisions.
func GenerateID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + randomSuffix(9)
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomSuffix(n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return string(buf)
}

// NewState creates an empty filter state: a root AND group with no
// children.
func NewState() *State {
	return &State{Root: NewGroup(And)}
}

// NewCondition creates a condition with the default operator and an
// empty string value. Field may be empty for a not-yet-configured row.
func NewCondition(field string) *Condition {
	return &Condition{
		ID:       GenerateID(),
		Field:    field,
		Operator: OpEquals,
		Value:    "",
	}
}

// NewGroup creates an empty group with the given logical operator.
func NewGroup(op LogicalOperator) *Group {
	return &Group{
		ID:       GenerateID(),
		Operator: op,
		Children: make([]Node, 0),
	}
}

// CountConditions returns the number of leaf conditions at any depth
// below (and including) the group's direct children. Groups themselves
// are not counted and disabled leaves still count.
func CountConditions(g *Group) int {
	if g == nil {
		return 0
	}
	count := 0
	for _, child := range g.Children {
		switch n := child.(type) {
		case *Condition:
			count++
		case *Group:
			count += CountConditions(n)
		}
	}
	return count
}

// MaxDepth returns the deepest nesting level of any descendant group.
// A root with no nested groups has depth 0.
func MaxDepth(g *Group) int {
	return maxDepth(g, 0)
}

func maxDepth(g *Group, current int) int {
	if g == nil {
		return current
	}
	deepest := current
	for _, child := range g.Children {
		if sub, ok := child.(*Group); ok {
			if d := maxDepth(sub, current+1); d > deepest {
				deepest = d
			}
		}
	}
	return deepest
}

// Walk visits every node of the subtree in depth-first order, the
// group itself first. Walking stops early if fn returns false.
func Walk(g *Group, fn func(Node) bool) bool {
	if g == nil {
		return true
	}
	if !fn(g) {
		return false
	}
	for _, child := range g.Children {
		switch n := child.(type) {
		case *Condition:
			if !fn(n) {
				return false
			}
		case *Group:
			if !Walk(n, fn) {
				return false
			}
		}
	}
	return true
}

// FindNode returns the node with the given id, or nil if absent.
func FindNode(g *Group, id string) Node {
	var found Node
	Walk(g, func(n Node) bool {
		if n.NodeID() == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Clone returns a fully independent deep copy of the state.
// Clone of nil is nil.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	return &State{Root: s.Root.Clone()}
}

// Clone returns a deep copy of the group and all descendants.
func (g *Group) Clone() *Group {
	if g == nil {
		return nil
	}
	children := make([]Node, len(g.Children))
	for i, child := range g.Children {
		children[i] = child.CloneNode()
	}
	return &Group{
		ID:       g.ID,
		Operator: g.Operator,
		Children: children,
		Disabled: g.Disabled,
	}
}

// Clone returns a deep copy of the condition.
func (c *Condition) Clone() *Condition {
	if c == nil {
		return nil
	}
	return &Condition{
		ID:       c.ID,
		Field:    c.Field,
		Operator: c.Operator,
		Value:    cloneValue(c.Value),
		ValueTo:  cloneValue(c.ValueTo),
		Disabled: c.Disabled,
	}
}

// cloneValue deep-copies JSON-normal values. Scalars are returned as
// is; other types are copied by reference.
func cloneValue(v any) any {
	switch val := v.(type) {
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// Equal reports whether two states describe the same filter tree.
// Comparison goes through the canonical JSON encoding, so numeric
// values compare by representation rather than by Go type.
func Equal(a, b *State) bool {
	if a == nil || b == nil {
		return a == b
	}
	ja, errA := marshalState(a)
	jb, errB := marshalState(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(ja) == string(jb)
}
