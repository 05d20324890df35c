package deepequal

import (
	"fmt"
	"reflect"
)

// NodeKind classifies the values in a tree
type NodeKind uint8

const (
	// Unknown is a value that can't be looked into, like a func or a mutex
	Unknown NodeKind = iota
	// Primitive is a single value: numbers, strings, times, byte sequences,
	// and null
	Primitive
	// Object is a struct, its children are its exported fields
	Object
	// Collection is a slice, array or map, its children are its elements
	Collection
)

func (k NodeKind) String() string {
	switch k {
	case Primitive:
		return "Primitive"
	case Object:
		return "Object"
	case Collection:
		return "Collection"
	default:
		return "Unknown"
	}
}

// Node is one vertex in a tree. Nodes reference their parent for path
// reconstruction only, parents don't hold on to their children. children are
// produced on demand by the node's Spawner
type Node struct {
	value   reflect.Value
	kind    NodeKind
	parent  *Node
	edge    Edge
	spawner Spawner
	depth   int

	// set on duplicate nodes, the first node that held the same value
	original *Node
}

// NewNode creates a node for value. parent & edge must both be set, or both be
// unset for a root. a nil spawner gets a BasicSpawner
func NewNode(value interface{}, parent *Node, edge Edge, spawner Spawner) *Node {
	return newNode(unwrap(reflect.ValueOf(value)), parent, edge, spawner)
}

func newNode(value reflect.Value, parent *Node, edge Edge, spawner Spawner) *Node {
	if (parent == nil) != edge.IsRoot() {
		structuralPanic("NewNode", "parent and edge must both be set or both be unset (parent: %t, edge: %q)", parent != nil, edge)
	}
	if spawner == nil {
		spawner = &BasicSpawner{}
	}
	n := &Node{
		value:   value,
		kind:    classify(value),
		parent:  parent,
		edge:    edge,
		spawner: spawner,
	}
	if parent != nil {
		n.depth = parent.depth + 1
	}
	return n
}

// newDuplicate creates a childless stand-in for original, reached from parent
// by edge
func newDuplicate(original, parent *Node, edge Edge) *Node {
	if original == nil {
		structuralPanic("newDuplicate", "original node is nil")
	}
	n := newNode(original.value, parent, edge, original.spawner)
	n.original = original
	return n
}

// Value returns the value this node wraps
func (n *Node) Value() interface{} { return valueOf(n.value) }

// Kind returns the node's classification
func (n *Node) Kind() NodeKind { return n.kind }

// Parent returns the node this one was reached from, nil for a root
func (n *Node) Parent() *Node { return n.parent }

// Edge returns the edge from Parent to this node
func (n *Node) Edge() Edge { return n.edge }

// Depth is the number of edges between this node and the root
func (n *Node) Depth() int { return n.depth }

// Spawner returns the strategy that produces this node's children
func (n *Node) Spawner() Spawner { return n.spawner }

// IsDuplicate reports whether this node stands in for a value that already
// appeared elsewhere in the tree
func (n *Node) IsDuplicate() bool { return n.original != nil }

// Original returns the first node that held this node's value, or nil if this
// isn't a duplicate
func (n *Node) Original() *Node { return n.original }

// Path builds the edge path from the root to this node
func (n *Node) Path() EdgePath {
	path := make(EdgePath, n.depth)
	for cur := n; cur != nil && cur.parent != nil; cur = cur.parent {
		path[cur.depth-1] = cur.edge
	}
	return path
}

// Children asks the node's spawner for its children. duplicates have none.
// children aren't cached: a duplicate-checking spawner records the values it
// hands out, so call Children once per node per traversal
func (n *Node) Children() ([]*Node, error) {
	if n.original != nil {
		return nil, nil
	}
	return n.spawner.Spawn(n)
}

func (n *Node) String() string {
	if n.original != nil {
		return fmt.Sprintf("%s (%s, duplicate of %s)", n.Path(), n.kind, n.original.Path())
	}
	return fmt.Sprintf("%s (%s)", n.Path(), n.kind)
}
