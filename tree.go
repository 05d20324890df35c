package deepequal

import (
	"log/slog"
)

// Tree is a lazily-expanded view of the object graph rooted at one value.
// a tree carries the filter & spawner it was built with. the spawner
// remembers the reference values it has handed out, so repeated walks of the
// same tree see the same duplicates
type Tree struct {
	root     *Node
	filter   *Filter
	spawner  Spawner
	maxDepth int
	log      *slog.Logger
}

// NewTree always builds a new tree for v. if v is already a *Tree, the new
// tree is rebuilt from the old tree's root value
func NewTree(v interface{}, opts ...Option) (t *Tree, err error) {
	defer recoverStructural(&err)
	return newConfig(opts).newTree(v), nil
}

// TreeOf returns v unchanged when v is a *Tree built with the same filter
// instance, and builds a new tree otherwise
func TreeOf(v interface{}, opts ...Option) (t *Tree, err error) {
	defer recoverStructural(&err)
	return newConfig(opts).treeOf(v), nil
}

func (cfg *Config) treeOf(v interface{}) *Tree {
	if t, ok := v.(*Tree); ok && t != nil && t.filter == cfg.Filter {
		return t
	}
	return cfg.newTree(v)
}

func (cfg *Config) newTree(v interface{}) *Tree {
	if t, ok := v.(*Tree); ok {
		if t == nil {
			structuralPanic("NewTree", "cannot rebuild a nil tree")
		}
		cfg.Logger.Debug("rebuilding tree", "filtered", !cfg.Filter.Empty())
		v = t.root.Value()
	}

	// the filter sits outside duplicate detection, so a hidden member still
	// claims its value & a visible alias of it reports as a duplicate
	var spawner Spawner = NewDuplicateSpawner(&BasicSpawner{MaxDepth: cfg.MaxDepth}, cfg.Logger)
	if !cfg.Filter.Empty() {
		spawner = NewFilteredSpawner(spawner, cfg.Filter)
	}

	root := NewNode(v, nil, RootEdge(), spawner)
	cfg.Logger.Debug("built tree", "kind", root.kind.String())
	return &Tree{
		root:     root,
		filter:   cfg.Filter,
		spawner:  spawner,
		maxDepth: cfg.MaxDepth,
		log:      cfg.Logger,
	}
}

// Root returns the tree's root node, never nil
func (t *Tree) Root() *Node { return t.root }

// Filter returns the filter the tree was built with, possibly nil
func (t *Tree) Filter() *Filter { return t.filter }

// Spawner returns the spawn strategy shared by every node in the tree
func (t *Tree) Spawner() Spawner { return t.spawner }

// WithFilter returns a tree over the same value filtered by f. t itself is
// returned if it already uses f
func (t *Tree) WithFilter(f *Filter) (*Tree, error) {
	return TreeOf(t, WithFilter(f), WithMaxDepth(t.maxDepth), WithLogger(t.log))
}

// Walk visits the tree in top-down (prefix) order. returning false from fn
// skips the node's children. duplicates are visited but have no children
func (t *Tree) Walk(fn func(n *Node) bool) error {
	return walk(t.root, fn)
}

func walk(n *Node, fn func(n *Node) bool) error {
	if !fn(n) {
		return nil
	}
	children, err := n.Children()
	if err != nil {
		return err
	}
	for _, ch := range children {
		if err := walk(ch, fn); err != nil {
			return err
		}
	}
	return nil
}
