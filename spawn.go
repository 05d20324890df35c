package deepequal

import (
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Spawner decides what a node's children are
type Spawner interface {
	Spawn(n *Node) ([]*Node, error)
}

// BasicSpawner produces children by reflection. Objects get one child per
// exported field in declaration order, embedded structs count as a single
// field named after their type. Slices & arrays get one child per element in
// index order, maps one child per entry in sorted key order. Primitive &
// Unknown nodes have no children
type BasicSpawner struct {
	// MaxDepth caps the depth of nodes that may be expanded, zero means no cap
	MaxDepth int
}

// Spawn implements the Spawner interface
func (s *BasicSpawner) Spawn(n *Node) ([]*Node, error) {
	if s.MaxDepth > 0 && n.depth >= s.MaxDepth {
		return nil, fmt.Errorf("%w: expanding %s at depth %d", ErrMaxDepth, n.Path(), n.depth)
	}

	switch n.kind {
	case Object:
		return s.members(n)
	case Collection:
		return s.elements(n), nil
	}
	return nil, nil
}

func (s *BasicSpawner) members(n *Node) ([]*Node, error) {
	v := indirect(n.value)
	t := v.Type()
	children := make([]*Node, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		m := Member{Name: f.Name, DeclaringType: t, Type: f.Type, Index: i}
		fv, err := readField(v, m)
		if err != nil {
			return nil, err
		}
		children = append(children, newNode(fv, n, MemberEdge(m), n.spawner))
	}
	return children, nil
}

// readField reads member m from struct value v, converting reflect panics into
// a *MemberAccessError
func readField(v reflect.Value, m Member) (fv reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &MemberAccessError{Member: m, Err: fmt.Errorf("%v", r)}
		}
	}()
	return unwrap(v.Field(m.Index)), nil
}

func (s *BasicSpawner) elements(n *Node) []*Node {
	v := indirect(n.value)
	if v.Kind() == reflect.Map {
		// entries are read off the iterator, MapIndex can't find NaN keys
		entries := make([]mapEntry, 0, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			entries = append(entries, mapEntry{key: iter.Key(), value: iter.Value()})
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return compareKeys(entries[i].key, entries[j].key) < 0
		})
		children := make([]*Node, len(entries))
		for i, e := range entries {
			children[i] = newNode(unwrap(e.value), n, KeyEdge(valueOf(e.key)), n.spawner)
		}
		return children
	}

	children := make([]*Node, v.Len())
	for i := range children {
		children[i] = newNode(unwrap(v.Index(i)), n, IndexEdge(i), n.spawner)
	}
	return children
}

type mapEntry struct {
	key, value reflect.Value
}

// compareKeys puts map keys into a deterministic order: numbers numerically,
// strings lexically, false before true, anything else by its printed form.
// NaN sorts before every other float
func compareKeys(a, b reflect.Value) int {
	a, b = unwrap(a), unwrap(b)
	if !a.IsValid() || !b.IsValid() {
		switch {
		case !a.IsValid() && !b.IsValid():
			return 0
		case !a.IsValid():
			return -1
		}
		return 1
	}

	if a.Kind() == b.Kind() {
		switch a.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return cmp.Compare(a.Int(), b.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return cmp.Compare(a.Uint(), b.Uint())
		case reflect.Float32, reflect.Float64:
			return cmp.Compare(a.Float(), b.Float())
		case reflect.String:
			return strings.Compare(a.String(), b.String())
		case reflect.Bool:
			switch {
			case a.Bool() == b.Bool():
				return 0
			case !a.Bool():
				return -1
			}
			return 1
		}
	}

	if c := strings.Compare(fmt.Sprint(valueOf(a)), fmt.Sprint(valueOf(b))); c != 0 {
		return c
	}
	return strings.Compare(a.Type().String(), b.Type().String())
}

// identity keys a reference value by where it points, not by what it holds
type identity struct {
	ptr uintptr
	typ reflect.Type
	len int
}

// identityOf returns the identity key for reference values. struct values are
// copies & never alias, so they have no identity
func identityOf(v reflect.Value) (identity, bool) {
	switch v.Kind() {
	case reflect.Ptr, reflect.Map:
		if v.IsNil() {
			return identity{}, false
		}
		return identity{ptr: v.Pointer(), typ: v.Type()}, true
	case reflect.Slice:
		if v.IsNil() || v.Len() == 0 {
			return identity{}, false
		}
		return identity{ptr: v.Pointer(), typ: v.Type(), len: v.Len()}, true
	}
	return identity{}, false
}

// DuplicateSpawner wraps another spawner, replacing any non-primitive value
// that was already handed out elsewhere in the tree with a childless
// duplicate node. this turns cyclic & shared-reference graphs into finite
// trees. the identity map lives as long as the spawner, use one per tree
type DuplicateSpawner struct {
	backing Spawner
	log     *slog.Logger

	mu   sync.Mutex
	seen map[identity]*Node
}

// NewDuplicateSpawner wraps backing. backing must not itself contain a
// DuplicateSpawner
func NewDuplicateSpawner(backing Spawner, logger *slog.Logger) *DuplicateSpawner {
	if backing == nil {
		structuralPanic("NewDuplicateSpawner", "backing spawner is nil")
	}
	if containsDuplicateSpawner(backing) {
		structuralPanic("NewDuplicateSpawner", "backing spawner already checks for duplicates")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &DuplicateSpawner{
		backing: backing,
		log:     logger,
		seen:    map[identity]*Node{},
	}
}

// Unwrap returns the backing spawner
func (s *DuplicateSpawner) Unwrap() Spawner { return s.backing }

// Spawn implements the Spawner interface
func (s *DuplicateSpawner) Spawn(n *Node) ([]*Node, error) {
	// recording n seeds the root, which lets a root-to-root cycle show up as
	// a duplicate
	if n.kind != Primitive {
		s.record(n)
	}

	candidates, err := s.backing.Spawn(n)
	if err != nil {
		return nil, err
	}

	children := make([]*Node, 0, len(candidates))
	for _, c := range candidates {
		if c.kind == Primitive {
			children = append(children, c)
			continue
		}

		original, seen := s.record(c)
		if !seen {
			children = append(children, c)
			continue
		}

		path := c.Path()
		origPath := original.Path()
		if origPath.Equal(path) {
			// same position reached again, share the node
			children = append(children, original)
			continue
		}

		s.log.Debug("duplicate value", "path", path.String(), "original", origPath.String())
		children = append(children, newDuplicate(original, n, c.edge))
	}
	return children, nil
}

// record stores n as the first holder of its value if no node holds it yet.
// it returns the first holder & whether one already existed
func (s *DuplicateSpawner) record(n *Node) (*Node, bool) {
	id, ok := identityOf(n.value)
	if !ok {
		return n, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.seen[id]; ok {
		return prev, prev != n
	}
	s.seen[id] = n
	return n, false
}

// FilteredSpawner removes the children a Filter rejects from the output of a
// backing spawner
type FilteredSpawner struct {
	backing Spawner
	filter  *Filter
}

// NewFilteredSpawner wraps backing with filter
func NewFilteredSpawner(backing Spawner, filter *Filter) *FilteredSpawner {
	if backing == nil {
		structuralPanic("NewFilteredSpawner", "backing spawner is nil")
	}
	return &FilteredSpawner{backing: backing, filter: filter}
}

// Unwrap returns the backing spawner
func (s *FilteredSpawner) Unwrap() Spawner { return s.backing }

// Filter returns the filter this spawner applies
func (s *FilteredSpawner) Filter() *Filter { return s.filter }

// Spawn implements the Spawner interface
func (s *FilteredSpawner) Spawn(n *Node) ([]*Node, error) {
	children, err := s.backing.Spawn(n)
	if err != nil {
		return nil, err
	}
	return s.filter.Apply(children), nil
}

func containsDuplicateSpawner(s Spawner) bool {
	for s != nil {
		if _, ok := s.(*DuplicateSpawner); ok {
			return true
		}
		u, ok := s.(interface{ Unwrap() Spawner })
		if !ok {
			return false
		}
		s = u.Unwrap()
	}
	return false
}
