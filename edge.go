package deepequal

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// Member describes one named field of a struct type. Identity is the pair
// (Name, DeclaringType): two fields called "Name" on two different struct
// types are different members
type Member struct {
	// Name is the field name as declared
	Name string
	// DeclaringType is the struct type the field belongs to
	DeclaringType reflect.Type
	// Type is the static type of the field
	Type reflect.Type
	// Index is the field's position in DeclaringType
	Index int
}

// Equal reports whether m and o identify the same member
func (m Member) Equal(o Member) bool {
	return m.Name == o.Name && m.DeclaringType == o.DeclaringType
}

func (m Member) String() string {
	return typeName(m.DeclaringType) + "." + m.Name
}

// MemberOf looks up the exported field called name on struct type t.
// pointer types are dereferenced
func MemberOf(t reflect.Type, name string) (Member, error) {
	if t == nil {
		return Member{}, fmt.Errorf("nil type")
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return Member{}, fmt.Errorf("%s is not a struct type", t)
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Name == name && f.IsExported() {
			return Member{Name: f.Name, DeclaringType: t, Type: f.Type, Index: i}, nil
		}
	}
	return Member{}, fmt.Errorf("%s has no exported field %q", t, name)
}

type edgeKind uint8

const (
	ekRoot edgeKind = iota
	ekMember
	ekIndex
	ekKey
)

// Edge is one hop from a parent value to a child value: by struct member, by
// sequence index, or by map key. The zero Edge is the root edge
type Edge struct {
	kind   edgeKind
	member Member
	index  int
	key    interface{}
}

// RootEdge returns the no-op edge that leads to a tree's root
func RootEdge() Edge { return Edge{} }

// MemberEdge returns an edge that reads member m
func MemberEdge(m Member) Edge {
	return Edge{kind: ekMember, member: m}
}

// IndexEdge returns an edge that reads element i of a slice or array.
// i must not be negative
func IndexEdge(i int) Edge {
	if i < 0 {
		structuralPanic("IndexEdge", "negative index %d", i)
	}
	return Edge{kind: ekIndex, index: i}
}

// KeyEdge returns an edge that reads the entry for key from a map
func KeyEdge(key interface{}) Edge {
	return Edge{kind: ekKey, key: key}
}

// IsRoot reports whether e is the root edge
func (e Edge) IsRoot() bool { return e.kind == ekRoot }

// Member returns the edge's member, ok is false for non-member edges
func (e Edge) Member() (m Member, ok bool) { return e.member, e.kind == ekMember }

// Index returns the edge's index, ok is false for non-index edges
func (e Edge) Index() (i int, ok bool) { return e.index, e.kind == ekIndex }

// Key returns the edge's map key, ok is false for non-key edges
func (e Edge) Key() (key interface{}, ok bool) { return e.key, e.kind == ekKey }

// Equal reports whether e and o describe the same hop. member edges compare
// by member identity, index edges by index, key edges by key equality
func (e Edge) Equal(o Edge) bool {
	if e.kind != o.kind {
		return false
	}
	switch e.kind {
	case ekMember:
		return e.member.Equal(o.member)
	case ekIndex:
		return e.index == o.index
	case ekKey:
		return keysEqual(e.key, o.key)
	}
	return true
}

func keysEqual(a, b interface{}) bool {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if !av.IsValid() || !bv.IsValid() {
		return av.IsValid() == bv.IsValid()
	}
	if av.Type() != bv.Type() || !av.Comparable() || !bv.Comparable() {
		return false
	}
	if isNaN(av) && isNaN(bv) {
		return true
	}
	return av.Equal(bv)
}

// isNaN reports whether v is a floating point NaN. a NaN map key never equals
// itself under ==, yet it still names one entry
func isNaN(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return math.IsNaN(v.Float())
	}
	return false
}

func (e Edge) String() string {
	switch e.kind {
	case ekMember:
		return "." + e.member.Name
	case ekIndex:
		return "[" + strconv.Itoa(e.index) + "]"
	case ekKey:
		return fmt.Sprintf("[%v]", e.key)
	}
	return ""
}

// Resolve applies e to parent. ok is false if the hop can't be made: parent is
// nil, the member belongs to another type, the index is out of range, the key
// is absent, or parent isn't the right kind of value. the root edge resolves
// to parent itself, even when parent is nil
func (e Edge) Resolve(parent interface{}) (v interface{}, ok bool) {
	rv, ok := e.resolveValue(reflect.ValueOf(parent))
	if !ok {
		return nil, false
	}
	return valueOf(rv), true
}

func (e Edge) resolveValue(parent reflect.Value) (child reflect.Value, ok bool) {
	if e.kind == ekRoot {
		return parent, true
	}

	defer func() {
		if r := recover(); r != nil {
			child, ok = reflect.Value{}, false
		}
	}()

	pv := indirect(parent)
	if !pv.IsValid() {
		return reflect.Value{}, false
	}

	switch e.kind {
	case ekMember:
		if pv.Kind() != reflect.Struct || pv.Type() != e.member.DeclaringType || e.member.Index >= pv.NumField() {
			return reflect.Value{}, false
		}
		return unwrap(pv.Field(e.member.Index)), true
	case ekIndex:
		if pv.Kind() != reflect.Slice && pv.Kind() != reflect.Array {
			return reflect.Value{}, false
		}
		if e.index >= pv.Len() {
			return reflect.Value{}, false
		}
		return unwrap(pv.Index(e.index)), true
	case ekKey:
		if pv.Kind() != reflect.Map {
			return reflect.Value{}, false
		}
		kt := pv.Type().Key()
		k := reflect.ValueOf(e.key)
		if !k.IsValid() {
			k = reflect.Zero(kt)
		}
		if !k.Type().AssignableTo(kt) {
			return reflect.Value{}, false
		}
		if isNaN(k) {
			return mapIndexNaN(pv, k.Type())
		}
		v := pv.MapIndex(k)
		if !v.IsValid() {
			return reflect.Value{}, false
		}
		return unwrap(v), true
	}
	return reflect.Value{}, false
}

// mapIndexNaN finds the first entry of map m whose key is a NaN of type kt.
// MapIndex can't reach those entries
func mapIndexNaN(m reflect.Value, kt reflect.Type) (reflect.Value, bool) {
	iter := m.MapRange()
	for iter.Next() {
		if k := unwrap(iter.Key()); k.IsValid() && k.Type() == kt && isNaN(k) {
			return unwrap(iter.Value()), true
		}
	}
	return reflect.Value{}, false
}
