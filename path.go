package deepequal

import (
	"reflect"
	"strings"
)

// RootName is the token EdgePath.String uses for the root of a tree
const RootName = "<root>"

// EdgePath is the sequence of edges from a tree's root to a node. it's used as
// a node's identity and as a human-readable location like
// <root>.Employees[0].Name
type EdgePath []Edge

func (p EdgePath) String() string {
	return p.Format(RootName)
}

// Format renders p, starting with rootName instead of <root>
func (p EdgePath) Format(rootName string) string {
	var b strings.Builder
	b.WriteString(rootName)
	for _, e := range p {
		b.WriteString(e.String())
	}
	return b.String()
}

// Equal reports whether p and o are the same sequence of edges
func (p EdgePath) Equal(o EdgePath) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if !p[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Resolve applies each edge of p to root in turn, stopping at the first edge
// that can't be applied
func (p EdgePath) Resolve(root interface{}) (v interface{}, ok bool) {
	rv, ok := p.resolveValue(reflect.ValueOf(root))
	if !ok {
		return nil, false
	}
	return valueOf(rv), true
}

func (p EdgePath) resolveValue(root reflect.Value) (reflect.Value, bool) {
	v := root
	for _, e := range p {
		var ok bool
		if v, ok = e.resolveValue(v); !ok {
			return reflect.Value{}, false
		}
	}
	return v, true
}
