package deepequal

import (
	"golang.org/x/text/cases"
)

// Filter excludes nodes from traversal & comparison. a node is excluded when
// any rule matches it. Filters are immutable once built & safe to share
type Filter struct {
	names       map[string]bool
	members     []Member
	memberFuncs []func(Member) bool
	nodeFuncs   []func(*Node) bool
}

// FilterOption adds exclusion rules to a filter
type FilterOption func(f *Filter)

// NewFilter builds a filter from zero or more options. a filter with no rules
// lets everything through
func NewFilter(opts ...FilterOption) *Filter {
	f := &Filter{names: map[string]bool{}}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ExcludeNames drops members with any of the given names, ignoring case.
// map entries with a matching string key are dropped too, which lets the same
// rule apply to decoded JSON & YAML documents
func ExcludeNames(names ...string) FilterOption {
	return func(f *Filter) {
		fold := cases.Fold()
		for _, name := range names {
			f.names[fold.String(name)] = true
		}
	}
}

// ExcludeMembers drops exactly the given members. a member with the same name
// on a different struct type is kept
func ExcludeMembers(members ...Member) FilterOption {
	return func(f *Filter) {
		f.members = append(f.members, members...)
	}
}

// ExcludeMemberFunc drops members for which fn returns true
func ExcludeMemberFunc(fn func(m Member) bool) FilterOption {
	return func(f *Filter) {
		f.memberFuncs = append(f.memberFuncs, fn)
	}
}

// ExcludeNodeFunc drops nodes for which fn returns true. fn sees the whole
// node, so rules can depend on ancestry or value, eg: "skip Salary, but only
// on the second employee"
func ExcludeNodeFunc(fn func(n *Node) bool) FilterOption {
	return func(f *Filter) {
		f.nodeFuncs = append(f.nodeFuncs, fn)
	}
}

// Empty reports whether the filter has no rules
func (f *Filter) Empty() bool {
	return f == nil || (len(f.names) == 0 && len(f.members) == 0 && len(f.memberFuncs) == 0 && len(f.nodeFuncs) == 0)
}

// Apply returns the nodes the filter keeps, in their original order
func (f *Filter) Apply(nodes []*Node) []*Node {
	if f.Empty() {
		return nodes
	}
	fold := cases.Fold()
	kept := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if !f.excludes(n, fold) {
			kept = append(kept, n)
		}
	}
	return kept
}

// Excludes reports whether the filter rejects n
func (f *Filter) Excludes(n *Node) bool {
	if f.Empty() {
		return false
	}
	return f.excludes(n, cases.Fold())
}

func (f *Filter) excludes(n *Node, fold cases.Caser) bool {
	if m, ok := n.edge.Member(); ok {
		if len(f.names) > 0 && f.names[fold.String(m.Name)] {
			return true
		}
		for _, em := range f.members {
			if em.Equal(m) {
				return true
			}
		}
		for _, fn := range f.memberFuncs {
			if fn(m) {
				return true
			}
		}
	}
	if key, ok := n.edge.Key(); ok && len(f.names) > 0 {
		if s, ok := key.(string); ok && f.names[fold.String(s)] {
			return true
		}
	}
	for _, fn := range f.nodeFuncs {
		if fn(n) {
			return true
		}
	}
	return false
}
