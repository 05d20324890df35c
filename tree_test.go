package deepequal

import (
	"testing"
)

func TestTreeOfReuse(t *testing.T) {
	f := NewFilter(ExcludeNames("FullName"))
	v := owner{ID: 1, FullName: "x"}

	tree, err := NewTree(v, WithFilter(f))
	if err != nil {
		t.Fatal(err)
	}
	if tree.Root() == nil {
		t.Fatal("tree root must never be nil")
	}
	if tree.Filter() != f {
		t.Errorf("expected tree to report its filter")
	}

	cases := []struct {
		description string
		get         func() (*Tree, error)
		same        bool
	}{
		{"same filter instance is reused", func() (*Tree, error) { return TreeOf(tree, WithFilter(f)) }, true},
		{"WithFilter with the same filter is reused", func() (*Tree, error) { return tree.WithFilter(f) }, true},
		{"NewTree always rebuilds", func() (*Tree, error) { return NewTree(tree, WithFilter(f)) }, false},
		{"equivalent filter instance rebuilds", func() (*Tree, error) { return TreeOf(tree, WithExcludedNames("FullName")) }, false},
		{"no filter rebuilds", func() (*Tree, error) { return TreeOf(tree) }, false},
		{"raw values build", func() (*Tree, error) { return TreeOf(v, WithFilter(f)) }, false},
	}

	for i, c := range cases {
		got, err := c.get()
		if err != nil {
			t.Fatalf("%d %s: %s", i, c.description, err)
		}
		if (got == tree) != c.same {
			t.Errorf("%d %s: want same instance %t, got %t", i, c.description, c.same, got == tree)
		}
	}
}

func TestTreeRebuildKeepsValue(t *testing.T) {
	v := &owner{ID: 1, Name: "a", FullName: "b"}
	filtered, err := NewTree(v, WithExcludedNames("Name", "FullName"))
	if err != nil {
		t.Fatal(err)
	}
	unfiltered, err := filtered.WithFilter(nil)
	if err != nil {
		t.Fatal(err)
	}
	if unfiltered == filtered {
		t.Fatal("expected a rebuilt tree")
	}
	if unfiltered.Root().Value() != v {
		t.Errorf("expected rebuilt tree to wrap the same value")
	}

	count := func(tree *Tree) int {
		n := 0
		if err := tree.Walk(func(*Node) bool { n++; return true }); err != nil {
			t.Fatal(err)
		}
		return n
	}
	if got := count(filtered); got != 2 {
		t.Errorf("expected 2 nodes in the filtered tree, got %d", got)
	}
	if got := count(unfiltered); got != 4 {
		t.Errorf("expected 4 nodes in the unfiltered tree, got %d", got)
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	tree, err := NewTree([]interface{}{[]int{1, 2}, 3})
	if err != nil {
		t.Fatal(err)
	}
	var paths []string
	err = tree.Walk(func(n *Node) bool {
		paths = append(paths, n.Path().String())
		return n.Depth() == 0
	})
	if err != nil {
		t.Fatal(err)
	}
	expect := "<root> <root>[0] <root>[1]"
	got := ""
	for i, p := range paths {
		if i > 0 {
			got += " "
		}
		got += p
	}
	if got != expect {
		t.Errorf("want %q, got %q", expect, got)
	}
}
