package deepequal

import (
	"errors"
	"math"
	"math/big"
	"reflect"
	"sync"
	"testing"
	"time"
	"unsafe"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

type link struct {
	Value int
	Next  *link
}

type Animal struct {
	Species string
}

type embedded struct {
	Animal
	Age int
}

func TestClassify(t *testing.T) {
	var nilMap map[string]int
	var nilSlice []int
	var nilPtr *person

	cases := []struct {
		description string
		input       interface{}
		expect      NodeKind
	}{
		{"nil", nil, Primitive},
		{"nil pointer", nilPtr, Primitive},
		{"nil map", nilMap, Primitive},
		{"nil slice", nilSlice, Primitive},
		{"int", 1, Primitive},
		{"string", "a", Primitive},
		{"float", 1.5, Primitive},
		{"complex", complex(1, 2), Primitive},
		{"bytes", []byte("a"), Primitive},
		{"byte array", [2]byte{1, 2}, Primitive},
		{"time", time.Now(), Primitive},
		{"duration", time.Second, Primitive},
		{"uuid", uuid.New(), Primitive},
		{"decimal", *apd.New(1, 0), Primitive},
		{"decimal pointer", apd.New(1, 0), Primitive},
		{"big int", *big.NewInt(1), Primitive},
		{"opaque struct", struct{ a int }{}, Primitive},
		{"pointer to int", new(int), Primitive},
		{"struct", pet{}, Object},
		{"pointer to struct", &pet{}, Object},
		{"slice", []int{}, Collection},
		{"array", [1]int{}, Collection},
		{"map", map[string]int{}, Collection},
		{"func", func() {}, Unknown},
		{"chan", make(chan int), Unknown},
		{"mutex", sync.Mutex{}, Unknown},
		{"unsafe pointer", unsafe.Pointer(nil), Unknown},
		{"uintptr", uintptr(1), Unknown},
		{"reflect value", reflect.ValueOf(1), Unknown},
	}

	for i, c := range cases {
		if got := Classify(c.input); got != c.expect {
			t.Errorf("%d %s: want %s, got %s", i, c.description, c.expect, got)
		}
	}
}

func childPaths(t *testing.T, n *Node) []string {
	t.Helper()
	children, err := n.Children()
	if err != nil {
		t.Fatal(err)
	}
	paths := make([]string, len(children))
	for i, ch := range children {
		paths[i] = ch.Path().String()
	}
	return paths
}

func TestBasicSpawner(t *testing.T) {
	cases := []struct {
		description string
		input       interface{}
		expect      []string
	}{
		{"primitive", 1, []string{}},
		{"struct fields in declaration order, unexported skipped", person{},
			[]string{"<root>.ID", "<root>.Name", "<root>.FullName", "<root>.Friends", "<root>.Tags", "<root>.Self"}},
		{"embedded struct is one member", embedded{}, []string{"<root>.Animal", "<root>.Age"}},
		{"slice", []string{"a", "b"}, []string{"<root>[0]", "<root>[1]"}},
		{"string keys sorted", map[string]int{"b": 1, "a": 2, "c": 3}, []string{"<root>[a]", "<root>[b]", "<root>[c]"}},
		{"int keys sorted numerically", map[int]bool{10: true, 2: true, -1: true}, []string{"<root>[-1]", "<root>[2]", "<root>[10]"}},
		{"bool keys false first", map[bool]int{true: 1, false: 0}, []string{"<root>[false]", "<root>[true]"}},
		{"mixed interface keys", map[interface{}]int{"b": 1, 2: 2}, []string{"<root>[2]", "<root>[b]"}},
		{"NaN key sorts first", map[float64]int{2: 1, math.NaN(): 0}, []string{"<root>[NaN]", "<root>[2]"}},
	}

	for i, c := range cases {
		n := NewNode(c.input, nil, RootEdge(), nil)
		got := childPaths(t, n)
		if diff := cmp.Diff(c.expect, got); diff != "" {
			t.Errorf("%d %s: mismatch (-want +got):\n%s", i, c.description, diff)
		}
	}
}

func TestBasicSpawnerNaNKey(t *testing.T) {
	n := NewNode(map[float64]string{math.NaN(): "n"}, nil, RootEdge(), nil)
	children, err := n.Children()
	if err != nil {
		t.Fatal(err)
	}
	if len(children) != 1 {
		t.Fatalf("expected one child, got %d", len(children))
	}
	if got := children[0].Value(); got != "n" {
		t.Errorf("expected the NaN entry's value, got %#v", got)
	}
}

func TestBasicSpawnerMaxDepth(t *testing.T) {
	s := &BasicSpawner{MaxDepth: 1}
	root := NewNode([][]int{{1}}, nil, RootEdge(), s)
	children, err := root.Children()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := children[0].Children(); !errors.Is(err, ErrMaxDepth) {
		t.Errorf("expected ErrMaxDepth, got %v", err)
	}
}

func TestNewNodeParentEdgeMismatch(t *testing.T) {
	root := NewNode(1, nil, RootEdge(), nil)

	cases := []struct {
		description string
		parent      *Node
		edge        Edge
	}{
		{"parent without edge", root, RootEdge()},
		{"edge without parent", nil, IndexEdge(0)},
	}
	for i, c := range cases {
		func() {
			defer func() {
				if _, ok := recover().(*StructuralError); !ok {
					t.Errorf("%d %s: expected *StructuralError panic", i, c.description)
				}
			}()
			NewNode(1, c.parent, c.edge, nil)
		}()
	}
}

func TestDuplicateSpawnerCycle(t *testing.T) {
	l := &link{Value: 1}
	l.Next = l

	tree, err := NewTree(l)
	if err != nil {
		t.Fatal(err)
	}

	var visited []*Node
	if err := tree.Walk(func(n *Node) bool {
		visited = append(visited, n)
		return true
	}); err != nil {
		t.Fatal(err)
	}

	// root, root.Value, root.Next
	if len(visited) != 3 {
		t.Fatalf("expected 3 nodes, got %d: %v", len(visited), visited)
	}
	next := visited[2]
	if !next.IsDuplicate() {
		t.Fatalf("expected %s to be a duplicate", next)
	}
	if next.Original() != tree.Root() {
		t.Errorf("expected duplicate's original to be the root")
	}
	if children, _ := next.Children(); len(children) != 0 {
		t.Errorf("duplicates must not have children")
	}
}

func TestDuplicateSpawnerSharedReference(t *testing.T) {
	shared := &pet{Name: "rex"}
	v := struct {
		A *pet
		B *pet
		C pet
		D pet
	}{shared, shared, *shared, *shared}

	tree, err := NewTree(v)
	if err != nil {
		t.Fatal(err)
	}
	children, err := tree.Root().Children()
	if err != nil {
		t.Fatal(err)
	}

	dups := []bool{}
	for _, ch := range children {
		dups = append(dups, ch.IsDuplicate())
	}
	// struct values are copies & never alias
	if diff := cmp.Diff([]bool{false, true, false, false}, dups); diff != "" {
		t.Errorf("duplicate mismatch (-want +got):\n%s", diff)
	}
	if orig := children[1].Original(); orig != children[0] {
		t.Errorf("expected B to be a duplicate of A, got %v", orig)
	}
}

func TestDuplicateSpawnerRevisit(t *testing.T) {
	shared := &pet{Name: "rex"}
	tree, err := NewTree([]*pet{shared, shared})
	if err != nil {
		t.Fatal(err)
	}

	// a second traversal of the same tree must see the same shape
	for pass := 0; pass < 2; pass++ {
		children, err := tree.Root().Children()
		if err != nil {
			t.Fatal(err)
		}
		if children[0].IsDuplicate() || !children[1].IsDuplicate() {
			t.Errorf("pass %d: expected only the second element to be a duplicate", pass)
		}
	}
}

func TestDuplicateSpawnerNesting(t *testing.T) {
	defer func() {
		if _, ok := recover().(*StructuralError); !ok {
			t.Errorf("expected *StructuralError panic")
		}
	}()
	inner := NewDuplicateSpawner(&BasicSpawner{}, nil)
	NewDuplicateSpawner(NewFilteredSpawner(inner, NewFilter()), nil)
}

func TestFilteredSpawner(t *testing.T) {
	f := NewFilter(ExcludeNames("fullname", "TAGS"))
	s := NewFilteredSpawner(&BasicSpawner{}, f)
	n := NewNode(person{}, nil, RootEdge(), s)

	expect := []string{"<root>.ID", "<root>.Name", "<root>.Friends", "<root>.Self"}
	if diff := cmp.Diff(expect, childPaths(t, n)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if s.Filter() != f {
		t.Errorf("expected spawner to report its filter")
	}
}
