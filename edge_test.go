package deepequal

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

type person struct {
	ID       int
	Name     string
	FullName string
	Friends  []*person
	Tags     map[string]int
	Self     *person
	secret   string
}

type pet struct {
	Name string
}

func mustMember(t *testing.T, v interface{}, name string) Member {
	t.Helper()
	m, err := MemberOf(reflect.TypeOf(v), name)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestMemberOf(t *testing.T) {
	m := mustMember(t, person{}, "Name")
	if m.Name != "Name" || m.DeclaringType != reflect.TypeOf(person{}) || m.Index != 1 {
		t.Errorf("unexpected member: %#v", m)
	}

	// pointers resolve to their struct
	pm := mustMember(t, &person{}, "Name")
	if !pm.Equal(m) {
		t.Errorf("expected pointer lookup to find the same member")
	}

	if _, err := MemberOf(reflect.TypeOf(person{}), "secret"); err == nil {
		t.Errorf("expected error looking up unexported member")
	}
	if _, err := MemberOf(reflect.TypeOf(person{}), "Nope"); err == nil {
		t.Errorf("expected error looking up missing member")
	}
	if _, err := MemberOf(reflect.TypeOf(1), "Name"); err == nil {
		t.Errorf("expected error looking up member of an int")
	}
}

func TestEdgeEqual(t *testing.T) {
	personName := mustMember(t, person{}, "Name")
	petName := mustMember(t, pet{}, "Name")

	cases := []struct {
		description string
		a, b        Edge
		expect      bool
	}{
		{"roots", RootEdge(), RootEdge(), true},
		{"same member", MemberEdge(personName), MemberEdge(personName), true},
		{"same name, different declaring type", MemberEdge(personName), MemberEdge(petName), false},
		{"same index", IndexEdge(3), IndexEdge(3), true},
		{"different index", IndexEdge(3), IndexEdge(4), false},
		{"same key", KeyEdge("a"), KeyEdge("a"), true},
		{"different key", KeyEdge("a"), KeyEdge("b"), false},
		{"key types differ", KeyEdge(1), KeyEdge(int64(1)), false},
		{"nil keys", KeyEdge(nil), KeyEdge(nil), true},
		{"NaN keys", KeyEdge(math.NaN()), KeyEdge(math.NaN()), true},
		{"NaN vs number", KeyEdge(math.NaN()), KeyEdge(1.0), false},
		{"NaN keys of different types", KeyEdge(math.NaN()), KeyEdge(float32(math.NaN())), false},
		{"index vs key", IndexEdge(1), KeyEdge(1), false},
		{"root vs index", RootEdge(), IndexEdge(0), false},
	}

	for i, c := range cases {
		if got := c.a.Equal(c.b); got != c.expect {
			t.Errorf("%d %s: want %t, got %t", i, c.description, c.expect, got)
		}
		if got := c.b.Equal(c.a); got != c.expect {
			t.Errorf("%d %s (reversed): want %t, got %t", i, c.description, c.expect, got)
		}
	}
}

func TestEdgeString(t *testing.T) {
	cases := []struct {
		edge   Edge
		expect string
	}{
		{RootEdge(), ""},
		{MemberEdge(mustMember(t, person{}, "Name")), ".Name"},
		{IndexEdge(3), "[3]"},
		{KeyEdge("k"), "[k]"},
		{KeyEdge(42), "[42]"},
	}
	for i, c := range cases {
		if got := c.edge.String(); got != c.expect {
			t.Errorf("%d: want %q, got %q", i, c.expect, got)
		}
	}
}

func TestIndexEdgeNegative(t *testing.T) {
	defer func() {
		r := recover()
		se, ok := r.(*StructuralError)
		if !ok {
			t.Fatalf("expected *StructuralError panic, got %#v", r)
		}
		var target *StructuralError
		if !errors.As(se, &target) {
			t.Errorf("expected errors.As to find a StructuralError")
		}
	}()
	IndexEdge(-1)
}

func TestEdgeResolve(t *testing.T) {
	p := &person{Name: "ada", Friends: []*person{{Name: "grace"}}, Tags: map[string]int{"x": 1}}
	name := MemberEdge(mustMember(t, person{}, "Name"))
	petName := MemberEdge(mustMember(t, pet{}, "Name"))

	cases := []struct {
		description string
		edge        Edge
		parent      interface{}
		expect      interface{}
		ok          bool
	}{
		{"root returns parent", RootEdge(), 5, 5, true},
		{"root of nil is nil", RootEdge(), nil, nil, true},
		{"member through pointer", name, p, "ada", true},
		{"member of struct value", name, *p, "ada", true},
		{"member of another type", petName, p, nil, false},
		{"member of nil", name, nil, nil, false},
		{"member of nil pointer", name, (*person)(nil), nil, false},
		{"index in range", IndexEdge(1), []int{1, 2}, 2, true},
		{"index out of range", IndexEdge(2), []int{1, 2}, nil, false},
		{"index of array", IndexEdge(0), [2]string{"a", "b"}, "a", true},
		{"index of map", IndexEdge(0), map[int]int{0: 1}, nil, false},
		{"key present", KeyEdge("x"), p.Tags, 1, true},
		{"key absent", KeyEdge("y"), p.Tags, nil, false},
		{"key of wrong type", KeyEdge(1), p.Tags, nil, false},
		{"key of slice", KeyEdge("x"), []int{1}, nil, false},
		{"NaN key", KeyEdge(math.NaN()), map[float64]string{math.NaN(): "n", 1: "one"}, "n", true},
		{"NaN key absent", KeyEdge(math.NaN()), map[float64]string{1: "one"}, nil, false},
		{"interface element", IndexEdge(0), []interface{}{"v"}, "v", true},
	}

	for i, c := range cases {
		got, ok := c.edge.Resolve(c.parent)
		if ok != c.ok {
			t.Errorf("%d %s: want ok %t, got %t", i, c.description, c.ok, ok)
			continue
		}
		if !reflect.DeepEqual(got, c.expect) {
			t.Errorf("%d %s: want %#v, got %#v", i, c.description, c.expect, got)
		}
	}
}
