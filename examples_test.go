package deepequal

import (
	"encoding/json"
	"fmt"
	"os"
)

func Example() {
	type Employee struct {
		Name    string
		Manager *Employee
		Skills  []string
	}

	boss := &Employee{Name: "ada"}
	boss.Manager = boss

	expected := &Employee{Name: "grace", Manager: boss, Skills: []string{"cobol", "navy"}}
	actual := &Employee{Name: "grace", Manager: boss, Skills: []string{"cobol"}}

	// Diff produces every difference between the two graphs, cycles included
	diffs, err := Diff(expected, actual)
	if err != nil {
		panic(err)
	}
	for _, d := range diffs {
		fmt.Println(d)
	}
	// Output:
	// <root>.Skills: expected 2 children but had 1
	// <root>.Skills[1]: missing child at edge [1]
}

func ExampleDiffer_Differences() {
	expected := map[string]interface{}{"a": 100, "baz": map[string]interface{}{"d": "apples-and-oranges"}}
	actual := map[string]interface{}{"a": 99, "baz": map[string]interface{}{"d": "apples-and-oranges", "e": true}}

	// differences are produced lazily, stopping early skips the rest of the walk
	for d, err := range New().Differences(expected, actual) {
		if err != nil {
			panic(err)
		}
		fmt.Println(d.Type, d)
	}
	// Output:
	// ~ <root>[a]: expected value 100 but was 99
	// # <root>[baz]: expected 1 children but had 2
	// + <root>[baz][e]: unexpected child at edge [e] with value true
}

func ExampleDifference_MarshalJSON() {
	diffs, err := Diff([]int{1, 2}, []int{1, 3})
	if err != nil {
		panic(err)
	}

	// diffs use a custom compact JSON Marshaller. json.MarshalIndent would
	// escape the angle brackets in <root>
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(diffs); err != nil {
		panic(err)
	}
	// Output:
	// [
	//   [
	//     "~",
	//     "<root>[1]",
	//     "2",
	//     "3",
	//     "expected value 2 but was 3"
	//   ]
	// ]
}

func ExampleNewFilter() {
	type User struct {
		ID        int
		Name      string
		UpdatedAt string
	}

	f := NewFilter(ExcludeNames("updatedat"))
	eq, err := Equal(User{1, "ada", "monday"}, User{1, "ada", "tuesday"}, WithFilter(f))
	if err != nil {
		panic(err)
	}
	fmt.Println(eq)
	// Output: true
}
