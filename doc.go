// Package deepequal compares arbitrary go object graphs for deep equality &
// explains every way two graphs differ. It's intended for test assertions,
// where "not equal" isn't a useful failure message & the values being
// compared are structs, pointers, maps and slices that may share references
// or contain cycles
//
// Instead of walking values directly, deepequal views each value as a Tree
// of Nodes. a node's children are produced on demand by a Spawner:
//
//   - structs have one child per exported field
//   - slices & arrays have one child per element
//   - maps have one child per entry, in sorted key order
//
// scalars, times, decimals, uuids & byte sequences are leaves
//
// the default spawner remembers every reference value it hands out. a value
// reached a second time by a different path becomes a childless duplicate
// node, which turns cyclic graphs into finite trees. when comparing, the
// difference engine checks that duplicates alias the same way on both sides
//
// Differences are matched by edge (field, index or key) rather than position,
// so a missing map entry produces one difference instead of a cascade.
// Filters exclude members from comparison by name, by identity or by
// predicate, and a Tolerance relaxes equality for floats, decimals & times
//
// the assert sub-package adapts deepequal to testify-style assertions, and
// the codegen sub-package turns a Tree back into go source
package deepequal
