package deepequal

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
)

// errStop unwinds a walk when the consumer stops iterating
var errStop = errors.New("stop")

// Differ compares object graphs. a Differ holds no per-comparison state and
// is safe for concurrent use
type Differ struct {
	cfg *Config
}

// New creates a Differ configured by zero or more options
func New(opts ...Option) *Differ {
	return &Differ{cfg: newConfig(opts)}
}

// Diff collects the differences between expected & actual
func Diff(expected, actual interface{}, opts ...Option) ([]*Difference, error) {
	return New(opts...).Diff(expected, actual)
}

// Equal reports whether expected & actual have no differences
func Equal(expected, actual interface{}, opts ...Option) (bool, error) {
	return New(opts...).Equal(expected, actual)
}

// Hash computes a structural hash of v that agrees with Equal. values that
// are only equal within a tolerance may still hash differently
func Hash(v interface{}, opts ...Option) (uint64, error) {
	return New(opts...).Hash(v)
}

// Differences lazily compares expected & actual, either of which may be a
// *Tree. differences are produced depth first, parents before children,
// children in the order of the expected tree. a fatal error is yielded once,
// after which iteration ends. each iteration re-runs the comparison
func (d *Differ) Differences(expected, actual interface{}) iter.Seq2[*Difference, error] {
	return func(yield func(*Difference, error) bool) {
		err := d.walk(expected, actual, func(diff *Difference) bool {
			return yield(diff, nil)
		})
		if err != nil {
			yield(nil, err)
		}
	}
}

// Diff collects all differences between expected & actual
func (d *Differ) Diff(expected, actual interface{}) ([]*Difference, error) {
	var diffs []*Difference
	for diff, err := range d.Differences(expected, actual) {
		if err != nil {
			return diffs, err
		}
		diffs = append(diffs, diff)
	}
	return diffs, nil
}

// Equal reports whether expected & actual have no differences. it stops at
// the first difference
func (d *Differ) Equal(expected, actual interface{}) (bool, error) {
	for _, err := range d.Differences(expected, actual) {
		if err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

// Hash computes a structural hash of v, which may be a *Tree
func (d *Differ) Hash(v interface{}) (sum uint64, err error) {
	defer recoverStructural(&err)
	t := d.cfg.treeOf(v)
	return newTreeHasher(d.cfg).hash(t.root)
}

func (d *Differ) walk(expected, actual interface{}, emit func(*Difference) bool) (err error) {
	defer recoverStructural(&err)

	w := &walker{
		cfg:      d.cfg,
		expected: d.cfg.treeOf(expected),
		actual:   d.cfg.treeOf(actual),
		emit:     emit,
	}
	err = w.compare(w.expected.root, w.actual.root)
	if d.cfg.Stats != nil {
		*d.cfg.Stats = w.stats
	}

	if errors.Is(err, errStop) {
		return nil
	}
	if err != nil {
		d.cfg.Logger.Error("comparison failed", "err", err)
	}
	return err
}

// walker holds the state of a single comparison
type walker struct {
	cfg      *Config
	expected *Tree
	actual   *Tree
	emit     func(*Difference) bool
	stats    Stats
}

// compare recursively compares an expected & actual node
func (w *walker) compare(e, a *Node) error {
	w.stats.Expected++
	w.stats.Actual++

	if e.depth > w.cfg.MaxDepth || a.depth > w.cfg.MaxDepth {
		return fmt.Errorf("%w: comparing %s at depth %d", ErrMaxDepth, e.Path(), e.depth)
	}

	path := e.Path()
	if actualPath := a.Path(); !path.Equal(actualPath) {
		return w.report(DTPath, e, a, path, "expected node at "+path.String()+" but was at "+actualPath.String())
	}

	if e.original != nil || a.original != nil {
		return w.compareAliases(e, a, path)
	}

	if e.kind != a.kind {
		tmpl := fmt.Sprintf("expected %s (%s) but was %s (%s)", expectedPlaceholder, e.kind, actualPlaceholder, a.kind)
		return w.report(DTKind, e, a, path, tmpl)
	}

	expChildren, err := e.Children()
	if err != nil {
		return err
	}
	actChildren, err := a.Children()
	if err != nil {
		return err
	}

	if len(expChildren) != len(actChildren) {
		tmpl := fmt.Sprintf("expected %d children but had %d", len(expChildren), len(actChildren))
		if err := w.report(DTCount, e, a, path, tmpl); err != nil {
			return err
		}
	}

	matched := make([]bool, len(actChildren))
	for i, ec := range expChildren {
		j := matchEdge(actChildren, matched, ec.edge, i)
		if j < 0 {
			tmpl := "missing child at edge " + ec.edge.String()
			if err := w.report(DTMissing, ec, a, ec.Path(), tmpl); err != nil {
				return err
			}
			continue
		}
		matched[j] = true
		if err := w.compare(ec, actChildren[j]); err != nil {
			return err
		}
	}
	for j, ac := range actChildren {
		if matched[j] {
			continue
		}
		tmpl := "unexpected child at edge " + ac.edge.String() + " with value " + actualPlaceholder
		if err := w.report(DTUnexpected, e, ac, ac.Path(), tmpl); err != nil {
			return err
		}
	}

	// objects whose every member was filtered out have nothing left to compare
	if len(expChildren) == 0 && len(actChildren) == 0 && (e.kind == Primitive || e.kind == Unknown) {
		if !w.cfg.Comparer.Equal(e.Value(), a.Value()) {
			return w.report(DTValue, e, a, path, "expected value "+expectedPlaceholder+" but was "+actualPlaceholder)
		}
	}
	return nil
}

// matchEdge finds the unmatched actual child reached by edge. the child at
// the same position is tried first, which keeps lists & structs linear
func matchEdge(children []*Node, matched []bool, edge Edge, hint int) int {
	if hint < len(children) && !matched[hint] && children[hint].edge.Equal(edge) {
		return hint
	}
	for j, ch := range children {
		if !matched[j] && ch.edge.Equal(edge) {
			return j
		}
	}
	return -1
}

// compareAliases checks a duplicate against its counterpart. the counterpart
// must be the same instance the other tree holds at the duplicate's original
// path. unresolvable paths are not differences
func (w *walker) compareAliases(e, a *Node, path EdgePath) error {
	if e.original != nil {
		origPath := e.original.Path()
		resolved, ok := origPath.resolveValue(w.actual.root.value)
		if !ok || w.sameInstance(resolved, a.value) {
			return nil
		}
		tmpl := "expected same instance as " + origPath.String() + " (" + expectedPlaceholder + ") but was " + actualPlaceholder
		return w.report(DTAlias, e, a, path, tmpl)
	}

	origPath := a.original.Path()
	resolved, ok := origPath.resolveValue(w.expected.root.value)
	if !ok || w.sameInstance(resolved, e.value) {
		return nil
	}
	tmpl := "expected " + expectedPlaceholder + " but was same instance as " + origPath.String() + " (" + actualPlaceholder + ")"
	return w.report(DTAlias, e, a, path, tmpl)
}

// sameInstance compares reference values by identity & anything else with
// the configured comparer
func (w *walker) sameInstance(a, b reflect.Value) bool {
	a, b = unwrap(a), unwrap(b)
	ai, aok := identityOf(a)
	bi, bok := identityOf(b)
	if aok && bok {
		return ai == bi
	}
	return w.cfg.Comparer.Equal(valueOf(a), valueOf(b))
}

// report hands a difference to the consumer, returning errStop if the
// consumer is done
func (w *walker) report(typ DiffType, e, a *Node, path EdgePath, tmpl string) error {
	diff := newDifference(typ, e, a, path, tmpl, w.cfg.Formatter.Format(e.Value()), w.cfg.Formatter.Format(a.Value()))
	w.stats.count(diff)
	if !w.emit(diff) {
		return errStop
	}
	return nil
}
