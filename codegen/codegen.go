// Package codegen turns a deepequal tree back into go source. the output is a
// single gofmt'd expression that rebuilds the tree's value, handy for pasting
// the actual side of a failed comparison into a test as the new expectation
package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"

	"github.com/qri-io/deepequal"
)

// prefix wraps an expression in enough syntax for gofmt to accept it
const prefix = "package p\n\nvar v = "

var (
	timeType       = reflect.TypeOf(time.Time{})
	durationType   = reflect.TypeOf(time.Duration(0))
	uuidType       = reflect.TypeOf(uuid.UUID{})
	decimalType    = reflect.TypeOf(apd.Decimal{})
	decimalPtrType = reflect.TypeOf(&apd.Decimal{})
	bigIntType     = reflect.TypeOf(big.Int{})
	bigFloatType   = reflect.TypeOf(big.Float{})
	bigRatType     = reflect.TypeOf(big.Rat{})
)

// Generate emits a go expression that evaluates to the value t was built
// from. values reached twice are emitted once, later occurrences become
// nil with a comment naming the path of the first
func Generate(t *deepequal.Tree) (string, error) {
	if t == nil {
		return "", fmt.Errorf("codegen: nil tree")
	}
	g := &generator{}
	if err := g.node(t.Root()); err != nil {
		return "", err
	}

	src, err := format.Source([]byte(prefix + g.buf.String() + "\n"))
	if err != nil {
		return "", fmt.Errorf("codegen: formatting %q: %w", g.buf.String(), err)
	}
	return strings.TrimSuffix(strings.TrimPrefix(string(src), prefix), "\n"), nil
}

type generator struct {
	buf bytes.Buffer
}

func (g *generator) node(n *deepequal.Node) error {
	if n.IsDuplicate() {
		fmt.Fprintf(&g.buf, "nil /* same as %s */", n.Original().Path())
		return nil
	}

	v := reflect.ValueOf(n.Value())
	switch n.Kind() {
	case deepequal.Object:
		return g.object(n, v)
	case deepequal.Collection:
		return g.collection(n, v)
	}
	return g.leaf(v)
}

// object writes a struct literal keyed by member name
func (g *generator) object(n *deepequal.Node, v reflect.Value) error {
	children, err := n.Children()
	if err != nil {
		return err
	}
	t := v.Type()
	if t.Kind() == reflect.Ptr {
		g.buf.WriteString("&")
		t = t.Elem()
	}

	g.buf.WriteString(t.String() + "{")
	if len(children) > 0 {
		g.buf.WriteString("\n")
	}
	for _, ch := range children {
		m, _ := ch.Edge().Member()
		g.buf.WriteString(m.Name + ": ")
		if err := g.node(ch); err != nil {
			return err
		}
		g.buf.WriteString(",\n")
	}
	g.buf.WriteString("}")
	return nil
}

// collection writes slice, array & map literals
func (g *generator) collection(n *deepequal.Node, v reflect.Value) error {
	children, err := n.Children()
	if err != nil {
		return err
	}
	t := v.Type()
	if t.Kind() == reflect.Ptr {
		g.buf.WriteString("&")
		t = t.Elem()
	}

	g.buf.WriteString(t.String() + "{")
	if len(children) > 0 {
		g.buf.WriteString("\n")
	}
	for _, ch := range children {
		if key, ok := ch.Edge().Key(); ok {
			if err := g.leaf(reflect.ValueOf(key)); err != nil {
				return err
			}
			g.buf.WriteString(": ")
		}
		if err := g.node(ch); err != nil {
			return err
		}
		g.buf.WriteString(",\n")
	}
	g.buf.WriteString("}")
	return nil
}

func (g *generator) leaf(v reflect.Value) error {
	s, err := literal(v)
	if err != nil {
		return err
	}
	g.buf.WriteString(s)
	return nil
}

// literal renders a childless value
func literal(v reflect.Value) (string, error) {
	if !v.IsValid() {
		return "nil", nil
	}
	t := v.Type()

	switch t.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return "(" + t.String() + ")(nil)", nil
		}
		if t == decimalPtrType || t == reflect.PointerTo(bigIntType) || t == reflect.PointerTo(bigFloatType) || t == reflect.PointerTo(bigRatType) {
			return special(v)
		}
		elem, err := literal(v.Elem())
		if err != nil {
			return "", err
		}
		if k := t.Elem().Kind(); isComposite(v.Elem()) && (k == reflect.Struct || k == reflect.Slice || k == reflect.Array || k == reflect.Map) {
			return "&" + elem, nil
		}
		// only composite literals are addressable
		return "&[]" + t.Elem().String() + "{" + elem + "}[0]", nil
	case reflect.Slice, reflect.Map:
		if v.IsNil() {
			return t.String() + "(nil)", nil
		}
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		if v.IsNil() {
			return t.String() + "(nil)", nil
		}
		return "nil /* " + t.String() + " */", nil
	case reflect.Interface:
		if v.IsNil() {
			return "nil", nil
		}
		return literal(v.Elem())
	}

	if s, err := special(v); s != "" || err != nil {
		return s, err
	}
	if t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		if t.Elem().Kind() == reflect.Uint8 {
			return byteLiteral(v), nil
		}
	}
	if !v.CanInterface() {
		return t.String() + "{}", nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return convert(t, "bool", strconv.FormatBool(v.Bool())), nil
	case reflect.String:
		return convert(t, "string", strconv.Quote(v.String())), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return convert(t, "int", strconv.FormatInt(v.Int(), 10)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return convert(t, "", strconv.FormatUint(v.Uint(), 10)), nil
	case reflect.Float32:
		return convert(t, "", floatLiteral(v.Float(), 32)), nil
	case reflect.Float64:
		return convert(t, "float64", floatLiteral(v.Float(), 64)), nil
	case reflect.Complex64, reflect.Complex128:
		c := v.Complex()
		bits := 64
		if t.Kind() == reflect.Complex64 {
			bits = 32
		}
		return convert(t, "complex128", fmt.Sprintf("complex(%s, %s)", floatLiteral(real(c), bits), floatLiteral(imag(c), bits))), nil
	case reflect.Struct:
		// structs without exported fields are opaque
		return t.String() + "{}", nil
	}
	return "", fmt.Errorf("codegen: can't write a literal for %s", t)
}

// isComposite reports whether literal writes v as a composite literal rather
// than a call or conversion
func isComposite(v reflect.Value) bool {
	if s, err := special(v); s != "" || err != nil {
		return false
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Map:
		return !v.IsNil()
	}
	return true
}

// convert wraps lit in a conversion to t, unless t is the type lit already
// has when untyped
func convert(t reflect.Type, untyped, lit string) string {
	if t.String() == untyped {
		return lit
	}
	return t.String() + "(" + lit + ")"
}

func floatLiteral(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "math.NaN()"
	case math.IsInf(f, 1):
		return "math.Inf(1)"
	case math.IsInf(f, -1):
		return "math.Inf(-1)"
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func byteLiteral(v reflect.Value) string {
	parts := make([]string, v.Len())
	for i := range parts {
		parts[i] = fmt.Sprintf("0x%02x", v.Index(i).Uint())
	}
	return v.Type().String() + "{" + strings.Join(parts, ", ") + "}"
}

// special renders the value types that deepequal treats as primitives. it
// returns an empty string for anything else
func special(v reflect.Value) (string, error) {
	switch v.Type() {
	case timeType:
		return timeLiteral(v.Interface().(time.Time)), nil
	case durationType:
		return "time.Duration(" + strconv.FormatInt(v.Int(), 10) + ")", nil
	case uuidType:
		return "uuid.MustParse(" + strconv.Quote(v.Interface().(uuid.UUID).String()) + ")", nil
	case decimalType:
		d := v.Interface().(apd.Decimal)
		s, err := decimalLiteral(&d)
		if err != nil {
			return "", err
		}
		return "*" + s, nil
	case decimalPtrType:
		return decimalLiteral(v.Interface().(*apd.Decimal))
	case bigIntType:
		i := v.Interface().(big.Int)
		s, err := bigIntLiteral(&i)
		return deref(s, err)
	case reflect.PointerTo(bigIntType):
		return bigIntLiteral(v.Interface().(*big.Int))
	case bigFloatType:
		f := v.Interface().(big.Float)
		return deref(bigFloatLiteral(&f))
	case reflect.PointerTo(bigFloatType):
		return bigFloatLiteral(v.Interface().(*big.Float))
	case bigRatType:
		r := v.Interface().(big.Rat)
		return deref(bigRatLiteral(&r))
	case reflect.PointerTo(bigRatType):
		return bigRatLiteral(v.Interface().(*big.Rat))
	}
	return "", nil
}

func deref(s string, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return "*" + s, nil
}

func timeLiteral(t time.Time) string {
	loc := "time.UTC"
	switch {
	case t.Location() == time.Local:
		loc = "time.Local"
	case t.Location() != time.UTC:
		name, offset := t.Zone()
		loc = fmt.Sprintf("time.FixedZone(%q, %d)", name, offset)
	}
	return fmt.Sprintf("time.Date(%d, time.%s, %d, %d, %d, %d, %d, %s)",
		t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

func decimalLiteral(d *apd.Decimal) (string, error) {
	if d.Form != apd.Finite {
		return "", fmt.Errorf("codegen: can't write a literal for decimal %s", d)
	}
	coeff, err := strconv.ParseInt(d.Coeff.String(), 10, 64)
	if err != nil {
		return "", fmt.Errorf("codegen: decimal %s: %w", d, err)
	}
	if d.Negative {
		coeff = -coeff
	}
	return fmt.Sprintf("apd.New(%d, %d)", coeff, d.Exponent), nil
}

func bigIntLiteral(i *big.Int) (string, error) {
	if !i.IsInt64() {
		return "", fmt.Errorf("codegen: big.Int %s overflows int64", i)
	}
	return fmt.Sprintf("big.NewInt(%d)", i.Int64()), nil
}

func bigFloatLiteral(f *big.Float) (string, error) {
	x, acc := f.Float64()
	if acc != big.Exact {
		return "", fmt.Errorf("codegen: big.Float %s doesn't fit a float64", f)
	}
	return "big.NewFloat(" + floatLiteral(x, 64) + ")", nil
}

func bigRatLiteral(r *big.Rat) (string, error) {
	if !r.Num().IsInt64() || !r.Denom().IsInt64() {
		return "", fmt.Errorf("codegen: big.Rat %s overflows int64", r)
	}
	return fmt.Sprintf("big.NewRat(%d, %d)", r.Num().Int64(), r.Denom().Int64()), nil
}
