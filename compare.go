package deepequal

import (
	"bytes"
	"hash"
	"io"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/apd/v3"
)

// ValueComparer decides equality of leaf values. Hash must agree with Equal:
// equal values must hash the same
type ValueComparer interface {
	Equal(a, b interface{}) bool
	Hash(v interface{}) uint64
}

// NewHash returns a new hash interface, wrapped in a function for easy
// hash algorithm switching, package consumers can override NewHash
// with their own desired hash.Hash64 implementation. default is xxhash for
// fast, cheap, (non-cryptographic) hashing
var NewHash = func() hash.Hash64 {
	return xxhash.New()
}

// Tolerance sets how far apart two numeric or time values may be and still
// compare equal
type Tolerance struct {
	Float64 float64
	Float32 float32
	// Decimal applies to apd.Decimal values. nil means exact comparison
	Decimal *apd.Decimal
	// Time applies to time.Time & time.Duration values
	Time time.Duration
}

// DefaultTolerance is each type's smallest representable increment
func DefaultTolerance() Tolerance {
	return Tolerance{
		Float64: math.SmallestNonzeroFloat64,
		Float32: math.SmallestNonzeroFloat32,
	}
}

// Comparer is the default ValueComparer
//
// reference-identical values are equal, as are two nulls. pointers are
// followed, so two pointers to equal values are equal. values of the same
// type get special rules: floats & complex numbers, decimals and times are
// compared within a Tolerance (NaN equals NaN), byte sequences byte by byte,
// and types with an `Equal(T) bool` method use it. everything else falls back
// to == for comparable types and reflect.DeepEqual otherwise. funcs compare
// by code pointer
type Comparer struct {
	tol Tolerance
}

// NewComparer creates a Comparer with the given tolerances
func NewComparer(tol Tolerance) *Comparer {
	return &Comparer{tol: tol}
}

// Tolerance returns the comparer's tolerances
func (c *Comparer) Tolerance() Tolerance { return c.tol }

// Equal implements the ValueComparer interface
func (c *Comparer) Equal(a, b interface{}) bool {
	return c.equalValues(reflect.ValueOf(a), reflect.ValueOf(b))
}

func (c *Comparer) equalValues(a, b reflect.Value) bool {
	// pointers are compared by what they point to
	for i := 0; ; i++ {
		a, b = unwrap(a), unwrap(b)
		if sameReference(a, b) {
			return true
		}
		an, bn := isNil(a), isNil(b)
		if an || bn {
			return an && bn
		}
		if i == maxIndirections || a.Kind() != reflect.Ptr || a.Type() != b.Type() || a.Type() == decimalPtrType {
			break
		}
		a, b = a.Elem(), b.Elem()
	}

	if a.Type() == b.Type() {
		if eq, ok := c.specialEqual(a, b); ok {
			return eq
		}
	}
	return genericEqual(a, b)
}

func sameReference(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() || a.Type() != b.Type() {
		return false
	}
	switch a.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return !a.IsNil() && a.Pointer() == b.Pointer()
	case reflect.Slice:
		return !a.IsNil() && a.Pointer() == b.Pointer() && a.Len() == b.Len()
	}
	return false
}

// specialEqual handles the type-specific rules. ok is false if no rule
// applies
func (c *Comparer) specialEqual(a, b reflect.Value) (eq, ok bool) {
	t := a.Type()
	switch {
	case t == timeType:
		ta, tb := a.Interface().(time.Time), b.Interface().(time.Time)
		return durationWithin(ta.Sub(tb), c.tol.Time), true
	case t == durationType:
		return durationWithin(time.Duration(a.Int()-b.Int()), c.tol.Time), true
	case t == decimalType:
		da, db := a.Interface().(apd.Decimal), b.Interface().(apd.Decimal)
		return c.decimalEqual(&da, &db), true
	case t == decimalPtrType:
		return c.decimalEqual(a.Interface().(*apd.Decimal), b.Interface().(*apd.Decimal)), true
	case isBytes(t):
		return bytes.Equal(byteSeq(a), byteSeq(b)), true
	case t == bigIntType:
		ia, ib := a.Interface().(big.Int), b.Interface().(big.Int)
		return ia.Cmp(&ib) == 0, true
	case t == bigFloatType:
		fa, fb := a.Interface().(big.Float), b.Interface().(big.Float)
		return fa.Cmp(&fb) == 0, true
	case t == bigRatType:
		ra, rb := a.Interface().(big.Rat), b.Interface().(big.Rat)
		return ra.Cmp(&rb) == 0, true
	}

	switch a.Kind() {
	case reflect.Float32:
		return floatWithin(a.Float(), b.Float(), float64(c.tol.Float32)), true
	case reflect.Float64:
		return floatWithin(a.Float(), b.Float(), c.tol.Float64), true
	case reflect.Complex64:
		ca, cb := a.Complex(), b.Complex()
		d := float64(c.tol.Float32)
		return floatWithin(real(ca), real(cb), d) && floatWithin(imag(ca), imag(cb), d), true
	case reflect.Complex128:
		ca, cb := a.Complex(), b.Complex()
		d := c.tol.Float64
		return floatWithin(real(ca), real(cb), d) && floatWithin(imag(ca), imag(cb), d), true
	}

	return callEqualMethod(a, b)
}

func floatWithin(a, b, delta float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	if a == b {
		return true
	}
	return math.Abs(a-b) <= delta
}

func durationWithin(d, delta time.Duration) bool {
	if d < 0 {
		d = -d
	}
	return d <= delta
}

func (c *Comparer) decimalEqual(a, b *apd.Decimal) bool {
	if c.tol.Decimal == nil || c.tol.Decimal.IsZero() {
		return a.Cmp(b) == 0
	}
	var d apd.Decimal
	if _, err := apd.BaseContext.Sub(&d, a, b); err != nil {
		return a.Cmp(b) == 0
	}
	d.Abs(&d)
	return d.Cmp(c.tol.Decimal) <= 0
}

// callEqualMethod uses a's `Equal(T) bool` method when it has one
func callEqualMethod(a, b reflect.Value) (eq, ok bool) {
	if !a.CanInterface() {
		return false, false
	}
	m := a.MethodByName("Equal")
	if !m.IsValid() {
		return false, false
	}
	mt := m.Type()
	if mt.NumIn() != 1 || mt.NumOut() != 1 || mt.Out(0).Kind() != reflect.Bool || !b.Type().AssignableTo(mt.In(0)) {
		return false, false
	}
	defer func() {
		if r := recover(); r != nil {
			eq, ok = false, false
		}
	}()
	return m.Call([]reflect.Value{b})[0].Bool(), true
}

func hasEqualMethod(t reflect.Type) bool {
	m, ok := t.MethodByName("Equal")
	if !ok {
		return false
	}
	// method types from reflect.Type include the receiver
	mt := m.Type
	return mt.NumIn() == 2 && mt.NumOut() == 1 && mt.Out(0).Kind() == reflect.Bool && t.AssignableTo(mt.In(1))
}

func genericEqual(a, b reflect.Value) bool {
	if a.Type() != b.Type() {
		return false
	}
	if a.Kind() == reflect.Func {
		return a.Pointer() == b.Pointer()
	}
	if a.Comparable() && b.Comparable() {
		return a.Equal(b)
	}
	if a.CanInterface() && b.CanInterface() {
		return reflect.DeepEqual(a.Interface(), b.Interface())
	}
	return false
}

// Hash implements the ValueComparer interface. values compared with a
// tolerance or an Equal method only contribute their type, so that values
// within tolerance of each other still hash alike
func (c *Comparer) Hash(v interface{}) uint64 {
	return hashLeaf(reflect.ValueOf(v))
}

func hashLeaf(v reflect.Value) uint64 {
	v = indirect(v)
	if !v.IsValid() {
		return 0
	}
	h := NewHash()
	t := v.Type()
	io.WriteString(h, t.String())

	switch {
	case primitiveTypes[t] && t != uuidType:
		return h.Sum64()
	case isBytes(t):
		h.Write(byteSeq(v))
		return h.Sum64()
	case hasEqualMethod(t):
		return h.Sum64()
	}

	var buf []byte
	switch v.Kind() {
	case reflect.String:
		io.WriteString(h, v.String())
	case reflect.Bool:
		buf = strconv.AppendBool(buf, v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		buf = strconv.AppendInt(buf, v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		buf = strconv.AppendUint(buf, v.Uint(), 10)
	}
	h.Write(buf)
	return h.Sum64()
}
