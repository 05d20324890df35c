package deepequal

import (
	"math/big"
	"reflect"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"
)

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

// primitiveTypes are composite go types that behave as single values
var primitiveTypes = map[reflect.Type]bool{
	timeType:       true,
	durationType:   true,
	uuidType:       true,
	decimalType:    true,
	decimalPtrType: true,
	bigIntType:     true,
	bigFloatType:   true,
	bigRatType:     true,
}

// runtime-internal packages, nothing inside is worth walking
var opaquePackages = map[string]bool{
	"reflect":     true,
	"sync":        true,
	"sync/atomic": true,
	"unsafe":      true,
	"runtime":     true,
}

// maximum pointer hops indirect will follow, guards against `type P *P`
const maxIndirections = 64

// Classify reports the NodeKind for a value
//
// null values (nil pointers, interfaces, maps & slices) and scalar-like
// values are Primitive. slices, arrays & maps are Collection, structs with
// exported fields are Object. funcs, chans & runtime-internal types are
// Unknown
func Classify(v interface{}) NodeKind {
	return classify(reflect.ValueOf(v))
}

func classify(rv reflect.Value) NodeKind {
	v := indirect(rv)
	if !v.IsValid() {
		return Primitive
	}
	t := v.Type()
	if primitiveTypes[t] || isBytes(t) {
		return Primitive
	}
	if opaquePackages[t.PkgPath()] {
		return Unknown
	}

	switch v.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String:
		return Primitive
	case reflect.Slice, reflect.Map:
		if v.IsNil() {
			return Primitive
		}
		return Collection
	case reflect.Array:
		return Collection
	case reflect.Struct:
		if !hasExportedFields(t) {
			return Primitive
		}
		return Object
	}
	// Func, Chan, UnsafePointer, Uintptr
	return Unknown
}

func hasExportedFields(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() {
			return true
		}
	}
	return false
}

// isBytes reports whether t is a byte slice or byte array
func isBytes(t reflect.Type) bool {
	return (t.Kind() == reflect.Slice || t.Kind() == reflect.Array) && t.Elem().Kind() == reflect.Uint8
}

func byteSeq(v reflect.Value) []byte {
	if v.Kind() == reflect.Slice {
		return v.Bytes()
	}
	b := make([]byte, v.Len())
	reflect.Copy(reflect.ValueOf(b), v)
	return b
}

// unwrap strips non-nil interface wrappers
func unwrap(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	return v
}

// indirect follows interfaces & pointers down to a concrete value, returning
// the zero Value if it hits a nil along the way
func indirect(v reflect.Value) reflect.Value {
	for i := 0; v.IsValid() && i < maxIndirections; i++ {
		switch v.Kind() {
		case reflect.Ptr, reflect.Interface:
			if v.IsNil() {
				return reflect.Value{}
			}
			// pointer-typed primitives like *apd.Decimal stay as they are
			if v.Type() == decimalPtrType {
				return v
			}
			v = v.Elem()
		default:
			return v
		}
	}
	return v
}

// isNil reports whether v is absent or a nil reference of any kind
func isNil(v reflect.Value) bool {
	v = unwrap(v)
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}

// valueOf converts a reflect.Value back to an interface{}, returning nil for
// values that aren't valid or can't be exposed
func valueOf(v reflect.Value) interface{} {
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}
	return v.Interface()
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
