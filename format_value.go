package deepequal

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"
)

// NullToken is how the default Formatter displays absent values
const NullToken = "null"

// ValueFormatter produces the display strings used in difference messages
type ValueFormatter interface {
	Format(v interface{}) string
}

// Formatter is the default ValueFormatter
type Formatter struct{}

// Format implements the ValueFormatter interface
func (Formatter) Format(v interface{}) string {
	return formatValue(reflect.ValueOf(v))
}

func formatValue(v reflect.Value) string {
	v = unwrap(v)
	if isNil(v) {
		return NullToken
	}
	if !v.CanInterface() {
		return typeName(v.Type()) + "{…}"
	}

	t := v.Type()
	switch {
	case t == uuidType:
		return strconv.Quote(v.Interface().(uuid.UUID).String())
	case t == decimalType:
		d := v.Interface().(apd.Decimal)
		return d.String()
	case t == decimalPtrType:
		return v.Interface().(*apd.Decimal).String()
	case t == durationType:
		return quoteString(fmt.Sprint(v.Interface()))
	case isBytes(t):
		return "0x" + hex.EncodeToString(byteSeq(v))
	}

	switch v.Kind() {
	case reflect.String:
		if s, ok := stringOf(v); ok && t.PkgPath() != "" {
			return quoteString(s)
		}
		return quoteString(v.String())
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case reflect.Float32:
		return "float32(" + strconv.FormatFloat(v.Float(), 'g', -1, 32) + ")"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if name, ok := enumName(v); ok {
			return name
		}
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if name, ok := enumName(v); ok {
			return name
		}
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Struct:
		if s, ok := stringOf(v); ok {
			return quoteUnlessNumeric(s)
		}
		return typeName(t) + "{…}"
	case reflect.Slice, reflect.Array, reflect.Map:
		if s, ok := stringOf(v); ok {
			return quoteUnlessNumeric(s)
		}
		return fmt.Sprintf("%s(len=%d)", typeName(t), v.Len())
	case reflect.Ptr:
		if s, ok := stringOf(v); ok {
			return quoteUnlessNumeric(s)
		}
		if e := v.Elem(); e.Kind() != reflect.Ptr {
			return "&" + formatValue(e)
		}
		return typeName(t)
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return typeName(t)
	}
	return quoteUnlessNumeric(fmt.Sprint(v.Interface()))
}

// enumName renders named integer types that implement fmt.Stringer as
// Type.Member, eg: Weekday.Monday
func enumName(v reflect.Value) (string, bool) {
	t := v.Type()
	if t.Name() == "" || t.PkgPath() == "" {
		return "", false
	}
	s, ok := stringOf(v)
	if !ok {
		return "", false
	}
	return t.Name() + "." + s, true
}

// stringOf calls v's String method if it has one. a panicking String method
// counts as not having one
func stringOf(v reflect.Value) (s string, ok bool) {
	str, isStringer := v.Interface().(fmt.Stringer)
	if !isStringer {
		return "", false
	}
	defer func() {
		if r := recover(); r != nil {
			s, ok = "", false
		}
	}()
	return str.String(), true
}

// quoteString double-quotes s. text containing quotes, newlines or tabs is
// wrapped in backquotes instead, text that can't be raw-quoted gets escaped
func quoteString(s string) string {
	special, rawOK := false, true
	for _, r := range s {
		switch {
		case r == '"' || r == '\n' || r == '\t':
			special = true
		case r == '`':
			rawOK = false
		case r == utf8.RuneError || (unicode.IsControl(r) && r != '\n' && r != '\t'):
			special, rawOK = true, false
		}
	}
	switch {
	case !special:
		return `"` + s + `"`
	case rawOK:
		return "`" + s + "`"
	}
	return strconv.Quote(s)
}

func quoteUnlessNumeric(s string) string {
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return s
	}
	return quoteString(s)
}
