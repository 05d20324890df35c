package deepequal

import (
	"errors"
	"fmt"
)

// ErrMaxDepth is returned when a traversal goes deeper than the configured
// depth ceiling. It usually means a filter or custom Spawner hid the member
// that would have closed a cycle
var ErrMaxDepth = errors.New("maximum traversal depth exceeded")

// StructuralError reports misuse of the tree API, like a node with a parent
// but no edge. Constructors panic with a *StructuralError, the public entry
// points recover it and return it as an error
type StructuralError struct {
	Op  string
	Msg string
}

// Error implements the error interface
func (e *StructuralError) Error() string {
	return fmt.Sprintf("deepequal: %s: %s", e.Op, e.Msg)
}

// MemberAccessError is returned when reading a member of a value fails
type MemberAccessError struct {
	Member Member
	Err    error
}

// Error implements the error interface
func (e *MemberAccessError) Error() string {
	return fmt.Sprintf("reading member %s of %s: %s", e.Member.Name, typeName(e.Member.DeclaringType), e.Err)
}

// Unwrap gives errors.Is and errors.As access to the underlying error
func (e *MemberAccessError) Unwrap() error {
	return e.Err
}

func structuralPanic(op, format string, args ...interface{}) {
	panic(&StructuralError{Op: op, Msg: fmt.Sprintf(format, args...)})
}

// recoverStructural converts a *StructuralError panic into an error return.
// any other panic keeps unwinding
func recoverStructural(err *error) {
	if r := recover(); r != nil {
		if se, ok := r.(*StructuralError); ok {
			*err = se
			return
		}
		panic(r)
	}
}
