// Package member models the declared members of a test-fixture shape.
//
// A Shape is built once per fixture type by the Introspector and consumed by
// the preparation engines as a read-only, declaration-ordered sequence of
// member descriptors. The engines never perform structural discovery of
// their own.
package member

import (
	"reflect"

	"github.com/fixkit/fixkit/internal/markers"
)

// Constructor describes a type's zero-argument constructor
type Constructor struct {
	Fn      func() (interface{}, error) // invokes the constructor
	Private bool                        // requires privileged access to invoke
}

// NestedType describes a type declared inside an enclosing type. Go has no
// nested classes of its own; this metadata is attached through the
// TypeRegistry by richer introspection front-ends.
type NestedType struct {
	Enclosing reflect.Type // outer type whose instance is required for construction
	Static    bool         // declared without an enclosing-instance requirement
	Private   bool         // not visible outside the enclosing type
	Abstract  bool         // cannot be instantiated directly
}

// Member is a descriptor for one declared field of a fixture shape.
// Immutable for the duration of one preparation pass.
type Member struct {
	Name        string            // simple field name
	Type        reflect.Type      // declared type of the field
	Index       int               // field index, declaration order
	Markers     markers.Set       // preparation markers present on the field
	Params      map[string]string // named tag parameters
	Constructor *Constructor      // zero-argument constructor, nil if none exists
	Nested      *NestedType       // nested-type metadata, nil for top-level types
}

// DisplayName returns the name used for the member's proxy: the name tag
// parameter when present, the field name otherwise
func (m *Member) DisplayName() string {
	if name, ok := m.Params["name"]; ok && name != "" {
		return name
	}
	return m.Name
}

// TypeName returns a human-readable name for the member's declared type
func (m *Member) TypeName() string {
	return TypeName(m.Type)
}

// Shape is the declared structure of one fixture type
type Shape struct {
	Type    reflect.Type // struct type of the fixture
	Members []Member     // declared members, in declaration order
}

// TypeName returns a human-readable name for a type, preferring the simple
// name over the package-qualified form for anonymous-free diagnostics
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.Kind() == reflect.Ptr {
		return "*" + TypeName(t.Elem())
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
