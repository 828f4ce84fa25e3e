package member

import (
	"reflect"

	"github.com/fixkit/fixkit/internal/errors"
	"github.com/fixkit/fixkit/internal/markers"
)

// Introspector builds fixture shapes from Go struct types. Markers are read
// from the `fixkit` struct tag; construction metadata comes from the
// TypeRegistry, falling back to a synthesized zero-value constructor for
// struct types.
type Introspector struct {
	registry *TypeRegistry
	parser   *markers.TagParser
}

// NewIntrospector creates an introspector backed by the given type registry
func NewIntrospector(registry *TypeRegistry) *Introspector {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Introspector{
		registry: registry,
		parser:   markers.NewTagParser(),
	}
}

// Shape builds the member descriptor sequence for a fixture type. The type
// must be a struct or pointer to struct. Members appear in declaration
// order; only fields declared by the shape itself are listed.
func (i *Introspector) Shape(t reflect.Type) (*Shape, error) {
	if t == nil {
		return nil, errors.New(errors.IntrospectionErrorCode, "fixture type is nil")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, errors.Newf(errors.IntrospectionErrorCode, "fixture type '%s' is not a struct", TypeName(t)).
			WithSuggestion("pass a pointer to your test fixture struct")
	}

	shape := &Shape{
		Type:    t,
		Members: make([]Member, 0, t.NumField()),
	}

	for idx := 0; idx < t.NumField(); idx++ {
		field := t.Field(idx)
		m, err := i.describe(field, idx)
		if err != nil {
			return nil, err
		}
		shape.Members = append(shape.Members, m)
	}

	return shape, nil
}

// describe builds the descriptor for one declared field
func (i *Introspector) describe(field reflect.StructField, idx int) (Member, error) {
	tag := field.Tag.Get("fixkit")
	parsed, err := i.parser.ParseTag(tag)
	if err != nil {
		if base, ok := errors.AsBase(err); ok {
			base.WithMember(field.Name)
		}
		return Member{}, err
	}

	m := Member{
		Name:    field.Name,
		Type:    field.Type,
		Index:   idx,
		Markers: parsed.Markers,
		Params:  parsed.Params,
	}

	if ctor, ok := i.registry.ConstructorFor(field.Type); ok {
		m.Constructor = &ctor
	} else if ctor, ok := synthesizeConstructor(field.Type); ok {
		m.Constructor = ctor
	}

	if nested, ok := i.registry.NestedFor(field.Type); ok {
		m.Nested = &nested
	}

	return m, nil
}

// synthesizeConstructor derives a public zero-argument constructor for types
// Go can construct from nothing: structs and pointers to structs. Other
// concrete kinds have no zero-argument constructor unless one is registered.
func synthesizeConstructor(t reflect.Type) (*Constructor, bool) {
	switch {
	case t.Kind() == reflect.Struct:
		return &Constructor{
			Fn: func() (interface{}, error) {
				return reflect.New(t).Elem().Interface(), nil
			},
		}, true
	case t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct:
		elem := t.Elem()
		return &Constructor{
			Fn: func() (interface{}, error) {
				return reflect.New(elem).Interface(), nil
			},
		}, true
	default:
		return nil, false
	}
}
