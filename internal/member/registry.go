package member

import (
	"reflect"
	"sync"

	"github.com/fixkit/fixkit/internal/errors"
	"github.com/fixkit/fixkit/internal/utils"
)

// TypeRegistry holds construction metadata that cannot be derived from a Go
// type alone: custom zero-argument constructors with their visibility, and
// nested-type relationships. The Introspector consults it when building
// member descriptors.
type TypeRegistry struct {
	constructors *utils.Registry[reflect.Type, Constructor]
	nested       *utils.Registry[reflect.Type, NestedType]
}

// NewTypeRegistry creates a new empty type registry
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		constructors: utils.NewRegistry[reflect.Type, Constructor](),
		nested:       utils.NewRegistry[reflect.Type, NestedType](),
	}
}

// defaultRegistry is the process-wide registry used by the default introspector
var (
	defaultRegistry     *TypeRegistry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide type registry
func DefaultRegistry() *TypeRegistry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewTypeRegistry()
	})
	return defaultRegistry
}

// RegisterConstructor attaches a zero-argument constructor to a type.
// Registering a second constructor for the same type is an error.
func (r *TypeRegistry) RegisterConstructor(t reflect.Type, ctor Constructor) error {
	if t == nil {
		return errors.New(errors.RegistrationErrorCode, "cannot register a constructor for a nil type")
	}
	if ctor.Fn == nil {
		return errors.Newf(errors.RegistrationErrorCode, "constructor for type '%s' has no function", TypeName(t))
	}
	if err := r.constructors.RegisterUnique(t, ctor); err != nil {
		return errors.WrapRegisterError("constructor", TypeName(t), err)
	}
	return nil
}

// ConstructorFor returns the registered constructor for a type, if any
func (r *TypeRegistry) ConstructorFor(t reflect.Type) (Constructor, bool) {
	return r.constructors.Get(t)
}

// RegisterNested attaches nested-type metadata to a type.
// Registering metadata twice for the same type is an error.
func (r *TypeRegistry) RegisterNested(inner reflect.Type, info NestedType) error {
	if inner == nil {
		return errors.New(errors.RegistrationErrorCode, "cannot register nested metadata for a nil type")
	}
	if info.Enclosing == nil {
		return errors.Newf(errors.RegistrationErrorCode, "nested metadata for type '%s' has no enclosing type", TypeName(inner))
	}
	if err := r.nested.RegisterUnique(inner, info); err != nil {
		return errors.WrapRegisterError("nested type", TypeName(inner), err)
	}
	return nil
}

// NestedFor returns the registered nested-type metadata for a type, if any
func (r *TypeRegistry) NestedFor(t reflect.Type) (NestedType, bool) {
	return r.nested.Get(t)
}

// Clear removes all registered metadata. Intended for tests.
func (r *TypeRegistry) Clear() {
	r.constructors.Clear()
	r.nested.Clear()
}
