// Package access provides the member-access facility used by the
// preparation engines: reading and writing fixture fields and invoking
// constructors, with the privilege to bypass normal visibility rules for
// unexported fields and private constructors.
package access

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/fixkit/fixkit/internal/errors"
	"github.com/fixkit/fixkit/internal/member"
)

// Accessor reads, writes, and constructs through member descriptors.
// Implementations are allowed to bypass normal visibility restrictions.
type Accessor interface {
	// Get reads the member's current value from the fixture instance
	Get(m *member.Member, instance interface{}) (interface{}, error)

	// Set writes a value into the member on the fixture instance
	Set(m *member.Member, instance interface{}, value interface{}) error

	// NewInstance invokes a zero-argument constructor, including private ones
	NewInstance(ctor *member.Constructor) (interface{}, error)
}

// ReflectAccessor is the reflection-based Accessor. Unexported fields are
// reached by re-addressing the field through unsafe.Pointer.
type ReflectAccessor struct{}

// NewReflectAccessor creates the default privileged accessor
func NewReflectAccessor() *ReflectAccessor {
	return &ReflectAccessor{}
}

// Get reads the member's current value from the fixture instance
func (a *ReflectAccessor) Get(m *member.Member, instance interface{}) (interface{}, error) {
	field, err := a.field(m, instance)
	if err != nil {
		return nil, errors.WrapAccessError("read", m.Name, err)
	}
	if !field.CanInterface() {
		if !field.CanAddr() {
			return nil, errors.WrapAccessError("read", m.Name,
				fmt.Errorf("field is not addressable; pass the fixture as a pointer"))
		}
		field = privileged(field)
	}
	return field.Interface(), nil
}

// Set writes a value into the member on the fixture instance
func (a *ReflectAccessor) Set(m *member.Member, instance interface{}, value interface{}) error {
	field, err := a.field(m, instance)
	if err != nil {
		return errors.WrapAccessError("write", m.Name, err)
	}
	if !field.CanSet() {
		if !field.CanAddr() {
			return errors.WrapAccessError("write", m.Name,
				fmt.Errorf("field is not addressable; pass the fixture as a pointer"))
		}
		field = privileged(field)
	}

	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	rv := reflect.ValueOf(value)
	if !rv.Type().AssignableTo(field.Type()) {
		return errors.WrapAccessError("write", m.Name,
			fmt.Errorf("value of type %s is not assignable to member type %s", rv.Type(), field.Type()))
	}
	field.Set(rv)
	return nil
}

// NewInstance invokes a zero-argument constructor, including private ones
func (a *ReflectAccessor) NewInstance(ctor *member.Constructor) (interface{}, error) {
	if ctor == nil || ctor.Fn == nil {
		return nil, errors.New(errors.AccessErrorCode, "no constructor to invoke")
	}
	instance, err := ctor.Fn()
	if err != nil {
		return nil, errors.Wrap(errors.AccessErrorCode, "constructor invocation failed", err)
	}
	return instance, nil
}

// field resolves the struct field a descriptor points at
func (a *ReflectAccessor) field(m *member.Member, instance interface{}) (reflect.Value, error) {
	rv := reflect.ValueOf(instance)
	if !rv.IsValid() {
		return reflect.Value{}, fmt.Errorf("fixture instance is nil")
	}
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("fixture instance is a nil pointer")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("fixture instance is not a struct")
	}
	if m.Index < 0 || m.Index >= rv.NumField() {
		return reflect.Value{}, fmt.Errorf("member index %d is out of range for type %s", m.Index, rv.Type())
	}

	field := rv.Field(m.Index)
	if field.Type() != m.Type {
		return reflect.Value{}, fmt.Errorf("member '%s' has type %s on the instance, descriptor says %s",
			m.Name, field.Type(), m.Type)
	}
	return field, nil
}

// privileged re-addresses a field value so unexported fields can be read and
// written. The field must be addressable.
func privileged(field reflect.Value) reflect.Value {
	return reflect.NewAt(field.Type(), unsafe.Pointer(field.UnsafeAddr())).Elem()
}
