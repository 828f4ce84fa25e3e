package errors

import "fmt"

// Constructors for the preparation error kinds raised by the spy engine.
// Each carries enough context (member and type names) to fix the fixture
// without reading engine internals.

// NewMarkerConflictError reports two markers that must not co-occur on the
// same fixture member
func NewMarkerConflictError(memberName, primary, conflicting string) *BaseError {
	message := fmt.Sprintf("marker '%s' cannot be combined with marker '%s'", primary, conflicting)
	return New(ConfigurationConflictCode, message).
		WithMember(memberName).
		WithContext("marker", primary).
		WithContext("conflicting_marker", conflicting).
		WithSuggestion(fmt.Sprintf("remove either the '%s' or the '%s' marker from the member", primary, conflicting))
}

// NewMissingConstructorError reports a concrete spy target that has no
// zero-argument constructor
func NewMissingConstructorError(memberName, typeName string) *BaseError {
	message := fmt.Sprintf("type '%s' has no zero-argument constructor", typeName)
	return New(MissingConstructorCode, message).
		WithMember(memberName).
		WithContext("type", typeName).
		WithSuggestion("ensure the type has a zero-argument constructor, or register one for it")
}

// NewInaccessibleNestedTypeError reports a private abstract nested type,
// which cannot be instantiated regardless of enclosing instance
func NewInaccessibleNestedTypeError(memberName, innerType, outerType string) *BaseError {
	message := fmt.Sprintf("cannot initialize a spy for private abstract nested type '%s' (enclosed by '%s')", innerType, outerType)
	return New(InaccessibleNestedTypeCode, message).
		WithMember(memberName).
		WithContext("inner_type", innerType).
		WithContext("outer_type", outerType).
		WithSuggestion("augment the visibility of the nested type")
}

// NewEnclosingInstanceMismatchError reports a non-static nested spy target
// whose fixture is not an instance of the enclosing type
func NewEnclosingInstanceMismatchError(memberName, innerType, outerType string) *BaseError {
	message := fmt.Sprintf("nested type '%s' requires an enclosing instance of '%s', which the fixture does not satisfy", innerType, outerType)
	return New(EnclosingInstanceMismatchCode, message).
		WithMember(memberName).
		WithContext("inner_type", innerType).
		WithContext("outer_type", outerType).
		WithSuggestion("declare nested spy targets inside their enclosing type")
}

// WrapPreparationError wraps any unexpected failure surfaced while reading,
// constructing, or writing a member, preserving the original cause
func WrapPreparationError(memberName string, cause error) *BaseError {
	message := fmt.Sprintf("unable to initialize spy member: %s", cause.Error())
	return Wrap(UnexpectedFailureCode, message, cause).WithMember(memberName)
}

// WrapRegisterError wraps an error with a "failed to register" message
func WrapRegisterError(componentType, name string, cause error) *BaseError {
	message := fmt.Sprintf("failed to register %s '%s'", componentType, name)
	return Wrap(RegistrationErrorCode, message, cause).
		WithContext("component_type", componentType).
		WithContext("name", name)
}

// WrapAccessError wraps a member read/write failure with operation context
func WrapAccessError(operation, memberName string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s member", operation)
	return Wrap(AccessErrorCode, message, cause).
		WithMember(memberName).
		WithContext("operation", operation)
}
