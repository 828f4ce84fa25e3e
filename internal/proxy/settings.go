// Package proxy is the stub engine behind the preparation engines: it builds
// forwarding objects around interface types and tracks spied concrete
// instances, and supports resetting a proxy's recorded state in place.
//
// Interface proxies are served by registered per-type stub factories, the
// runtime equivalent of generated mocks. Go offers no way to intercept the
// method set of an arbitrary concrete type at runtime, so concrete spy
// targets are tracked by identity instead: the spied instance itself is the
// delegate, and unstubbed behavior is trivially the real behavior.
package proxy

import "reflect"

// AnswerPolicy selects the default behavior of a proxy for unstubbed calls
type AnswerPolicy int

const (
	// ReturnDefaults answers unstubbed calls with zero values
	ReturnDefaults AnswerPolicy = iota

	// CallRealMethods delegates unstubbed calls to the spied instance
	CallRealMethods
)

// String returns the string representation of the answer policy
func (a AnswerPolicy) String() string {
	switch a {
	case CallRealMethods:
		return "call_real_methods"
	default:
		return "return_defaults"
	}
}

// Settings configures one proxy to be built by the engine
type Settings struct {
	Type              reflect.Type                // declared (generic witness) type of the target member
	Name              string                      // display name, used in diagnostics
	SpiedInstance     interface{}                 // real instance to wrap; nil for a pure proxy
	DefaultAnswer     AnswerPolicy                // behavior for unstubbed calls
	UseConstructor    bool                        // construct the real delegate via the type's constructor
	Constructor       func() (interface{}, error) // the constructor to use; nil falls back to zero-value construction
	EnclosingInstance interface{}                 // outer instance for nested-type construction
}
