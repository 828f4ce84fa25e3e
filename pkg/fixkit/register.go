package fixkit

import (
	"reflect"

	"github.com/fixkit/fixkit/internal/member"
	"github.com/fixkit/fixkit/internal/proxy"
)

// RegisterProxyFactory registers the stub factory serving interface type T
// on the default proxy engine. The factory's value must implement T and
// embed the provided core:
//
//	type dbStub struct{ *fixkit.ProxyCore }
//
//	fixkit.RegisterProxyFactory[Database](func(core *fixkit.ProxyCore) Database {
//		return dbStub{core}
//	})
func RegisterProxyFactory[T any](factory func(core *ProxyCore) T) error {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return proxy.Default().RegisterFactory(t, func(core *proxy.Core) interface{} {
		return factory(core)
	})
}

// RegisterConstructor attaches a zero-argument constructor to type T on the
// process-wide type registry. Struct and pointer-to-struct members get a
// zero-value constructor for free; registration is for types needing real
// initialization.
func RegisterConstructor[T any](fn func() (T, error)) error {
	return registerConstructor(fn, false)
}

// RegisterPrivateConstructor attaches a constructor that only the privileged
// member-access facility may invoke. The proxy engine never calls it
// directly; the engine instantiates through the accessor first and wraps the
// result.
func RegisterPrivateConstructor[T any](fn func() (T, error)) error {
	return registerConstructor(fn, true)
}

func registerConstructor[T any](fn func() (T, error), private bool) error {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return member.DefaultRegistry().RegisterConstructor(t, member.Constructor{
		Fn: func() (interface{}, error) {
			value, err := fn()
			if err != nil {
				return nil, err
			}
			return value, nil
		},
		Private: private,
	})
}

// NestedInfo describes how a nested type relates to its enclosing type
type NestedInfo struct {
	Static   bool // no enclosing instance required for construction
	Private  bool // not visible outside the enclosing type
	Abstract bool // cannot be instantiated directly
}

// RegisterNestedType declares Inner as a type nested inside Outer on the
// process-wide type registry. Non-static nested spy targets can only be
// constructed when the fixture is an instance of Outer.
func RegisterNestedType[Inner, Outer any](info NestedInfo) error {
	return member.DefaultRegistry().RegisterNested(reflect.TypeOf((*Inner)(nil)).Elem(), member.NestedType{
		Enclosing: reflect.TypeOf((*Outer)(nil)).Elem(),
		Static:    info.Static,
		Private:   info.Private,
		Abstract:  info.Abstract,
	})
}
