// Package spy implements the spy preparation engine: for every member of a
// fixture shape marked as a spy target, it decides whether to reuse,
// wrap, reset, or freshly construct the member's value, then replaces the
// value with a proxy that forwards calls to real behavior unless explicitly
// overridden.
//
// Members also carrying the inject marker are skipped entirely; their
// preparation belongs to the injection engine. Members carrying a marker
// incompatible with spy (mock, captor) fail the pass.
package spy

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/fixkit/fixkit/internal/access"
	"github.com/fixkit/fixkit/internal/errors"
	"github.com/fixkit/fixkit/internal/markers"
	"github.com/fixkit/fixkit/internal/member"
	"github.com/fixkit/fixkit/internal/proxy"
)

// DisposableHandle is returned by Process for teardown symmetry with the
// other preparation engines. Closing it performs no action; this engine owns
// no releasable resource.
type DisposableHandle interface {
	Close() error
}

// noAction is the handle returned on success
type noAction struct{}

func (noAction) Close() error { return nil }

// incompatibleWithSpy is the fixed set of markers that must not co-occur
// with the spy marker on the same member
var incompatibleWithSpy = []markers.Kind{markers.Mock, markers.Captor}

// Engine is the spy preparation engine. Stateless across calls; every piece
// of state it consults is read-only input for the duration of one Process.
type Engine struct {
	accessor access.Accessor
	proxies  proxy.Engine
	log      *zap.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger receiving the per-member decision trace
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// New creates a spy preparation engine over the given collaborators
func New(accessor access.Accessor, proxies proxy.Engine, opts ...Option) *Engine {
	e := &Engine{
		accessor: accessor,
		proxies:  proxies,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process scans the shape's declared members in declaration order and
// prepares every member bearing the spy marker and not the inject marker.
// The first failing member aborts the pass; there is no per-member recovery.
// Errors of an unexpected kind are wrapped with the offending member's name,
// preserving the original cause.
func (e *Engine) Process(shape *member.Shape, instance interface{}) (DisposableHandle, error) {
	if shape == nil {
		return nil, errors.New(errors.UnexpectedFailureCode, "fixture shape is nil")
	}

	for i := range shape.Members {
		m := &shape.Members[i]
		if !m.Markers.Has(markers.Spy) || m.Markers.Has(markers.Inject) {
			continue
		}
		if err := assertNoIncompatibleMarkers(m); err != nil {
			return nil, err
		}
		if err := e.prepare(m, instance); err != nil {
			if base, ok := errors.AsBase(err); ok && isConfigurationCode(base.Code) {
				if base.Member() == "" {
					base.WithMember(m.Name)
				}
				return nil, err
			}
			return nil, errors.WrapPreparationError(m.Name, err)
		}
	}

	return noAction{}, nil
}

// isConfigurationCode reports whether an error code is one of the typed
// configuration kinds that surface to the caller as-is; everything else is
// wrapped as an unexpected failure naming the member
func isConfigurationCode(code errors.ErrorCode) bool {
	switch code {
	case errors.ConfigurationConflictCode,
		errors.MissingConstructorCode,
		errors.InaccessibleNestedTypeCode,
		errors.EnclosingInstanceMismatchCode:
		return true
	default:
		return false
	}
}

// assertNoIncompatibleMarkers fails a member combining spy with a marker it
// cannot co-occur with, before any value is read or written
func assertNoIncompatibleMarkers(m *member.Member) error {
	for _, kind := range incompatibleWithSpy {
		if m.Markers.Has(kind) {
			return errors.NewMarkerConflictError(m.Name, markers.Spy.String(), kind.String())
		}
	}
	return nil
}

// prepare runs the per-member decision algorithm: reset a previously
// prepared proxy, wrap a pre-existing value, or construct a fresh one
func (e *Engine) prepare(m *member.Member, instance interface{}) error {
	current, err := e.accessor.Get(m, instance)
	if err != nil {
		return err
	}

	if e.proxies.IsProxy(current) {
		// member was spied by an earlier pass on the same fixture
		e.trace(m, "reset")
		return e.proxies.Reset(current)
	}

	if !isNilValue(current) {
		e.trace(m, "wrap")
		wrapped, err := e.wrap(m, current)
		if err != nil {
			return err
		}
		return e.accessor.Set(m, instance, wrapped)
	}

	e.trace(m, "construct")
	constructed, err := e.construct(m, instance)
	if err != nil {
		return err
	}
	return e.accessor.Set(m, instance, constructed)
}

// wrap builds a spy proxy around the member's pre-existing value.
// Interface-typed members route through their stub factory with the value as
// delegate, so the wrapped member stays stubbable and keeps recording calls.
// Concrete members target the value's dynamic type.
func (e *Engine) wrap(m *member.Member, instance interface{}) (interface{}, error) {
	settings := proxy.Settings{
		Type:          m.Type,
		Name:          m.DisplayName(),
		SpiedInstance: instance,
		DefaultAnswer: proxy.CallRealMethods,
	}
	if m.Type.Kind() == reflect.Interface {
		return e.proxies.New(m.Type, settings)
	}
	return e.proxies.New(reflect.TypeOf(instance), settings)
}

// construct synthesizes a new instance for a nil member and wraps it.
// Branches are evaluated in a fixed priority order; the first match wins.
func (e *Engine) construct(m *member.Member, fixture interface{}) (interface{}, error) {
	settings := proxy.Settings{
		Type:          m.Type,
		Name:          m.DisplayName(),
		DefaultAnswer: proxy.CallRealMethods,
	}

	// Interface targets become pure proxies; there is no real instance to
	// wrap until the caller programs one.
	if m.Type.Kind() == reflect.Interface {
		settings.UseConstructor = true
		return e.proxies.New(m.Type, settings)
	}

	if m.Nested != nil {
		// Checked ahead of the enclosing-instance branch: a private
		// abstract nested type is rejected no matter what the fixture is.
		if m.Nested.Private && m.Nested.Abstract {
			return nil, errors.NewInaccessibleNestedTypeError(m.Name, m.TypeName(), member.TypeName(m.Nested.Enclosing))
		}
		if !m.Nested.Static {
			if !isInstanceOf(fixture, m.Nested.Enclosing) {
				return nil, errors.NewEnclosingInstanceMismatchError(m.Name, m.TypeName(), member.TypeName(m.Nested.Enclosing))
			}
			settings.UseConstructor = true
			settings.EnclosingInstance = fixture
			if m.Constructor != nil {
				settings.Constructor = m.Constructor.Fn
			}
			return e.proxies.New(m.Type, settings)
		}
	}

	ctor := m.Constructor
	if ctor == nil {
		return nil, errors.NewMissingConstructorError(m.Name, m.TypeName())
	}

	if ctor.Private {
		// Privileged instantiation first, then wrap the concrete instance.
		instance, err := e.accessor.NewInstance(ctor)
		if err != nil {
			return nil, err
		}
		settings.SpiedInstance = instance
		return e.proxies.New(m.Type, settings)
	}

	settings.UseConstructor = true
	settings.Constructor = ctor.Fn
	return e.proxies.New(m.Type, settings)
}

// trace emits one line of the per-member decision trace
func (e *Engine) trace(m *member.Member, branch string) {
	e.log.Debug("preparing spy member",
		zap.String("member", m.Name),
		zap.String("type", m.TypeName()),
		zap.String("branch", branch),
	)
}

// isNilValue reports whether a member value counts as absent: a nil
// interface or a nil pointer, map, slice, func, or channel
func isNilValue(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// isInstanceOf reports whether the fixture satisfies the enclosing type
// required by a non-static nested member
func isInstanceOf(fixture interface{}, enclosing reflect.Type) bool {
	if fixture == nil || enclosing == nil {
		return false
	}
	rt := reflect.TypeOf(fixture)
	if rt.AssignableTo(enclosing) {
		return true
	}
	if rt.Kind() == reflect.Ptr && rt.Elem().AssignableTo(enclosing) {
		return true
	}
	if enclosing.Kind() == reflect.Ptr && rt.AssignableTo(enclosing.Elem()) {
		return true
	}
	return false
}
