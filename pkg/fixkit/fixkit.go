// Package fixkit prepares partial fakes in test fixtures. Fields of a
// fixture struct carry preparation markers in the `fixkit` struct tag;
// Open scans the fixture and hands each marked member to the matching
// preparation engine.
//
//	type suite struct {
//		DB    Database  `fixkit:"spy"`
//		Cache *LruCache `fixkit:"spy,name=cache"`
//	}
//
//	func TestSomething(t *testing.T) {
//		s := &suite{}
//		handle, err := fixkit.Open(s)
//		if err != nil { ... }
//		defer handle.Close()
//	}
//
// A spy member keeps its pre-existing value's behavior: the value is wrapped
// in a proxy whose unstubbed calls delegate to the real instance. Nil spy
// members are freshly constructed first. Re-opening an already prepared
// fixture resets the existing proxies in place instead of re-wrapping them.
package fixkit

import (
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/fixkit/fixkit/internal/access"
	"github.com/fixkit/fixkit/internal/config"
	"github.com/fixkit/fixkit/internal/member"
	"github.com/fixkit/fixkit/internal/proxy"
	"github.com/fixkit/fixkit/internal/report"
	"github.com/fixkit/fixkit/internal/spy"
)

// DisposableHandle is returned by Open for teardown symmetry. Closing it
// performs no action for spy preparation; callers still close it so all
// preparation engines share one contract.
type DisposableHandle = spy.DisposableHandle

// TypeRegistry holds construction metadata for fixture member types
type TypeRegistry = member.TypeRegistry

// ProxyEngine is the proxy/stub facility behind the preparation engines
type ProxyEngine = proxy.Engine

// Accessor is the member-access facility, privileged to bypass visibility
type Accessor = access.Accessor

// ProxyCore carries a proxy's identity, recorded calls, and stubs
type ProxyCore = proxy.Core

// Stub is a programmed answer for one proxy method
type Stub = proxy.Stub

// Call is one recorded invocation on a proxy
type Call = proxy.Call

// setup reads the environment configuration once
var (
	setupOnce sync.Once
	logger    *zap.Logger
)

func setup() {
	logger = zap.NewNop()
	cfg, err := config.Load()
	if err != nil {
		return
	}
	if cfg.Debug {
		if dev, err := zap.NewDevelopment(); err == nil {
			logger = dev
		}
	}
}

// options collects the collaborators Open wires into the engines
type options struct {
	registry *member.TypeRegistry
	proxies  proxy.Engine
	accessor access.Accessor
	logger   *zap.Logger
}

// Option overrides one of Open's default collaborators
type Option func(*options)

// WithLogger sets the logger receiving the per-member decision trace
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.logger = log
		}
	}
}

// WithTypeRegistry uses a dedicated type registry instead of the
// process-wide one
func WithTypeRegistry(registry *TypeRegistry) Option {
	return func(o *options) {
		if registry != nil {
			o.registry = registry
		}
	}
}

// WithProxyEngine uses a dedicated proxy engine instead of the process-wide
// one. Look up cores of fixtures prepared this way through the engine's own
// CoreOf; ProxyOf only consults the process-wide engine.
func WithProxyEngine(engine ProxyEngine) Option {
	return func(o *options) {
		if engine != nil {
			o.proxies = engine
		}
	}
}

// WithAccessor uses a dedicated member accessor
func WithAccessor(accessor Accessor) Option {
	return func(o *options) {
		if accessor != nil {
			o.accessor = accessor
		}
	}
}

// Open prepares every marked member of the fixture. The fixture must be a
// pointer to a struct; members are processed in declaration order. The first
// failing member aborts the pass and nothing after it is touched.
func Open(fixture interface{}, opts ...Option) (DisposableHandle, error) {
	setupOnce.Do(setup)

	o := &options{
		registry: member.DefaultRegistry(),
		proxies:  proxy.Default(),
		accessor: access.NewReflectAccessor(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(o)
	}

	introspector := member.NewIntrospector(o.registry)
	shape, err := introspector.Shape(reflect.TypeOf(fixture))
	if err != nil {
		return nil, err
	}

	engine := spy.New(o.accessor, o.proxies, spy.WithLogger(o.logger))
	return engine.Process(shape, fixture)
}

// ProxyOf returns the state core behind a prepared member's proxy, for
// stubbing methods and asserting on recorded calls. It consults the
// process-wide proxy engine; for fixtures prepared with WithProxyEngine,
// call CoreOf on that engine instead. The second return is false when the
// value was not produced by the process-wide engine.
func ProxyOf(value interface{}) (*ProxyCore, bool) {
	return proxy.Default().CoreOf(value)
}

// Report prints a human-readable diagnostic for a preparation error
func Report(err error) {
	report.NewReporter(false).Report(err)
}
