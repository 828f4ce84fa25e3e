package proxy

import (
	"reflect"
	"sync"

	"github.com/fixkit/fixkit/internal/config"
	"github.com/fixkit/fixkit/internal/errors"
	"github.com/fixkit/fixkit/internal/member"
	"github.com/fixkit/fixkit/internal/utils"
)

// Engine is the proxy/stub facility consumed by the preparation engines
type Engine interface {
	// New builds a proxy for the given target type per the settings
	New(t reflect.Type, settings Settings) (interface{}, error)

	// Reset clears a proxy's recorded interactions and stubs in place
	Reset(value interface{}) error

	// IsProxy reports whether a value was produced by this engine
	IsProxy(value interface{}) bool

	// CoreOf returns the state core behind a proxy value, if the value is one
	CoreOf(value interface{}) (*Core, bool)
}

// Factory builds a stub value for one interface type. The returned value
// must implement the interface and embed the provided Core.
type Factory func(core *Core) interface{}

// RegistryEngine is the reference Engine implementation, backed by a stub
// factory registry for interface types and an identity side table for spied
// concrete instances.
type RegistryEngine struct {
	factories *utils.Registry[reflect.Type, Factory]
	maxCalls  int

	mu      sync.Mutex
	tracked map[interface{}]*Core
}

// NewEngine creates a proxy engine. maxCalls caps per-proxy call recording;
// zero means unlimited.
func NewEngine(maxCalls int) *RegistryEngine {
	return &RegistryEngine{
		factories: utils.NewRegistry[reflect.Type, Factory](),
		maxCalls:  maxCalls,
		tracked:   make(map[interface{}]*Core),
	}
}

// defaultEngine is the process-wide engine used by the public API. A single
// instance keeps proxy identity stable across repeated preparation passes.
var (
	defaultEngine     *RegistryEngine
	defaultEngineOnce sync.Once
)

// Default returns the process-wide proxy engine. Its call-recording cap
// comes from the environment configuration.
func Default() *RegistryEngine {
	defaultEngineOnce.Do(func() {
		cfg, _ := config.Load()
		defaultEngine = NewEngine(cfg.MaxRecordedCalls)
	})
	return defaultEngine
}

// RegisterFactory registers the stub factory for an interface type
func (e *RegistryEngine) RegisterFactory(t reflect.Type, factory Factory) error {
	if t == nil || t.Kind() != reflect.Interface {
		return errors.New(errors.RegistrationErrorCode, "proxy factories can only be registered for interface types")
	}
	if factory == nil {
		return errors.Newf(errors.RegistrationErrorCode, "factory for type '%s' is nil", member.TypeName(t))
	}
	if err := e.factories.RegisterUnique(t, factory); err != nil {
		return errors.WrapRegisterError("proxy factory", member.TypeName(t), err)
	}
	return nil
}

// New builds a proxy for the given target type per the settings
func (e *RegistryEngine) New(t reflect.Type, settings Settings) (interface{}, error) {
	if t == nil {
		return nil, errors.New(errors.ProxyErrorCode, "proxy target type is nil")
	}
	if t.Kind() == reflect.Interface {
		return e.newInterfaceProxy(t, settings)
	}
	return e.newConcreteProxy(t, settings)
}

// newInterfaceProxy builds a factory stub whose unstubbed calls follow the
// default answer policy
func (e *RegistryEngine) newInterfaceProxy(t reflect.Type, settings Settings) (interface{}, error) {
	factory, ok := e.factories.Get(t)
	if !ok {
		return nil, errors.Newf(errors.ProxyErrorCode, "no stub factory registered for interface '%s'", member.TypeName(t)).
			WithSuggestion("register one with RegisterProxyFactory before preparing the fixture")
	}

	core := newCore(settings, e.maxCalls)
	value := factory(core)
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || !rv.Type().AssignableTo(t) {
		return nil, errors.Newf(errors.ProxyErrorCode, "factory for interface '%s' returned a value that does not implement it", member.TypeName(t))
	}
	if _, ok := value.(coreHolder); !ok {
		return nil, errors.Newf(errors.ProxyErrorCode, "factory for interface '%s' returned a value that does not embed its Core", member.TypeName(t))
	}
	return value, nil
}

// newConcreteProxy wraps or constructs a concrete instance and tracks it by
// identity. Method interception on concrete types is not possible at
// runtime, so the instance itself stands in as the proxy and unstubbed
// behavior is the real behavior.
func (e *RegistryEngine) newConcreteProxy(t reflect.Type, settings Settings) (interface{}, error) {
	instance := settings.SpiedInstance
	if instance == nil {
		if !settings.UseConstructor {
			return nil, errors.Newf(errors.ProxyErrorCode, "no spied instance and no constructor requested for type '%s'", member.TypeName(t))
		}
		constructed, err := construct(t, settings.Constructor)
		if err != nil {
			return nil, err
		}
		instance = constructed
	}

	rt := reflect.TypeOf(instance)
	if rt == nil || !rt.Comparable() {
		return nil, errors.Newf(errors.ProxyErrorCode, "cannot track proxy identity for non-comparable type '%s'", member.TypeName(t))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.tracked[instance]; !ok {
		e.tracked[instance] = newCore(settings, e.maxCalls)
	}
	return instance, nil
}

// construct builds a fresh instance of a concrete type, preferring the
// caller-supplied constructor over zero-value construction
func construct(t reflect.Type, ctor func() (interface{}, error)) (interface{}, error) {
	if ctor != nil {
		instance, err := ctor()
		if err != nil {
			return nil, errors.Wrapf(errors.ProxyErrorCode, err, "constructor for type '%s' failed", member.TypeName(t))
		}
		return instance, nil
	}
	switch {
	case t.Kind() == reflect.Struct:
		return reflect.New(t).Elem().Interface(), nil
	case t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct:
		return reflect.New(t.Elem()).Interface(), nil
	default:
		return nil, errors.Newf(errors.ProxyErrorCode, "cannot construct an instance of type '%s'", member.TypeName(t))
	}
}

// CoreOf returns the state core behind a proxy value, if the value is one
func (e *RegistryEngine) CoreOf(value interface{}) (*Core, bool) {
	if value == nil {
		return nil, false
	}
	if holder, ok := value.(coreHolder); ok {
		return holder.proxyCore(), true
	}
	rt := reflect.TypeOf(value)
	if rt == nil || !rt.Comparable() {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	core, ok := e.tracked[value]
	return core, ok
}

// Reset clears a proxy's recorded interactions and stubs in place
func (e *RegistryEngine) Reset(value interface{}) error {
	core, ok := e.CoreOf(value)
	if !ok {
		return errors.New(errors.ProxyErrorCode, "value is not a proxy produced by this engine")
	}
	core.reset()
	return nil
}

// IsProxy reports whether a value was produced by this engine
func (e *RegistryEngine) IsProxy(value interface{}) bool {
	_, ok := e.CoreOf(value)
	return ok
}
