package proxy

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixkit/fixkit/internal/errors"
)

// greeter is the interface the test stub factory serves
type greeter interface {
	Greet(name string) string
}

// greeterStub is a handcrafted stub, the shape generated mocks take
type greeterStub struct {
	*Core
}

func (g greeterStub) Greet(name string) string {
	if out, ok := g.Invoke("Greet", name); ok {
		return out[0].(string)
	}
	if real, ok := g.Delegate().(greeter); ok {
		return real.Greet(name)
	}
	return ""
}

// realGreeter is a concrete delegate
type realGreeter struct {
	prefix string
}

func (r *realGreeter) Greet(name string) string {
	return r.prefix + name
}

func newTestEngine(t *testing.T) *RegistryEngine {
	t.Helper()
	engine := NewEngine(0)
	err := engine.RegisterFactory(reflect.TypeOf((*greeter)(nil)).Elem(), func(core *Core) interface{} {
		return greeterStub{core}
	})
	require.NoError(t, err)
	return engine
}

func TestRegisterFactory_RejectsNonInterface(t *testing.T) {
	engine := NewEngine(0)
	err := engine.RegisterFactory(reflect.TypeOf(realGreeter{}), func(core *Core) interface{} {
		return nil
	})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.RegistrationErrorCode))
}

func TestRegisterFactory_RejectsDuplicate(t *testing.T) {
	engine := newTestEngine(t)
	err := engine.RegisterFactory(reflect.TypeOf((*greeter)(nil)).Elem(), func(core *Core) interface{} {
		return greeterStub{core}
	})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.RegistrationErrorCode))
}

func TestNew_InterfaceProxyWithoutFactory(t *testing.T) {
	engine := NewEngine(0)
	_, err := engine.New(reflect.TypeOf((*greeter)(nil)).Elem(), Settings{Name: "g"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ProxyErrorCode))
}

func TestNew_PureInterfaceProxy(t *testing.T) {
	engine := newTestEngine(t)

	value, err := engine.New(reflect.TypeOf((*greeter)(nil)).Elem(), Settings{
		Type:          reflect.TypeOf((*greeter)(nil)).Elem(),
		Name:          "greeter",
		DefaultAnswer: CallRealMethods,
	})
	require.NoError(t, err)

	g, ok := value.(greeter)
	require.True(t, ok)
	assert.True(t, engine.IsProxy(value))

	// no delegate and no stub: zero-value answer
	assert.Equal(t, "", g.Greet("world"))

	core, ok := engine.CoreOf(value)
	require.True(t, ok)
	assert.Equal(t, "greeter", core.Name())
	assert.Equal(t, 1, core.CallCount("Greet"))
	assert.NotEqual(t, "", core.ID().String())
}

func TestNew_InterfaceProxyDelegatesToSpiedInstance(t *testing.T) {
	engine := newTestEngine(t)

	real := &realGreeter{prefix: "hello "}
	value, err := engine.New(reflect.TypeOf((*greeter)(nil)).Elem(), Settings{
		Type:          reflect.TypeOf((*greeter)(nil)).Elem(),
		Name:          "greeter",
		SpiedInstance: real,
		DefaultAnswer: CallRealMethods,
	})
	require.NoError(t, err)

	g := value.(greeter)
	assert.Equal(t, "hello bob", g.Greet("bob"), "unstubbed calls delegate to the real instance")

	core, _ := engine.CoreOf(value)
	core.StubMethod("Greet", func(args []interface{}) []interface{} {
		return []interface{}{"stubbed"}
	})
	assert.Equal(t, "stubbed", g.Greet("bob"), "stubbed calls override the delegate")
}

func TestNew_ConcreteProxyTracksSpiedInstance(t *testing.T) {
	engine := newTestEngine(t)

	real := &realGreeter{prefix: "hi "}
	value, err := engine.New(reflect.TypeOf(real), Settings{
		Type:          reflect.TypeOf(real),
		Name:          "real",
		SpiedInstance: real,
		DefaultAnswer: CallRealMethods,
	})
	require.NoError(t, err)

	assert.Same(t, real, value, "concrete spies keep their identity")
	assert.True(t, engine.IsProxy(real))
	assert.Equal(t, "hi ann", value.(*realGreeter).Greet("ann"), "behavior stays real")
}

func TestNew_ConcreteProxyConstructsFreshInstance(t *testing.T) {
	engine := newTestEngine(t)

	value, err := engine.New(reflect.TypeOf(&realGreeter{}), Settings{
		Type:           reflect.TypeOf(&realGreeter{}),
		Name:           "fresh",
		UseConstructor: true,
	})
	require.NoError(t, err)

	built, ok := value.(*realGreeter)
	require.True(t, ok)
	require.NotNil(t, built)
	assert.True(t, engine.IsProxy(built))
}

func TestNew_ConcreteProxyUsesProvidedConstructor(t *testing.T) {
	engine := newTestEngine(t)

	built := &realGreeter{prefix: "custom "}
	value, err := engine.New(reflect.TypeOf(&realGreeter{}), Settings{
		Name:           "custom",
		UseConstructor: true,
		Constructor:    func() (interface{}, error) { return built, nil },
	})
	require.NoError(t, err)
	assert.Same(t, built, value, "the provided constructor builds the instance")
}

func TestNew_ConcreteProxyNeedsInstanceOrConstructor(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.New(reflect.TypeOf(&realGreeter{}), Settings{Name: "neither"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ProxyErrorCode))
}

func TestReset_ClearsRecordedStateInPlace(t *testing.T) {
	engine := newTestEngine(t)

	value, err := engine.New(reflect.TypeOf((*greeter)(nil)).Elem(), Settings{Name: "g"})
	require.NoError(t, err)

	g := value.(greeter)
	core, _ := engine.CoreOf(value)
	core.StubMethod("Greet", func(args []interface{}) []interface{} {
		return []interface{}{"stubbed"}
	})
	g.Greet("x")
	require.Equal(t, 1, core.CallCount("Greet"))

	require.NoError(t, engine.Reset(value))

	assert.Zero(t, core.CallCount("Greet"))
	assert.Equal(t, "", g.Greet("x"), "stubs are cleared by reset")
	assert.True(t, engine.IsProxy(value), "reset keeps the value a proxy")
}

func TestReset_RejectsNonProxies(t *testing.T) {
	engine := newTestEngine(t)
	err := engine.Reset(&realGreeter{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ProxyErrorCode))
}

func TestIsProxy(t *testing.T) {
	engine := newTestEngine(t)

	assert.False(t, engine.IsProxy(nil))
	assert.False(t, engine.IsProxy("plain value"))
	assert.False(t, engine.IsProxy(&realGreeter{}))
}

func TestCore_RecordsRenderedArgs(t *testing.T) {
	engine := newTestEngine(t)

	value, err := engine.New(reflect.TypeOf((*greeter)(nil)).Elem(), Settings{Name: "g"})
	require.NoError(t, err)

	value.(greeter).Greet("carol")

	core, _ := engine.CoreOf(value)
	calls := core.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Greet", calls[0].Method)
	assert.Equal(t, []interface{}{"carol"}, calls[0].Args)
	assert.Contains(t, calls[0].Rendered, "carol")
}

func TestCore_MaxRecordedCallsCap(t *testing.T) {
	engine := NewEngine(2)
	err := engine.RegisterFactory(reflect.TypeOf((*greeter)(nil)).Elem(), func(core *Core) interface{} {
		return greeterStub{core}
	})
	require.NoError(t, err)

	value, err := engine.New(reflect.TypeOf((*greeter)(nil)).Elem(), Settings{Name: "g"})
	require.NoError(t, err)

	g := value.(greeter)
	g.Greet("1")
	g.Greet("2")
	g.Greet("3")

	core, _ := engine.CoreOf(value)
	assert.Len(t, core.Calls(), 2, "recording stops at the cap")
}
