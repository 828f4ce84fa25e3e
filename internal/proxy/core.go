package proxy

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
)

// Stub is a programmed answer for one method
type Stub func(args []interface{}) []interface{}

// Call is one recorded invocation on a proxy
type Call struct {
	Method   string        // method name
	Args     []interface{} // argument values as invoked
	Rendered string        // spew-rendered argument snapshot for diagnostics
}

// Core carries a proxy's identity and recorded state. Stub factories embed
// the *Core handed to them so the engine can recognize and reset their
// values. Not safe for concurrent use; preparation is single-threaded.
type Core struct {
	id       uuid.UUID
	name     string
	settings Settings
	maxCalls int
	calls    []Call
	stubs    map[string]Stub
}

// newCore creates the state core for one proxy
func newCore(settings Settings, maxCalls int) *Core {
	return &Core{
		id:       uuid.New(),
		name:     settings.Name,
		settings: settings,
		maxCalls: maxCalls,
		stubs:    make(map[string]Stub),
	}
}

// ID returns the proxy's unique identity
func (c *Core) ID() uuid.UUID {
	return c.id
}

// Name returns the proxy's display name
func (c *Core) Name() string {
	return c.name
}

// Settings returns the settings the proxy was built with
func (c *Core) Settings() Settings {
	return c.settings
}

// Delegate returns the wrapped real instance, nil for a pure proxy
func (c *Core) Delegate() interface{} {
	return c.settings.SpiedInstance
}

// StubMethod programs an answer for a method, replacing any previous one
func (c *Core) StubMethod(method string, stub Stub) {
	c.stubs[method] = stub
}

// Invoke records a call and answers it from the programmed stubs. The second
// return is false when the method is unstubbed, in which case the caller
// applies the default answer policy (delegate to the real instance or return
// zero values).
func (c *Core) Invoke(method string, args ...interface{}) ([]interface{}, bool) {
	if c.maxCalls <= 0 || len(c.calls) < c.maxCalls {
		c.calls = append(c.calls, Call{
			Method:   method,
			Args:     args,
			Rendered: spew.Sdump(args...),
		})
	}
	if stub, ok := c.stubs[method]; ok {
		return stub(args), true
	}
	return nil, false
}

// Calls returns a copy of the recorded calls in invocation order
func (c *Core) Calls() []Call {
	calls := make([]Call, len(c.calls))
	copy(calls, c.calls)
	return calls
}

// CallCount returns how many times a method has been invoked
func (c *Core) CallCount(method string) int {
	count := 0
	for _, call := range c.calls {
		if call.Method == method {
			count++
		}
	}
	return count
}

// reset clears recorded interactions and programmed stubs in place
func (c *Core) reset() {
	c.calls = nil
	c.stubs = make(map[string]Stub)
}

// coreHolder is implemented by every factory-built proxy value
type coreHolder interface {
	proxyCore() *Core
}

// proxyCore marks factory values that embed a Core as proxies
func (c *Core) proxyCore() *Core {
	return c
}
