package live

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/ryanhamamura/elegant/h"
	"golang.org/x/time/rate"
)

const patchBufferSize = 32

// Context is the living bridge between Go and one page view in the browser.
//
// It holds the view state, defines actions, manages reactive signals, runs lifecycle
// hooks and defines UI through View.
type Context struct {
	id                string
	route             string
	app               *App
	view              func() h.H
	componentRegistry map[string]*Context
	parentPageCtx     *Context
	patchChan         chan patch
	actionRegistry    map[string]actionEntry
	signals           *sync.Map
	mu                sync.RWMutex
	reqCtx            context.Context
	csrfToken         string
	actionLimiter     *rate.Limiter
	createdAt         time.Time
	sseConnected      atomic.Bool

	lifetime     context.Context
	cancel       context.CancelFunc
	mountOnce    sync.Once
	disposeOnce  sync.Once
	hooksMu      sync.Mutex
	mountHooks   []func()
	unmountHooks []func()
	subs         []Subscription
	unmounted    bool
}

// View defines the UI rendered by this context.
//
// Changes to signals or state can be pushed live with Sync().
func (c *Context) View(f func() h.H) {
	if f == nil {
		panic("nil viewfn")
	}
	c.view = func() h.H { return h.Div(h.ID(c.id), f()) }
}

// Component registers a subcontext that has self contained state, actions and signals.
// It returns the component's view as a DOM node fn that can be placed in the view
// of the parent. Lifecycle hooks of a component run with its page.
//
// Example:
//
//	form := c.Component(func(cc *live.Context) {
//		contact.New(cc, deps)
//	})
//
//	c.View(func() h.H {
//		return h.Section(h.ID("contact"), form())
//	})
func (c *Context) Component(initCtx func(c *Context)) func() h.H {
	id := c.id + "/_component/" + genRandID()
	compCtx := newContext(id, c.route, c.app)
	compCtx.parentPageCtx = c.page()
	compCtx.reqCtx = c.reqCtx
	initCtx(compCtx)
	c.componentRegistry[id] = compCtx
	return compCtx.view
}

func (c *Context) isComponent() bool {
	return c.parentPageCtx != nil
}

// page returns the page context that owns the SSE stream, hooks and registries.
func (c *Context) page() *Context {
	if c.isComponent() {
		return c.parentPageCtx
	}
	return c
}

// Action registers an event handler and returns a trigger to that event that
// can be added to the view fn as any other h element.
//
// Example:
//
//	selectFilter := c.Action(func() {
//		p.SetFilter(filter.String())
//		c.Sync()
//	})
//
//	h.Button(h.Text("Residential"), selectFilter.OnClick(live.WithSignal(filter, "residential")))
func (c *Context) Action(f func(), options ...ActionOption) *ActionTrigger {
	id := genRandID()
	if f == nil {
		c.app.logErr(c, "failed to bind action '%s' to context: nil func", id)
		return nil
	}
	entry := actionEntry{fn: f}
	for _, opt := range options {
		opt(&entry)
	}
	c.page().actionRegistry[id] = entry
	return &ActionTrigger{id}
}

func (c *Context) getAction(id string) (actionEntry, error) {
	if e, ok := c.actionRegistry[id]; ok {
		return e, nil
	}
	return actionEntry{}, fmt.Errorf("action '%s' not found", id)
}

// OnMount registers fn to run once, when the browser connects to this view's live stream.
// Hooks run in registration order. Long running work belongs in Go.
func (c *Context) OnMount(fn func()) {
	if fn == nil {
		return
	}
	p := c.page()
	p.hooksMu.Lock()
	defer p.hooksMu.Unlock()
	p.mountHooks = append(p.mountHooks, fn)
}

// OnUnmount registers fn to run once, when the view is disposed. Hooks run in reverse
// registration order, before the view's lifetime context is cancelled.
func (c *Context) OnUnmount(fn func()) {
	if fn == nil {
		return
	}
	p := c.page()
	p.hooksMu.Lock()
	defer p.hooksMu.Unlock()
	p.unmountHooks = append(p.unmountHooks, fn)
}

// Lifetime returns a context.Context that is cancelled when the view is disposed.
// Pass it to outgoing requests so they stop when the visitor leaves.
func (c *Context) Lifetime() context.Context {
	return c.page().lifetime
}

// Done is closed when the view is disposed.
func (c *Context) Done() <-chan struct{} {
	return c.page().lifetime.Done()
}

// Disposed reports whether the view has been disposed.
func (c *Context) Disposed() bool {
	return c.page().lifetime.Err() != nil
}

// Go runs fn in its own goroutine bound to the view's lifetime. Panics are logged.
func (c *Context) Go(fn func(ctx context.Context)) {
	ctx := c.Lifetime()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				c.app.logErr(c, "view goroutine panicked: %v", r)
			}
		}()
		fn(ctx)
	}()
}

// ID returns the view id. Components return the id of their page.
func (c *Context) ID() string {
	return c.page().id
}

// Logger returns the application logger annotated with this view's id.
func (c *Context) Logger() zerolog.Logger {
	return c.app.logger.With().Str("live-ctx", c.id).Logger()
}

// mount runs the mount hooks once.
func (c *Context) mount() {
	p := c.page()
	p.mountOnce.Do(func() {
		p.hooksMu.Lock()
		hooks := append([]func(){}, p.mountHooks...)
		p.hooksMu.Unlock()
		for _, fn := range hooks {
			p.runHook("mount", fn)
		}
	})
}

// dispose runs the unmount hooks, drops subscriptions and cancels the lifetime context.
// It is safe to call more than once.
func (c *Context) dispose() {
	p := c.page()
	p.disposeOnce.Do(func() {
		p.hooksMu.Lock()
		hooks := append([]func(){}, p.unmountHooks...)
		subs := p.subs
		p.subs = nil
		p.unmounted = true
		p.hooksMu.Unlock()
		for i := len(hooks) - 1; i >= 0; i-- {
			p.runHook("unmount", hooks[i])
		}
		for _, s := range subs {
			if err := s.Unsubscribe(); err != nil {
				p.app.logWarn(p, "unsubscribe failed: %v", err)
			}
		}
		p.cancel()
	})
}

func (c *Context) runHook(kind string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.app.logErr(c, "%s hook panicked: %v", kind, r)
		}
	}()
	fn()
}

// Signal creates a reactive signal and initializes it with the given value.
// Use Bind() to link the value of input elements to the signal and Text() to
// display the signal value.
//
// Example:
//
//	name := c.Signal("")
//
//	c.View(func() h.H {
//		return h.Input(h.Type("text"), h.Required(), name.Bind())
//	})
//
// Signals are 'alive' only in the browser, but the runtime injects their values into
// the Context before each action call. Values set on the server are sent to the
// browser with Sync() or SyncSignals().
func (c *Context) Signal(v any) *Signal {
	sigID := "s" + genRandID()
	if v == nil {
		c.app.logErr(c, "failed to bind signal: nil signal value")
		return &Signal{
			id:  sigID,
			val: "error",
			err: fmt.Errorf("context '%s' failed to bind signal '%s': nil signal value", c.id, sigID),
		}
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Struct, reflect.Map:
		if j, err := json.Marshal(v); err == nil {
			v = string(j)
		}
	}
	sig := &Signal{
		id:      sigID,
		val:     v,
		changed: true,
	}

	p := c.page()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signals.Store(sigID, sig)
	return sig
}

func (c *Context) injectSignals(sigs map[string]any) {
	if sigs == nil {
		c.app.logErr(c, "signal injection failed: nil signals")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for sigID, val := range sigs {
		if sigID == signalCtxID || sigID == signalCSRF {
			continue
		}
		item, ok := c.signals.Load(sigID)
		if !ok {
			c.signals.Store(sigID, &Signal{id: sigID, val: val})
			continue
		}
		if sig, ok := item.(*Signal); ok {
			sig.inject(val)
		}
	}
}

func (c *Context) prepareSignalsForPatch() map[string]any {
	p := c.page()
	p.mu.RLock()
	defer p.mu.RUnlock()
	updated := make(map[string]any)
	p.signals.Range(func(sigID, value any) bool {
		sig, ok := value.(*Signal)
		if !ok {
			return true
		}
		if err := sig.Err(); err != nil {
			c.app.logWarn(c, "signal '%s' is out of sync: %v", sig.id, err)
			return true
		}
		if v, changed := sig.takeChange(); changed {
			updated[sigID.(string)] = v
		}
		return true
	})
	return updated
}

// sendPatch queues a patch on the page's SSE stream. If the view is disposed or the
// queue is full, the patch is dropped to prevent runtime blocks.
func (c *Context) sendPatch(p patch) {
	if c.Disposed() {
		return
	}
	select {
	case c.page().patchChan <- p:
	default:
		c.app.logDebug(c, "patch dropped: queue full")
	}
}

// Sync pushes the current view state and signal changes to the browser immediately
// over the live SSE event stream.
func (c *Context) Sync() {
	elemsPatch := bytes.NewBuffer(make([]byte, 0))
	if err := c.view().Render(elemsPatch); err != nil {
		c.app.logErr(c, "sync view failed: %v", err)
		return
	}
	c.sendPatch(patch{patchTypeElements, elemsPatch.String()})
	c.SyncSignals()
}

// SyncElements pushes an immediate html patch over the live SSE stream to the
// browser that merges with the DOM.
//
// For the merge to occur, each top level element in the patch needs an ID that
// matches the ID of an element already in the view.
func (c *Context) SyncElements(elem ...h.H) {
	b := bytes.NewBuffer(nil)
	for idx, el := range elem {
		if el == nil {
			c.app.logWarn(c, "sync elements failed: element at idx=%d is nil", idx)
			continue
		}
		if err := el.Render(b); err != nil {
			c.app.logWarn(c, "sync elements failed: element at idx=%d has invalid html", idx)
			continue
		}
	}
	c.sendPatch(patch{patchTypeElements, b.String()})
}

// SyncSignals pushes the current signal changes to the browser immediately
// over the live SSE event stream.
func (c *Context) SyncSignals() {
	updated := c.prepareSignalsForPatch()
	if len(updated) == 0 {
		return
	}
	out, err := json.Marshal(updated)
	if err != nil {
		c.app.logErr(c, "marshal signals failed: %v", err)
		return
	}
	c.sendPatch(patch{patchTypeSignals, string(out)})
}

// ExecScript runs s once in the browser.
func (c *Context) ExecScript(s string) {
	if s == "" {
		c.app.logWarn(c, "exec script failed: empty script")
		return
	}
	c.sendPatch(patch{patchTypeScript, s})
}

// Session returns the session for this context.
// Returns a no-op session if no SessionManager is configured.
func (c *Context) Session() *Session {
	return &Session{
		ctx:     c.page().reqCtx,
		manager: c.app.sessionManager,
	}
}

func newContext(id string, route string, a *App) *Context {
	if a == nil {
		panic("create context failed: app pointer is nil")
	}
	lifetime, cancel := context.WithCancel(context.Background())
	return &Context{
		id:                id,
		route:             route,
		app:               a,
		componentRegistry: make(map[string]*Context),
		actionRegistry:    make(map[string]actionEntry),
		signals:           new(sync.Map),
		patchChan:         make(chan patch, patchBufferSize),
		csrfToken:         genCSRFToken(),
		actionLimiter:     newViewLimiter(a.actionRateLimit),
		createdAt:         time.Now(),
		lifetime:          lifetime,
		cancel:            cancel,
	}
}
