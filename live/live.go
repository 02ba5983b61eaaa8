// Package live is the server-driven rendering runtime behind the studio site.
//
// Every page request builds a *Context that owns the view state of that single page
// view. The first HTML document is rendered on the server; the browser then opens a
// Server-Sent-Events stream and every state change is pushed as an HTML patch through
// Datastar. A Context is mounted when its stream connects and unmounted when the stream
// ends, the tab closes, or the view is reaped.
package live

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	ossignal "os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/rs/zerolog"
	"github.com/ryanhamamura/elegant/h"
	"github.com/starfederation/datastar-go/datastar"
)

const (
	defaultDatastarSrc = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"
	defaultContextTTL  = 30 * time.Second

	signalCtxID = "live_ctx"
	signalCSRF  = "live_csrf"
)

// App is the root application.
// It manages page routing, user sessions, and SSE connections for live updates.
type App struct {
	cfg                  Options
	mux                  *http.ServeMux
	server               *http.Server
	logger               zerolog.Logger
	contextRegistry      map[string]*Context
	contextRegistryMutex sync.RWMutex
	documentHeadIncludes []h.H
	documentFootIncludes []h.H
	sessionManager       *scs.SessionManager
	pubsub               PubSub
	actionRateLimit      RateLimitConfig
	datastarSrc          string
	datastarContent      []byte
	datastarOnce         sync.Once
	reaperStop           chan struct{}
}

func (a *App) logEvent(evt *zerolog.Event, c *Context) *zerolog.Event {
	if c != nil && c.id != "" {
		evt = evt.Str("live-ctx", c.id)
	}
	return evt
}

func (a *App) logErr(c *Context, format string, args ...any) {
	a.logEvent(a.logger.Error(), c).Msgf(format, args...)
}

func (a *App) logWarn(c *Context, format string, args ...any) {
	a.logEvent(a.logger.Warn(), c).Msgf(format, args...)
}

func (a *App) logInfo(c *Context, format string, args ...any) {
	a.logEvent(a.logger.Info(), c).Msgf(format, args...)
}

func (a *App) logDebug(c *Context, format string, args ...any) {
	a.logEvent(a.logger.Debug(), c).Msgf(format, args...)
}

// NewConsoleLogger returns the human readable logger used in dev mode.
func NewConsoleLogger(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger().Level(level)
}

// Logger returns the application logger.
func (a *App) Logger() zerolog.Logger {
	return a.logger
}

// Config overrides the default configuration with the given options.
func (a *App) Config(cfg Options) {
	if cfg.Logger != nil {
		a.logger = *cfg.Logger
	} else if cfg.LogLevel != nil || cfg.DevMode != a.cfg.DevMode {
		level := zerolog.InfoLevel
		if cfg.LogLevel != nil {
			level = *cfg.LogLevel
		}
		if cfg.DevMode {
			a.logger = NewConsoleLogger(level)
		} else {
			a.logger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level)
		}
	}
	a.cfg.DevMode = cfg.DevMode
	if cfg.DocumentTitle != "" {
		a.cfg.DocumentTitle = cfg.DocumentTitle
	}
	if cfg.DocumentDescription != "" {
		a.cfg.DocumentDescription = cfg.DocumentDescription
	}
	if cfg.ServerAddress != "" {
		a.cfg.ServerAddress = cfg.ServerAddress
	}
	if cfg.SessionManager != nil {
		a.sessionManager = cfg.SessionManager
	}
	if cfg.DatastarContent != nil {
		a.datastarContent = cfg.DatastarContent
		a.datastarSrc = "/_datastar.js"
	}
	if cfg.DatastarPath != "" {
		a.datastarSrc = cfg.DatastarPath
	}
	if cfg.PubSub != nil {
		a.pubsub = cfg.PubSub
	}
	if cfg.ContextTTL != 0 {
		a.cfg.ContextTTL = cfg.ContextTTL
	}
	if cfg.ActionRateLimit.Rate != 0 || cfg.ActionRateLimit.Burst != 0 {
		a.actionRateLimit = cfg.ActionRateLimit
	}
	for _, plugin := range cfg.Plugins {
		if plugin != nil {
			plugin(a)
		}
	}
}

// AppendToHead appends the given h.H nodes to the head of the base HTML document.
// Useful for including css stylesheets and JS scripts.
func (a *App) AppendToHead(elements ...h.H) {
	for _, el := range elements {
		if el != nil {
			a.documentHeadIncludes = append(a.documentHeadIncludes, el)
		}
	}
}

// AppendToFoot appends the given h.H nodes to the end of the base HTML document body.
func (a *App) AppendToFoot(elements ...h.H) {
	for _, el := range elements {
		if el != nil {
			a.documentFootIncludes = append(a.documentFootIncludes, el)
		}
	}
}

// Page registers a route and its associated page init func. The init func receives a
// fresh *Context for every page view and defines its state, actions, hooks, and view.
//
// Example:
//
//	app.Page("/", func(c *live.Context) {
//		c.View(func() h.H {
//			return h.H1(h.Text("Elegant Interiors"))
//		})
//	})
//
// The init func is exercised once at registration; one that panics or never calls
// View stops the program before it serves traffic.
func (a *App) Page(route string, initContextFn func(c *Context)) {
	a.ensureDatastarHandler()
	func() {
		defer func() {
			if err := recover(); err != nil {
				a.logger.WithLevel(zerolog.FatalLevel).Msgf("failed to register page %q with init func that panics: %v", route, err)
				panic(err)
			}
		}()
		c := newContext("", route, a)
		defer c.dispose()
		initContextFn(c)
		c.view()
	}()

	pattern := route
	if route == "/" {
		pattern = "/{$}"
	}
	a.mux.HandleFunc("GET "+pattern, func(w http.ResponseWriter, r *http.Request) {
		a.logDebug(nil, "GET %s", r.URL.String())
		id := fmt.Sprintf("%s_/%s", route, genRandID())
		c := newContext(id, route, a)
		c.reqCtx = r.Context()
		initContextFn(c)
		a.registerCtx(c)

		headElements := []h.H{h.Script(h.Type("module"), h.Src(a.datastarSrc))}
		headElements = append(headElements, a.documentHeadIncludes...)
		headElements = append(headElements,
			h.Meta(h.Data("signals", fmt.Sprintf("{%s:'%s',%s:'%s'}", signalCtxID, id, signalCSRF, c.csrfToken))),
			h.Meta(h.Data("init", "@get('/_sse')")),
			h.Meta(h.Data("init", fmt.Sprintf(`window.addEventListener('beforeunload', (evt) => {
			navigator.sendBeacon('/_session/close', '%s');});`, c.id))),
		)

		bodyElements := []h.H{c.view()}
		bodyElements = append(bodyElements, a.documentFootIncludes...)
		view := h.HTML5(h.HTML5Props{
			Title:       a.cfg.DocumentTitle,
			Description: a.cfg.DocumentDescription,
			Language:    "en",
			Head:        headElements,
			Body:        bodyElements,
		})
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := view.Render(w); err != nil {
			a.logErr(c, "render page failed: %v", err)
		}
	})
}

// Handle registers a plain http.Handler next to the pages, e.g. a metrics endpoint.
// Like HTTPServeMux, it must only be called before Start.
func (a *App) Handle(pattern string, handler http.Handler) {
	a.mux.Handle(pattern, handler)
}

func (a *App) registerCtx(c *Context) {
	if c == nil {
		a.logErr(nil, "failed to add nil context to registry")
		return
	}
	a.contextRegistryMutex.Lock()
	a.contextRegistry[c.id] = c
	n := len(a.contextRegistry)
	a.contextRegistryMutex.Unlock()
	a.logDebug(c, "new context added to registry")
	a.logDebug(nil, "number of views in registry: %d", n)
}

func (a *App) cleanupCtx(c *Context) {
	c.dispose()
	a.unregisterCtx(c)
}

func (a *App) unregisterCtx(c *Context) {
	if c.id == "" {
		a.logErr(c, "unregister ctx failed: ctx contains empty id")
		return
	}
	a.contextRegistryMutex.Lock()
	delete(a.contextRegistry, c.id)
	n := len(a.contextRegistry)
	a.contextRegistryMutex.Unlock()
	a.logDebug(c, "ctx removed from registry")
	a.logDebug(nil, "number of views in registry: %d", n)
}

func (a *App) getCtx(id string) (*Context, error) {
	a.contextRegistryMutex.RLock()
	defer a.contextRegistryMutex.RUnlock()
	if c, ok := a.contextRegistry[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("ctx '%s' not found", id)
}

func (a *App) startReaper() {
	ttl := a.cfg.ContextTTL
	if ttl < 0 {
		return
	}
	if ttl == 0 {
		ttl = defaultContextTTL
	}
	interval := ttl / 3
	if interval < 5*time.Second {
		interval = 5 * time.Second
	}
	a.reaperStop = make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-a.reaperStop:
				return
			case <-ticker.C:
				a.reapOrphanedContexts(ttl)
			}
		}
	}()
}

// reapOrphanedContexts disposes views whose browser never opened the SSE stream.
func (a *App) reapOrphanedContexts(ttl time.Duration) {
	now := time.Now()
	a.contextRegistryMutex.RLock()
	var orphans []*Context
	for _, c := range a.contextRegistry {
		if !c.sseConnected.Load() && now.Sub(c.createdAt) > ttl {
			orphans = append(orphans, c)
		}
	}
	a.contextRegistryMutex.RUnlock()

	for _, c := range orphans {
		a.logInfo(c, "reaping orphaned context (no SSE connection after %s)", ttl)
		a.cleanupCtx(c)
	}
}

// Handler returns the root handler, wrapped with session loading when sessions are configured.
func (a *App) Handler() http.Handler {
	if a.sessionManager != nil {
		return a.sessionManager.LoadAndSave(a.mux)
	}
	return a.mux
}

// Start starts the HTTP server and blocks until a SIGINT or SIGTERM
// signal is received, then performs a graceful shutdown.
func (a *App) Start() error {
	a.server = &http.Server{
		Addr:              a.cfg.ServerAddress,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.startReaper()

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.ListenAndServe()
	}()

	a.logInfo(nil, "server started at [%s]", a.cfg.ServerAddress)

	sigCh := make(chan os.Signal, 1)
	ossignal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer ossignal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.logInfo(nil, "received signal %v, shutting down", sig)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	}

	a.shutdown()
	return nil
}

// Shutdown gracefully shuts down the server and all contexts.
// Safe for programmatic or test use.
func (a *App) Shutdown() {
	a.shutdown()
}

func (a *App) shutdown() {
	if a.reaperStop != nil {
		close(a.reaperStop)
		a.reaperStop = nil
	}
	a.logInfo(nil, "draining all contexts")
	a.drainAllContexts()

	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.server.Shutdown(ctx); err != nil {
			a.logErr(nil, "http server shutdown error: %v", err)
		}
	}

	if a.pubsub != nil {
		if err := a.pubsub.Close(); err != nil {
			a.logErr(nil, "pubsub close error: %v", err)
		}
	}

	a.logInfo(nil, "shutdown complete")
}

func (a *App) drainAllContexts() {
	a.contextRegistryMutex.Lock()
	contexts := make([]*Context, 0, len(a.contextRegistry))
	for _, c := range a.contextRegistry {
		contexts = append(contexts, c)
	}
	a.contextRegistry = make(map[string]*Context)
	a.contextRegistryMutex.Unlock()

	for _, c := range contexts {
		a.logDebug(c, "disposing context")
		c.dispose()
	}
	a.logInfo(nil, "drained %d context(s)", len(contexts))
}

// HTTPServeMux returns the underlying HTTP request multiplexer to enable plugins and tests.
//
// IMPORTANT. The returned *http.ServeMux can only be modified during initialization, before calling Start().
func (a *App) HTTPServeMux() *http.ServeMux {
	return a.mux
}

func (a *App) ensureDatastarHandler() {
	a.datastarOnce.Do(func() {
		if a.datastarContent == nil {
			return
		}
		a.mux.HandleFunc("GET "+a.datastarSrc, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/javascript")
			_, _ = w.Write(a.datastarContent)
		})
	})
}

type patchType int

const (
	patchTypeElements patchType = iota
	patchTypeSignals
	patchTypeScript
)

type patch struct {
	typ     patchType
	content string
}

// New creates a new *App with default configuration.
func New() *App {
	a := &App{
		mux:             http.NewServeMux(),
		logger:          NewConsoleLogger(zerolog.InfoLevel),
		contextRegistry: make(map[string]*Context),
		datastarSrc:     defaultDatastarSrc,
		cfg: Options{
			ServerAddress: ":3000",
			DocumentTitle: "Elegant Interiors",
		},
	}

	a.mux.HandleFunc("GET /_sse", a.handleSSE)
	a.mux.HandleFunc("GET /_action/{id}", a.handleAction)
	a.mux.HandleFunc("POST /_session/close", a.handleSessionClose)
	return a
}

func (a *App) handleSSE(w http.ResponseWriter, r *http.Request) {
	var sigs map[string]any
	_ = datastar.ReadSignals(r, &sigs)
	cID, _ := sigs[signalCtxID].(string)

	c, err := a.getCtx(cID)
	if err != nil {
		a.logErr(nil, "sse stream failed to start: %v", err)
		http.Error(w, "unknown view", http.StatusNotFound)
		return
	}
	c.reqCtx = r.Context()

	sse := datastar.NewSSE(w, r, datastar.WithCompression(datastar.WithBrotli(datastar.WithBrotliLevel(5))))

	// use last-event-id to tell if request is a sse reconnect
	sse.Send(datastar.EventTypePatchElements, []string{}, datastar.WithSSEEventId("live"))

	c.sseConnected.Store(true)
	a.logDebug(c, "SSE connection established")

	go func() {
		c.mount()
		c.Sync()
	}()

	for {
		select {
		case <-sse.Context().Done():
			a.logDebug(c, "SSE connection ended")
			a.cleanupCtx(c)
			return
		case <-c.Done():
			a.logDebug(c, "context disposed, closing SSE")
			return
		case p := <-c.patchChan:
			if err := a.deliver(sse, p); err != nil && sse.Context().Err() == nil {
				a.logErr(c, "patch delivery failed: %v", err)
			}
		}
	}
}

func (a *App) deliver(sse *datastar.ServerSentEventGenerator, p patch) error {
	switch p.typ {
	case patchTypeElements:
		return sse.PatchElements(p.content)
	case patchTypeSignals:
		return sse.PatchSignals([]byte(p.content))
	case patchTypeScript:
		return sse.ExecuteScript(p.content, datastar.WithExecuteScriptAutoRemove(true))
	}
	return fmt.Errorf("unknown patch type %d", p.typ)
}

func (a *App) handleAction(w http.ResponseWriter, r *http.Request) {
	actionID := r.PathValue("id")
	var sigs map[string]any
	_ = datastar.ReadSignals(r, &sigs)
	cID, _ := sigs[signalCtxID].(string)
	c, err := a.getCtx(cID)
	if err != nil {
		a.logErr(nil, "action '%s' failed: %v", actionID, err)
		http.Error(w, "unknown view", http.StatusNotFound)
		return
	}
	csrfToken, _ := sigs[signalCSRF].(string)
	if subtle.ConstantTimeCompare([]byte(csrfToken), []byte(c.csrfToken)) != 1 {
		a.logWarn(c, "action '%s' rejected: invalid CSRF token", actionID)
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}
	entry, err := c.getAction(actionID)
	if err != nil {
		a.logDebug(c, "action '%s' failed: %v", actionID, err)
		http.Error(w, "unknown action", http.StatusNotFound)
		return
	}
	if bucket := c.limitedBy(entry); bucket != "" {
		a.logWarn(c, "action '%s' rate limited by %s bucket", actionID, bucket)
		http.Error(w, "rate limited", http.StatusTooManyRequests)
		return
	}
	c.reqCtx = r.Context()
	defer func() {
		if rec := recover(); rec != nil {
			a.logErr(c, "action '%s' failed: %v", actionID, rec)
		}
	}()

	c.injectSignals(sigs)
	entry.fn()
}

func (a *App) handleSessionClose(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, 512))
	if err != nil {
		a.logErr(nil, "error reading body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	c, err := a.getCtx(string(body))
	if err != nil {
		a.logDebug(nil, "failed to handle session close: %v", err)
		return
	}
	a.logDebug(c, "session close event triggered")
	a.cleanupCtx(c)
}

func genRandID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func genCSRFToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
