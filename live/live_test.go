package live

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/ryanhamamura/elegant/h"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRoute(t *testing.T) {
	a := New()
	a.Page("/", func(c *Context) {
		c.View(func() h.H {
			return h.Div(h.Text("Hello Elegant!"))
		})
	})

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	a.mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hello Elegant!")
	assert.Contains(t, w.Body.String(), "<!doctype html>")
}

func TestRootPageDoesNotCatchAll(t *testing.T) {
	a := New()
	a.Page("/", func(c *Context) {
		c.View(func() h.H { return h.Div() })
	})

	w := httptest.NewRecorder()
	a.mux.ServeHTTP(w, httptest.NewRequest("GET", "/favicon.ico", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, a.contextRegistry)
}

func TestPageRegistersContext(t *testing.T) {
	a := New()
	a.Page("/query", func(c *Context) {
		c.View(func() h.H { return h.Div() })
	})

	w := httptest.NewRecorder()
	a.mux.ServeHTTP(w, httptest.NewRequest("GET", "/query", nil))

	require.Len(t, a.contextRegistry, 1)
	for id, c := range a.contextRegistry {
		assert.Contains(t, w.Body.String(), id)
		assert.Contains(t, w.Body.String(), c.csrfToken)
	}
}

func TestDefaultDatastarFromCDN(t *testing.T) {
	a := New()
	a.Page("/", func(c *Context) {
		c.View(func() h.H { return h.Div() })
	})

	w := httptest.NewRecorder()
	a.mux.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	assert.Contains(t, w.Body.String(), `src="`+defaultDatastarSrc+`"`)
}

func TestCustomDatastarContent(t *testing.T) {
	customScript := []byte("// Custom Datastar Script")
	a := New()
	a.Config(Options{
		DatastarContent: customScript,
		DatastarPath:    "/assets/datastar.js",
	})
	a.Page("/test", func(c *Context) {
		c.View(func() h.H { return h.Div() })
	})

	req := httptest.NewRequest("GET", "/assets/datastar.js", nil)
	w := httptest.NewRecorder()
	a.mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/javascript", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "Custom Datastar Script")

	req2 := httptest.NewRequest("GET", "/test", nil)
	w2 := httptest.NewRecorder()
	a.mux.ServeHTTP(w2, req2)
	assert.Contains(t, w2.Body.String(), `src="/assets/datastar.js"`)
}

func TestSignal(t *testing.T) {
	var sig *Signal
	a := New()
	a.Page("/", func(c *Context) {
		sig = c.Signal("test")
		c.View(func() h.H { return h.Div() })
	})

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	a.mux.ServeHTTP(w, req)

	assert.Equal(t, "test", sig.String())
}

func TestActionTriggers(t *testing.T) {
	var trigger *ActionTrigger
	var sig *Signal
	a := New()
	a.Page("/", func(c *Context) {
		trigger = c.Action(func() {})
		sig = c.Signal("value")
		c.View(func() h.H {
			return h.Div(
				h.Button(trigger.OnClick()),
				h.Input(trigger.OnChange()),
				h.Form(trigger.OnSubmit()),
				h.Button(trigger.OnClick(WithSignal(sig, "residential"))),
				h.Button(trigger.OnClick(WithSignalInt(sig, 42))),
			)
		})
	})

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	a.mux.ServeHTTP(w, req)
	body := w.Body.String()
	assert.Contains(t, body, "data-on:click")
	assert.Contains(t, body, "data-on:change__debounce.200ms")
	assert.Contains(t, body, "data-on:submit__prevent")
	assert.Contains(t, body, "/_action/"+trigger.ID())
	assert.Contains(t, body, "$"+sig.ID()+"=&#39;residential&#39;")
}

func actionRequest(t *testing.T, c *Context, actionID string, sigs map[string]any) *http.Request {
	t.Helper()
	payload := map[string]any{signalCtxID: c.id, signalCSRF: c.csrfToken}
	for k, v := range sigs {
		payload[k] = v
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return httptest.NewRequest("GET", "/_action/"+actionID+"?datastar="+url.QueryEscape(string(raw)), nil)
}

func servePage(t *testing.T, a *App, route string) *Context {
	t.Helper()
	w := httptest.NewRecorder()
	a.mux.ServeHTTP(w, httptest.NewRequest("GET", route, nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, a.contextRegistry, 1)
	for _, c := range a.contextRegistry {
		return c
	}
	return nil
}

func TestActionInjectsSignals(t *testing.T) {
	var (
		name    *Signal
		trigger *ActionTrigger
		got     string
	)
	a := New()
	a.Page("/", func(c *Context) {
		name = c.Signal("")
		trigger = c.Action(func() { got = name.String() })
		c.View(func() h.H { return h.Div() })
	})
	c := servePage(t, a, "/")

	w := httptest.NewRecorder()
	a.mux.ServeHTTP(w, actionRequest(t, c, trigger.ID(), map[string]any{name.ID(): "Jane"}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Jane", got)
}

func TestActionRejectsBadCSRF(t *testing.T) {
	called := false
	var trigger *ActionTrigger
	a := New()
	a.Page("/", func(c *Context) {
		trigger = c.Action(func() { called = true })
		c.View(func() h.H { return h.Div() })
	})
	c := servePage(t, a, "/")
	req := actionRequest(t, c, trigger.ID(), nil)
	c.csrfToken = genCSRFToken()

	w := httptest.NewRecorder()
	a.mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, called)
}

func TestActionUnknownView(t *testing.T) {
	a := New()
	w := httptest.NewRecorder()
	a.mux.ServeHTTP(w, httptest.NewRequest("GET", "/_action/abc?datastar="+url.QueryEscape(`{"live_ctx":"nope"}`), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestActionPanicIsRecovered(t *testing.T) {
	var trigger *ActionTrigger
	a := New()
	a.Page("/", func(c *Context) {
		trigger = c.Action(func() { panic("boom") })
		c.View(func() h.H { return h.Div() })
	})
	c := servePage(t, a, "/")

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		a.mux.ServeHTTP(w, actionRequest(t, c, trigger.ID(), nil))
	})
}

func TestSessionCloseDisposesView(t *testing.T) {
	unmounted := false
	a := New()
	a.Page("/", func(c *Context) {
		c.OnUnmount(func() { unmounted = true })
		c.View(func() h.H { return h.Div() })
	})
	c := servePage(t, a, "/")

	w := httptest.NewRecorder()
	a.mux.ServeHTTP(w, httptest.NewRequest("POST", "/_session/close", strings.NewReader(c.id)))

	assert.True(t, unmounted)
	assert.True(t, c.Disposed())
	assert.Empty(t, a.contextRegistry)
}

func TestConfig(t *testing.T) {
	a := New()
	a.Config(Options{DocumentTitle: "Test", ServerAddress: ":9999"})
	assert.Equal(t, "Test", a.cfg.DocumentTitle)
	assert.Equal(t, ":9999", a.cfg.ServerAddress)
}

func TestPluginRuns(t *testing.T) {
	a := New()
	a.Config(Options{Plugins: []Plugin{func(a *App) {
		a.AppendToHead(h.Link(h.Rel("stylesheet"), h.Href("/static/site.css")))
	}}})
	a.Page("/", func(c *Context) {
		c.View(func() h.H { return h.Div() })
	})

	w := httptest.NewRecorder()
	a.mux.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	assert.Contains(t, w.Body.String(), `href="/static/site.css"`)
}

func TestPage_PanicsOnNoView(t *testing.T) {
	assert.Panics(t, func() {
		a := New()
		a.Page("/", func(c *Context) {})
	})
}
