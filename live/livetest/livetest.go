// Package livetest drives live pages over HTTP in tests, the way a browser running
// Datastar would: open the page, connect the event stream, trigger actions.
package livetest

import (
	"bufio"
	"context"
	"encoding/json"
	"html"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/ryanhamamura/elegant/live"
	"github.com/stretchr/testify/require"
)

var (
	signalsRe = regexp.MustCompile(`live_ctx:'([^']+)',live_csrf:'([0-9a-f]+)'`)
	actionRe  = regexp.MustCompile(`/_action/([0-9a-f]+)`)
)

// Server starts an httptest server for the app's full handler chain.
func Server(t *testing.T, a *live.App) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return srv
}

// View is one page view opened in a test.
type View struct {
	t      *testing.T
	srv    *httptest.Server
	client *http.Client
	ID     string
	CSRF   string
	HTML   string
}

// Open fetches route and reads the view id and CSRF token from the document.
// Session cookies are kept for later actions.
func Open(t *testing.T, srv *httptest.Server, route string) *View {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return open(t, srv, &http.Client{Transport: srv.Client().Transport, Jar: jar}, route)
}

// Open opens route in the same browser session as v.
func (v *View) Open(route string) *View {
	v.t.Helper()
	return open(v.t, v.srv, v.client, route)
}

func open(t *testing.T, srv *httptest.Server, client *http.Client, route string) *View {
	t.Helper()
	resp, err := client.Get(srv.URL + route)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	doc := html.UnescapeString(string(body))
	m := signalsRe.FindStringSubmatch(doc)
	require.Len(t, m, 3, "document has no live signals")
	return &View{t: t, srv: srv, client: client, ID: m[1], CSRF: m[2], HTML: doc}
}

// ActionIDs lists the action ids referenced by the document, in document order.
func (v *View) ActionIDs() []string {
	var ids []string
	for _, m := range actionRe.FindAllStringSubmatch(v.HTML, -1) {
		ids = append(ids, m[1])
	}
	return ids
}

// BoundSignal returns the id of the signal bound to the element with the given id.
func (v *View) BoundSignal(elementID string) string {
	re := regexp.MustCompile(`id="` + regexp.QuoteMeta(elementID) + `"[^>]*data-bind="([^"]+)"`)
	m := re.FindStringSubmatch(v.HTML)
	require.Len(v.t, m, 2, "no bound element %q", elementID)
	return m[1]
}

// Trigger calls the action with the given browser-side signal values and returns
// the response status.
func (v *View) Trigger(actionID string, signals map[string]any) int {
	v.t.Helper()
	payload := map[string]any{"live_ctx": v.ID, "live_csrf": v.CSRF}
	for k, val := range signals {
		payload[k] = val
	}
	raw, err := json.Marshal(payload)
	require.NoError(v.t, err)

	resp, err := v.client.Get(v.srv.URL + "/_action/" + actionID + "?datastar=" + url.QueryEscape(string(raw)))
	require.NoError(v.t, err)
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode
}

// Stream is a connected live event stream.
type Stream struct {
	t      *testing.T
	ctx    context.Context
	cancel context.CancelFunc
	events chan string
}

// Connect opens the event stream, which mounts the view.
func (v *View) Connect() *Stream {
	v.t.Helper()
	raw, err := json.Marshal(map[string]any{"live_ctx": v.ID, "live_csrf": v.CSRF})
	require.NoError(v.t, err)

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.srv.URL+"/_sse?datastar="+url.QueryEscape(string(raw)), nil)
	require.NoError(v.t, err)
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := v.client.Do(req)
	if err != nil {
		cancel()
		require.NoError(v.t, err)
	}
	require.Equal(v.t, http.StatusOK, resp.StatusCode)

	s := &Stream{t: v.t, ctx: ctx, cancel: cancel, events: make(chan string, 64)}
	go s.read(resp.Body)
	v.t.Cleanup(s.Close)
	return s
}

func (s *Stream) read(body io.ReadCloser) {
	defer body.Close()
	defer close(s.events)
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var ev strings.Builder
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			if ev.Len() > 0 {
				select {
				case s.events <- html.UnescapeString(ev.String()):
				case <-s.ctx.Done():
					return
				}
				ev.Reset()
			}
			continue
		}
		ev.WriteString(line)
		ev.WriteByte('\n')
	}
}

// WaitFor returns the first event containing substr, failing the test after timeout.
// Events are html-unescaped before matching.
func (s *Stream) WaitFor(substr string, timeout time.Duration) string {
	s.t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case ev, ok := <-s.events:
			if !ok {
				s.t.Fatalf("stream closed before %q arrived", substr)
				return ""
			}
			if strings.Contains(ev, substr) {
				return ev
			}
		case <-deadline:
			s.t.Fatalf("timed out waiting for %q", substr)
			return ""
		}
	}
}

// Close disconnects the stream, which unmounts the view.
func (s *Stream) Close() {
	s.cancel()
}
