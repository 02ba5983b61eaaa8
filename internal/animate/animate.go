// Package animate reveals page sections as they scroll into view. It drives a browser
// IntersectionObserver from the server: each render pass attaches a fresh observer
// and the previous one is disconnected first, so a view never holds more than one.
//
// Release only reaches the browser while the view's stream is open. Released from an
// unmount hook, the script is dropped: the document, and its observers, are already
// gone, and only the server-side handle is reset.
package animate

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
)

// Observer configures which elements are revealed and when.
type Observer struct {
	// Selector matches the elements to observe.
	Selector string
	// VisibleClass is added to an element once it intersects the viewport.
	VisibleClass string
	// Threshold is the visible fraction that counts as intersecting.
	Threshold float64
	// RootMargin grows or shrinks the viewport box, CSS margin syntax.
	RootMargin string
}

// DefaultObserver reveals `.fade-in` elements once a tenth of them is on screen, with
// the bottom edge of the viewport pulled up by 50px.
func DefaultObserver() Observer {
	return Observer{
		Selector:     ".fade-in",
		VisibleClass: "visible",
		Threshold:    0.1,
		RootMargin:   "0px 0px -50px 0px",
	}
}

// Executor runs a script once in the browser. *live.Context satisfies it.
type Executor interface {
	ExecScript(script string)
}

// Animator owns the observer handle of one view.
type Animator struct {
	mu     sync.Mutex
	cfg    Observer
	scope  string
	seq    int
	active string
}

// New returns an animator whose handles are named after scope, typically the view id.
func New(scope string, cfg Observer) *Animator {
	return &Animator{scope: scope, cfg: cfg}
}

// Attach releases the current handle, if any, then observes every element matching
// the selector in the current DOM. It returns the new handle.
func (a *Animator) Attach(exec Executor) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.releaseLocked(exec)
	a.seq++
	a.active = a.scope + "#" + strconv.Itoa(a.seq)
	exec.ExecScript(a.cfg.attachScript(a.active))
	return a.active
}

// Release disconnects the current handle. Calling it without a handle is a no-op.
func (a *Animator) Release(exec Executor) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.releaseLocked(exec)
}

func (a *Animator) releaseLocked(exec Executor) {
	if a.active == "" {
		return
	}
	exec.ExecScript(releaseScript(a.active))
	a.active = ""
}

// Active returns the live handle, or false when none is attached.
func (a *Animator) Active() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active, a.active != ""
}

func (o Observer) attachScript(handle string) string {
	return fmt.Sprintf(`(function(){
	var reg = window.__fadeObservers = window.__fadeObservers || {};
	var key = %s, sel = %s, cls = %s;
	if (reg[key]) { reg[key].disconnect(); }
	if (!('IntersectionObserver' in window)) {
		document.querySelectorAll(sel).forEach(function(el){ el.classList.add(cls); });
		return;
	}
	var obs = new IntersectionObserver(function(entries){
		entries.forEach(function(entry){
			if (entry.isIntersecting) { entry.target.classList.add(cls); }
		});
	}, {threshold: %s, rootMargin: %s});
	document.querySelectorAll(sel).forEach(function(el){ obs.observe(el); });
	reg[key] = obs;
})();`, jsString(handle), jsString(o.Selector), jsString(o.VisibleClass),
		strconv.FormatFloat(o.Threshold, 'f', -1, 64), jsString(o.RootMargin))
}

func releaseScript(handle string) string {
	return fmt.Sprintf(`(function(){
	var reg = window.__fadeObservers, key = %s;
	if (reg && reg[key]) { reg[key].disconnect(); delete reg[key]; }
})();`, jsString(handle))
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
