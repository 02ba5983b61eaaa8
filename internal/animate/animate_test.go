package animate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	scripts []string
}

func (r *recorder) ExecScript(s string) { r.scripts = append(r.scripts, s) }

func TestDefaultObserver(t *testing.T) {
	o := DefaultObserver()
	assert.Equal(t, ".fade-in", o.Selector)
	assert.Equal(t, "visible", o.VisibleClass)
	assert.InDelta(t, 0.1, o.Threshold, 0)
	assert.Equal(t, "0px 0px -50px 0px", o.RootMargin)
}

func TestAttachEmitsObserverScript(t *testing.T) {
	rec := &recorder{}
	a := New("home", DefaultObserver())

	handle := a.Attach(rec)

	require.Len(t, rec.scripts, 1)
	s := rec.scripts[0]
	assert.Contains(t, s, "new IntersectionObserver")
	assert.Contains(t, s, `"`+handle+`"`)
	assert.Contains(t, s, `sel = ".fade-in"`)
	assert.Contains(t, s, `cls = "visible"`)
	assert.Contains(t, s, "threshold: 0.1")
	assert.Contains(t, s, `rootMargin: "0px 0px -50px 0px"`)
	active, ok := a.Active()
	assert.True(t, ok)
	assert.Equal(t, handle, active)
}

func TestAttachReleasesPreviousHandleFirst(t *testing.T) {
	rec := &recorder{}
	a := New("home", DefaultObserver())

	first := a.Attach(rec)
	second := a.Attach(rec)

	assert.NotEqual(t, first, second)
	require.Len(t, rec.scripts, 3)
	assert.Contains(t, rec.scripts[1], "disconnect")
	assert.Contains(t, rec.scripts[1], `"`+first+`"`)
	assert.NotContains(t, rec.scripts[1], "new IntersectionObserver")
	assert.Contains(t, rec.scripts[2], `"`+second+`"`)

	active, _ := a.Active()
	assert.Equal(t, second, active)
}

func TestReleaseIsIdempotent(t *testing.T) {
	rec := &recorder{}
	a := New("home", DefaultObserver())

	a.Release(rec)
	assert.Empty(t, rec.scripts)

	a.Attach(rec)
	a.Release(rec)
	a.Release(rec)

	assert.Len(t, rec.scripts, 2)
	_, ok := a.Active()
	assert.False(t, ok)
}

func TestAtMostOneHandleAcrossRenders(t *testing.T) {
	rec := &recorder{}
	a := New("home", DefaultObserver())
	for range 5 {
		a.Attach(rec)
	}

	attaches, releases := 0, 0
	for _, s := range rec.scripts {
		if strings.Contains(s, "new IntersectionObserver") {
			attaches++
		} else {
			releases++
		}
	}
	assert.Equal(t, 5, attaches)
	assert.Equal(t, 4, releases)
}

func TestScriptsQuoteValues(t *testing.T) {
	rec := &recorder{}
	a := New(`x"y`, Observer{Selector: `[data-x="1"]`, VisibleClass: "on", Threshold: 0.5, RootMargin: "0px"})
	a.Attach(rec)
	assert.Contains(t, rec.scripts[0], `"[data-x=\"1\"]"`)
	assert.Contains(t, rec.scripts[0], `"x\"y#1"`)
}

// droppingExecutor accepts scripts without delivering them, like a view whose stream
// has already closed.
type droppingExecutor struct{ calls int }

func (d *droppingExecutor) ExecScript(string) { d.calls++ }

func TestReleaseAfterStreamClosedResetsHandle(t *testing.T) {
	rec := &recorder{}
	a := New("home", DefaultObserver())
	a.Attach(rec)

	closed := &droppingExecutor{}
	a.Release(closed)
	assert.Equal(t, 1, closed.calls)
	_, ok := a.Active()
	assert.False(t, ok)

	next := a.Attach(rec)
	require.Len(t, rec.scripts, 2)
	assert.Contains(t, rec.scripts[1], "new IntersectionObserver")
	assert.Contains(t, rec.scripts[1], `"`+next+`"`)
}
