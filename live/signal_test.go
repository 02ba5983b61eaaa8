package live

import (
	"strings"
	"testing"

	"github.com/ryanhamamura/elegant/h"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalReturnAsString(t *testing.T) {
	testcases := []struct {
		desc     string
		given    any
		expected string
	}{
		{"string", "test", "test"},
		{"other string", "another", "another"},
		{"int", 1, "1"},
		{"negative int", -99, "-99"},
		{"float", 1.1, "1.1"},
		{"negative float", -34.345, "-34.345"},
		{"positive bool", true, "true"},
		{"negative bool", false, "false"},
	}

	for _, testcase := range testcases {
		t.Run(testcase.desc, func(t *testing.T) {
			t.Parallel()
			var sig *Signal
			a := New()
			a.Page("/", func(c *Context) {
				sig = c.Signal(testcase.given)
				c.View(func() h.H { return h.Div() })
			})
			assert.Equal(t, testcase.expected, sig.String())
		})

	}
}

func TestSignalReturnAsStringComplexTypes(t *testing.T) {
	testcases := []struct {
		desc     string
		given    any
		expected string
	}{
		{"string slice", []string{"test"}, `["test"]`},
		{"int slice", []int{1, 2}, "[1, 2]"},
		{"struct1", struct{ Val string }{"test"}, `{"Val": "test"}`},
		{"struct2", struct {
			Num        int
			IsPositive bool
		}{1, true}, `{"Num": 1, "IsPositive": true}`},
	}

	for _, testcase := range testcases {
		t.Run(testcase.desc, func(t *testing.T) {
			t.Parallel()
			var sig *Signal
			a := New()
			a.Page("/", func(c *Context) {
				c.View(func() h.H { return nil })
				sig = c.Signal(testcase.given)
			})
			assert.JSONEq(t, testcase.expected, sig.String())
		})
	}
}

func TestSignalConversions(t *testing.T) {
	c := newContext("conv", "/", New())

	assert.True(t, c.Signal("on").Bool())
	assert.False(t, c.Signal("nope").Bool())
	assert.Equal(t, 42, c.Signal("42").Int())
	assert.Equal(t, 0, c.Signal("forty-two").Int())
}

func TestSignalNilValueCarriesError(t *testing.T) {
	c := newContext("nil-sig", "/", New())
	sig := c.Signal(nil)
	assert.Error(t, sig.Err())
}

func TestSignalSetValueMarksChanged(t *testing.T) {
	c := newContext("set", "/", New())
	sig := c.Signal("all")
	_, _ = sig.takeChange()

	sig.SetValue("commercial")
	v, changed := sig.takeChange()
	assert.True(t, changed)
	assert.Equal(t, "commercial", v)

	_, changed = sig.takeChange()
	assert.False(t, changed)
}

func TestSignalBindAndText(t *testing.T) {
	c := newContext("bind", "/", New())
	sig := c.Signal("")

	var b strings.Builder
	require.NoError(t, h.Div(h.Input(sig.Bind()), sig.Text()).Render(&b))
	assert.Contains(t, b.String(), `data-bind="`+sig.ID()+`"`)
	assert.Contains(t, b.String(), `data-text="$`+sig.ID()+`"`)
}
