package live

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ryanhamamura/elegant/h"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewLimiterDefaults(t *testing.T) {
	l := newViewLimiter(RateLimitConfig{})
	require.NotNil(t, l)
	assert.InDelta(t, defaultViewRate, float64(l.Limit()), 0.001)
	assert.Equal(t, defaultViewBurst, l.Burst())
}

func TestNewLimiterCustomValues(t *testing.T) {
	l := newLimiter(RateLimitConfig{Rate: 5, Burst: 10}, defaultViewRate, defaultViewBurst)
	require.NotNil(t, l)
	assert.InDelta(t, 5.0, float64(l.Limit()), 0.001)
	assert.Equal(t, 10, l.Burst())
}

func TestNewLimiterDisabledWithNegativeRate(t *testing.T) {
	assert.Nil(t, newViewLimiter(RateLimitConfig{Rate: -1}))
}

func TestTokenBucket_AllowsBurstThenRejects(t *testing.T) {
	l := newLimiter(RateLimitConfig{Rate: 1, Burst: 3}, 1, 3)
	require.NotNil(t, l)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow(), "request %d should be allowed within burst", i)
	}
	assert.False(t, l.Allow(), "request beyond burst should be rejected")
}

func TestWithRateLimitZeroUsesActionDefaults(t *testing.T) {
	entry := actionEntry{fn: func() {}}
	WithRateLimit(0, 0)(&entry)

	require.NotNil(t, entry.limiter)
	assert.InDelta(t, defaultActionRate, float64(entry.limiter.Limit()), 0.001)
	assert.Equal(t, defaultActionBurst, entry.limiter.Burst())
}

func TestLimitedByNamesTheRejectingBucket(t *testing.T) {
	a := New()
	c := newContext("test-buckets", "/", a)
	c.actionLimiter = newLimiter(RateLimitConfig{Rate: 0.001, Burst: 2}, 0, 0)
	entry := actionEntry{fn: func() {}}
	WithRateLimit(0.001, 1)(&entry)

	assert.Empty(t, c.limitedBy(entry))
	assert.Equal(t, "action", c.limitedBy(entry))
	assert.Equal(t, "view", c.limitedBy(entry))
}

func TestWithRateLimit_CreatesLimiter(t *testing.T) {
	entry := actionEntry{fn: func() {}}
	opt := WithRateLimit(2, 4)
	opt(&entry)

	require.NotNil(t, entry.limiter)
	assert.InDelta(t, 2.0, float64(entry.limiter.Limit()), 0.001)
	assert.Equal(t, 4, entry.limiter.Burst())
}

func TestContextAction_WithRateLimit(t *testing.T) {
	a := New()
	c := newContext("test-rl", "/", a)

	called := false
	c.Action(func() { called = true }, WithRateLimit(1, 2))

	// Verify the entry has its own limiter
	for _, entry := range c.actionRegistry {
		require.NotNil(t, entry.limiter)
		assert.InDelta(t, 1.0, float64(entry.limiter.Limit()), 0.001)
		assert.Equal(t, 2, entry.limiter.Burst())
	}
	assert.False(t, called)
}

func TestContextAction_DefaultNoPerActionLimiter(t *testing.T) {
	a := New()
	c := newContext("test-no-rl", "/", a)

	c.Action(func() {})

	for _, entry := range c.actionRegistry {
		assert.Nil(t, entry.limiter, "entry without WithRateLimit should have nil limiter")
	}
}

func TestContextLimiter_DefaultsApplied(t *testing.T) {
	a := New()
	c := newContext("test-ctx-limiter", "/", a)

	require.NotNil(t, c.actionLimiter)
	assert.InDelta(t, defaultViewRate, float64(c.actionLimiter.Limit()), 0.001)
	assert.Equal(t, defaultViewBurst, c.actionLimiter.Burst())
}

func TestContextLimiter_DisabledViaConfig(t *testing.T) {
	a := New()
	a.actionRateLimit = RateLimitConfig{Rate: -1}
	c := newContext("test-disabled", "/", a)

	assert.Nil(t, c.actionLimiter)
}

func TestContextLimiter_CustomConfig(t *testing.T) {
	a := New()
	a.Config(Options{ActionRateLimit: RateLimitConfig{Rate: 50, Burst: 100}})
	c := newContext("test-custom", "/", a)

	require.NotNil(t, c.actionLimiter)
	assert.InDelta(t, 50.0, float64(c.actionLimiter.Limit()), 0.001)
	assert.Equal(t, 100, c.actionLimiter.Burst())
}

func TestActionPerActionLimiterRejects(t *testing.T) {
	calls := 0
	var trigger *ActionTrigger
	a := New()
	a.Page("/", func(c *Context) {
		trigger = c.Action(func() { calls++ }, WithRateLimit(0.001, 1))
		c.View(func() h.H { return h.Div() })
	})
	c := servePage(t, a, "/")

	first := httptest.NewRecorder()
	a.mux.ServeHTTP(first, actionRequest(t, c, trigger.ID(), nil))
	second := httptest.NewRecorder()
	a.mux.ServeHTTP(second, actionRequest(t, c, trigger.ID(), nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, 1, calls)
}
