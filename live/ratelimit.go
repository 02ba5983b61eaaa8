package live

import "golang.org/x/time/rate"

// Every view has one bucket shared by all of its actions. Actions that reach a
// backend, such as a form submit, add a tighter bucket of their own.
const (
	defaultViewRate    float64 = 10.0
	defaultViewBurst   int     = 20
	defaultActionRate  float64 = 1.0
	defaultActionBurst int     = 3
)

// RateLimitConfig is a token bucket: Rate tokens per second, at most Burst saved up.
// Zero fields take the defaults of the bucket being configured; a Rate of -1
// disables that bucket.
type RateLimitConfig struct {
	Rate  float64
	Burst int
}

// ActionOption configures one action when passed to Context.Action.
type ActionOption func(*actionEntry)

type actionEntry struct {
	fn      func()
	limiter *rate.Limiter // nil: only the view bucket applies
}

// WithRateLimit gives the action its own bucket, checked after the view bucket.
// Zero values mean one call per second with a burst of three.
//
//	submit := c.Action(form.Submit, live.WithRateLimit(0, 0))
func WithRateLimit(r float64, burst int) ActionOption {
	return func(e *actionEntry) {
		e.limiter = newLimiter(RateLimitConfig{Rate: r, Burst: burst}, defaultActionRate, defaultActionBurst)
	}
}

func newViewLimiter(cfg RateLimitConfig) *rate.Limiter {
	return newLimiter(cfg, defaultViewRate, defaultViewBurst)
}

func newLimiter(cfg RateLimitConfig, defaultRate float64, defaultBurst int) *rate.Limiter {
	if cfg.Rate == -1 {
		return nil
	}
	r, b := cfg.Rate, cfg.Burst
	if r == 0 {
		r = defaultRate
	}
	if b == 0 {
		b = defaultBurst
	}
	return rate.NewLimiter(rate.Limit(r), b)
}

// limitedBy reports which bucket, "view" or "action", rejects a call of e, or ""
// when the call may run. A rejected call spends no token of the action bucket.
func (c *Context) limitedBy(e actionEntry) string {
	if c.actionLimiter != nil && !c.actionLimiter.Allow() {
		return "view"
	}
	if e.limiter != nil && !e.limiter.Allow() {
		return "action"
	}
	return ""
}
