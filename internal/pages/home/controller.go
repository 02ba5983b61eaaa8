// Package home is the studio's landing page: hero, about, services, a filterable
// portfolio, testimonials and the contact section.
package home

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/ryanhamamura/elegant/content"
)

// Status is the load state of the page.
type Status int

const (
	StatusLoading Status = iota
	StatusLoaded
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusError:
		return "error"
	default:
		return "loading"
	}
}

// Loader fetches everything the page shows in one go.
type Loader interface {
	FetchHomePage(ctx context.Context) (*content.HomePage, error)
}

// Recorder counts load results. It may be nil.
type Recorder interface {
	HomeLoaded(result string)
}

// State is a snapshot of the page's view state.
type State struct {
	Status       Status
	Content      content.HomeContent
	Services     []content.Service
	Portfolio    []content.PortfolioItem
	Testimonials []content.Testimonial
	Filter       string
}

// Visible returns the portfolio items matching the active filter.
func (s State) Visible() []content.PortfolioItem {
	return content.Filter(s.Portfolio, s.Filter)
}

// Controller owns the view state of one home page view. Actions and the load
// goroutine both write it, so every access goes through the mutex.
type Controller struct {
	loader  Loader
	metrics Recorder
	logger  zerolog.Logger

	mu    sync.Mutex
	state State
}

// NewController returns a controller in the loading state with the "all" filter.
func NewController(loader Loader, metrics Recorder, logger zerolog.Logger) *Controller {
	return &Controller{
		loader:  loader,
		metrics: metrics,
		logger:  logger,
		state:   State{Status: StatusLoading, Filter: content.FilterAll},
	}
}

// State returns a copy of the current view state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetFilter selects the portfolio category to show. It reports whether the filter changed.
func (c *Controller) SetFilter(tag string) bool {
	if tag == "" {
		tag = content.FilterAll
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Filter == tag {
		return false
	}
	c.state.Filter = tag
	return true
}

// Load fetches the page content and moves to loaded or error. When ctx is done by the
// time the result arrives, the result is dropped and Load reports false.
func (c *Controller) Load(ctx context.Context) bool {
	page, err := c.loader.FetchHomePage(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if ctx.Err() != nil {
		c.logger.Debug().Msg("home content arrived after unmount, dropped")
		return false
	}
	if err != nil {
		c.logger.Error().Err(err).Msg("load home content")
		c.state.Status = StatusError
		c.record(StatusError)
		return true
	}
	c.state.Status = StatusLoaded
	c.state.Content = page.Content
	c.state.Services = page.Services
	c.state.Portfolio = page.Portfolio
	c.state.Testimonials = page.Testimonials
	c.record(StatusLoaded)
	return true
}

func (c *Controller) record(s Status) {
	if c.metrics != nil {
		c.metrics.HomeLoaded(s.String())
	}
}
