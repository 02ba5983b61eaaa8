// Package admin lists the contact queries visitors have left.
package admin

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/ryanhamamura/elegant/content"
	"github.com/ryanhamamura/elegant/h"
	"github.com/ryanhamamura/elegant/internal/pages/contact"
	"github.com/ryanhamamura/elegant/live"
)

const (
	errorText  = "Unable to load queries. Is the backend running?"
	timeLayout = "Jan 2, 2006 3:04 PM"
)

// Lister fetches every stored query in API order.
type Lister interface {
	FetchQueries(ctx context.Context) ([]content.Query, error)
}

type Deps struct {
	Lister Lister
}

// Listing is the state of one admin view.
type Listing struct {
	lister Lister
	logger zerolog.Logger

	mu      sync.Mutex
	loaded  bool
	failed  bool
	queries []content.Query
}

func NewListing(l Lister, logger zerolog.Logger) *Listing {
	return &Listing{lister: l, logger: logger}
}

// Load fetches the queries. A failure keeps the previous rows and marks the listing
// failed. Results arriving after ctx is done are dropped and Load reports false.
func (l *Listing) Load(ctx context.Context) bool {
	queries, err := l.lister.FetchQueries(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if ctx.Err() != nil {
		return false
	}
	l.loaded = true
	if err != nil {
		l.logger.Error().Err(err).Msg("fetch queries")
		l.failed = true
		return true
	}
	l.failed = false
	l.queries = queries
	return true
}

func (l *Listing) render() h.H {
	l.mu.Lock()
	loaded, failed, queries := l.loaded, l.failed, l.queries
	l.mu.Unlock()

	var body h.H
	switch {
	case !loaded:
		body = h.P(h.Class("loading"), h.Text("Loading queries..."))
	case len(queries) == 0 && !failed:
		body = h.P(h.Text("No queries yet."))
	case len(queries) > 0:
		body = table(queries)
	}
	return h.Div(h.Class("container admin"),
		h.H1(h.Text("Admin — Queries")),
		h.If(failed, h.P(h.Class("status status-error"), h.Role("alert"), h.Text(errorText))),
		body,
	)
}

func table(queries []content.Query) h.H {
	return h.Table(h.Class("queries"),
		h.THead(h.Tr(h.Th(h.Text("Name")), h.Th(h.Text("Email")), h.Th(h.Text("Message")), h.Th(h.Text("When")))),
		h.TBody(h.Map(queries, func(_ int, q content.Query) h.H {
			return h.Tr(
				h.Td(h.Text(q.Name)),
				h.Td(h.Text(q.Email)),
				h.Td(h.Text(q.Message)),
				h.Td(h.Text(formatTime(q.CreatedAt))),
			)
		})),
	)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(timeLayout)
}

// Page fetches the queries once the browser connects and again whenever a new query
// is submitted anywhere on the site.
func Page(deps Deps) func(c *live.Context) {
	return func(c *live.Context) {
		logger := c.Logger().With().Str("page", "admin").Logger()
		listing := NewListing(deps.Lister, logger)
		refresh := func() {
			c.Go(func(ctx context.Context) {
				if listing.Load(ctx) {
					c.Sync()
				}
			})
		}

		c.OnMount(func() {
			refresh()
			_, err := live.Subscribe(c, contact.SubjectQueryCreated, func(contact.QueryCreated) {
				refresh()
			})
			switch {
			case errors.Is(err, live.ErrNoPubSub):
				logger.Debug().Msg("no pubsub, listing will not refresh")
			case err != nil:
				logger.Warn().Err(err).Msg("subscribe to new queries")
			}
		})

		c.View(listing.render)
	}
}
