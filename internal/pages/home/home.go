package home

import (
	"context"

	"github.com/ryanhamamura/elegant/content"
	"github.com/ryanhamamura/elegant/h"
	"github.com/ryanhamamura/elegant/internal/animate"
	"github.com/ryanhamamura/elegant/internal/pages/contact"
	"github.com/ryanhamamura/elegant/live"
)

type Deps struct {
	Loader Loader
	// ImageURL resolves media paths returned by the content API.
	ImageURL func(path string) string
	Contact  contact.Deps
	Metrics  Recorder
}

// Page builds the home page. The document is served in the loading state; content is
// fetched once the browser connects and pushed as a re-render.
func Page(deps Deps) func(c *live.Context) {
	return func(c *live.Context) {
		ctrl := NewController(deps.Loader, deps.Metrics, c.Logger().With().Str("page", "home").Logger())
		anim := animate.New(c.ID(), animate.DefaultObserver())

		filter := c.Signal(content.FilterAll)
		var selectFilter *live.ActionTrigger
		newView := func(contactForm h.H) view {
			return view{
				imageURL: deps.ImageURL,
				filterOn: func(tag string) h.H {
					return selectFilter.OnClick(live.WithSignal(filter, tag))
				},
				contact: contactForm,
			}
		}
		selectFilter = c.Action(func() {
			if !ctrl.SetFilter(filter.String()) {
				return
			}
			st := ctrl.State()
			if st.Status != StatusLoaded || len(st.Portfolio) == 0 {
				return
			}
			c.SyncElements(newView(nil).filterPatch(st)...)
			anim.Attach(c)
		})

		form := c.Component(func(cc *live.Context) {
			contact.New(cc, deps.Contact)
		})

		c.OnMount(func() {
			c.Go(func(ctx context.Context) {
				if !ctrl.Load(ctx) {
					return
				}
				c.Sync()
				if ctrl.State().Status == StatusLoaded {
					anim.Attach(c)
				}
			})
		})
		// The browser document is gone by the time this runs, and its observers with
		// it; the release script is dropped and only the handle is reset.
		c.OnUnmount(func() {
			anim.Release(c)
		})

		c.View(func() h.H {
			return newView(form()).render(ctrl.State())
		})
	}
}
