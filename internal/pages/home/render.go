package home

import (
	"fmt"
	"strings"

	"github.com/ryanhamamura/elegant/content"
	"github.com/ryanhamamura/elegant/h"
	"github.com/ryanhamamura/elegant/internal/pages/shared"
)

const aboutImage = "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?ixlib=rb-4.0.3&auto=format&fit=crop&w=958&q=80"

type filterOption struct {
	tag, label string
}

var filterOptions = []filterOption{
	{content.FilterAll, "All"},
	{"residential", "Residential"},
	{"commercial", "Commercial"},
	{"hospitality", "Hospitality"},
}

// view is what one render pass needs besides the state.
type view struct {
	imageURL func(string) string
	// filterOn returns the attribute that selects tag when clicked.
	filterOn func(tag string) h.H
	contact  h.H
}

func (v view) render(s State) h.H {
	switch s.Status {
	case StatusLoading:
		return loading()
	case StatusError:
		return failed()
	}
	return h.Div(h.ID("page"), h.Class("page"),
		shared.Navbar("/#home"),
		v.hero(s.Content),
		h.If(s.Content.AboutSection != "", about(s.Content.AboutSection)),
		h.If(len(s.Services) > 0, v.services(s.Services)),
		h.If(len(s.Portfolio) > 0, v.portfolio(s)),
		h.If(len(s.Testimonials) > 0, v.testimonials(s.Testimonials)),
		v.contactSection(),
		shared.Footer(),
	)
}

func loading() h.H {
	return h.Div(h.ID("page"), h.Class("loading-container"),
		h.Div(h.Class("loading-spinner"),
			h.Div(h.Class("spinner")),
			h.P(h.Text("Loading Elegant Interiors...")),
		),
	)
}

func failed() h.H {
	return h.Div(h.ID("page"), h.Class("error-container"),
		h.Div(h.Class("error-content"),
			h.H2(h.Text("Unable to Load Content")),
			h.P(h.Text("Please check if the server is running and try again.")),
			h.Button(h.Class("btn retry-button"), h.Data("on:click", "window.location.reload()"), h.Text("Retry")),
		),
	)
}

func (v view) image(path string) string {
	if v.imageURL == nil {
		return path
	}
	return v.imageURL(path)
}

func (v view) hero(c content.HomeContent) h.H {
	return h.Section(h.ID("home"), h.Class("hero fade-in"),
		h.If(c.HeroImage != "", h.Img(h.Class("hero-background"), h.Src(v.image(c.HeroImage)), h.Alt("Hero"))),
		h.Div(h.Class("hero-overlay")),
		h.Div(h.Class("hero-content"),
			h.H1(h.Class("hero-title"), h.Text(c.Title)),
			h.If(c.Subtitle != "", h.P(h.Class("hero-subtitle"), h.Text(c.Subtitle))),
			h.Div(h.Class("hero-btns"),
				h.A(h.Href("#portfolio"), h.Class("btn"), h.Text("View Our Work")),
				h.A(h.Href("#contact"), h.Class("btn btn-outline"), h.Text("Get In Touch")),
			),
		),
	)
}

func about(text string) h.H {
	return h.Section(h.ID("about"), h.Class("section about fade-in"),
		h.Div(h.Class("container about-content"),
			h.Div(h.Class("about-text"),
				h.H2(h.Text("About Elegant Interiors")),
				h.P(h.Text(text)),
				h.P(h.Text("Our team of talented designers works closely with you to understand your vision and bring it to life, ensuring every detail is perfect.")),
				h.P(h.Text("We believe that great design has the power to transform lives, and we're passionate about creating environments that inspire and delight.")),
				h.A(h.Href("#contact"), h.Class("btn"), h.Text("Learn More")),
			),
			h.Div(h.Class("about-image"),
				h.Img(h.Src(aboutImage), h.Alt("About Us"), h.Width(600), h.Height(400), h.Loading("lazy")),
			),
		),
	)
}

// stagger delays each card's reveal by a tenth of a second per position.
func stagger(i int) h.H {
	return h.Style(fmt.Sprintf("animation-delay: %.1fs", float64(i)*0.1))
}

func (v view) services(items []content.Service) h.H {
	return h.Section(h.ID("services"), h.Class("section services fade-in"),
		h.Div(h.Class("container"),
			shared.SectionTitle("Our Services", "We offer a comprehensive range of interior design services to meet all your needs"),
			h.Div(h.Class("services-grid"),
				h.Map(items, func(i int, s content.Service) h.H {
					return h.Div(h.Class("service-card fade-in"), stagger(i),
						h.If(s.Image != "", h.Div(h.Class("service-image"),
							h.Img(h.Src(v.image(s.Image)), h.Alt(s.Title), h.Width(400), h.Height(280), h.Loading("lazy")),
						)),
						h.Div(h.Class("service-content"),
							h.H3(h.Text(s.Title)),
							h.P(h.Text(s.Description)),
							h.A(h.Href("#contact"), h.Class("service-link"), h.Text("Learn More "), h.I(h.Class("fas fa-arrow-right"))),
						),
					)
				}),
			),
		),
	)
}

func (v view) portfolio(s State) h.H {
	return h.Section(h.ID("portfolio"), h.Class("section portfolio fade-in"),
		h.Div(h.Class("container"),
			shared.SectionTitle("Our Portfolio", "Explore some of our recent projects that showcase our design expertise"),
			v.filterBar(s),
			v.portfolioGrid(s, false),
		),
	)
}

func (v view) filterBar(s State) h.H {
	return h.Div(h.ID("portfolio-filters"), h.Class("portfolio-filters"),
		h.Map(filterOptions, func(_ int, o filterOption) h.H {
			class := "filter-btn"
			if strings.EqualFold(s.Filter, o.tag) {
				class += " active"
			}
			var on h.H
			if v.filterOn != nil {
				on = v.filterOn(o.tag)
			}
			return h.Button(h.Type("button"), h.Class(class), on, h.Text(o.label))
		}),
	)
}

// portfolioGrid renders the items matching the filter. With revealed set the items
// are rendered already visible: a filter change is patched while the grid is on
// screen, and the morph must not take the visible class away.
func (v view) portfolioGrid(s State, revealed bool) h.H {
	itemClass := "portfolio-item fade-in"
	if revealed {
		itemClass += " visible"
	}
	return h.Div(h.ID("portfolio-grid"), h.Class("portfolio-grid"),
		h.Map(s.Visible(), func(i int, p content.PortfolioItem) h.H {
			return h.Div(h.Class(itemClass), h.Data("category", strings.ToLower(p.Category)), stagger(i),
				h.If(p.Image != "", h.Div(h.Class("portfolio-image"),
					h.Img(h.Src(v.image(p.Image)), h.Alt(p.Title), h.Width(400), h.Height(300), h.Loading("lazy")),
				)),
				h.Div(h.Class("portfolio-overlay"),
					h.H3(h.Text(p.Title)),
					h.P(h.Text(p.Category)),
				),
				h.Div(h.Class("portfolio-content"),
					h.H3(h.Text(p.Title)),
					h.P(h.Text(p.Description)),
					h.Span(h.Class("portfolio-category"), h.Text(p.Category)),
				),
			)
		}),
	)
}

// filterPatch is what a filter change sends: the filter bar and the grid, nothing
// else, so sections that have already faded in keep their visible class.
func (v view) filterPatch(s State) []h.H {
	return []h.H{v.filterBar(s), v.portfolioGrid(s, true)}
}

func (v view) testimonials(items []content.Testimonial) h.H {
	return h.Section(h.ID("testimonials"), h.Class("section testimonials fade-in"),
		h.Div(h.Class("container"),
			shared.SectionTitle("Client Testimonials", "What our clients say about our work and services"),
			h.Div(h.Class("testimonials-slider"),
				h.Map(items, func(i int, t content.Testimonial) h.H {
					project := t.ClientProject
					if project == "" {
						project = "Homeowner"
					}
					return h.Div(h.Class("testimonial-item fade-in"), stagger(i),
						h.P(h.Class("testimonial-text"), h.Text("\""+t.Content+"\"")),
						h.Div(h.Class("testimonial-author"),
							h.If(t.ClientImage != "", h.Div(h.Class("author-image"),
								h.Img(h.Src(v.image(t.ClientImage)), h.Alt(t.ClientName), h.Width(60), h.Height(60)),
							)),
							h.Div(h.Class("author-info"),
								h.H4(h.Text(t.ClientName)),
								h.P(h.Text(project)),
							),
						),
					)
				}),
			),
		),
	)
}

type contactItem struct {
	icon, title string
	lines       []string
}

var contactItems = []contactItem{
	{"map-marker-alt", "Our Location", []string{"123 Design Street, Creative City, CC 12345"}},
	{"phone", "Phone Number", []string{"+1 (555) 123-4567"}},
	{"envelope", "Email Address", []string{"info@elegantinteriors.com"}},
	{"clock", "Working Hours", []string{"Monday - Friday: 9am - 6pm", "Saturday: 10am - 4pm"}},
}

func (v view) contactSection() h.H {
	return h.Section(h.ID("contact"), h.Class("section contact fade-in"),
		h.Div(h.Class("container"),
			shared.SectionTitle("Get In Touch", "Ready to transform your space? Contact us for a consultation"),
			h.Div(h.Class("contact-content"),
				h.Div(h.Class("contact-info"),
					h.Map(contactItems, func(_ int, ci contactItem) h.H {
						return h.Div(h.Class("contact-info-item"),
							h.Div(h.Class("contact-icon"), h.I(h.Class("fas fa-"+ci.icon))),
							h.Div(h.Class("contact-details"),
								h.H3(h.Text(ci.title)),
								h.Map(ci.lines, func(_ int, l string) h.H { return h.P(h.Text(l)) }),
							),
						)
					}),
				),
				v.contact,
			),
		),
	)
}
