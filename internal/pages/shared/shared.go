// Package shared holds the layout pieces every page of the site renders.
package shared

import "github.com/ryanhamamura/elegant/h"

// Brand is the studio name shown in the navbar, footer and document title.
const Brand = "Elegant Interiors"

type navLink struct {
	label, href string
}

var navLinks = []navLink{
	{"Home", "/#home"},
	{"About", "/#about"},
	{"Services", "/#services"},
	{"Portfolio", "/#portfolio"},
	{"Testimonials", "/#testimonials"},
	{"Contact", "/#contact"},
}

// Navbar renders the top navigation. The link whose href equals active is highlighted.
func Navbar(active string) h.H {
	return h.Nav(h.Class("navbar"),
		h.Div(h.Class("container navbar-inner"),
			h.A(h.Class("logo"), h.Href("/"), h.Text(Brand)),
			h.Ul(h.Class("nav-links"),
				h.Map(navLinks, func(_ int, l navLink) h.H {
					return h.Li(navAnchor(l, active))
				}),
				h.Li(navAnchor(navLink{"Send a Query", "/query"}, active)),
			),
		),
	)
}

func navAnchor(l navLink, active string) h.H {
	class := "nav-link"
	if l.href == active {
		class += " active"
	}
	return h.A(h.Class(class), h.Href(l.href), h.Text(l.label))
}

// SectionTitle renders the heading block at the top of a home page section.
func SectionTitle(title, subtitle string) h.H {
	return h.Div(h.Class("section-title"),
		h.H2(h.Text(title)),
		h.P(h.Text(subtitle)),
	)
}

var footerServices = []string{
	"Residential Design",
	"Commercial Design",
	"Space Planning",
	"Furniture Selection",
	"Color Consultation",
	"Lighting Design",
}

var socialIcons = []string{"facebook-f", "twitter", "instagram", "linkedin-in", "pinterest"}

// Footer renders the site footer.
func Footer() h.H {
	return h.Footer(h.Class("footer"),
		h.Div(h.Class("container"),
			h.Div(h.Class("footer-content"),
				h.Div(h.Class("footer-col"),
					h.H3(h.Text(Brand)),
					h.P(h.Text("Creating beautiful, functional spaces that inspire and delight. Transform your environment with our expert design services.")),
					h.Div(h.Class("social-links"),
						h.Map(socialIcons, func(_ int, icon string) h.H {
							return h.A(h.Href("#"), h.I(h.Class("fab fa-"+icon)))
						}),
					),
				),
				h.Div(h.Class("footer-col"),
					h.H3(h.Text("Quick Links")),
					h.Ul(h.Class("footer-links"),
						h.Map(navLinks, func(_ int, l navLink) h.H {
							return h.Li(h.A(h.Href(l.href), h.Text(l.label)))
						}),
					),
				),
				h.Div(h.Class("footer-col"),
					h.H3(h.Text("Our Services")),
					h.Ul(h.Class("footer-links"),
						h.Map(footerServices, func(_ int, s string) h.H {
							return h.Li(h.A(h.Href("/#services"), h.Text(s)))
						}),
					),
				),
			),
			h.Div(h.Class("footer-bottom"),
				h.P(h.Raw("&copy; 2024 Elegant Interiors. All Rights Reserved.")),
			),
		),
	)
}
