// Package content is the studio site's client for the remote content API: home hero
// text, services, portfolio, testimonials and visitor queries.
package content

import "time"

// HomeContent is the hero and about copy of the home page. The API returns it as a
// single-element list.
type HomeContent struct {
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	HeroImage    string `json:"hero_image"`
	AboutSection string `json:"about_section"`
}

// Service is one offering shown in the services grid.
type Service struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// PortfolioItem is one project. Category is a free-form tag such as "residential".
type PortfolioItem struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Image       string `json:"image"`
}

type Testimonial struct {
	ID            int    `json:"id"`
	Content       string `json:"content"`
	ClientName    string `json:"client_name"`
	ClientProject string `json:"client_project"`
	ClientImage   string `json:"client_image"`
}

// Query is a contact request left by a visitor.
type Query struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// QueryInput is the body of a new contact request.
type QueryInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// HomePage is everything the home page needs, fetched together.
type HomePage struct {
	Content      HomeContent
	Services     []Service
	Portfolio    []PortfolioItem
	Testimonials []Testimonial
}
