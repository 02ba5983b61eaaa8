// Package h provides a Go-native DSL for HTML composition.
// Every element, attribute, and text node is constructed as a function that returns a [h.H] DOM node.
//
// Example:
//
//	h.Section(h.ID("about"), h.Class("section fade-in"),
//		h.H2(h.Text("About Elegant Interiors")),
//		h.P(h.Text(content.AboutSection)),
//	)
package h

import (
	"io"

	g "maragu.dev/gomponents"
	gc "maragu.dev/gomponents/components"
)

// H represents a DOM node.
type H interface {
	Render(w io.Writer) error
}

// Text creates a text DOM node that Renders the escaped string t.
func Text(t string) H {
	return g.Text(t)
}

// Textf creates a text DOM node that Renders the interpolated and escaped string format.
func Textf(format string, a ...any) H {
	return g.Textf(format, a...)
}

// Raw creates a text DOM node that just Renders the unescaped string t.
func Raw(s string) H {
	return g.Raw(s)
}

// Attr creates an attribute DOM node with a name and optional value.
// If only a name is passed, it's a name-only (boolean) attribute (like "required").
// More than one value make [Attr] panic.
func Attr(name string, value ...string) H {
	return g.Attr(name, value...)
}

// El creates an element DOM node with the given tag name and children.
// Void elements such as img and input render without a closing tag.
func El(name string, children ...H) H {
	return g.El(name, retype(children)...)
}

// If returns n when condition holds and nil otherwise. nil nodes render nothing.
func If(condition bool, n H) H {
	if condition {
		return n
	}
	return nil
}

// Group renders the given nodes one after another without a wrapping element.
func Group(nodes ...H) H {
	return g.Group(retype(nodes))
}

// Map renders fn for every item of ts, preserving order.
func Map[T any](ts []T, fn func(int, T) H) H {
	nodes := make([]H, 0, len(ts))
	for i, t := range ts {
		nodes = append(nodes, fn(i, t))
	}
	return Group(nodes...)
}

// HTML5Props defines properties for HTML5 pages. Title is set always set, Description
// and Language elements only if the strings are non-empty.
type HTML5Props struct {
	Title       string
	Description string
	Language    string
	Head        []H
	Body        []H
	HTMLAttrs   []H
}

// HTML5 document template.
func HTML5(p HTML5Props) H {
	gp := gc.HTML5Props{
		Title:       p.Title,
		Description: p.Description,
		Language:    p.Language,
		Head:        retype(p.Head),
		Body:        retype(p.Body),
		HTMLAttrs:   retype(p.HTMLAttrs),
	}
	return gc.HTML5(gp)
}

// JoinAttrs with the given name only on the first level of the given nodes. This means that
// attributes on non-direct descendants are ignored. Attribute values are joined by spaces.
func JoinAttrs(name string, children ...H) H {
	return gc.JoinAttrs(name, retype(children)...)
}

func retype(nodes []H) []g.Node {
	out := make([]g.Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
