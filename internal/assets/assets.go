// Package assets serves the site stylesheet.
package assets

import (
	"embed"

	"github.com/ryanhamamura/elegant/h"
	"github.com/ryanhamamura/elegant/live"
)

const (
	prefix      = "/static/"
	fontAwesome = "https://cdnjs.cloudflare.com/ajax/libs/font-awesome/6.5.1/css/all.min.css"
)

//go:embed site.css
var files embed.FS

// Plugin serves the embedded stylesheet under /static/ and links it, together with
// the icon font, from every document.
func Plugin(a *live.App) {
	a.StaticFS(prefix, files)
	a.AppendToHead(
		h.Link(h.Rel("stylesheet"), h.Href(fontAwesome)),
		h.Link(h.Rel("stylesheet"), h.Href(prefix+"site.css")),
	)
}
