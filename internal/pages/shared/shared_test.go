package shared

import (
	"strings"
	"testing"

	"github.com/ryanhamamura/elegant/h"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, n h.H) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, n.Render(&b))
	return b.String()
}

func TestNavbarHighlightsActive(t *testing.T) {
	out := render(t, Navbar("/query"))
	assert.Contains(t, out, `<a class="nav-link active" href="/query">Send a Query</a>`)
	assert.Contains(t, out, `<a class="nav-link" href="/#portfolio">Portfolio</a>`)
}

func TestFooter(t *testing.T) {
	out := render(t, Footer())
	assert.Contains(t, out, "&copy; 2024 Elegant Interiors. All Rights Reserved.")
	assert.Contains(t, out, "Lighting Design")
	assert.Contains(t, out, "fab fa-pinterest")
}

func TestSectionTitle(t *testing.T) {
	out := render(t, SectionTitle("Our Services", "What we do"))
	assert.Equal(t, `<div class="section-title"><h2>Our Services</h2><p>What we do</p></div>`, out)
}
