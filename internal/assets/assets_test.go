package assets

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ryanhamamura/elegant/h"
	"github.com/ryanhamamura/elegant/live"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPluginServesStylesheet(t *testing.T) {
	a := live.New()
	a.Config(live.Options{Plugins: []live.Plugin{Plugin}})
	a.Page("/", func(c *live.Context) {
		c.View(func() h.H { return h.Div(h.Text("hi")) })
	})
	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/static/site.css")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), ".fade-in.visible")

	resp, err = http.Get(srv.URL + "/")
	require.NoError(t, err)
	page, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(page), `href="/static/site.css"`)
}
