package live

import (
	"io/fs"
	"net/http"
	"os"
	"strings"
)

// Static serves files from dir under the URL prefix. Directory listings are not served.
func (a *App) Static(prefix, dir string) {
	a.StaticFS(prefix, os.DirFS(dir))
}

// StaticFS serves files from fsys under the URL prefix, e.g. an embedded asset tree.
// Directory listings are not served.
func (a *App) StaticFS(prefix string, fsys fs.FS) {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	fileServer := http.StripPrefix(prefix, http.FileServer(http.FS(fsys)))
	a.mux.Handle("GET "+prefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, prefix)
		if name == "" || strings.HasSuffix(name, "/") {
			http.NotFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	}))
}
