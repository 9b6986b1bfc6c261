package portal

import (
	"embed"
	"io/fs"
	"net/http"

	"devportal/internal/links"
)

// assetPrefix is where the tool icons, logo and header shapes are served.
const assetPrefix = links.DefaultBasePath + "/img/"

//go:embed assets/img
var assetFS embed.FS

func (h *Handler) assets() http.Handler {
	img, err := fs.Sub(assetFS, "assets/img")
	if err != nil {
		panic(err)
	}
	files := http.StripPrefix(assetPrefix, http.FileServer(http.FS(img)))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.allowGet(w, r, "assets") {
			return
		}
		name := r.URL.Path[len(assetPrefix):]
		if name == "" || name[len(name)-1] == '/' {
			h.reject(r, "assets", "directory_listing", name)
			writeErr(w, http.StatusNotFound, "NOT_FOUND", "asset not found")
			return
		}
		if _, err := fs.Stat(img, name); err != nil {
			h.reject(r, "assets", "unknown_asset", name)
			writeErr(w, http.StatusNotFound, "NOT_FOUND", "asset not found")
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=86400")
		files.ServeHTTP(w, r)
	})
}
