package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"assassin/internal/app/bundle"
	"assassin/internal/pkg/errs"
	"assassin/internal/pkg/resp"
)

// HandleStatic serves files from the bundle directory. Extensionless paths that do
// not exist fall back to index.html so client-side routes load the app.
func HandleStatic(dir string) http.HandlerFunc {
	files := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, bundle.IndexFile)

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotFound))
			return
		}

		name := path.Clean("/" + r.URL.Path)
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name))); err == nil {
			files.ServeHTTP(w, r)
			return
		}

		if path.Ext(name) == "" {
			if _, err := os.Stat(index); err == nil {
				w.Header().Set("Cache-Control", "no-cache")
				http.ServeFile(w, r, index)
				return
			}
		}

		resp.RespondError(w, r, errs.NewError(errs.ErrNotFound))
	}
}
