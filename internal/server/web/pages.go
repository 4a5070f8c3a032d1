package web

import (
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
)

//go:embed pages/*.html
var embedded embed.FS

// servePage writes name from staticDir when present there, else the
// embedded copy.
func (h *Handler) servePage(w http.ResponseWriter, r *http.Request, name string) {
	if h.staticDir != "" {
		p := filepath.Join(h.staticDir, name)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			http.ServeFile(w, r, p)
			return
		}
	}

	data, err := fs.ReadFile(embedded, "pages/"+name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}
