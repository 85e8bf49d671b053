package handle

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (d *Handle) ListManuals(w http.ResponseWriter, r *http.Request) {
	names, err := d.store.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"manuals": names})
}

func (d *Handle) GetManual(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "manual")
	pages, err := d.store.Load(name)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":  name,
		"pages": len(pages),
	})
}

func (d *Handle) PageImage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "manual")
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil || page <= 0 {
		writeError(w, http.StatusBadRequest, "bad page number")
		return
	}
	path, ok := d.store.PageImage(name, page)
	if !ok {
		writeError(w, http.StatusNotFound, "page image not found")
		return
	}
	http.ServeFile(w, r, path)
}
