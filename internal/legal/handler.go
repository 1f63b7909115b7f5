// AngelaMos | 2026
// handler.go

package legal

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/sessiongate/internal/core"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/legal", h.List)
	r.Get("/legal/{slug}", h.Get)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.store.List())
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.Get(chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "document")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	core.OK(w, doc)
}
