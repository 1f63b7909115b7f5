// AngelaMos | 2026
// handler.go

package reminder

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/sessiongate/internal/core"
)

type Handler struct {
	runner *Runner
	secret []byte
}

func NewHandler(runner *Runner, secret string) *Handler {
	return &Handler{
		runner: runner,
		secret: []byte(secret),
	}
}

// RegisterRoutes accepts GET as well as POST since hosted schedulers
// commonly only issue GETs.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/cron", func(r chi.Router) {
		r.Use(h.requireSecret)
		r.Post("/reminders", h.Run)
		r.Get("/reminders", h.Run)
	})
}

func (h *Handler) requireSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || len(h.secret) == 0 ||
			subtle.ConstantTimeCompare([]byte(token), h.secret) != 1 {
			core.Unauthorized(w, "invalid cron secret")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	res, err := h.runner.Run(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, res)
}
