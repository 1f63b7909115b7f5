// AngelaMos | 2026
// handler.go

package identity

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/sessiongate/internal/core"
	"github.com/carterperez-dev/templates/sessiongate/internal/middleware"
	"github.com/carterperez-dev/templates/sessiongate/internal/subscription"
)

type SubscriptionReader interface {
	Status(ctx context.Context, identityID string) (subscription.StatusResponse, error)
}

type Handler struct {
	service       *Service
	subscriptions SubscriptionReader
}

func NewHandler(service *Service, subscriptions SubscriptionReader) *Handler {
	return &Handler{
		service:       service,
		subscriptions: subscriptions,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	gate func(http.Handler) http.Handler,
) {
	r.With(gate).Get("/me", h.GetMe)
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	gate, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/identities", func(r chi.Router) {
		r.Use(gate)
		r.Use(adminOnly)

		r.Get("/", h.List)
		r.Get("/{id}", h.GetByID)
	})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	ident, err := h.service.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "identity")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	org, err := h.service.Organization(r.Context(), ident)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	sub, err := h.subscriptions.Status(r.Context(), ident.ID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, MeResponse{
		Identity:     ToIdentityResponse(ident),
		Organization: ToOrganizationResponse(org),
		Subscription: sub,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
		Role:     r.URL.Query().Get("role"),
	}
	params.Normalize()

	idents, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToIdentityResponseList(idents),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ident, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "identity")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToIdentityResponse(ident))
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
