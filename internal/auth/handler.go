// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/sessiongate/internal/core"
	"github.com/carterperez-dev/templates/sessiongate/internal/middleware"
	"github.com/carterperez-dev/templates/sessiongate/internal/session"
)

type HandlerConfig struct {
	Cookie    session.CookieConfig
	LoginPath string
}

type Handler struct {
	service   *Service
	validator *validator.Validate
	cfg       HandlerConfig
}

func NewHandler(service *Service, cfg HandlerConfig) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
		cfg:       cfg,
	}
}

// RegisterRoutes mounts the JSON endpoints. linkLimiter guards login-link
// issuance, which sends mail.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	gate func(http.Handler) http.Handler,
	linkLimiter func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.With(linkLimiter).Post("/links", h.RequestLoginLink)
		r.With(gate).Post("/token", h.IssueToken)
	})

	r.Group(func(r chi.Router) {
		r.Use(gate)
		r.Get("/sessions", h.GetSessions)
		r.Delete("/sessions/{sessionID}", h.RevokeSession)
	})
}

// RegisterPageRoutes mounts the browser-facing endpoints that answer with
// redirects rather than JSON.
func (h *Handler) RegisterPageRoutes(r chi.Router) {
	r.Get("/auth/callback", h.Callback)
	r.Post("/auth/logout", h.Logout)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	res, err := h.service.Login(
		r.Context(),
		req,
		r.UserAgent(),
		middleware.ClientIP(r),
	)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			core.JSONError(
				w,
				core.UnauthorizedError("invalid email or password"),
			)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	session.SetCookie(w, h.cfg.Cookie, res.Issued.Token, res.Issued.Session.ExpiresAt)

	core.OK(w, LoginResponse{
		User:      ToPrincipalResponse(res.Principal),
		ExpiresAt: res.Issued.Session.ExpiresAt,
	})
}

func (h *Handler) RequestLoginLink(w http.ResponseWriter, r *http.Request) {
	var req LoginLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.RequestLoginLink(r.Context(), req); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Accepted(w, map[string]string{
		"message": "if the address is registered, a sign-in link is on its way",
	})
}

func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	res, err := h.service.Callback(
		r.Context(),
		q.Get("code"),
		q.Get("next"),
		r.UserAgent(),
		middleware.ClientIP(r),
	)
	if err != nil {
		if errors.Is(err, session.ErrInvalidLoginLink) {
			http.Redirect(
				w, r,
				h.cfg.LoginPath+"?error=invalid_link",
				http.StatusSeeOther,
			)
			return
		}
		slog.Error("login callback failed",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		http.Error(
			w,
			http.StatusText(http.StatusInternalServerError),
			http.StatusInternalServerError,
		)
		return
	}

	session.SetCookie(w, h.cfg.Cookie, res.Issued.Token, res.Issued.Session.ExpiresAt)
	http.Redirect(w, r, res.Redirect, http.StatusSeeOther)
}

// Logout clears the cookie even when the store delete fails, so the browser
// never keeps a token the user asked to drop.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := session.ExtractToken(r, h.cfg.Cookie.Name)

	err := h.service.Logout(r.Context(), token)
	session.ClearCookie(w, h.cfg.Cookie)

	if err != nil && !errors.Is(err, core.ErrNotFound) {
		slog.Error("logout failed",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		http.Error(
			w,
			http.StatusText(http.StatusInternalServerError),
			http.StatusInternalServerError,
		)
		return
	}

	http.Redirect(w, r, h.cfg.LoginPath, http.StatusSeeOther)
}

func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r.Context())
	sess := middleware.GetSession(r.Context())
	if p == nil || sess == nil {
		core.Unauthorized(w, "")
		return
	}

	resp, err := h.service.IssueToken(sess, p)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) GetSessions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	sessions, err := h.service.ListSessions(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	currentID := ""
	if sess := middleware.GetSession(r.Context()); sess != nil {
		currentID = sess.ID
	}

	core.OK(w, SessionsResponse{Sessions: ToSessionInfos(sessions, currentID)})
}

func (h *Handler) RevokeSession(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		core.BadRequest(w, "session ID required")
		return
	}

	if err := h.service.RevokeSession(r.Context(), userID, sessionID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "session")
			return
		}
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "cannot revoke another user's session")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}
