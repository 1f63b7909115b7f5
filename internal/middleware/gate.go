// AngelaMos | 2026
// gate.go

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/carterperez-dev/templates/sessiongate/internal/core"
	"github.com/carterperez-dev/templates/sessiongate/internal/session"
)

type contextKey string

const (
	PrincipalKey contextKey = "principal"
	SessionKey   contextKey = "session"
)

// RouteClass selects how a denial is rendered.
type RouteClass int

const (
	// ClassAPI denies with a 401/403 JSON error and never redirects.
	ClassAPI RouteClass = iota
	// ClassPage denies with a redirect to a login page.
	ClassPage
	// ClassOptional never denies; the principal is attached when present.
	ClassOptional
)

type Decision int

const (
	DecisionProceed Decision = iota
	DecisionRedirectLogin
	DecisionUnauthorized
)

func (d Decision) String() string {
	switch d {
	case DecisionProceed:
		return "proceed"
	case DecisionRedirectLogin:
		return "redirect_login"
	default:
		return "unauthorized"
	}
}

// Decide maps a resolver outcome to a decision. Anything short of a single
// resolved identity is a denial unless the route is optional.
func Decide(outcome session.Outcome, class RouteClass) Decision {
	if class == ClassOptional || outcome.IsAuthenticated() {
		return DecisionProceed
	}
	if class == ClassPage {
		return DecisionRedirectLogin
	}
	return DecisionUnauthorized
}

type SessionResolver interface {
	Resolve(ctx context.Context, token string) (session.Outcome, error)
}

type Gate struct {
	resolver   SessionResolver
	cookieName string
}

func NewGate(resolver SessionResolver, cookieName string) *Gate {
	return &Gate{
		resolver:   resolver,
		cookieName: cookieName,
	}
}

func (g *Gate) API(next http.Handler) http.Handler {
	return g.guard(ClassAPI, "", next)
}

func (g *Gate) Optional(next http.Handler) http.Handler {
	return g.guard(ClassOptional, "", next)
}

func (g *Gate) Page(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return g.guard(ClassPage, loginPath, next)
	}
}

func (g *Gate) guard(
	class RouteClass,
	loginPath string,
	next http.Handler,
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := session.ExtractToken(r, g.cookieName)

		outcome, err := g.resolver.Resolve(r.Context(), token)
		if err != nil {
			if class == ClassOptional {
				slog.Warn("session resolution failed, continuing anonymously",
					"request_id", GetRequestID(r.Context()),
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}
			writeResolveFailure(w, r, class, err)
			return
		}

		switch Decide(outcome, class) {
		case DecisionRedirectLogin:
			RedirectToLogin(w, r, loginPath)
			return
		case DecisionUnauthorized:
			core.Unauthorized(w, "authentication required")
			return
		}

		if outcome.IsAuthenticated() {
			ctx := r.Context()
			ctx = context.WithValue(ctx, PrincipalKey, outcome.Principal)
			ctx = context.WithValue(ctx, SessionKey, outcome.Session)
			r = r.WithContext(ctx)
		}

		next.ServeHTTP(w, r)
	})
}

// RequireRole runs after a gate. A missing principal is handled like any
// other denial for the class; a principal without the role gets 403 on API
// routes and a login redirect on pages.
func RequireRole(
	class RouteClass,
	loginPath string,
	roles ...string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := GetPrincipal(r.Context())

			if p != nil && p.HasRole(roles...) {
				next.ServeHTTP(w, r)
				return
			}

			if class == ClassPage {
				RedirectToLogin(w, r, loginPath)
				return
			}

			if p == nil {
				core.Unauthorized(w, "authentication required")
				return
			}

			core.Forbidden(w, "insufficient permissions")
		})
	}
}

func RedirectToLogin(w http.ResponseWriter, r *http.Request, loginPath string) {
	target := loginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func writeResolveFailure(
	w http.ResponseWriter,
	r *http.Request,
	class RouteClass,
	err error,
) {
	slog.Error("session resolution failed",
		"request_id", GetRequestID(r.Context()),
		"error", err,
	)

	if class == ClassPage {
		http.Error(
			w,
			http.StatusText(http.StatusInternalServerError),
			http.StatusInternalServerError,
		)
		return
	}

	core.JSON(w, http.StatusInternalServerError, core.Response{
		Success: false,
		Error: &core.ErrorBody{
			Code:    "INTERNAL_ERROR",
			Message: "an unexpected error occurred",
		},
	})
}

func GetPrincipal(ctx context.Context) *session.Principal {
	if p, ok := ctx.Value(PrincipalKey).(*session.Principal); ok {
		return p
	}
	return nil
}

func GetSession(ctx context.Context) *session.Session {
	if s, ok := ctx.Value(SessionKey).(*session.Session); ok {
		return s
	}
	return nil
}

func GetUserID(ctx context.Context) string {
	if p := GetPrincipal(ctx); p != nil {
		return p.ID
	}
	return ""
}

func IsAuthenticated(ctx context.Context) bool {
	return GetPrincipal(ctx) != nil
}
