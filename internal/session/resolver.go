// AngelaMos | 2026
// resolver.go

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/sessiongate/internal/core"
)

var ErrAmbiguousIdentity = errors.New("session resolves to more than one identity")

type Status int

const (
	StatusNoSession Status = iota
	StatusAuthenticated
	StatusAmbiguous
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusAmbiguous:
		return "ambiguous"
	default:
		return "no_session"
	}
}

// Outcome is the result of resolving a token. Principal and Session are set
// only when Status is StatusAuthenticated.
type Outcome struct {
	Status    Status
	Principal *Principal
	Session   *Session
}

func (o Outcome) IsAuthenticated() bool {
	return o.Status == StatusAuthenticated && o.Principal != nil
}

// IdentityLookup returns every identity whose id equals id or whose email
// equals email. Implementations need not return more than two.
type IdentityLookup interface {
	FindPrincipals(ctx context.Context, id, email string) ([]Principal, error)
}

// BearerVerifier checks a signed bearer token and returns the session id it
// is bound to.
type BearerVerifier interface {
	VerifySessionToken(ctx context.Context, token string) (string, error)
}

type Resolver struct {
	repo       Repository
	identities IdentityLookup
	bearer     BearerVerifier
	now        func() time.Time
}

func NewResolver(
	repo Repository,
	identities IdentityLookup,
	bearer BearerVerifier,
) *Resolver {
	return &Resolver{
		repo:       repo,
		identities: identities,
		bearer:     bearer,
		now:        time.Now,
	}
}

// Resolve maps a raw token to an Outcome. Absence, expiry and unknown tokens
// are normal outcomes with a nil error; only store faults return an error.
func (r *Resolver) Resolve(ctx context.Context, token string) (Outcome, error) {
	if token == "" {
		return Outcome{Status: StatusNoSession}, nil
	}

	ctx, span := core.StartSpan(ctx, "session.resolve")
	defer span.End()

	sess, err := r.findSession(ctx, token)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) || errors.Is(err, core.ErrTokenInvalid) {
			return Outcome{Status: StatusNoSession}, nil
		}
		core.SetSpanError(ctx, err)
		return Outcome{}, fmt.Errorf("resolve session: %w", err)
	}

	if sess.IsExpiredAt(r.now()) {
		if delErr := r.repo.DeleteByID(ctx, sess.ID); delErr != nil &&
			!errors.Is(delErr, core.ErrNotFound) {
			slog.Warn("failed to delete expired session",
				"session_id", sess.ID,
				"error", delErr,
			)
		}
		return Outcome{Status: StatusNoSession}, nil
	}

	principals, err := r.identities.FindPrincipals(
		ctx,
		sess.SubjectID,
		sess.SubjectEmail,
	)
	if err != nil {
		core.SetSpanError(ctx, err)
		return Outcome{}, fmt.Errorf("resolve identity: %w", err)
	}

	switch len(principals) {
	case 0:
		core.AddSpanEvent(ctx, "session.orphaned")
		return Outcome{Status: StatusNoSession}, nil
	case 1:
		p := principals[0]
		core.AddSpanEvent(ctx, "session.authenticated",
			attribute.String("subject_id", p.ID),
		)
		return Outcome{
			Status:    StatusAuthenticated,
			Principal: &p,
			Session:   sess,
		}, nil
	default:
		slog.Warn("session matched more than one identity, denying",
			"session_id", sess.ID,
			"subject_id", sess.SubjectID,
			"error", ErrAmbiguousIdentity,
		)
		core.AddSpanEvent(ctx, "session.ambiguous")
		return Outcome{Status: StatusAmbiguous}, nil
	}
}

func (r *Resolver) findSession(ctx context.Context, token string) (*Session, error) {
	if r.bearer != nil && LooksLikeJWT(token) {
		sessionID, err := r.bearer.VerifySessionToken(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("verify bearer: %w", core.ErrTokenInvalid)
		}
		return r.repo.FindByID(ctx, sessionID)
	}

	return r.repo.FindByTokenHash(ctx, core.HashToken(token))
}

// LooksLikeJWT reports whether token has the three-part shape of a signed
// bearer token. Opaque session tokens are base64url and never contain dots.
func LooksLikeJWT(token string) bool {
	return strings.Count(token, ".") == 2
}

// ExtractToken prefers the session cookie and falls back to a bearer
// Authorization header.
func ExtractToken(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
