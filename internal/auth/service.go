// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/sessiongate/internal/core"
	"github.com/carterperez-dev/templates/sessiongate/internal/notify"
	"github.com/carterperez-dev/templates/sessiongate/internal/session"
)

type IdentityProvider interface {
	Authenticate(
		ctx context.Context,
		email, password string,
	) (*session.Principal, error)
	PrincipalByEmail(ctx context.Context, email string) (*session.Principal, error)
}

type TokenManager interface {
	CreateSessionToken(
		sess *session.Session,
		p *session.Principal,
	) (string, time.Time, error)
	VerifySessionToken(ctx context.Context, token string) (string, error)
}

type Service struct {
	sessions   *session.Service
	identities IdentityProvider
	tokens     TokenManager
	notifier   notify.Notifier
	publicURL  string
}

func NewService(
	sessions *session.Service,
	identities IdentityProvider,
	tokens TokenManager,
	notifier notify.Notifier,
	publicURL string,
) *Service {
	return &Service{
		sessions:   sessions,
		identities: identities,
		tokens:     tokens,
		notifier:   notifier,
		publicURL:  publicURL,
	}
}

type LoginResult struct {
	Principal *session.Principal
	Issued    *session.Issued
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
	userAgent, ipAddress string,
) (*LoginResult, error) {
	p, err := s.identities.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	issued, err := s.sessions.Create(ctx, p, kindFor(p), userAgent, ipAddress)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &LoginResult{Principal: p, Issued: issued}, nil
}

// RequestLoginLink emails a one-time callback link. Unknown addresses get
// the same silent success as known ones.
func (s *Service) RequestLoginLink(ctx context.Context, req LoginLinkRequest) error {
	p, err := s.identities.PrincipalByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("lookup identity: %w", err)
	}

	code, err := s.sessions.IssueLoginLink(ctx, p.Email, req.Next)
	if err != nil {
		return fmt.Errorf("issue login link: %w", err)
	}

	link := s.publicURL + "/auth/callback?code=" + url.QueryEscape(code)

	msg := notify.Message{
		ID:        uuid.New().String(),
		Kind:      notify.KindLoginLink,
		To:        p.Email,
		Subject:   "Your sign-in link",
		Body:      "Use this link to sign in: " + link,
		Data:      map[string]string{"url": link},
		CreatedAt: time.Now().UTC(),
	}

	if err := s.notifier.Send(ctx, msg); err != nil {
		return fmt.Errorf("send login link: %w", err)
	}

	return nil
}

type CallbackResult struct {
	Issued   *session.Issued
	Redirect string
}

// Callback exchanges a login-link code for a session. The explicit next
// parameter wins over the one stored with the link; both are sanitized.
func (s *Service) Callback(
	ctx context.Context,
	code, next, userAgent, ipAddress string,
) (*CallbackResult, error) {
	link, err := s.sessions.RedeemLoginLink(ctx, code)
	if err != nil {
		return nil, err
	}

	p, err := s.identities.PrincipalByEmail(ctx, link.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, session.ErrInvalidLoginLink
		}
		return nil, fmt.Errorf("lookup identity: %w", err)
	}

	issued, err := s.sessions.Create(ctx, p, kindFor(p), userAgent, ipAddress)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	redirect := link.NextPath
	if next != "" {
		redirect = next
	}

	return &CallbackResult{
		Issued:   issued,
		Redirect: s.sessions.SanitizeNext(redirect),
	}, nil
}

// Logout ends the session token names. A bearer JWT is resolved to its
// bound session through the verifier; one that fails verification names
// no session, so there is nothing to delete.
func (s *Service) Logout(ctx context.Context, token string) error {
	if !session.LooksLikeJWT(token) {
		return s.sessions.Logout(ctx, token)
	}

	sessionID, err := s.tokens.VerifySessionToken(ctx, token)
	if err != nil {
		return nil
	}

	return s.sessions.LogoutSession(ctx, sessionID)
}

func (s *Service) IssueToken(
	sess *session.Session,
	p *session.Principal,
) (*TokenResponse, error) {
	token, expiresAt, err := s.tokens.CreateSessionToken(sess, p)
	if err != nil {
		return nil, fmt.Errorf("create session token: %w", err)
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(time.Until(expiresAt).Seconds()),
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *Service) ListSessions(
	ctx context.Context,
	subjectID string,
) ([]session.Session, error) {
	return s.sessions.ListActive(ctx, subjectID)
}

func (s *Service) RevokeSession(ctx context.Context, subjectID, sessionID string) error {
	return s.sessions.Revoke(ctx, subjectID, sessionID)
}

func kindFor(p *session.Principal) string {
	if p.HasRole("admin") {
		return session.KindAdmin
	}
	return session.KindUser
}
