// AngelaMos | 2026
// service.go

package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/sessiongate/internal/config"
	"github.com/carterperez-dev/templates/sessiongate/internal/core"
)

var ErrInvalidLoginLink = errors.New("login link is invalid, expired or used")

type Service struct {
	repo        Repository
	ttl         time.Duration
	linkTTL     time.Duration
	defaultNext string
	now         func() time.Time
}

func NewService(repo Repository, cfg config.SessionConfig) *Service {
	return &Service{
		repo:        repo,
		ttl:         cfg.TTL,
		linkTTL:     cfg.LoginLinkTTL,
		defaultNext: cfg.DefaultNext,
		now:         time.Now,
	}
}

type Issued struct {
	Token   string
	Session *Session
}

// Create stores a new session for p and returns the raw token, which is
// never persisted.
func (s *Service) Create(
	ctx context.Context,
	p *Principal,
	kind, userAgent, ipAddress string,
) (*Issued, error) {
	token, err := core.GenerateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	sess := &Session{
		ID:           uuid.New().String(),
		TokenHash:    core.HashToken(token),
		SubjectID:    p.ID,
		SubjectEmail: p.Email,
		Kind:         kind,
		ExpiresAt:    s.now().Add(s.ttl),
		UserAgent:    userAgent,
		IPAddress:    ipAddress,
	}

	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, err
	}

	return &Issued{Token: token, Session: sess}, nil
}

// Logout deletes the session behind token. An unknown or empty token is
// not an error: the caller still clears the cookie.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := s.repo.DeleteByTokenHash(ctx, core.HashToken(token)); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	return nil
}

// LogoutSession deletes a session by id, for bearer tokens that name their
// session instead of carrying its secret.
func (s *Service) LogoutSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.repo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	return nil
}

func (s *Service) ListActive(
	ctx context.Context,
	subjectID string,
) ([]Session, error) {
	return s.repo.ListActiveForSubject(ctx, subjectID, s.now())
}

func (s *Service) Revoke(ctx context.Context, subjectID, sessionID string) error {
	sess, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("find session: %w", err)
	}

	if sess.SubjectID != subjectID {
		return fmt.Errorf("revoke session: %w", core.ErrForbidden)
	}

	if err := s.repo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	return nil
}

// IssueLoginLink stores a one-time code for email and returns it raw.
func (s *Service) IssueLoginLink(
	ctx context.Context,
	email, next string,
) (string, error) {
	code, err := core.GenerateLoginCode()
	if err != nil {
		return "", fmt.Errorf("generate login code: %w", err)
	}

	link := &LoginLink{
		ID:        uuid.New().String(),
		TokenHash: core.HashToken(code),
		Email:     strings.ToLower(email),
		NextPath:  s.SanitizeNext(next),
		ExpiresAt: s.now().Add(s.linkTTL),
	}

	if err := s.repo.CreateLoginLink(ctx, link); err != nil {
		return "", err
	}

	return code, nil
}

// RedeemLoginLink consumes code and returns the link it belonged to.
func (s *Service) RedeemLoginLink(
	ctx context.Context,
	code string,
) (*LoginLink, error) {
	if code == "" {
		return nil, ErrInvalidLoginLink
	}

	link, err := s.repo.ConsumeLoginLink(ctx, core.HashToken(code), s.now())
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrInvalidLoginLink
		}
		return nil, err
	}

	return link, nil
}

func (s *Service) CountActive(ctx context.Context) (int64, error) {
	return s.repo.CountActive(ctx, s.now())
}

type SweepResult struct {
	Sessions   int64 `json:"sessions"`
	LoginLinks int64 `json:"login_links"`
}

func (s *Service) SweepExpired(ctx context.Context) (SweepResult, error) {
	now := s.now()

	sessions, err := s.repo.DeleteExpired(ctx, now)
	if err != nil {
		return SweepResult{}, err
	}

	links, err := s.repo.DeleteStaleLoginLinks(ctx, now)
	if err != nil {
		return SweepResult{Sessions: sessions}, err
	}

	return SweepResult{Sessions: sessions, LoginLinks: links}, nil
}

// SanitizeNext keeps redirects on this origin: only absolute paths are
// allowed. Protocol-relative paths, backslashes and control characters
// fall back to the default landing page; browsers drop tabs and newlines
// from URLs, so "/\t/host" would otherwise become "//host".
func (s *Service) SanitizeNext(next string) string {
	if next == "" ||
		!strings.HasPrefix(next, "/") ||
		strings.HasPrefix(next, "//") ||
		strings.Contains(next, "\\") ||
		strings.ContainsFunc(next, unicode.IsControl) {
		return s.defaultNext
	}

	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return s.defaultNext
	}

	return next
}
