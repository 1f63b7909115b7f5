// AngelaMos | 2026
// service.go

package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/templates/sessiongate/internal/core"
	"github.com/carterperez-dev/templates/sessiongate/internal/session"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Get(ctx context.Context, id string) (*Identity, error) {
	if id == "" {
		return nil, fmt.Errorf("get identity: %w", core.ErrNotFound)
	}
	return s.repo.GetByID(ctx, id)
}

// FindPrincipals satisfies session.IdentityLookup. It returns all matches
// and leaves the uniqueness decision to the resolver.
func (s *Service) FindPrincipals(
	ctx context.Context,
	id, email string,
) ([]session.Principal, error) {
	idents, err := s.repo.FindByIDOrEmail(ctx, id, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	principals := make([]session.Principal, 0, len(idents))
	for i := range idents {
		principals = append(principals, ToPrincipal(&idents[i]))
	}

	return principals, nil
}

// Authenticate checks an email/password pair. Unknown emails still pay for
// a hash verification so response timing does not reveal which accounts
// exist.
func (s *Service) Authenticate(
	ctx context.Context,
	email, password string,
) (*session.Principal, error) {
	ident, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(password, nil)
			return nil, core.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get identity: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		password,
		ident.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, core.ErrInvalidCredentials
	}

	if newHash != "" {
		//nolint:errcheck // best-effort rehash upgrade
		_ = s.repo.UpdatePasswordHash(ctx, ident.ID, newHash)
	}

	p := ToPrincipal(ident)
	return &p, nil
}

// PrincipalByEmail is used by the login-link callback, where the emailed
// code already proved control of the address.
func (s *Service) PrincipalByEmail(
	ctx context.Context,
	email string,
) (*session.Principal, error) {
	ident, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	p := ToPrincipal(ident)
	return &p, nil
}

// Organization returns nil without error when the identity has none.
func (s *Service) Organization(
	ctx context.Context,
	ident *Identity,
) (*Organization, error) {
	if ident.OrgID == nil || *ident.OrgID == "" {
		return nil, nil
	}

	org, err := s.repo.GetOrganization(ctx, *ident.OrgID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return org, nil
}

func (s *Service) List(
	ctx context.Context,
	params ListParams,
) ([]Identity, int, error) {
	params.Normalize()
	return s.repo.List(ctx, params)
}

func ToPrincipal(i *Identity) session.Principal {
	return session.Principal{
		ID:    i.ID,
		Email: i.Email,
		Name:  i.Name,
		Role:  i.Role,
		OrgID: i.OrgID,
	}
}

var _ session.IdentityLookup = (*Service)(nil)
