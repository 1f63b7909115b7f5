// AngelaMos | 2026
// dto.go

package auth

import (
	"time"

	"github.com/carterperez-dev/templates/sessiongate/internal/session"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type LoginLinkRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Next  string `json:"next"  validate:"omitempty,max=512"`
}

type PrincipalResponse struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  string  `json:"name"`
	Role  string  `json:"role"`
	OrgID *string `json:"org_id,omitempty"`
}

type LoginResponse struct {
	User      PrincipalResponse `json:"user"`
	ExpiresAt time.Time         `json:"expires_at"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type SessionInfo struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	Current   bool      `json:"current"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionsResponse struct {
	Sessions []SessionInfo `json:"sessions"`
}

func ToPrincipalResponse(p *session.Principal) PrincipalResponse {
	return PrincipalResponse{
		ID:    p.ID,
		Email: p.Email,
		Name:  p.Name,
		Role:  p.Role,
		OrgID: p.OrgID,
	}
}

func ToSessionInfos(sessions []session.Session, currentID string) []SessionInfo {
	infos := make([]SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		infos = append(infos, SessionInfo{
			ID:        s.ID,
			Kind:      s.Kind,
			UserAgent: s.UserAgent,
			IPAddress: s.IPAddress,
			Current:   s.ID == currentID,
			CreatedAt: s.CreatedAt,
			ExpiresAt: s.ExpiresAt,
		})
	}
	return infos
}
