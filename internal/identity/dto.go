// AngelaMos | 2026
// dto.go

package identity

import (
	"time"
)

type IdentityResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	OrgID     *string   `json:"org_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type OrganizationResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// MeResponse is the caller's own profile. Subscription is whatever the
// subscription lookup returns, including the free-tier default.
type MeResponse struct {
	Identity     IdentityResponse      `json:"identity"`
	Organization *OrganizationResponse `json:"organization,omitempty"`
	Subscription any                   `json:"subscription"`
}

func ToIdentityResponse(i *Identity) IdentityResponse {
	return IdentityResponse{
		ID:        i.ID,
		Email:     i.Email,
		Name:      i.Name,
		Role:      i.Role,
		OrgID:     i.OrgID,
		CreatedAt: i.CreatedAt,
	}
}

func ToOrganizationResponse(o *Organization) *OrganizationResponse {
	if o == nil {
		return nil
	}
	return &OrganizationResponse{
		ID:   o.ID,
		Name: o.Name,
		Slug: o.Slug,
	}
}

type ListParams struct {
	Page     int
	PageSize int
	Search   string
	Role     string
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToIdentityResponseList(idents []Identity) []IdentityResponse {
	out := make([]IdentityResponse, 0, len(idents))
	for i := range idents {
		out = append(out, ToIdentityResponse(&idents[i]))
	}
	return out
}
