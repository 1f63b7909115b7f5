// AngelaMos | 2026
// entity.go

package session

import (
	"time"
)

const (
	KindUser  = "user"
	KindAdmin = "admin"
)

// Session is the server-side half of a login. The client only ever holds
// the raw token; TokenHash is what the store keys on.
type Session struct {
	ID           string    `db:"id"`
	TokenHash    string    `db:"token_hash"`
	SubjectID    string    `db:"subject_id"`
	SubjectEmail string    `db:"subject_email"`
	Kind         string    `db:"kind"`
	ExpiresAt    time.Time `db:"expires_at"`
	CreatedAt    time.Time `db:"created_at"`
	UserAgent    string    `db:"user_agent"`
	IPAddress    string    `db:"ip_address"`
}

func (s *Session) IsExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type LoginLink struct {
	ID        string     `db:"id"`
	TokenHash string     `db:"token_hash"`
	Email     string     `db:"email"`
	NextPath  string     `db:"next_path"`
	ExpiresAt time.Time  `db:"expires_at"`
	UsedAt    *time.Time `db:"used_at"`
	CreatedAt time.Time  `db:"created_at"`
}

// Principal is the identity a session resolved to, as seen by handlers.
type Principal struct {
	ID    string
	Email string
	Name  string
	Role  string
	OrgID *string
}

func (p *Principal) HasRole(roles ...string) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
