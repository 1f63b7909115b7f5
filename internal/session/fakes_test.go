// AngelaMos | 2026
// fakes_test.go

package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/carterperez-dev/templates/sessiongate/internal/core"
)

type memRepo struct {
	mu       sync.Mutex
	sessions map[string]*Session
	links    map[string]*LoginLink
	err      error
	deleted  []string
}

func newMemRepo() *memRepo {
	return &memRepo{
		sessions: make(map[string]*Session),
		links:    make(map[string]*LoginLink),
	}
}

func (m *memRepo) Create(_ context.Context, sess *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	cp := *sess
	m.sessions[sess.ID] = &cp
	return nil
}

func (m *memRepo) FindByTokenHash(_ context.Context, hash string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, s := range m.sessions {
		if s.TokenHash == hash {
			cp := *s
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get session: %w", core.ErrNotFound)
}

func (m *memRepo) FindByID(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("get session: %w", core.ErrNotFound)
	}
	cp := *s
	return &cp, nil
}

func (m *memRepo) DeleteByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("delete session: %w", core.ErrNotFound)
	}
	delete(m.sessions, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *memRepo) DeleteByTokenHash(_ context.Context, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for id, s := range m.sessions {
		if s.TokenHash == hash {
			delete(m.sessions, id)
			m.deleted = append(m.deleted, id)
		}
	}
	return nil
}

func (m *memRepo) ListActiveForSubject(
	_ context.Context,
	subjectID string,
	now time.Time,
) ([]Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Session
	for _, s := range m.sessions {
		if s.SubjectID == subjectID && !s.IsExpiredAt(now) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.sessions {
		if s.IsExpiredAt(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

func (m *memRepo) CountActive(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, s := range m.sessions {
		if !s.IsExpiredAt(now) {
			n++
		}
	}
	return n, nil
}

func (m *memRepo) CreateLoginLink(_ context.Context, link *LoginLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *link
	m.links[link.TokenHash] = &cp
	return nil
}

func (m *memRepo) ConsumeLoginLink(
	_ context.Context,
	hash string,
	now time.Time,
) (*LoginLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.links[hash]
	if !ok || l.UsedAt != nil || !now.Before(l.ExpiresAt) {
		return nil, fmt.Errorf("consume login link: %w", core.ErrNotFound)
	}
	used := now
	l.UsedAt = &used
	cp := *l
	return &cp, nil
}

func (m *memRepo) DeleteStaleLoginLinks(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for h, l := range m.links {
		if l.UsedAt != nil || !now.Before(l.ExpiresAt) {
			delete(m.links, h)
			n++
		}
	}
	return n, nil
}

type stubIdentities struct {
	principals []Principal
	err        error
	calls      int
}

func (s *stubIdentities) FindPrincipals(
	_ context.Context,
	_, _ string,
) ([]Principal, error) {
	s.calls++
	return s.principals, s.err
}

type stubBearer struct {
	sessionID string
	err       error
}

func (s stubBearer) VerifySessionToken(_ context.Context, _ string) (string, error) {
	return s.sessionID, s.err
}
