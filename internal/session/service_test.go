// AngelaMos | 2026
// service_test.go

package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/sessiongate/internal/config"
	"github.com/carterperez-dev/templates/sessiongate/internal/core"
)

func newTestService(repo *memRepo) *Service {
	svc := NewService(repo, config.SessionConfig{
		TTL:          24 * time.Hour,
		LoginLinkTTL: 15 * time.Minute,
		DefaultNext:  "/dashboard",
	})
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestCreateStoresOnlyTheHash(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	issued, err := svc.Create(
		context.Background(),
		&Principal{ID: "user-1", Email: "ada@example.com"},
		KindUser, "test-agent", "10.0.0.1",
	)
	require.NoError(t, err)

	stored := repo.sessions[issued.Session.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, issued.Token, stored.TokenHash)
	assert.Equal(t, core.HashToken(issued.Token), stored.TokenHash)
	assert.Equal(t, fixedNow.Add(24*time.Hour), stored.ExpiresAt)
	assert.Equal(t, "ada@example.com", stored.SubjectEmail)
}

func TestLogoutDeletesSession(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	issued, err := svc.Create(context.Background(), &Principal{ID: "user-1"}, KindUser, "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), issued.Token))
	assert.Empty(t, repo.sessions)

	assert.NoError(t, svc.Logout(context.Background(), ""))
	assert.NoError(t, svc.Logout(context.Background(), "unknown"))
}

func TestRevoke(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	mine, err := svc.Create(ctx, &Principal{ID: "user-1"}, KindUser, "", "")
	require.NoError(t, err)
	theirs, err := svc.Create(ctx, &Principal{ID: "user-2"}, KindUser, "", "")
	require.NoError(t, err)

	err = svc.Revoke(ctx, "user-1", theirs.Session.ID)
	assert.ErrorIs(t, err, core.ErrForbidden)

	err = svc.Revoke(ctx, "user-1", "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, svc.Revoke(ctx, "user-1", mine.Session.ID))
	assert.NotContains(t, repo.sessions, mine.Session.ID)
	assert.Contains(t, repo.sessions, theirs.Session.ID)
}

func TestLoginLinkIsSingleUse(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	code, err := svc.IssueLoginLink(ctx, "Ada@Example.com", "/billing")
	require.NoError(t, err)

	link, err := svc.RedeemLoginLink(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", link.Email)
	assert.Equal(t, "/billing", link.NextPath)

	_, err = svc.RedeemLoginLink(ctx, code)
	assert.ErrorIs(t, err, ErrInvalidLoginLink)

	_, err = svc.RedeemLoginLink(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidLoginLink)
}

func TestLoginLinkExpires(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	code, err := svc.IssueLoginLink(ctx, "ada@example.com", "")
	require.NoError(t, err)

	svc.now = func() time.Time { return fixedNow.Add(16 * time.Minute) }

	_, err = svc.RedeemLoginLink(ctx, code)
	assert.ErrorIs(t, err, ErrInvalidLoginLink)
}

func TestSweepExpired(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	seedSession(t, repo, "old", fixedNow.Add(-time.Minute))
	seedSession(t, repo, "live", fixedNow.Add(time.Hour))
	_, err := svc.IssueLoginLink(ctx, "ada@example.com", "")
	require.NoError(t, err)

	svc.now = func() time.Time { return fixedNow.Add(time.Hour) }

	res, err := svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Sessions: 2, LoginLinks: 1}, res)
}

func TestCountActive(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	seedSession(t, repo, "old", fixedNow.Add(-time.Minute))
	seedSession(t, repo, "live", fixedNow.Add(time.Hour))
	seedSession(t, repo, "also-live", fixedNow.Add(2*time.Hour))

	n, err := svc.CountActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestSanitizeNext(t *testing.T) {
	svc := newTestService(newMemRepo())

	tests := []struct {
		in   string
		want string
	}{
		{"", "/dashboard"},
		{"/billing?tab=invoices", "/billing?tab=invoices"},
		{"https://evil.example.com", "/dashboard"},
		{"//evil.example.com", "/dashboard"},
		{"/\\evil.example.com", "/dashboard"},
		{"/ok\r\nSet-Cookie: x=y", "/dashboard"},
		{"relative/path", "/dashboard"},
		{"/\t/evil.example.com", "/dashboard"},
		{"/\x00admin", "/dashboard"},
		{"/\x7f/evil.example.com", "/dashboard"},
		{"/%zz", "/dashboard"},
		{"/settings/profile#billing", "/settings/profile#billing"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, svc.SanitizeNext(tt.in), tt.in)
	}
}
