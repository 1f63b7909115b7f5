// AngelaMos | 2026
// resolver_test.go

package session

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/sessiongate/internal/core"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func seedSession(t *testing.T, repo *memRepo, token string, expiresAt time.Time) *Session {
	t.Helper()
	sess := &Session{
		ID:           "sess-" + token,
		TokenHash:    core.HashToken(token),
		SubjectID:    "user-1",
		SubjectEmail: "ada@example.com",
		Kind:         KindUser,
		ExpiresAt:    expiresAt,
	}
	require.NoError(t, repo.Create(context.Background(), sess))
	return sess
}

func newTestResolver(repo *memRepo, ids *stubIdentities, bearer BearerVerifier) *Resolver {
	r := NewResolver(repo, ids, bearer)
	r.now = func() time.Time { return fixedNow }
	return r
}

func TestResolveEmptyToken(t *testing.T) {
	ids := &stubIdentities{}
	r := newTestResolver(newMemRepo(), ids, nil)

	out, err := r.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, StatusNoSession, out.Status)
	assert.False(t, out.IsAuthenticated())
	assert.Zero(t, ids.calls)
}

func TestResolveUnknownToken(t *testing.T) {
	r := newTestResolver(newMemRepo(), &stubIdentities{}, nil)

	out, err := r.Resolve(context.Background(), "not-a-real-token")
	require.NoError(t, err)
	assert.Equal(t, StatusNoSession, out.Status)
}

func TestResolveSingleMatch(t *testing.T) {
	repo := newMemRepo()
	sess := seedSession(t, repo, "tok-a", fixedNow.Add(time.Hour))
	ids := &stubIdentities{principals: []Principal{
		{ID: "user-1", Email: "ada@example.com", Role: "user"},
	}}
	r := newTestResolver(repo, ids, nil)

	out, err := r.Resolve(context.Background(), "tok-a")
	require.NoError(t, err)
	require.True(t, out.IsAuthenticated())
	assert.Equal(t, "user-1", out.Principal.ID)
	assert.Equal(t, sess.ID, out.Session.ID)
}

func TestResolveExpiredSessionIsDeleted(t *testing.T) {
	repo := newMemRepo()
	sess := seedSession(t, repo, "tok-old", fixedNow)
	ids := &stubIdentities{principals: []Principal{{ID: "user-1"}}}
	r := newTestResolver(repo, ids, nil)

	out, err := r.Resolve(context.Background(), "tok-old")
	require.NoError(t, err)
	assert.Equal(t, StatusNoSession, out.Status)
	assert.Contains(t, repo.deleted, sess.ID)
	assert.Zero(t, ids.calls)
}

func TestResolveZeroIdentities(t *testing.T) {
	repo := newMemRepo()
	seedSession(t, repo, "tok-orphan", fixedNow.Add(time.Hour))
	r := newTestResolver(repo, &stubIdentities{}, nil)

	out, err := r.Resolve(context.Background(), "tok-orphan")
	require.NoError(t, err)
	assert.Equal(t, StatusNoSession, out.Status)
	assert.Nil(t, out.Principal)
}

func TestResolveAmbiguousIdentityDenies(t *testing.T) {
	repo := newMemRepo()
	seedSession(t, repo, "tok-dup", fixedNow.Add(time.Hour))
	ids := &stubIdentities{principals: []Principal{
		{ID: "user-1", Email: "old@example.com"},
		{ID: "user-2", Email: "ada@example.com"},
	}}
	r := newTestResolver(repo, ids, nil)

	out, err := r.Resolve(context.Background(), "tok-dup")
	require.NoError(t, err)
	assert.Equal(t, StatusAmbiguous, out.Status)
	assert.False(t, out.IsAuthenticated())
	assert.Nil(t, out.Principal)
	assert.Nil(t, out.Session)
}

func TestResolveStoreFailureIsAnError(t *testing.T) {
	repo := newMemRepo()
	repo.err = core.StoreError("get session", errors.New("connection reset"))
	r := newTestResolver(repo, &stubIdentities{}, nil)

	_, err := r.Resolve(context.Background(), "tok-any")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrExternalStore)
}

func TestResolveIdentityStoreFailure(t *testing.T) {
	repo := newMemRepo()
	seedSession(t, repo, "tok-b", fixedNow.Add(time.Hour))
	ids := &stubIdentities{err: core.StoreError("find identities", errors.New("timeout"))}
	r := newTestResolver(repo, ids, nil)

	_, err := r.Resolve(context.Background(), "tok-b")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrExternalStore)
}

func TestResolveBearerToken(t *testing.T) {
	repo := newMemRepo()
	sess := seedSession(t, repo, "tok-c", fixedNow.Add(time.Hour))
	ids := &stubIdentities{principals: []Principal{{ID: "user-1"}}}

	r := newTestResolver(repo, ids, stubBearer{sessionID: sess.ID})
	out, err := r.Resolve(context.Background(), "aaa.bbb.ccc")
	require.NoError(t, err)
	assert.True(t, out.IsAuthenticated())
	assert.Equal(t, sess.ID, out.Session.ID)
}

func TestResolveBearerForDeletedSession(t *testing.T) {
	repo := newMemRepo()
	ids := &stubIdentities{principals: []Principal{{ID: "user-1"}}}

	r := newTestResolver(repo, ids, stubBearer{sessionID: "gone"})
	out, err := r.Resolve(context.Background(), "aaa.bbb.ccc")
	require.NoError(t, err)
	assert.Equal(t, StatusNoSession, out.Status)
}

func TestResolveInvalidBearer(t *testing.T) {
	r := newTestResolver(
		newMemRepo(),
		&stubIdentities{},
		stubBearer{err: errors.New("bad signature")},
	)

	out, err := r.Resolve(context.Background(), "aaa.bbb.ccc")
	require.NoError(t, err)
	assert.Equal(t, StatusNoSession, out.Status)
}

func TestExtractToken(t *testing.T) {
	t.Run("cookie wins", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Cookie", "sg_session=from-cookie")
		req.Header.Set("Authorization", "Bearer from-header")
		assert.Equal(t, "from-cookie", ExtractToken(req, "sg_session"))
	})

	t.Run("bearer fallback", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "bearer from-header")
		assert.Equal(t, "from-header", ExtractToken(req, "sg_session"))
	})

	t.Run("other scheme ignored", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		assert.Empty(t, ExtractToken(req, "sg_session"))
	})

	t.Run("nothing", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		assert.Empty(t, ExtractToken(req, "sg_session"))
	})
}
