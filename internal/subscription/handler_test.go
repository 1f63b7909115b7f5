// AngelaMos | 2026
// handler_test.go

package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/sessiongate/internal/core"
	"github.com/carterperez-dev/templates/sessiongate/internal/middleware"
	"github.com/carterperez-dev/templates/sessiongate/internal/session"
)

type fakeRepo struct {
	subs    map[string]*Subscription
	renewal []RenewalDue
	err     error
	from    time.Time
	to      time.Time
}

func (f *fakeRepo) GetActiveByIdentity(_ context.Context, id string) (*Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.subs[id]
	if !ok {
		return nil, fmt.Errorf("get subscription: %w", core.ErrNotFound)
	}
	return s, nil
}

func (f *fakeRepo) ListRenewalsDue(_ context.Context, from, to time.Time) ([]RenewalDue, error) {
	f.from, f.to = from, to
	return f.renewal, f.err
}

func serve(t *testing.T, repo Repository, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	r := chi.NewRouter()
	NewHandler(NewService(repo)).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestGetStatusWithoutUserIsFreeTier(t *testing.T) {
	rec, body := serve(t, &fakeRepo{}, httptest.NewRequest(http.MethodGet, "/subscription", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"plan": "free", "status": "active"}, body["data"])
}

func TestGetStatusWithoutActiveRowIsFreeTier(t *testing.T) {
	rec, body := serve(t, &fakeRepo{},
		httptest.NewRequest(http.MethodGet, "/subscription?user_id=user-9", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"plan": "free", "status": "active"}, body["data"])
}

func TestGetStatusActive(t *testing.T) {
	end := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{subs: map[string]*Subscription{
		"user-1": {Plan: "pro", Status: StatusActive, CurrentPeriodEnd: &end},
	}}

	rec, body := serve(t, repo,
		httptest.NewRequest(http.MethodGet, "/subscription?user_id=user-1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "pro", data["plan"])
	assert.Equal(t, "active", data["status"])
	assert.Equal(t, "2026-04-01T00:00:00Z", data["current_period_end"])
}

func TestGetStatusUsesSignedInCaller(t *testing.T) {
	repo := &fakeRepo{subs: map[string]*Subscription{
		"user-1": {Plan: "team", Status: StatusTrialing},
	}}

	req := httptest.NewRequest(http.MethodGet, "/subscription", nil)
	ctx := context.WithValue(req.Context(), middleware.PrincipalKey, &session.Principal{ID: "user-1"})

	_, body := serve(t, repo, req.WithContext(ctx))

	data := body["data"].(map[string]any)
	assert.Equal(t, "team", data["plan"])
}

func TestGetStatusStoreFailure(t *testing.T) {
	repo := &fakeRepo{err: core.StoreError("get subscription", errors.New("timeout"))}

	rec, body := serve(t, repo,
		httptest.NewRequest(http.MethodGet, "/subscription?user_id=user-1", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.NotContains(t, rec.Body.String(), "timeout")
}

func TestRenewalsDueWindow(t *testing.T) {
	repo := &fakeRepo{}
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := NewService(repo).RenewalsDue(context.Background(), now, 72*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, now, repo.from)
	assert.Equal(t, now.Add(72*time.Hour), repo.to)
}
