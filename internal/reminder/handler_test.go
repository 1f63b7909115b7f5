// AngelaMos | 2026
// handler_test.go

package reminder

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newCronRouter(targets TargetSource, secret string) chi.Router {
	h := NewHandler(newTestRunner(targets, &recordingNotifier{}, 2), secret)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func TestCronRequiresSecret(t *testing.T) {
	r := newCronRouter(&staticTargets{targets: makeTargets(1)}, testSecret)

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"wrong scheme", "Basic " + testSecret},
		{"wrong secret", "Bearer not-the-secret"},
		{"prefix of secret", "Bearer " + testSecret[:16]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/cron/reminders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestCronEmptySecretRejectsEverything(t *testing.T) {
	r := newCronRouter(&staticTargets{}, "")

	req := httptest.NewRequest(http.MethodPost, "/cron/reminders", nil)
	req.Header.Set("Authorization", "Bearer ")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCronRunsWithSecret(t *testing.T) {
	r := newCronRouter(&staticTargets{targets: makeTargets(3)}, testSecret)

	for _, method := range []string{http.MethodPost, http.MethodGet} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/cron/reminders", nil)
			req.Header.Set("Authorization", "Bearer "+testSecret)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)

			var body struct {
				Success bool   `json:"success"`
				Data    Result `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.True(t, body.Success)
			assert.Equal(t, Result{Sent: 3, Total: 3}, body.Data)
		})
	}
}

func TestCronLoadFailure(t *testing.T) {
	r := newCronRouter(&staticTargets{err: errors.New("db down")}, testSecret)

	req := httptest.NewRequest(http.MethodPost, "/cron/reminders", nil)
	req.Header.Set("Authorization", "Bearer "+testSecret)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}
