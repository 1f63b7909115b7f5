// AngelaMos | 2026
// webhook_test.go

package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage() Message {
	return Message{
		ID:        "renewal:sub-1:2026-03-05",
		Kind:      KindRenewalReminder,
		To:        "ada@example.com",
		Subject:   "Your subscription renews soon",
		Body:      "Hi Ada",
		Data:      map[string]string{"plan": "pro"},
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestWebhookSend(t *testing.T) {
	var (
		gotKey  string
		gotType string
		gotMsg  Message
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Idempotency-Key")
		gotType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotMsg); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	msg := testMessage()
	err := NewWebhook(srv.URL, srv.Client()).Send(context.Background(), msg)

	require.NoError(t, err)
	assert.Equal(t, msg.ID, gotKey)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, msg.To, gotMsg.To)
	assert.Equal(t, msg.Data, gotMsg.Data)
	assert.True(t, msg.CreatedAt.Equal(gotMsg.CreatedAt))
}

func TestWebhookNon2xxIsDispatchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhook(srv.URL, srv.Client()).Send(context.Background(), testMessage())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDispatch)
	assert.Contains(t, err.Error(), "502")
}

func TestWebhookUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewWebhook(url, nil).Send(context.Background(), testMessage())

	assert.ErrorIs(t, err, ErrDispatch)
}
