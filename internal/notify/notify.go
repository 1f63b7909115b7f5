// AngelaMos | 2026
// notify.go

package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/templates/sessiongate/internal/config"
)

var ErrDispatch = errors.New("notification dispatch failed")

const (
	KindLoginLink       = "login_link"
	KindRenewalReminder = "renewal_reminder"
)

type Message struct {
	ID        string            `json:"id"`
	Kind      string            `json:"kind"`
	To        string            `json:"to"`
	Subject   string            `json:"subject"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Notifier delivers one message to an external channel. Implementations
// must be safe for concurrent use.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// New builds the notifier selected by cfg.Notifier.
func New(cfg config.ReminderConfig, rdb StreamAdder) (Notifier, error) {
	switch cfg.Notifier {
	case config.NotifierWebhook:
		return NewWebhook(cfg.WebhookURL, nil), nil
	case config.NotifierRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis notifier requires a redis client")
		}
		return NewRedisStream(rdb, cfg.Stream), nil
	default:
		return nil, fmt.Errorf("unknown notifier %q", cfg.Notifier)
	}
}
