package river

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riverqueue/river"

	"github.com/courtyardhq/courtyard/internal/domain"
)

// Compile-time check: Publisher implements domain.Notifier.
var _ domain.Notifier = (*Publisher)(nil)

// NotificationJobArgs carries a notification through River's job queue.
// River serializes this as JSON into its job table, so the worker has the
// full message and never needs to query back.
type NotificationJobArgs struct {
	Audience string            `json:"audience"`
	ScopeID  string            `json:"scope_id"`
	Title    string            `json:"title"`
	Message  string            `json:"message"`
	Data     map[string]string `json:"data,omitempty"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (NotificationJobArgs) Kind() string { return "notification.dispatch" }

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Publisher implements domain.Notifier by enqueuing River jobs.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher backed by the given River client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Notify enqueues a notification as an async job in River.
func (p *Publisher) Notify(ctx context.Context, n domain.Notification) error {
	_, err := p.client.Insert(ctx, NotificationJobArgs{
		Audience: string(n.Audience),
		ScopeID:  n.ScopeID,
		Title:    n.Title,
		Message:  n.Message,
		Data:     n.Data,
	}, nil)
	if err != nil {
		return fmt.Errorf("enqueuing notification job: %w", err)
	}
	return nil
}
