package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/gatehouse-api/gatehouse/internal/mail"
)

// MailDispatcher queues verification emails without making the caller wait
// for delivery. Enqueue failures are logged and swallowed: registration and
// resend must report success regardless of mail-transport health.
type MailDispatcher struct {
	client *Client
	logger *slog.Logger
}

// NewMailDispatcher constructs a dispatcher over the jobs client.
func NewMailDispatcher(client *Client, logger *slog.Logger) *MailDispatcher {
	return &MailDispatcher{client: client, logger: logger}
}

// SendVerificationEmail enqueues the verification message in the
// background and returns immediately. The request context is deliberately
// not used: the enqueue must outlive the request that triggered it.
func (d *MailDispatcher) SendVerificationEmail(_ context.Context, to, name, link string) {
	payload := SendEmailPayload{
		To:       to,
		Template: mail.TemplateVerification,
		Context: map[string]string{
			"Name": name,
			"Link": link,
		},
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := d.client.EnqueueSendEmail(ctx, payload); err != nil {
			d.logger.Error("enqueue verification email", slog.String("to", to), slog.Any("error", err))
		}
	}()
}
