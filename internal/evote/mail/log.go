package mail

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/evote/pkg/slogx"
)

// LogSender records outgoing mail in the log instead of delivering it. The
// body is never logged because it carries the one-time code.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("mail not delivered (log driver)",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.Int("body_bytes", len(msg.HTMLBody)),
	)
	return nil
}
