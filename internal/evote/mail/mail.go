// Package mail delivers the e-mails the service sends to voters.
package mail

import (
	"context"
	"errors"
)

var ErrInvalidMessage = errors.New("mail: invalid message")

// Message is a single HTML e-mail to one recipient.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

func (m Message) validate() error {
	if m.To == "" || m.Subject == "" {
		return ErrInvalidMessage
	}
	return nil
}

// Sender delivers messages. Implementations must honour ctx cancellation.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
