package mail

import (
	"context"
	"errors"
	"io"
	"mime/quotedprintable"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOTPMessage(t *testing.T) {
	msg, err := OTPMessage("alice@example.com", "<Alice>", "012345", 15*time.Minute)
	require.NoError(t, err)

	require.Equal(t, "alice@example.com", msg.To)
	require.Equal(t, otpSubject, msg.Subject)
	require.Contains(t, msg.HTMLBody, "012345")
	require.Contains(t, msg.HTMLBody, "15 minutes")

	// Names are escaped.
	require.Contains(t, msg.HTMLBody, "&lt;Alice&gt;")
	require.NotContains(t, msg.HTMLBody, "<Alice>")
}

func TestRecorder(t *testing.T) {
	var r Recorder
	ctx := context.Background()

	_, ok := r.Last()
	require.False(t, ok)

	require.NoError(t, r.Send(ctx, Message{To: "a@example.com", Subject: "one"}))
	require.NoError(t, r.Send(ctx, Message{To: "b@example.com", Subject: "two"}))
	require.Len(t, r.Messages(), 2)

	last, ok := r.Last()
	require.True(t, ok)
	require.Equal(t, "two", last.Subject)

	r.Err = errors.New("relay down")
	require.ErrorIs(t, r.Send(ctx, Message{To: "c@example.com", Subject: "three"}), r.Err)
	require.Len(t, r.Messages(), 2)

	require.ErrorIs(t, r.Send(ctx, Message{}), ErrInvalidMessage)
}

func TestLogSenderValidates(t *testing.T) {
	require.ErrorIs(t, LogSender{}.Send(context.Background(), Message{To: "x@example.com"}), ErrInvalidMessage)
	require.NoError(t, LogSender{}.Send(context.Background(), Message{To: "x@example.com", Subject: "hi"}))
}

func TestSMTPCompose(t *testing.T) {
	s := &SMTPSender{Host: "mail.example.com", From: "evote@example.com"}
	body := strings.Repeat("<p>long line</p>", 20)

	raw, err := s.compose(Message{To: "alice@example.com", Subject: "Grüße", HTMLBody: body}, time.Unix(0, 0).UTC())
	require.NoError(t, err)

	head, encoded, ok := strings.Cut(string(raw), "\r\n\r\n")
	require.True(t, ok)
	require.Contains(t, head, "From: evote@example.com\r\n")
	require.Contains(t, head, "To: alice@example.com\r\n")
	require.Contains(t, head, "Subject: =?utf-8?q?Gr=C3=BC=C3=9Fe?=\r\n")
	require.Contains(t, head, "Content-Transfer-Encoding: quoted-printable")

	decoded, err := io.ReadAll(quotedprintable.NewReader(strings.NewReader(encoded)))
	require.NoError(t, err)
	require.Equal(t, body, string(decoded))
}
