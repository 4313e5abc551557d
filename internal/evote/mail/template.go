package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const otpSubject = "Your voting access code"

var otpTemplate = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif">
<p>Hello{{ if .Name }} {{ .Name }}{{ end }},</p>
<p>Use the code below to sign in and cast your ballot.</p>
<p style="font-size: 28px; letter-spacing: 6px"><strong>{{ .Code }}</strong></p>
<p>The code expires in {{ .Minutes }} minutes. Requesting a new code invalidates this one.</p>
<p>If you did not request this code you can ignore this e-mail.</p>
</body>
</html>
`))

type otpData struct {
	Name    string
	Code    string
	Minutes int
}

// OTPMessage renders the one-time code e-mail for a voter.
func OTPMessage(to, name, code string, ttl time.Duration) (Message, error) {
	var buf bytes.Buffer
	err := otpTemplate.Execute(&buf, otpData{
		Name:    name,
		Code:    code,
		Minutes: int(ttl.Round(time.Minute) / time.Minute),
	})
	if err != nil {
		return Message{}, fmt.Errorf("render otp mail: %w", err)
	}

	return Message{
		To:       to,
		Subject:  otpSubject,
		HTMLBody: buf.String(),
	}, nil
}
