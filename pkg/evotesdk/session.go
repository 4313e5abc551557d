package evotesdk

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Session is an authenticated connection. Sessions are not refreshed; sign
// in again once Expired reports true.
type Session struct {
	client      *SDKClient
	accessToken string
	expiresAt   time.Time
	scopes      []string
	voterID     string
}

func newSession(c *SDKClient, resp SessionResponse) *Session {
	return &Session{
		client:      c,
		accessToken: resp.AccessToken,
		expiresAt:   time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
		scopes:      strings.Fields(resp.Scope),
		voterID:     resp.VoterID,
	}
}

// NewSessionFromToken wraps an existing bearer token.
func (c *SDKClient) NewSessionFromToken(token string, scopes []string, expiresAt time.Time) *Session {
	return &Session{client: c, accessToken: token, expiresAt: expiresAt, scopes: scopes}
}

func (s *Session) AccessToken() string { return s.accessToken }
func (s *Session) Scopes() []string    { return slices.Clone(s.scopes) }
func (s *Session) VoterID() string     { return s.voterID }
func (s *Session) Expired() bool       { return !time.Now().Before(s.expiresAt) }

func (s *Session) HasScope(scope string) bool {
	return slices.Contains(s.scopes, scope)
}

func (s *Session) requireScope(scope string) error {
	if scope == "" || !s.client.CheckScopes || s.HasScope(scope) {
		return nil
	}
	return fmt.Errorf("evote: session lacks required scope %q", scope)
}

func (s *Session) call(ctx context.Context, scope, method, path string, in, out any, want int) error {
	if err := s.requireScope(scope); err != nil {
		return err
	}
	return s.client.do(ctx, method, path, s.accessToken, nil, in, out, want)
}
