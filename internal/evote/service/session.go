package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/evote/internal/evote/domain"
	"github.com/aussiebroadwan/evote/pkg/jwtx"
)

const (
	ScopeAgendaRead  = "agenda:read"
	ScopeBallotRead  = "ballot:read"
	ScopeBallotWrite = "ballot:write"
	ScopeAdminRead   = "admin:read"
	ScopeAdminWrite  = "admin:write"
	ScopeResultsRead = "results:read"

	AMROTP      = "otp"
	AMRPassword = "pwd"
)

var (
	VoterScopes = []string{ScopeAgendaRead, ScopeBallotRead, ScopeBallotWrite}
	AdminScopes = []string{ScopeAdminRead, ScopeAdminWrite, ScopeResultsRead}
)

// Session is a signed bearer token handed to a client after login.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	Scopes      []string
}

// ExpiresIn is the remaining lifetime in whole seconds relative to now.
func (s Session) ExpiresIn(now time.Time) int {
	return int(s.ExpiresAt.Sub(now).Seconds())
}

type SessionService struct {
	Keys   *jwtx.KeyManager
	Issuer string

	VoterTTL time.Duration // zero means jwtx.DefaultVoterSessionTTL
	AdminTTL time.Duration // zero means jwtx.DefaultAdminSessionTTL
	Now      func() time.Time
}

// IssueVoterSession signs a token bound to the voter and their project.
func (s *SessionService) IssueVoterSession(v domain.Voter) (Session, error) {
	ttl := s.VoterTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultVoterSessionTTL
	}
	return s.issue(v.ID, v.ProjectID, VoterScopes, []string{AMROTP}, ttl)
}

// IssueAdminSession signs an administrator token.
func (s *SessionService) IssueAdminSession(a domain.Admin) (Session, error) {
	ttl := s.AdminTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAdminSessionTTL
	}
	return s.issue(a.ID, "", AdminScopes, []string{AMRPassword}, ttl)
}

func (s *SessionService) issue(subject, projectID string, scopes, amr []string, ttl time.Duration) (Session, error) {
	signer := s.Keys.GetSigner()
	if signer == nil {
		return Session{}, errors.New("no signing key available")
	}

	claims := jwtx.NewSessionClaims(subject, projectID, scopes, amr, ttl, s.Issuer, nowOr(s.Now))
	token, err := signer.Sign(claims)
	if err != nil {
		return Session{}, fmt.Errorf("sign session: %w", err)
	}

	return Session{
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt.Time,
		Scopes:      scopes,
	}, nil
}
