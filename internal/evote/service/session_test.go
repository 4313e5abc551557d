package service

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/evote/internal/evote/domain"
	"github.com/aussiebroadwan/evote/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestIssueSessions(t *testing.T) {
	t.Parallel()

	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: "evote-test", NumKeys: 2})
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	svc := &SessionService{Keys: km, Issuer: "evote-test", Now: func() time.Time { return now }}

	t.Run("voter", func(t *testing.T) {
		s, err := svc.IssueVoterSession(domain.Voter{ID: "voter-1", ProjectID: "project-1"})
		require.NoError(t, err)
		require.Equal(t, now.Add(jwtx.DefaultVoterSessionTTL), s.ExpiresAt)
		require.Equal(t, int(jwtx.DefaultVoterSessionTTL.Seconds()), s.ExpiresIn(now))

		claims, err := km.Verifier.Verify(s.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "voter-1", claims.Subject)
		require.Equal(t, "project-1", claims.ProjectID)
		require.ElementsMatch(t, VoterScopes, claims.Scopes)
		require.Equal(t, []string{AMROTP}, claims.AMR)
		require.False(t, claims.HasScope(ScopeResultsRead))
	})

	t.Run("admin", func(t *testing.T) {
		s, err := svc.IssueAdminSession(domain.Admin{ID: "admin-1"})
		require.NoError(t, err)

		claims, err := km.Verifier.Verify(s.AccessToken)
		require.NoError(t, err)
		require.Empty(t, claims.ProjectID)
		require.True(t, claims.HasScope(ScopeResultsRead))
		require.False(t, claims.HasScope(ScopeBallotWrite))
		require.Equal(t, []string{AMRPassword}, claims.AMR)
	})
}
