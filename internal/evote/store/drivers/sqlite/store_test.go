package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/evote/internal/evote/domain"
	"github.com/aussiebroadwan/evote/internal/evote/store"
	"github.com/aussiebroadwan/evote/internal/evote/store/drivers/sqlite"
	"github.com/aussiebroadwan/evote/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "evote.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedVoter(t *testing.T, s store.Store, email string, weight float64) (domain.Project, domain.Voter) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	p := domain.Project{ID: idx.New().String(), Name: "AGM", CreatedAt: now}
	require.NoError(t, s.Projects().CreateProject(ctx, p))

	v := domain.Voter{
		ID:           idx.New().String(),
		ProjectID:    p.ID,
		Email:        email,
		VotingWeight: weight,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Voters().CreateVoter(ctx, v))
	return p, v
}

func TestMigrationsAreIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestVoterUniquePerProject(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p, v := seedVoter(t, s, "alice@example.com", 1)

	got, err := s.Voters().GetVoterByEmail(ctx, p.ID, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, v.ID, got.ID)
	require.Equal(t, domain.VoterInvited, got.Status)

	dup := v
	dup.ID = idx.New().String()
	err = s.Voters().CreateVoter(ctx, dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = s.Voters().GetVoterByEmail(ctx, p.ID, "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestOTPCodeLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, v := seedVoter(t, s, "bob@example.com", 1)

	now := time.UnixMilli(1_700_000_000_000).UTC()
	code := domain.OneTimeCode{
		ID:        idx.New().String(),
		VoterID:   v.ID,
		Email:     v.Email,
		CodeHash:  "hash",
		CreatedAt: now,
		ExpiresAt: now.Add(15 * time.Minute),
	}
	require.NoError(t, s.OTPCodes().CreateCode(ctx, code))

	// One live code per voter.
	second := code
	second.ID = idx.New().String()
	require.ErrorIs(t, s.OTPCodes().CreateCode(ctx, second), store.ErrAlreadyExists)

	got, err := s.OTPCodes().GetCodeByVoter(ctx, v.ID)
	require.NoError(t, err)
	require.True(t, got.ExpiresAt.Equal(code.ExpiresAt))

	for want := 1; want <= 2; want++ {
		claimed, err := s.OTPCodes().ClaimAttempt(ctx, code.ID, 2)
		require.NoError(t, err)
		require.Equal(t, want, claimed.Attempts)
	}

	// Exhausted codes cannot be claimed and keep their counter.
	_, err = s.OTPCodes().ClaimAttempt(ctx, code.ID, 2)
	require.ErrorIs(t, err, store.ErrNotFound)
	got, err = s.OTPCodes().GetCodeByVoter(ctx, v.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.Attempts)

	n, err := s.OTPCodes().DeleteExpiredCodes(ctx, now.Add(15*time.Minute-time.Millisecond))
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = s.OTPCodes().DeleteExpiredCodes(ctx, now.Add(15*time.Minute))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = s.OTPCodes().GetCodeByVoter(ctx, v.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteCodeReportsMissingRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, v := seedVoter(t, s, "dora@example.com", 1)

	now := time.UnixMilli(1_700_000_000_000).UTC()
	code := domain.OneTimeCode{
		ID:        idx.New().String(),
		VoterID:   v.ID,
		Email:     v.Email,
		CodeHash:  "hash",
		CreatedAt: now,
		ExpiresAt: now.Add(15 * time.Minute),
	}
	require.NoError(t, s.OTPCodes().CreateCode(ctx, code))

	require.NoError(t, s.OTPCodes().DeleteCode(ctx, code.ID))
	require.ErrorIs(t, s.OTPCodes().DeleteCode(ctx, code.ID), store.ErrNotFound)

	_, err := s.OTPCodes().ClaimAttempt(ctx, code.ID, 5)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, v := seedVoter(t, s, "carol@example.com", 2)

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Voters().MarkVoted(ctx, v.ID, time.Now()))

		// Nested transactions are refused.
		require.Error(t, tx.WithTx(ctx, func(store.Tx) error { return nil }))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Voters().GetVoterByID(ctx, v.ID)
	require.NoError(t, err)
	require.Equal(t, domain.VoterInvited, got.Status)
}

func TestVotesAndOptions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p, v := seedVoter(t, s, "dave@example.com", 3)
	now := time.Now().UTC()

	a := domain.Agenda{ID: idx.New().String(), ProjectID: p.ID, Title: "Budget", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Agendas().CreateAgenda(ctx, a))

	gotAgenda, err := s.Agendas().GetAgenda(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, domain.AgendaDraft, gotAgenda.Status)

	for i, title := range []string{"B", "A"} {
		require.NoError(t, s.Options().CreateOption(ctx, domain.AgendaOption{
			ID:               idx.New().String(),
			AgendaID:         a.ID,
			Title:            title,
			RequiredApproval: domain.DefaultRequiredApproval,
			Position:         i,
			CreatedAt:        now,
		}))
	}
	opts, err := s.Options().ListOptions(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, opts, 2)
	require.Equal(t, "B", opts[0].Title)

	vote := domain.Vote{
		ID:       idx.New().String(),
		AgendaID: a.ID,
		OptionID: opts[0].ID,
		VoterID:  v.ID,
		Decision: domain.DecisionReject,
		Weight:   v.VotingWeight,
		CastAt:   now,
	}
	require.NoError(t, s.Votes().CreateVote(ctx, vote))

	dup := vote
	dup.ID = idx.New().String()
	require.ErrorIs(t, s.Votes().CreateVote(ctx, dup), store.ErrAlreadyExists)

	votes, err := s.Votes().ListVotesByAgenda(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, votes, 1)
	require.Equal(t, domain.DecisionReject, votes[0].Decision)
	require.InDelta(t, 3.0, votes[0].Weight, 1e-9)

	require.NoError(t, s.Votes().DeleteVotes(ctx, v.ID, a.ID))
	votes, err = s.Votes().ListVotesByVoter(ctx, v.ID, a.ID)
	require.NoError(t, err)
	require.Empty(t, votes)
}

func TestResolutionLengthEnforced(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p, _ := seedVoter(t, s, "erin@example.com", 1)
	now := time.Now().UTC()

	a := domain.Agenda{ID: idx.New().String(), ProjectID: p.ID, Title: "Motion", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Agendas().CreateAgenda(ctx, a))

	long := make([]byte, domain.MaxResolutionLength+1)
	for i := range long {
		long[i] = 'x'
	}
	err := s.Options().CreateOption(ctx, domain.AgendaOption{
		ID:               idx.New().String(),
		AgendaID:         a.ID,
		Title:            "Too long",
		Resolution:       string(long),
		RequiredApproval: 50,
		CreatedAt:        now,
	})
	require.Error(t, err)
}

func TestAdminsIsEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	empty, err := s.Admins().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	require.NoError(t, s.Admins().CreateAdmin(ctx, domain.Admin{
		ID: idx.New().String(), Username: "root", PasswordHash: "x", CreatedAt: time.Now(),
	}))

	empty, err = s.Admins().IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)

	_, err = s.Admins().GetAdminByUsername(ctx, "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)
}
