package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aussiebroadwan/evote/internal/evote/domain"
	"github.com/aussiebroadwan/evote/internal/evote/store"
	"github.com/stretchr/testify/require"
)

func selectAll(opts []domain.AgendaOption, d domain.Decision) map[string]domain.Decision {
	sel := make(map[string]domain.Decision, len(opts))
	for _, o := range opts {
		sel[o.ID] = d
	}
	return sel
}

func TestSubmitBallotReplacesPrevious(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	v := f.voter(t, "alice@example.com", 2)
	a, opts := f.openAgenda(t, "One", "Two")

	require.NoError(t, f.ballots.SubmitBallot(ctx, v.ID, a.ID, selectAll(opts, domain.DecisionApprove)))
	require.NoError(t, f.ballots.SubmitBallot(ctx, v.ID, a.ID, selectAll(opts, domain.DecisionReject)))

	b, err := f.ballots.GetExistingBallot(ctx, v.ID, a.ID)
	require.NoError(t, err)
	require.Equal(t, selectAll(opts, domain.DecisionReject), b.Selections)

	res, err := f.tally.ComputeResults(ctx, a.ID)
	require.NoError(t, err)
	for _, r := range res {
		require.Zero(t, r.ApproveWeight)
		require.InDelta(t, 2.0, r.RejectWeight, 1e-9)
		require.Equal(t, 1, r.Voters)
	}

	got, err := f.store.Voters().GetVoterByID(ctx, v.ID)
	require.NoError(t, err)
	require.Equal(t, domain.VoterVoted, got.Status)
}

func TestSubmitBallotRejectsIncomplete(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	v := f.voter(t, "bob@example.com", 1)
	a, opts := f.openAgenda(t, "One", "Two")

	t.Run("missing option", func(t *testing.T) {
		err := f.ballots.SubmitBallot(ctx, v.ID, a.ID, map[string]domain.Decision{
			opts[0].ID: domain.DecisionApprove,
		})
		require.ErrorIs(t, err, ErrIncompleteBallot)

		var ib *IncompleteBallotError
		require.True(t, errors.As(err, &ib))
		require.Equal(t, []string{opts[1].ID}, ib.Missing)
	})

	t.Run("unknown option", func(t *testing.T) {
		sel := selectAll(opts, domain.DecisionApprove)
		sel["foreign"] = domain.DecisionReject
		err := f.ballots.SubmitBallot(ctx, v.ID, a.ID, sel)

		var ib *IncompleteBallotError
		require.True(t, errors.As(err, &ib))
		require.Equal(t, []string{"foreign"}, ib.Unknown)
		require.Empty(t, ib.Missing)
	})

	t.Run("empty ballot", func(t *testing.T) {
		require.ErrorIs(t, f.ballots.SubmitBallot(ctx, v.ID, a.ID, nil), ErrIncompleteBallot)
	})

	t.Run("invalid decision", func(t *testing.T) {
		sel := selectAll(opts, domain.DecisionApprove)
		sel[opts[0].ID] = domain.Decision(0)
		require.ErrorIs(t, f.ballots.SubmitBallot(ctx, v.ID, a.ID, sel), ErrInvalidDecision)
	})

	// Nothing was written and the voter is untouched.
	b, err := f.ballots.GetExistingBallot(ctx, v.ID, a.ID)
	require.NoError(t, err)
	require.Empty(t, b.Selections)

	got, err := f.store.Voters().GetVoterByID(ctx, v.ID)
	require.NoError(t, err)
	require.Equal(t, domain.VoterInvited, got.Status)
}

func TestSubmitBallotRequiresOpenAgenda(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	v := f.voter(t, "carol@example.com", 1)
	a, opts := f.openAgenda(t, "One")

	require.NoError(t, f.ballots.SubmitBallot(ctx, v.ID, a.ID, selectAll(opts, domain.DecisionApprove)))

	_, err := f.admin.SetAgendaStatus(ctx, a.ID, domain.AgendaClosed)
	require.NoError(t, err)

	err = f.ballots.SubmitBallot(ctx, v.ID, a.ID, selectAll(opts, domain.DecisionReject))
	require.ErrorIs(t, err, ErrAgendaNotOpen)

	// The earlier ballot still stands.
	b, err := f.ballots.GetExistingBallot(ctx, v.ID, a.ID)
	require.NoError(t, err)
	require.Equal(t, domain.DecisionApprove, b.Selections[opts[0].ID])

	draft, err := f.admin.CreateAgenda(ctx, f.project.ID, "Draft", "")
	require.NoError(t, err)
	require.ErrorIs(t, f.ballots.SubmitBallot(ctx, v.ID, draft.ID, nil), ErrAgendaNotOpen)
}

// interleavedStore runs an admin change just before each transaction
// starts, standing in for a request that lands between reads and writes.
type interleavedStore struct {
	store.Store
	before func()
}

func (s *interleavedStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	s.before()
	return s.Store.WithTx(ctx, fn)
}

func TestSubmitBallotChecksStateItWritesAgainst(t *testing.T) {
	t.Parallel()

	t.Run("agenda closed", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		ctx := context.Background()
		v := f.voter(t, "gus@example.com", 1)
		a, opts := f.openAgenda(t, "One")

		ballots := &BallotService{
			Store: &interleavedStore{Store: f.store, before: func() {
				_, err := f.admin.SetAgendaStatus(ctx, a.ID, domain.AgendaClosed)
				require.NoError(t, err)
			}},
			Now: f.clock.Now,
		}
		err := ballots.SubmitBallot(ctx, v.ID, a.ID, selectAll(opts, domain.DecisionApprove))
		require.ErrorIs(t, err, ErrAgendaNotOpen)

		votes, err := f.store.Votes().ListVotesByVoter(ctx, v.ID, a.ID)
		require.NoError(t, err)
		require.Empty(t, votes)
	})

	t.Run("option added", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		ctx := context.Background()
		v := f.voter(t, "hal@example.com", 1)
		a, opts := f.openAgenda(t, "One")

		var added domain.AgendaOption
		ballots := &BallotService{
			Store: &interleavedStore{Store: f.store, before: func() {
				var err error
				added, err = f.admin.AddOption(ctx, a.ID, NewOptionRequest{Title: "Late"})
				require.NoError(t, err)
			}},
			Now: f.clock.Now,
		}
		err := ballots.SubmitBallot(ctx, v.ID, a.ID, selectAll(opts, domain.DecisionApprove))

		var ib *IncompleteBallotError
		require.True(t, errors.As(err, &ib))
		require.Equal(t, []string{added.ID}, ib.Missing)

		got, err := f.store.Voters().GetVoterByID(ctx, v.ID)
		require.NoError(t, err)
		require.Equal(t, domain.VoterInvited, got.Status)
	})
}

func TestSubmitBallotHidesOtherProjects(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	a, opts := f.openAgenda(t, "One")

	other, err := f.admin.CreateProject(ctx, "Other")
	require.NoError(t, err)
	outsider, err := f.admin.RegisterVoter(ctx, other.ID, RegisterVoterRequest{Email: "out@example.com"})
	require.NoError(t, err)

	err = f.ballots.SubmitBallot(ctx, outsider.ID, a.ID, selectAll(opts, domain.DecisionApprove))
	require.ErrorIs(t, err, ErrAgendaNotFound)

	err = f.ballots.SubmitBallot(ctx, outsider.ID, "missing", nil)
	require.ErrorIs(t, err, ErrAgendaNotFound)
}

func TestWeightEditAfterCastingKeepsSnapshot(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	v := f.voter(t, "dave@example.com", 4)
	a, opts := f.openAgenda(t, "One")

	require.NoError(t, f.ballots.SubmitBallot(ctx, v.ID, a.ID, selectAll(opts, domain.DecisionApprove)))

	updated, err := f.admin.UpdateVoterWeight(ctx, v.ID, 10)
	require.NoError(t, err)
	require.InDelta(t, 10.0, updated.VotingWeight, 1e-9)

	res, err := f.tally.ComputeResults(ctx, a.ID)
	require.NoError(t, err)
	require.InDelta(t, 4.0, res[0].ApproveWeight, 1e-9)

	// Resubmitting picks up the new weight.
	require.NoError(t, f.ballots.SubmitBallot(ctx, v.ID, a.ID, selectAll(opts, domain.DecisionApprove)))
	res, err = f.tally.ComputeResults(ctx, a.ID)
	require.NoError(t, err)
	require.InDelta(t, 10.0, res[0].ApproveWeight, 1e-9)
}

func TestConcurrentResubmissions(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	v := f.voter(t, "erin@example.com", 1)
	a, opts := f.openAgenda(t, "One", "Two", "Three")

	decisions := []domain.Decision{domain.DecisionApprove, domain.DecisionReject, domain.DecisionAbstain}

	var wg sync.WaitGroup
	errs := make(chan error, 12)
	for i := range 12 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- f.ballots.SubmitBallot(ctx, v.ID, a.ID, selectAll(opts, decisions[i%len(decisions)]))
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	votes, err := f.store.Votes().ListVotesByVoter(ctx, v.ID, a.ID)
	require.NoError(t, err)
	require.Len(t, votes, len(opts))

	// Every row comes from the same submission.
	for _, vt := range votes {
		require.Equal(t, votes[0].Decision, vt.Decision)
	}
}

func TestGetAgendaOptions(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	a, opts := f.openAgenda(t, "First", "Second", "Third")

	got, err := f.ballots.GetAgendaOptions(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, opts, got)
	for i, o := range got {
		require.Equal(t, i, o.Position)
		require.InDelta(t, domain.DefaultRequiredApproval, o.RequiredApproval, 1e-9)
	}

	_, err = f.ballots.GetAgendaOptions(ctx, "missing")
	require.ErrorIs(t, err, ErrAgendaNotFound)
}

func TestGetAgendaIsProjectScoped(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	a, _ := f.openAgenda(t, "One")

	got, err := f.ballots.GetAgenda(ctx, f.project.ID, a.ID)
	require.NoError(t, err)
	require.Equal(t, a.ID, got.ID)

	_, err = f.ballots.GetAgenda(ctx, "other-project", a.ID)
	require.ErrorIs(t, err, ErrAgendaNotFound)
}
