package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/aussiebroadwan/evote/internal/evote/domain"
	"github.com/aussiebroadwan/evote/internal/evote/store"
	"github.com/aussiebroadwan/evote/pkg/idx"
	"github.com/aussiebroadwan/evote/pkg/slogx"
)

type BallotService struct {
	Store store.Store
	Now   func() time.Time
}

// GetAgenda returns an agenda of the given project. Agendas of other
// projects are reported as ErrAgendaNotFound.
func (s *BallotService) GetAgenda(ctx context.Context, projectID, agendaID string) (domain.Agenda, error) {
	a, err := s.Store.Agendas().GetAgenda(ctx, agendaID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && a.ProjectID != projectID) {
		return domain.Agenda{}, ErrAgendaNotFound
	}
	if err != nil {
		return domain.Agenda{}, fmt.Errorf("get agenda: %w", err)
	}
	return a, nil
}

// GetAgendaOptions returns the agenda's options in display order.
func (s *BallotService) GetAgendaOptions(ctx context.Context, agendaID string) ([]domain.AgendaOption, error) {
	if _, err := s.Store.Agendas().GetAgenda(ctx, agendaID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAgendaNotFound
		}
		return nil, fmt.Errorf("get agenda: %w", err)
	}

	opts, err := s.Store.Options().ListOptions(ctx, agendaID)
	if err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}
	return opts, nil
}

// GetExistingBallot returns what the voter last submitted for the agenda.
// A voter who has not voted gets a ballot with no selections.
func (s *BallotService) GetExistingBallot(ctx context.Context, voterID, agendaID string) (domain.Ballot, error) {
	votes, err := s.Store.Votes().ListVotesByVoter(ctx, voterID, agendaID)
	if err != nil {
		return domain.Ballot{}, fmt.Errorf("list votes: %w", err)
	}

	b := domain.Ballot{
		VoterID:    voterID,
		AgendaID:   agendaID,
		Selections: make(map[string]domain.Decision, len(votes)),
	}
	for _, v := range votes {
		b.Selections[v.OptionID] = v.Decision
	}
	return b, nil
}

// SubmitBallot records a complete ballot, replacing any earlier one from
// the same voter. Every check reads the state the ballot is written
// against, so an agenda closed or extended meanwhile rejects the ballot.
func (s *BallotService) SubmitBallot(
	ctx context.Context,
	voterID, agendaID string,
	selections map[string]domain.Decision,
) error {
	log := slogx.FromContext(ctx)

	var (
		rejected error
		options  []domain.AgendaOption
	)
	now := nowOr(s.Now)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 1. Agenda must exist in the voter's project
		voter, err := tx.Voters().GetVoterByID(ctx, voterID)
		if errors.Is(err, store.ErrNotFound) {
			rejected = ErrVoterNotFound
			return rejected
		}
		if err != nil {
			return fmt.Errorf("get voter: %w", err)
		}

		agenda, err := tx.Agendas().GetAgenda(ctx, agendaID)
		if errors.Is(err, store.ErrNotFound) || (err == nil && agenda.ProjectID != voter.ProjectID) {
			rejected = ErrAgendaNotFound
			return rejected
		}
		if err != nil {
			return fmt.Errorf("get agenda: %w", err)
		}

		// 2. Voting window
		if agenda.Status != domain.AgendaOpen {
			rejected = ErrAgendaNotOpen
			return rejected
		}

		// 3. Completeness
		options, err = tx.Options().ListOptions(ctx, agendaID)
		if err != nil {
			return fmt.Errorf("list options: %w", err)
		}
		if err := checkComplete(options, selections); err != nil {
			rejected = err
			return rejected
		}

		// 4. Replace, snapshotting the weight read above
		if err := tx.Votes().DeleteVotes(ctx, voterID, agendaID); err != nil {
			return err
		}
		for _, opt := range options {
			err := tx.Votes().CreateVote(ctx, domain.Vote{
				ID:       idx.NewAt(now).String(),
				AgendaID: agendaID,
				OptionID: opt.ID,
				VoterID:  voterID,
				Decision: selections[opt.ID],
				Weight:   voter.VotingWeight,
				CastAt:   now,
			})
			if err != nil {
				return err
			}
		}
		return tx.Voters().MarkVoted(ctx, voterID, now)
	})
	if rejected != nil {
		return rejected
	}
	if err != nil {
		log.Error("failed to record ballot",
			slog.String("voter_id", voterID),
			slog.String("agenda_id", agendaID),
			slog.Any("error", err),
		)
		return fmt.Errorf("record ballot: %w", err)
	}

	log.Info("ballot recorded",
		slog.String("voter_id", voterID),
		slog.String("agenda_id", agendaID),
		slog.Int("options", len(options)),
	)
	return nil
}

func checkComplete(options []domain.AgendaOption, selections map[string]domain.Decision) error {
	known := make(map[string]struct{}, len(options))
	var missing []string
	for _, opt := range options {
		known[opt.ID] = struct{}{}
		if _, ok := selections[opt.ID]; !ok {
			missing = append(missing, opt.ID)
		}
	}

	var unknown []string
	for id, d := range selections {
		if _, ok := known[id]; !ok {
			unknown = append(unknown, id)
			continue
		}
		if !d.Valid() {
			return fmt.Errorf("%w for option %s", ErrInvalidDecision, id)
		}
	}
	slices.Sort(unknown)

	if len(missing) > 0 || len(unknown) > 0 {
		return &IncompleteBallotError{Missing: missing, Unknown: unknown}
	}
	return nil
}
