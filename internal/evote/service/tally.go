package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/evote/internal/evote/domain"
	"github.com/aussiebroadwan/evote/internal/evote/store"
)

type TallyService struct {
	Store store.Store
}

// Tally aggregates weighted votes per option. Results follow the order of
// options; votes for options not in the list are ignored.
func Tally(options []domain.AgendaOption, votes []domain.Vote) []domain.AggregateResult {
	results := make([]domain.AggregateResult, len(options))
	pos := make(map[string]int, len(options))
	for i, opt := range options {
		pos[opt.ID] = i
		results[i] = domain.AggregateResult{
			OptionID:         opt.ID,
			Title:            opt.Title,
			RequiredApproval: opt.RequiredApproval,
		}
	}

	for _, v := range votes {
		i, ok := pos[v.OptionID]
		if !ok {
			continue
		}
		r := &results[i]
		switch v.Decision {
		case domain.DecisionApprove:
			r.ApproveWeight += v.Weight
		case domain.DecisionReject:
			r.RejectWeight += v.Weight
		case domain.DecisionAbstain:
			r.AbstainWeight += v.Weight
		default:
			continue
		}
		r.Voters++
	}

	for i := range results {
		r := &results[i]
		r.TotalWeight = r.ApproveWeight + r.RejectWeight + r.AbstainWeight
		if decided := r.ApproveWeight + r.RejectWeight; decided > 0 {
			r.ApprovePercentage = r.ApproveWeight / decided * 100
		}
		r.Passed = r.ApprovePercentage >= r.RequiredApproval
	}

	return results
}

// ComputeResults tallies the stored votes of an agenda.
func (s *TallyService) ComputeResults(ctx context.Context, agendaID string) ([]domain.AggregateResult, error) {
	if _, err := s.Store.Agendas().GetAgenda(ctx, agendaID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAgendaNotFound
		}
		return nil, fmt.Errorf("get agenda: %w", err)
	}

	options, err := s.Store.Options().ListOptions(ctx, agendaID)
	if err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}
	votes, err := s.Store.Votes().ListVotesByAgenda(ctx, agendaID)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}

	return Tally(options, votes), nil
}
