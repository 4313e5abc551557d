package http

import (
	"github.com/aussiebroadwan/evote/internal/evote/domain"
	"github.com/aussiebroadwan/evote/pkg/evotesdk"
)

func toProject(p domain.Project) evotesdk.Project {
	return evotesdk.Project{ID: p.ID, Name: p.Name, CreatedAt: p.CreatedAt}
}

func toVoter(v domain.Voter) evotesdk.Voter {
	return evotesdk.Voter{
		ID:        v.ID,
		ProjectID: v.ProjectID,
		Email:     v.Email,
		Name:      v.Name,
		Company:   v.Company,
		Weight:    v.VotingWeight,
		Status:    string(v.Status),
		CreatedAt: v.CreatedAt,
	}
}

func toAgenda(a domain.Agenda) evotesdk.Agenda {
	return evotesdk.Agenda{
		ID:          a.ID,
		ProjectID:   a.ProjectID,
		Title:       a.Title,
		Description: a.Description,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
	}
}

func toOption(o domain.AgendaOption) evotesdk.AgendaOption {
	return evotesdk.AgendaOption{
		ID:               o.ID,
		AgendaID:         o.AgendaID,
		Title:            o.Title,
		Resolution:       o.Resolution,
		RequiredApproval: o.RequiredApproval,
		Position:         o.Position,
	}
}

func toResult(r domain.AggregateResult) evotesdk.OptionResult {
	return evotesdk.OptionResult{
		OptionID:          r.OptionID,
		Title:             r.Title,
		ApproveWeight:     r.ApproveWeight,
		RejectWeight:      r.RejectWeight,
		AbstainWeight:     r.AbstainWeight,
		TotalWeight:       r.TotalWeight,
		Voters:            r.Voters,
		ApprovePercentage: r.ApprovePercentage,
		RequiredApproval:  r.RequiredApproval,
		Passed:            r.Passed,
	}
}

func mapSlice[T, U any](in []T, fn func(T) U) []U {
	out := make([]U, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}
