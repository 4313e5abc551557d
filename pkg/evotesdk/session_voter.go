package evotesdk

import (
	"context"
	"net/http"
	"net/url"
)

// GetAgendaOptions lists the options a ballot must decide.
// Requires: agenda:read
func (s *Session) GetAgendaOptions(ctx context.Context, agendaID string) (*AgendaOptions, error) {
	var resp AgendaOptions
	err := s.call(ctx, "agenda:read", http.MethodGet,
		"/v1/agendas/"+url.PathEscape(agendaID)+"/options", nil, &resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetBallot returns the voter's current ballot; Selections is empty when
// they have not voted.
// Requires: ballot:read
func (s *Session) GetBallot(ctx context.Context, agendaID string) (*Ballot, error) {
	var resp Ballot
	err := s.call(ctx, "ballot:read", http.MethodGet,
		"/v1/agendas/"+url.PathEscape(agendaID)+"/ballot", nil, &resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitBallot records a decision for every option, replacing any earlier
// ballot.
// Requires: ballot:write
func (s *Session) SubmitBallot(ctx context.Context, agendaID string, selections map[string]string) error {
	return s.call(ctx, "ballot:write", http.MethodPut,
		"/v1/agendas/"+url.PathEscape(agendaID)+"/ballot",
		SubmitBallotRequest{Selections: selections}, nil, http.StatusNoContent)
}
