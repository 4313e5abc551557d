package evotesdk

import (
	"context"
	"net/http"
	"net/url"
)

// Requires: admin:write
func (s *Session) CreateProject(ctx context.Context, name string) (*Project, error) {
	var resp Project
	err := s.call(ctx, "admin:write", http.MethodPost, "/v1/projects",
		CreateProjectRequest{Name: name}, &resp, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Requires: admin:read
func (s *Session) ListProjects(ctx context.Context) ([]Project, error) {
	var resp ProjectList
	if err := s.call(ctx, "admin:read", http.MethodGet, "/v1/projects", nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}

// Requires: admin:read
func (s *Session) GetProject(ctx context.Context, projectID string) (*Project, error) {
	var resp Project
	err := s.call(ctx, "admin:read", http.MethodGet,
		"/v1/projects/"+url.PathEscape(projectID), nil, &resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Requires: admin:write
func (s *Session) RegisterVoter(ctx context.Context, projectID string, req RegisterVoterRequest) (*Voter, error) {
	var resp Voter
	err := s.call(ctx, "admin:write", http.MethodPost,
		"/v1/projects/"+url.PathEscape(projectID)+"/voters", req, &resp, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Requires: admin:read
func (s *Session) ListVoters(ctx context.Context, projectID string) ([]Voter, error) {
	var resp VoterList
	err := s.call(ctx, "admin:read", http.MethodGet,
		"/v1/projects/"+url.PathEscape(projectID)+"/voters", nil, &resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return resp.Voters, nil
}

// UpdateVoterWeight changes the weight future ballots are cast with.
// Requires: admin:write
func (s *Session) UpdateVoterWeight(ctx context.Context, voterID string, weight float64) (*Voter, error) {
	var resp Voter
	err := s.call(ctx, "admin:write", http.MethodPut,
		"/v1/voters/"+url.PathEscape(voterID)+"/weight",
		UpdateWeightRequest{Weight: weight}, &resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Requires: admin:write
func (s *Session) CreateAgenda(ctx context.Context, projectID string, req CreateAgendaRequest) (*Agenda, error) {
	var resp Agenda
	err := s.call(ctx, "admin:write", http.MethodPost,
		"/v1/projects/"+url.PathEscape(projectID)+"/agendas", req, &resp, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Requires: admin:read
func (s *Session) ListAgendas(ctx context.Context, projectID string) ([]Agenda, error) {
	var resp AgendaList
	err := s.call(ctx, "admin:read", http.MethodGet,
		"/v1/projects/"+url.PathEscape(projectID)+"/agendas", nil, &resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return resp.Agendas, nil
}

// Requires: admin:write
func (s *Session) AddOption(ctx context.Context, agendaID string, req AddOptionRequest) (*AgendaOption, error) {
	var resp AgendaOption
	err := s.call(ctx, "admin:write", http.MethodPost,
		"/v1/agendas/"+url.PathEscape(agendaID)+"/options", req, &resp, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Requires: admin:write
func (s *Session) SetAgendaStatus(ctx context.Context, agendaID, status string) (*Agenda, error) {
	var resp Agenda
	err := s.call(ctx, "admin:write", http.MethodPut,
		"/v1/agendas/"+url.PathEscape(agendaID)+"/status",
		SetAgendaStatusRequest{Status: status}, &resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetResults tallies the agenda as of now.
// Requires: results:read
func (s *Session) GetResults(ctx context.Context, agendaID string) (*Results, error) {
	var resp Results
	err := s.call(ctx, "results:read", http.MethodGet,
		"/v1/agendas/"+url.PathEscape(agendaID)+"/results", nil, &resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
