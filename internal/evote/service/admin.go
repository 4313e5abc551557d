package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/evote/internal/evote/domain"
	"github.com/aussiebroadwan/evote/internal/evote/store"
	"github.com/aussiebroadwan/evote/pkg/cryptox"
	"github.com/aussiebroadwan/evote/pkg/idx"
	"github.com/aussiebroadwan/evote/pkg/slogx"
)

const maxNameLength = 200

type AdminService struct {
	Store store.Store
	Now   func() time.Time
}

// RegisterVoterRequest describes a voter to add to a project. A zero
// Weight means domain.DefaultVotingWeight.
type RegisterVoterRequest struct {
	Email   string
	Name    string
	Company string
	Weight  float64
}

// NewOptionRequest describes an agenda option. A nil RequiredApproval means
// domain.DefaultRequiredApproval.
type NewOptionRequest struct {
	Title            string
	Resolution       string
	RequiredApproval *float64
}

func (s *AdminService) Login(ctx context.Context, username, password string) (domain.Admin, error) {
	log := slogx.FromContext(ctx)

	admin, err := s.Store.Admins().GetAdminByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, store.ErrNotFound) {
		return domain.Admin{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.Admin{}, fmt.Errorf("lookup admin: %w", err)
	}

	if err := cryptox.VerifyPassword(password, admin.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Warn("admin login failed", slog.String("admin_id", admin.ID))
			return domain.Admin{}, ErrInvalidCredentials
		}
		return domain.Admin{}, fmt.Errorf("verify password: %w", err)
	}

	return admin, nil
}

func (s *AdminService) CreateProject(ctx context.Context, name string) (domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return domain.Project{}, fmt.Errorf("%w: project name is required", ErrInvalidRequest)
	}

	now := nowOr(s.Now)
	p := domain.Project{ID: idx.NewAt(now).String(), Name: name, CreatedAt: now}
	if err := s.Store.Projects().CreateProject(ctx, p); err != nil {
		return domain.Project{}, fmt.Errorf("create project: %w", err)
	}

	slogx.FromContext(ctx).Info("project created", slog.String("project_id", p.ID))
	return p, nil
}

func (s *AdminService) ListProjects(ctx context.Context) ([]domain.Project, error) {
	projects, err := s.Store.Projects().ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *AdminService) GetProject(ctx context.Context, id string) (domain.Project, error) {
	p, err := s.Store.Projects().GetProject(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Project{}, ErrProjectNotFound
	}
	if err != nil {
		return domain.Project{}, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// RegisterVoter adds a voter to a project. Voters who share a non-empty
// company end up with the highest weight among them, the new voter
// included. Later weight edits are not re-validated against this rule.
func (s *AdminService) RegisterVoter(ctx context.Context, projectID string, req RegisterVoterRequest) (domain.Voter, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate
	email := domain.NormalizeEmail(req.Email)
	if !domain.ValidEmail(email) {
		return domain.Voter{}, ErrInvalidEmail
	}
	weight := req.Weight
	if weight == 0 {
		weight = domain.DefaultVotingWeight
	}
	if !(weight > 0) {
		return domain.Voter{}, ErrInvalidWeight
	}
	company := strings.TrimSpace(req.Company)

	if _, err := s.GetProject(ctx, projectID); err != nil {
		return domain.Voter{}, err
	}

	// 2. Insert and lift company weights together
	now := nowOr(s.Now)
	voter := domain.Voter{
		ID:           idx.NewAt(now).String(),
		ProjectID:    projectID,
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		Company:      company,
		VotingWeight: weight,
		Status:       domain.VoterInvited,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var peers []domain.Voter
		if company != "" {
			var err error
			peers, err = tx.Voters().ListVotersByCompany(ctx, projectID, company)
			if err != nil {
				return err
			}
			for _, p := range peers {
				voter.VotingWeight = max(voter.VotingWeight, p.VotingWeight)
			}
		}

		if err := tx.Voters().CreateVoter(ctx, voter); err != nil {
			return err
		}

		for _, p := range peers {
			if p.VotingWeight < voter.VotingWeight {
				if err := tx.Voters().UpdateVoterWeight(ctx, p.ID, voter.VotingWeight, now); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.Voter{}, ErrVoterExists
	}
	if err != nil {
		return domain.Voter{}, fmt.Errorf("register voter: %w", err)
	}

	log.Info("voter registered",
		slog.String("project_id", projectID),
		slog.String("voter_id", voter.ID),
		slog.Float64("weight", voter.VotingWeight),
	)
	return voter, nil
}

func (s *AdminService) ListVoters(ctx context.Context, projectID string) ([]domain.Voter, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	voters, err := s.Store.Voters().ListVoters(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list voters: %w", err)
	}
	return voters, nil
}

// UpdateVoterWeight changes the weight used for future ballots. Votes
// already cast keep the weight they were cast with.
func (s *AdminService) UpdateVoterWeight(ctx context.Context, voterID string, weight float64) (domain.Voter, error) {
	if !(weight > 0) {
		return domain.Voter{}, ErrInvalidWeight
	}

	err := s.Store.Voters().UpdateVoterWeight(ctx, voterID, weight, nowOr(s.Now))
	if errors.Is(err, store.ErrNotFound) {
		return domain.Voter{}, ErrVoterNotFound
	}
	if err != nil {
		return domain.Voter{}, fmt.Errorf("update weight: %w", err)
	}

	v, err := s.Store.Voters().GetVoterByID(ctx, voterID)
	if err != nil {
		return domain.Voter{}, fmt.Errorf("get voter: %w", err)
	}
	return v, nil
}

func (s *AdminService) CreateAgenda(ctx context.Context, projectID, title, description string) (domain.Agenda, error) {
	title = strings.TrimSpace(title)
	if title == "" || utf8.RuneCountInString(title) > maxNameLength {
		return domain.Agenda{}, fmt.Errorf("%w: agenda title is required", ErrInvalidRequest)
	}
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return domain.Agenda{}, err
	}

	now := nowOr(s.Now)
	a := domain.Agenda{
		ID:          idx.NewAt(now).String(),
		ProjectID:   projectID,
		Title:       title,
		Description: strings.TrimSpace(description),
		Status:      domain.AgendaDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Agendas().CreateAgenda(ctx, a); err != nil {
		return domain.Agenda{}, fmt.Errorf("create agenda: %w", err)
	}
	return a, nil
}

func (s *AdminService) ListAgendas(ctx context.Context, projectID string) ([]domain.Agenda, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	agendas, err := s.Store.Agendas().ListAgendas(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list agendas: %w", err)
	}
	return agendas, nil
}

// AddOption appends an option to the agenda.
func (s *AdminService) AddOption(ctx context.Context, agendaID string, req NewOptionRequest) (domain.AgendaOption, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || utf8.RuneCountInString(title) > maxNameLength {
		return domain.AgendaOption{}, fmt.Errorf("%w: title is required", ErrInvalidOption)
	}
	if utf8.RuneCountInString(req.Resolution) > domain.MaxResolutionLength {
		return domain.AgendaOption{}, fmt.Errorf("%w: resolution exceeds %d characters", ErrInvalidOption, domain.MaxResolutionLength)
	}
	threshold := domain.DefaultRequiredApproval
	if req.RequiredApproval != nil {
		threshold = *req.RequiredApproval
	}
	if !(threshold >= 0 && threshold <= 100) {
		return domain.AgendaOption{}, fmt.Errorf("%w: required approval must be between 0 and 100", ErrInvalidOption)
	}

	now := nowOr(s.Now)
	var opt domain.AgendaOption
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Agendas().GetAgenda(ctx, agendaID); err != nil {
			return err
		}
		existing, err := tx.Options().ListOptions(ctx, agendaID)
		if err != nil {
			return err
		}
		position := 0
		for _, o := range existing {
			position = max(position, o.Position+1)
		}

		opt = domain.AgendaOption{
			ID:               idx.NewAt(now).String(),
			AgendaID:         agendaID,
			Title:            title,
			Resolution:       req.Resolution,
			RequiredApproval: threshold,
			Position:         position,
			CreatedAt:        now,
		}
		return tx.Options().CreateOption(ctx, opt)
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.AgendaOption{}, ErrAgendaNotFound
	}
	if err != nil {
		return domain.AgendaOption{}, fmt.Errorf("add option: %w", err)
	}
	return opt, nil
}

func (s *AdminService) SetAgendaStatus(ctx context.Context, agendaID string, status domain.AgendaStatus) (domain.Agenda, error) {
	if !status.Valid() {
		return domain.Agenda{}, ErrInvalidStatus
	}

	err := s.Store.Agendas().UpdateAgendaStatus(ctx, agendaID, status, nowOr(s.Now))
	if errors.Is(err, store.ErrNotFound) {
		return domain.Agenda{}, ErrAgendaNotFound
	}
	if err != nil {
		return domain.Agenda{}, fmt.Errorf("update agenda status: %w", err)
	}

	a, err := s.Store.Agendas().GetAgenda(ctx, agendaID)
	if err != nil {
		return domain.Agenda{}, fmt.Errorf("get agenda: %w", err)
	}

	slogx.FromContext(ctx).Info("agenda status changed",
		slog.String("agenda_id", agendaID),
		slog.String("status", string(status)),
	)
	return a, nil
}
