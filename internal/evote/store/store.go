package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/evote/internal/evote/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface implemented by each driver. It
// hands out per-table repositories; a Tx hands out the same repositories
// bound to one transaction.
type Store interface {
	Projects() Projects
	Voters() Voters
	OTPCodes() OTPCodes
	Agendas() Agendas
	Options() Options
	Votes() Votes
	Admins() Admins

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise. Nested transactions are not supported.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped Store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Projects interface {
	CreateProject(ctx context.Context, p domain.Project) error
	GetProject(ctx context.Context, id string) (domain.Project, error)

	// ListProjects returns projects newest first.
	ListProjects(ctx context.Context) ([]domain.Project, error)
}

type Voters interface {
	// CreateVoter fails with ErrAlreadyExists when the email is already
	// registered in the project.
	CreateVoter(ctx context.Context, v domain.Voter) error
	GetVoterByID(ctx context.Context, id string) (domain.Voter, error)
	GetVoterByEmail(ctx context.Context, projectID, email string) (domain.Voter, error)
	ListVoters(ctx context.Context, projectID string) ([]domain.Voter, error)
	ListVotersByCompany(ctx context.Context, projectID, company string) ([]domain.Voter, error)
	UpdateVoterWeight(ctx context.Context, id string, weight float64, now time.Time) error

	// MarkVoted moves the voter to the voted status. It is idempotent.
	MarkVoted(ctx context.Context, id string, now time.Time) error
}

type OTPCodes interface {
	CreateCode(ctx context.Context, c domain.OneTimeCode) error

	// GetCodeByVoter returns the voter's code regardless of expiry; callers
	// decide whether it is still usable.
	GetCodeByVoter(ctx context.Context, voterID string) (domain.OneTimeCode, error)

	// ClaimAttempt atomically counts one verification attempt against the
	// code while fewer than maxAttempts have been made, and returns the
	// updated record. ErrNotFound means the code is gone or exhausted.
	ClaimAttempt(ctx context.Context, id string, maxAttempts int) (domain.OneTimeCode, error)

	// DeleteCode removes a code. ErrNotFound means it was already removed.
	DeleteCode(ctx context.Context, id string) error
	DeleteCodesForVoter(ctx context.Context, voterID string) error

	// DeleteExpiredCodes removes codes whose expiry is at or before now and
	// returns how many were removed.
	DeleteExpiredCodes(ctx context.Context, now time.Time) (int64, error)
}

type Agendas interface {
	CreateAgenda(ctx context.Context, a domain.Agenda) error
	GetAgenda(ctx context.Context, id string) (domain.Agenda, error)
	ListAgendas(ctx context.Context, projectID string) ([]domain.Agenda, error)
	UpdateAgendaStatus(ctx context.Context, id string, status domain.AgendaStatus, now time.Time) error
}

type Options interface {
	CreateOption(ctx context.Context, o domain.AgendaOption) error

	// ListOptions returns the agenda's options ordered by position.
	ListOptions(ctx context.Context, agendaID string) ([]domain.AgendaOption, error)
}

type Votes interface {
	// CreateVote fails with ErrAlreadyExists when the voter already has a
	// vote for the option.
	CreateVote(ctx context.Context, v domain.Vote) error
	DeleteVotes(ctx context.Context, voterID, agendaID string) error
	ListVotesByVoter(ctx context.Context, voterID, agendaID string) ([]domain.Vote, error)
	ListVotesByAgenda(ctx context.Context, agendaID string) ([]domain.Vote, error)
}

type Admins interface {
	CreateAdmin(ctx context.Context, a domain.Admin) error
	GetAdminByUsername(ctx context.Context, username string) (domain.Admin, error)
	IsEmpty(ctx context.Context) (bool, error)
}
