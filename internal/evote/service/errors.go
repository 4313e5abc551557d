package service

import (
	"errors"
	"fmt"
	"strings"
)

// Validation
var (
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrInvalidCodeFormat = errors.New("code must be 6 digits")
	ErrIncompleteBallot  = errors.New("ballot must decide every option exactly once")
	ErrInvalidDecision   = errors.New("invalid decision")
	ErrInvalidWeight     = errors.New("voting weight must be greater than zero")
	ErrInvalidOption     = errors.New("invalid agenda option")
	ErrInvalidStatus     = errors.New("invalid agenda status")
	ErrInvalidRequest    = errors.New("invalid request")
)

// Authentication
var (
	ErrInvalidCode        = errors.New("invalid or expired code")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Throttling
var ErrTooManyAttempts = errors.New("too many attempts")

// Conflict
var (
	ErrAgendaNotOpen       = errors.New("agenda is not open for voting")
	ErrVoterExists         = errors.New("voter already registered in project")
	ErrAlreadyBootstrapped = errors.New("system already bootstrapped")
)

// Not found
var (
	ErrAgendaNotFound  = errors.New("agenda not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrVoterNotFound   = errors.New("voter not found")
)

// IncompleteBallotError lists the option ids a rejected ballot left out or
// referenced without them belonging to the agenda. It matches
// ErrIncompleteBallot with errors.Is.
type IncompleteBallotError struct {
	Missing []string
	Unknown []string
}

func (e *IncompleteBallotError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing options: %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Unknown) > 0 {
		parts = append(parts, fmt.Sprintf("unknown options: %s", strings.Join(e.Unknown, ", ")))
	}
	if len(parts) == 0 {
		return ErrIncompleteBallot.Error()
	}
	return ErrIncompleteBallot.Error() + ": " + strings.Join(parts, "; ")
}

func (e *IncompleteBallotError) Is(target error) bool {
	return target == ErrIncompleteBallot
}
