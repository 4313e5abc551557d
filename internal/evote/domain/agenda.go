package domain

import "time"

type AgendaStatus string

const (
	AgendaDraft  AgendaStatus = "draft"
	AgendaOpen   AgendaStatus = "open"
	AgendaClosed AgendaStatus = "closed"
)

func (s AgendaStatus) Valid() bool {
	switch s {
	case AgendaDraft, AgendaOpen, AgendaClosed:
		return true
	}
	return false
}

// DefaultRequiredApproval is the pass threshold, in percent, given to an
// option created without one. The stored value is authoritative afterwards.
const DefaultRequiredApproval = 50.0

// MaxResolutionLength bounds the resolution text of an option, in runes.
const MaxResolutionLength = 2000

// Agenda groups the options voted on together. Ballots are only accepted
// while it is open.
type Agenda struct {
	ID          string
	ProjectID   string
	Title       string
	Description string
	Status      AgendaStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AgendaOption is one resolution on an agenda.
type AgendaOption struct {
	ID               string
	AgendaID         string
	Title            string
	Resolution       string
	RequiredApproval float64
	Position         int
	CreatedAt        time.Time
}
