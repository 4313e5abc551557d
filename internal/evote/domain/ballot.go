package domain

import "time"

// Vote is one stored decision. Weight is the voter's weight at the time the
// ballot was cast; later weight changes do not touch it.
type Vote struct {
	ID       string
	AgendaID string
	OptionID string
	VoterID  string
	Decision Decision
	Weight   float64
	CastAt   time.Time
}

// Ballot is a voter's complete set of decisions for one agenda, keyed by
// option id.
type Ballot struct {
	VoterID    string
	AgendaID   string
	Selections map[string]Decision
}
