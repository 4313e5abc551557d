package domain

import (
	"net/mail"
	"strings"
	"time"
)

type VoterStatus string

const (
	VoterInvited VoterStatus = "invited"
	VoterVoted   VoterStatus = "voted"
)

// DefaultVotingWeight is applied when a voter is registered without a weight.
const DefaultVotingWeight = 1.0

// Voter is a person entitled to vote in one project. Email is stored
// lower-cased and is unique within the project.
type Voter struct {
	ID           string
	ProjectID    string
	Email        string
	Name         string
	Company      string
	VotingWeight float64
	Status       VoterStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidEmail reports whether s is a bare RFC 5322 address (no display name).
func ValidEmail(s string) bool {
	if s == "" || len(s) > 254 {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s && strings.Contains(s[strings.LastIndexByte(s, '@'):], ".")
}
