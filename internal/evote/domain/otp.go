package domain

import "time"

// OneTimeCode is the stored half of an e-mailed login code. Only the
// fingerprint of the code is kept. A voter has at most one code at a time.
type OneTimeCode struct {
	ID        string
	VoterID   string
	Email     string
	CodeHash  string
	Attempts  int
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the code is unusable at now. A code checked at
// exactly its expiry instant is expired.
func (c OneTimeCode) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}
