package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Decision is a voter's choice on one agenda option. The zero value is not a
// valid decision.
type Decision uint8

const (
	DecisionApprove Decision = iota + 1
	DecisionReject
	DecisionAbstain
)

var ErrUnknownDecision = errors.New("unknown decision")

// ParseDecision accepts "approve", "reject" and "abstain" in any case.
// "disapprove" is accepted as an alias of reject.
func ParseDecision(s string) (Decision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "approve":
		return DecisionApprove, nil
	case "reject", "disapprove":
		return DecisionReject, nil
	case "abstain":
		return DecisionAbstain, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDecision, s)
	}
}

func (d Decision) Valid() bool {
	return d >= DecisionApprove && d <= DecisionAbstain
}

func (d Decision) String() string {
	switch d {
	case DecisionApprove:
		return "approve"
	case DecisionReject:
		return "reject"
	case DecisionAbstain:
		return "abstain"
	default:
		return fmt.Sprintf("Decision(%d)", uint8(d))
	}
}

func (d Decision) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDecision, uint8(d))
	}
	return []byte(d.String()), nil
}

func (d *Decision) UnmarshalText(b []byte) error {
	parsed, err := ParseDecision(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
