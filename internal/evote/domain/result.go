package domain

// AggregateResult is the weighted tally of one option.
type AggregateResult struct {
	OptionID         string
	Title            string
	ApproveWeight    float64
	RejectWeight     float64
	AbstainWeight    float64
	TotalWeight      float64
	Voters           int
	RequiredApproval float64

	// ApprovePercentage is approve/(approve+reject)*100, or 0 when nobody
	// approved or rejected. Abstentions never count.
	ApprovePercentage float64
	Passed            bool
}
