package evotesdk

import "time"

// Decision values accepted in ballots.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
	DecisionAbstain = "abstain"
)

// Agenda status values.
const (
	AgendaDraft  = "draft"
	AgendaOpen   = "open"
	AgendaClosed = "closed"
)

// ErrorResponse is the error envelope returned by every endpoint.
type ErrorResponse struct {
	Error            string            `json:"error"`
	ErrorDescription string            `json:"error_description,omitempty"`
	Details          map[string]string `json:"details,omitempty"`
}

// ============================================================================
// Health
// ============================================================================

type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// ============================================================================
// Authentication
// ============================================================================

type OTPRequest struct {
	ProjectID string `json:"project_id"`
	Email     string `json:"email"`
}

type OTPVerifyRequest struct {
	ProjectID string `json:"project_id"`
	Email     string `json:"email"`
	Code      string `json:"code"`
}

// OTPResponse is returned for every well-formed code request, whether or
// not the address is registered.
type OTPResponse struct {
	Status string `json:"status"`
}

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse carries a bearer token.
type SessionResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`

	// VoterID is set for voter sessions.
	VoterID string `json:"voter_id,omitempty"`
}

type BootstrapRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type BootstrapResponse struct {
	AdminID  string `json:"admin_id"`
	Username string `json:"username"`
}

// ============================================================================
// Projects and voters
// ============================================================================

type CreateProjectRequest struct {
	Name string `json:"name"`
}

type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type ProjectList struct {
	Projects []Project `json:"projects"`
}

type RegisterVoterRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Company string `json:"company,omitempty"`

	// Weight defaults to 1 when omitted.
	Weight float64 `json:"weight,omitempty"`
}

type UpdateWeightRequest struct {
	Weight float64 `json:"weight"`
}

type Voter struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Company   string    `json:"company"`
	Weight    float64   `json:"weight"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type VoterList struct {
	Voters []Voter `json:"voters"`
}

// ============================================================================
// Agendas and options
// ============================================================================

type CreateAgendaRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type SetAgendaStatusRequest struct {
	Status string `json:"status"`
}

type Agenda struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type AgendaList struct {
	Agendas []Agenda `json:"agendas"`
}

type AddOptionRequest struct {
	Title      string `json:"title"`
	Resolution string `json:"resolution,omitempty"`

	// RequiredApproval is the pass threshold in percent; 50 when omitted.
	RequiredApproval *float64 `json:"required_approval,omitempty"`
}

type AgendaOption struct {
	ID               string  `json:"id"`
	AgendaID         string  `json:"agenda_id"`
	Title            string  `json:"title"`
	Resolution       string  `json:"resolution"`
	RequiredApproval float64 `json:"required_approval"`
	Position         int     `json:"position"`
}

type AgendaOptions struct {
	Agenda  Agenda         `json:"agenda"`
	Options []AgendaOption `json:"options"`
}

// ============================================================================
// Ballots and results
// ============================================================================

// SubmitBallotRequest maps every option id of the agenda to a decision.
type SubmitBallotRequest struct {
	Selections map[string]string `json:"selections"`
}

type Ballot struct {
	AgendaID   string            `json:"agenda_id"`
	Selections map[string]string `json:"selections"`
}

type OptionResult struct {
	OptionID          string  `json:"option_id"`
	Title             string  `json:"title"`
	ApproveWeight     float64 `json:"approve_weight"`
	RejectWeight      float64 `json:"reject_weight"`
	AbstainWeight     float64 `json:"abstain_weight"`
	TotalWeight       float64 `json:"total_weight"`
	Voters            int     `json:"voters"`
	ApprovePercentage float64 `json:"approve_percentage"`
	RequiredApproval  float64 `json:"required_approval"`
	Passed            bool    `json:"passed"`
}

type Results struct {
	AgendaID string         `json:"agenda_id"`
	Results  []OptionResult `json:"results"`
}
