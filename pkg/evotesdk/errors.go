package evotesdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error codes used in ErrorResponse.Error.
const (
	ErrorCodeInvalidRequest    = "invalid_request"
	ErrorCodeValidation        = "validation_error"
	ErrorCodeInvalidCode       = "invalid_code"
	ErrorCodeInvalidGrant      = "invalid_grant"
	ErrorCodeInvalidToken      = "invalid_token"
	ErrorCodeInsufficientScope = "insufficient_scope"
	ErrorCodeUnauthorized      = "unauthorized"
	ErrorCodeNotFound          = "not_found"
	ErrorCodeConflict          = "conflict"
	ErrorCodeAgendaNotOpen     = "agenda_not_open"
	ErrorCodeIncompleteBallot  = "incomplete_ballot"
	ErrorCodeTooManyAttempts   = "too_many_attempts"
	ErrorCodeRateLimited       = "rate_limit_exceeded"
	ErrorCodeServerError       = "server_error"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
	Details     map[string]string
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("evote: %d %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("evote: %d %s: %s", e.StatusCode, e.Code, e.Description)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// IsCode reports whether err is an APIError with the given error code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err != nil || er.Error == "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        strings.ToLower(strings.ReplaceAll(http.StatusText(resp.StatusCode), " ", "_")),
			Description: strings.TrimSpace(string(body)),
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        er.Error,
		Description: er.ErrorDescription,
		Details:     er.Details,
	}
}
