package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/evote/internal/evote/service"
	"github.com/aussiebroadwan/evote/pkg/evotesdk"
	"github.com/aussiebroadwan/evote/pkg/httpx"
	"github.com/aussiebroadwan/evote/pkg/idx"
	"github.com/aussiebroadwan/evote/pkg/slogx"
)

// writeServiceError maps service errors onto HTTP responses. Anything not
// recognised is logged and reported as a server error without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var incomplete *service.IncompleteBallotError

	switch {
	case errors.As(err, &incomplete):
		details := map[string]string{}
		if len(incomplete.Missing) > 0 {
			details["missing"] = strings.Join(incomplete.Missing, ",")
		}
		if len(incomplete.Unknown) > 0 {
			details["unknown"] = strings.Join(incomplete.Unknown, ",")
		}
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorBody{
			Error:            evotesdk.ErrorCodeIncompleteBallot,
			ErrorDescription: service.ErrIncompleteBallot.Error(),
			Details:          details,
		})

	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidCodeFormat),
		errors.Is(err, service.ErrInvalidDecision),
		errors.Is(err, service.ErrInvalidWeight),
		errors.Is(err, service.ErrInvalidOption),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidRequest):
		httpx.WriteError(w, http.StatusBadRequest, evotesdk.ErrorCodeInvalidRequest, err.Error())

	case errors.Is(err, service.ErrInvalidCode):
		httpx.WriteError(w, http.StatusUnauthorized, evotesdk.ErrorCodeInvalidCode, service.ErrInvalidCode.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, evotesdk.ErrorCodeInvalidGrant, service.ErrInvalidCredentials.Error())
	case errors.Is(err, service.ErrBootstrapUnauthorized):
		httpx.WriteError(w, http.StatusUnauthorized, evotesdk.ErrorCodeUnauthorized, "invalid bootstrap token")

	case errors.Is(err, service.ErrTooManyAttempts):
		httpx.WriteError(w, http.StatusTooManyRequests, evotesdk.ErrorCodeTooManyAttempts,
			"too many failed attempts; request a new code")

	case errors.Is(err, service.ErrAgendaNotOpen):
		httpx.WriteError(w, http.StatusConflict, evotesdk.ErrorCodeAgendaNotOpen, err.Error())
	case errors.Is(err, service.ErrVoterExists),
		errors.Is(err, service.ErrAlreadyBootstrapped):
		httpx.WriteError(w, http.StatusConflict, evotesdk.ErrorCodeConflict, err.Error())

	case errors.Is(err, service.ErrAgendaNotFound),
		errors.Is(err, service.ErrProjectNotFound),
		errors.Is(err, service.ErrVoterNotFound):
		httpx.WriteError(w, http.StatusNotFound, evotesdk.ErrorCodeNotFound, err.Error())

	default:
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, evotesdk.ErrorCodeServerError, "an internal error occurred")
	}
}

func writeBadBody(w http.ResponseWriter) {
	httpx.WriteError(w, http.StatusBadRequest, evotesdk.ErrorCodeInvalidRequest, "request body must be a valid JSON object")
}

// pathID returns the {id} path value, answering 404 itself when it is not
// a well-formed identifier.
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if !idx.Valid(id) {
		httpx.WriteError(w, http.StatusNotFound, evotesdk.ErrorCodeNotFound, "resource not found")
		return "", false
	}
	return id, true
}
