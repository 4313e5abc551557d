package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/evote/internal/evote/service"
	"github.com/aussiebroadwan/evote/pkg/evotesdk"
	"github.com/aussiebroadwan/evote/pkg/httpx"
)

type OTPHandler struct {
	OTPService     *service.OTPService
	SessionService *service.SessionService
}

// HandleInitiate sends a one-time code to a registered voter.
//
//	@Summary		Request a one-time code
//	@Description	E-mails a 6 digit code to the address if it belongs to a voter of the project. The response is identical for unknown addresses. Requesting a new code invalidates the previous one.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		evotesdk.OTPRequest		true	"Project and e-mail address"
//	@Success		202		{object}	evotesdk.OTPResponse	"Code sent if the address is registered"
//	@Failure		400		{object}	evotesdk.ErrorResponse	"Malformed request or e-mail address"
//	@Failure		429		{object}	evotesdk.ErrorResponse	"Rate limit exceeded"
//	@Failure		500		{object}	evotesdk.ErrorResponse	"Mail delivery or storage failure"
//	@Router			/v1/auth/otp [post].
func (h *OTPHandler) HandleInitiate(w http.ResponseWriter, r *http.Request) {
	var req evotesdk.OTPRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}
	if strings.TrimSpace(req.ProjectID) == "" {
		httpx.WriteValidationError(w, "validation failed", map[string]string{"project_id": "required"})
		return
	}

	if err := h.OTPService.Initiate(r.Context(), req.ProjectID, req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusAccepted, evotesdk.OTPResponse{Status: "sent"})
}

// HandleVerify exchanges a one-time code for a voter session.
//
//	@Summary		Verify a one-time code
//	@Description	Consumes the code and returns a bearer token scoped to the voter's project. Codes expire after 15 minutes and lock after 5 wrong guesses.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		evotesdk.OTPVerifyRequest	true	"Project, e-mail address and code"
//	@Success		200		{object}	evotesdk.SessionResponse	"Voter session"
//	@Failure		400		{object}	evotesdk.ErrorResponse		"Malformed request, e-mail or code"
//	@Failure		401		{object}	evotesdk.ErrorResponse		"Invalid or expired code"
//	@Failure		429		{object}	evotesdk.ErrorResponse		"Too many attempts"
//	@Router			/v1/auth/otp/verify [post].
func (h *OTPHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req evotesdk.OTPVerifyRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	voter, err := h.OTPService.Verify(r.Context(), req.ProjectID, req.Email, strings.TrimSpace(req.Code))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	session, err := h.SessionService.IssueVoterSession(voter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := sessionResponse(session)
	resp.VoterID = voter.ID
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func sessionResponse(s service.Session) evotesdk.SessionResponse {
	return evotesdk.SessionResponse{
		AccessToken: s.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   s.ExpiresIn(time.Now()),
		Scope:       strings.Join(s.Scopes, " "),
	}
}
