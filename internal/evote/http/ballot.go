package http

import (
	"net/http"

	"github.com/aussiebroadwan/evote/internal/evote/domain"
	"github.com/aussiebroadwan/evote/internal/evote/service"
	"github.com/aussiebroadwan/evote/pkg/evotesdk"
	"github.com/aussiebroadwan/evote/pkg/httpx"
)

// BallotHandler serves the voter-facing agenda endpoints. The voter and
// project come from the session token, never from the request.
type BallotHandler struct {
	BallotService *service.BallotService
}

// HandleOptions lists the options of an agenda.
//
//	@Summary		List agenda options
//	@Tags			Voting
//	@Produce		json
//	@Param			id	path		string					true	"Agenda ID"
//	@Success		200	{object}	evotesdk.AgendaOptions	"Agenda and its options in display order"
//	@Failure		401	{object}	evotesdk.ErrorResponse	"Missing or invalid session"
//	@Failure		403	{object}	evotesdk.ErrorResponse	"Missing agenda:read scope"
//	@Failure		404	{object}	evotesdk.ErrorResponse	"Agenda not found in the voter's project"
//	@Security		BearerAuth
//	@Router			/v1/agendas/{id}/options [get].
func (h *BallotHandler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	agendaID, ok := pathID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	agenda, err := h.BallotService.GetAgenda(ctx, httpx.ProjectFromContext(ctx), agendaID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	options, err := h.BallotService.GetAgendaOptions(ctx, agenda.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, evotesdk.AgendaOptions{
		Agenda:  toAgenda(agenda),
		Options: mapSlice(options, toOption),
	})
}

// HandleGetBallot returns the caller's current ballot.
//
//	@Summary		Get my ballot
//	@Tags			Voting
//	@Produce		json
//	@Param			id	path		string					true	"Agenda ID"
//	@Success		200	{object}	evotesdk.Ballot			"Current selections; empty when not voted"
//	@Failure		401	{object}	evotesdk.ErrorResponse	"Missing or invalid session"
//	@Failure		403	{object}	evotesdk.ErrorResponse	"Missing ballot:read scope"
//	@Failure		404	{object}	evotesdk.ErrorResponse	"Agenda not found in the voter's project"
//	@Security		BearerAuth
//	@Router			/v1/agendas/{id}/ballot [get].
func (h *BallotHandler) HandleGetBallot(w http.ResponseWriter, r *http.Request) {
	agendaID, ok := pathID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	voterID, _ := httpx.SubjectFromContext(ctx)

	if _, err := h.BallotService.GetAgenda(ctx, httpx.ProjectFromContext(ctx), agendaID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	ballot, err := h.BallotService.GetExistingBallot(ctx, voterID, agendaID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := evotesdk.Ballot{AgendaID: agendaID, Selections: make(map[string]string, len(ballot.Selections))}
	for optionID, d := range ballot.Selections {
		resp.Selections[optionID] = d.String()
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleSubmit records or replaces the caller's ballot.
//
//	@Summary		Submit my ballot
//	@Description	Every option of the agenda needs exactly one decision: approve, reject (or disapprove) or abstain. A new submission replaces the previous one.
//	@Tags			Voting
//	@Accept			json
//	@Param			id		path	string							true	"Agenda ID"
//	@Param			request	body	evotesdk.SubmitBallotRequest	true	"Decisions keyed by option ID"
//	@Success		204		"Ballot recorded"
//	@Failure		400		{object}	evotesdk.ErrorResponse	"Incomplete ballot or invalid decision"
//	@Failure		401		{object}	evotesdk.ErrorResponse	"Missing or invalid session"
//	@Failure		403		{object}	evotesdk.ErrorResponse	"Missing ballot:write scope"
//	@Failure		404		{object}	evotesdk.ErrorResponse	"Agenda not found in the voter's project"
//	@Failure		409		{object}	evotesdk.ErrorResponse	"Agenda is not open"
//	@Security		BearerAuth
//	@Router			/v1/agendas/{id}/ballot [put].
func (h *BallotHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	agendaID, ok := pathID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	voterID, _ := httpx.SubjectFromContext(ctx)

	var req evotesdk.SubmitBallotRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	selections := make(map[string]domain.Decision, len(req.Selections))
	invalid := map[string]string{}
	for optionID, raw := range req.Selections {
		d, err := domain.ParseDecision(raw)
		if err != nil {
			invalid[optionID] = "must be approve, reject or abstain"
			continue
		}
		selections[optionID] = d
	}
	if len(invalid) > 0 {
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorBody{
			Error:            evotesdk.ErrorCodeInvalidRequest,
			ErrorDescription: service.ErrInvalidDecision.Error(),
			Details:          invalid,
		})
		return
	}

	if err := h.BallotService.SubmitBallot(ctx, voterID, agendaID, selections); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
