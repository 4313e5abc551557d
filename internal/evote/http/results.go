package http

import (
	"net/http"

	"github.com/aussiebroadwan/evote/internal/evote/service"
	"github.com/aussiebroadwan/evote/pkg/evotesdk"
	"github.com/aussiebroadwan/evote/pkg/httpx"
)

type ResultsHandler struct {
	TallyService *service.TallyService
}

// HandleResults returns the weighted tally of an agenda.
//
//	@Summary		Agenda results
//	@Description	Weighted tally per option. The approve percentage ignores abstentions; an option passes when it meets its required approval.
//	@Tags			Admin
//	@Produce		json
//	@Param			id	path		string					true	"Agenda ID"
//	@Success		200	{object}	evotesdk.Results		"Per-option results in display order"
//	@Failure		401	{object}	evotesdk.ErrorResponse	"Missing or invalid session"
//	@Failure		403	{object}	evotesdk.ErrorResponse	"Missing results:read scope"
//	@Failure		404	{object}	evotesdk.ErrorResponse	"Agenda not found"
//	@Security		BearerAuth
//	@Router			/v1/agendas/{id}/results [get].
func (h *ResultsHandler) HandleResults(w http.ResponseWriter, r *http.Request) {
	agendaID, ok := pathID(w, r)
	if !ok {
		return
	}

	results, err := h.TallyService.ComputeResults(r.Context(), agendaID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, evotesdk.Results{
		AgendaID: agendaID,
		Results:  mapSlice(results, toResult),
	})
}
