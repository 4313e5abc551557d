package http

import (
	"net/http"

	"github.com/aussiebroadwan/evote/internal/evote/domain"
	"github.com/aussiebroadwan/evote/internal/evote/service"
	"github.com/aussiebroadwan/evote/pkg/evotesdk"
	"github.com/aussiebroadwan/evote/pkg/httpx"
	"github.com/aussiebroadwan/evote/pkg/slogx"
)

// AdminHandler serves project, voter and agenda management.
type AdminHandler struct {
	AdminService *service.AdminService
}

// HandleCreateProject creates a voting project.
//
//	@Summary	Create project
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		request	body		evotesdk.CreateProjectRequest	true	"Project"
//	@Success	201		{object}	evotesdk.Project
//	@Failure	400		{object}	evotesdk.ErrorResponse
//	@Failure	403		{object}	evotesdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/projects [post].
func (h *AdminHandler) HandleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req evotesdk.CreateProjectRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	p, err := h.AdminService.CreateProject(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	slogx.FromContext(r.Context()).Info("project created", "project_id", p.ID)
	httpx.WriteJSON(w, http.StatusCreated, toProject(p))
}

// HandleListProjects lists projects, newest first.
//
//	@Summary	List projects
//	@Tags		Admin
//	@Produce	json
//	@Success	200	{object}	evotesdk.ProjectList
//	@Failure	403	{object}	evotesdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/projects [get].
func (h *AdminHandler) HandleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.AdminService.ListProjects(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, evotesdk.ProjectList{Projects: mapSlice(projects, toProject)})
}

// HandleGetProject
//
//	@Summary	Get project
//	@Tags		Admin
//	@Produce	json
//	@Param		id	path		string	true	"Project ID"
//	@Success	200	{object}	evotesdk.Project
//	@Failure	404	{object}	evotesdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/projects/{id} [get].
func (h *AdminHandler) HandleGetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.AdminService.GetProject(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProject(p))
}

// HandleRegisterVoter adds a voter to a project. A voter joining a company
// that already has heavier voters inherits the heaviest weight.
//
//	@Summary	Register voter
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"Project ID"
//	@Param		request	body		evotesdk.RegisterVoterRequest	true	"Voter"
//	@Success	201		{object}	evotesdk.Voter
//	@Failure	400		{object}	evotesdk.ErrorResponse
//	@Failure	404		{object}	evotesdk.ErrorResponse
//	@Failure	409		{object}	evotesdk.ErrorResponse	"E-mail already registered in project"
//	@Security	BearerAuth
//	@Router		/v1/projects/{id}/voters [post].
func (h *AdminHandler) HandleRegisterVoter(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req evotesdk.RegisterVoterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	v, err := h.AdminService.RegisterVoter(r.Context(), projectID, service.RegisterVoterRequest{
		Email:   req.Email,
		Name:    req.Name,
		Company: req.Company,
		Weight:  req.Weight,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toVoter(v))
}

// HandleListVoters
//
//	@Summary	List voters
//	@Tags		Admin
//	@Produce	json
//	@Param		id	path		string	true	"Project ID"
//	@Success	200	{object}	evotesdk.VoterList
//	@Failure	404	{object}	evotesdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/projects/{id}/voters [get].
func (h *AdminHandler) HandleListVoters(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r)
	if !ok {
		return
	}
	voters, err := h.AdminService.ListVoters(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, evotesdk.VoterList{Voters: mapSlice(voters, toVoter)})
}

// HandleUpdateWeight changes a voter's weight. Ballots already cast keep
// the weight they were cast with.
//
//	@Summary	Update voter weight
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Voter ID"
//	@Param		request	body		evotesdk.UpdateWeightRequest	true	"New weight"
//	@Success	200		{object}	evotesdk.Voter
//	@Failure	400		{object}	evotesdk.ErrorResponse
//	@Failure	404		{object}	evotesdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/voters/{id}/weight [put].
func (h *AdminHandler) HandleUpdateWeight(w http.ResponseWriter, r *http.Request) {
	voterID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req evotesdk.UpdateWeightRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	v, err := h.AdminService.UpdateVoterWeight(r.Context(), voterID, req.Weight)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toVoter(v))
}

// HandleCreateAgenda creates a draft agenda in a project.
//
//	@Summary	Create agenda
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"Project ID"
//	@Param		request	body		evotesdk.CreateAgendaRequest	true	"Agenda"
//	@Success	201		{object}	evotesdk.Agenda
//	@Failure	400		{object}	evotesdk.ErrorResponse
//	@Failure	404		{object}	evotesdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/projects/{id}/agendas [post].
func (h *AdminHandler) HandleCreateAgenda(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req evotesdk.CreateAgendaRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	a, err := h.AdminService.CreateAgenda(r.Context(), projectID, req.Title, req.Description)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toAgenda(a))
}

// HandleListAgendas
//
//	@Summary	List agendas
//	@Tags		Admin
//	@Produce	json
//	@Param		id	path		string	true	"Project ID"
//	@Success	200	{object}	evotesdk.AgendaList
//	@Failure	404	{object}	evotesdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/projects/{id}/agendas [get].
func (h *AdminHandler) HandleListAgendas(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r)
	if !ok {
		return
	}
	agendas, err := h.AdminService.ListAgendas(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, evotesdk.AgendaList{Agendas: mapSlice(agendas, toAgenda)})
}

// HandleAddOption appends an option to an agenda.
//
//	@Summary	Add agenda option
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Agenda ID"
//	@Param		request	body		evotesdk.AddOptionRequest	true	"Option"
//	@Success	201		{object}	evotesdk.AgendaOption
//	@Failure	400		{object}	evotesdk.ErrorResponse
//	@Failure	404		{object}	evotesdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/agendas/{id}/options [post].
func (h *AdminHandler) HandleAddOption(w http.ResponseWriter, r *http.Request) {
	agendaID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req evotesdk.AddOptionRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	o, err := h.AdminService.AddOption(r.Context(), agendaID, service.NewOptionRequest{
		Title:            req.Title,
		Resolution:       req.Resolution,
		RequiredApproval: req.RequiredApproval,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toOption(o))
}

// HandleSetStatus moves an agenda between draft, open and closed.
//
//	@Summary	Set agenda status
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"Agenda ID"
//	@Param		request	body		evotesdk.SetAgendaStatusRequest	true	"Status"
//	@Success	200		{object}	evotesdk.Agenda
//	@Failure	400		{object}	evotesdk.ErrorResponse
//	@Failure	404		{object}	evotesdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/agendas/{id}/status [put].
func (h *AdminHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	agendaID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req evotesdk.SetAgendaStatusRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	a, err := h.AdminService.SetAgendaStatus(r.Context(), agendaID, domain.AgendaStatus(req.Status))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	slogx.FromContext(r.Context()).Info("agenda status changed", "agenda_id", a.ID, "status", a.Status)
	httpx.WriteJSON(w, http.StatusOK, toAgenda(a))
}
