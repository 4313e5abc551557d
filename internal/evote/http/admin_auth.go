package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/evote/internal/evote/service"
	"github.com/aussiebroadwan/evote/pkg/evotesdk"
	"github.com/aussiebroadwan/evote/pkg/httpx"
	"github.com/aussiebroadwan/evote/pkg/slogx"
)

type AdminAuthHandler struct {
	AdminService     *service.AdminService
	SessionService   *service.SessionService
	BootstrapService *service.BootstrapService
}

// HandleLogin signs an administrator in.
//
//	@Summary		Administrator login
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		evotesdk.AdminLoginRequest	true	"Credentials"
//	@Success		200		{object}	evotesdk.SessionResponse	"Administrator session"
//	@Failure		400		{object}	evotesdk.ErrorResponse		"Malformed request"
//	@Failure		401		{object}	evotesdk.ErrorResponse		"Invalid credentials"
//	@Failure		429		{object}	evotesdk.ErrorResponse		"Rate limit exceeded"
//	@Router			/v1/admin/login [post].
func (h *AdminAuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req evotesdk.AdminLoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	admin, err := h.AdminService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	session, err := h.SessionService.IssueAdminSession(admin)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse(session))
}

// HandleBootstrap creates the first administrator.
//
//	@Summary		Bootstrap the service
//	@Description	Creates the first administrator. Only available when a bootstrap token is configured, and only once.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string						true	"Bootstrap token"
//	@Param			request				body		evotesdk.BootstrapRequest	true	"Administrator credentials"
//	@Success		201					{object}	evotesdk.BootstrapResponse	"Administrator created"
//	@Failure		400					{object}	evotesdk.ErrorResponse		"Invalid request"
//	@Failure		401					{object}	evotesdk.ErrorResponse		"Missing or invalid bootstrap token"
//	@Failure		404					{object}	evotesdk.ErrorResponse		"Bootstrap not enabled"
//	@Failure		409					{object}	evotesdk.ErrorResponse		"Already bootstrapped"
//	@Router			/v1/bootstrap [post].
func (h *AdminAuthHandler) HandleBootstrap(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	// 1. Check if enabled
	if h.BootstrapService.Token == "" {
		httpx.WriteError(w, http.StatusNotFound, evotesdk.ErrorCodeNotFound, "bootstrap endpoint is not enabled")
		return
	}

	// 2. Require bootstrap token header
	token := r.Header.Get("X-Bootstrap-Token")
	if token == "" {
		httpx.WriteError(w, http.StatusUnauthorized, evotesdk.ErrorCodeUnauthorized,
			"bootstrap token is required in X-Bootstrap-Token header")
		return
	}

	// 3. Parse request body
	var req evotesdk.BootstrapRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	// 4. Perform bootstrap
	admin, err := h.BootstrapService.Bootstrap(r.Context(), token, strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	l.Info("bootstrap completed", "admin_id", admin.ID)
	httpx.WriteJSON(w, http.StatusCreated, evotesdk.BootstrapResponse{
		AdminID:  admin.ID,
		Username: admin.Username,
	})
}
