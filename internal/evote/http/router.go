package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/evote/internal/evote/service"
	"github.com/aussiebroadwan/evote/internal/evote/store"
	"github.com/aussiebroadwan/evote/pkg/httpx"
	"github.com/aussiebroadwan/evote/pkg/jwtx"
	"github.com/aussiebroadwan/evote/pkg/slogx"

	_ "github.com/aussiebroadwan/evote/api/evote" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store            store.Store
	OTPService       *service.OTPService
	SessionService   *service.SessionService
	BallotService    *service.BallotService
	TallyService     *service.TallyService
	AdminService     *service.AdminService
	BootstrapService *service.BootstrapService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerVoterAuth()
	r.registerVoting()
	r.registerAdmin()
	r.registerSystem()
	r.registerBootstrap()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			eVote API
//	@version		0.1.0
//	@description	Weighted e-voting for shareholder and member meetings.
//	@description
//	@description				Voters sign in with a one-time code sent by e-mail. Sessions are EdDSA-signed JWTs verifiable through the JWKS endpoint.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/evote
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerVoterAuth() {
	h := &OTPHandler{OTPService: r.OTPService, SessionService: r.SessionService}

	// Keyed by IP and e-mail so one address cannot be flooded with codes
	// or have its code guessed from many connections.
	r.Mux.Handle("POST /v1/auth/otp",
		httpx.Chain(http.HandlerFunc(h.HandleInitiate),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)
	r.Mux.Handle("POST /v1/auth/otp/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)
}

func (r *Router) registerVoting() {
	h := &BallotHandler{BallotService: r.BallotService}

	r.Mux.Handle("GET /v1/agendas/{id}/options",
		httpx.Chain(http.HandlerFunc(h.HandleOptions),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(service.ScopeAgendaRead),
			httpx.RateLimitBySubject(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/agendas/{id}/ballot",
		httpx.Chain(http.HandlerFunc(h.HandleGetBallot),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(service.ScopeBallotRead),
			httpx.RateLimitBySubject(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PUT /v1/agendas/{id}/ballot",
		httpx.Chain(http.HandlerFunc(h.HandleSubmit),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(service.ScopeBallotWrite),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)

	results := &ResultsHandler{TallyService: r.TallyService}
	r.Mux.Handle("GET /v1/agendas/{id}/results",
		httpx.Chain(http.HandlerFunc(results.HandleResults),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(service.ScopeResultsRead),
			httpx.RateLimitBySubject(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	auth := &AdminAuthHandler{
		AdminService:     r.AdminService,
		SessionService:   r.SessionService,
		BootstrapService: r.BootstrapService,
	}
	r.Mux.Handle("POST /v1/admin/login",
		httpx.Chain(http.HandlerFunc(auth.HandleLogin),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "username"),
		),
	)

	h := &AdminHandler{AdminService: r.AdminService}
	read := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(service.ScopeAdminRead),
			httpx.RateLimitBySubject(httpx.LenientLimit),
		)
	}
	write := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(service.ScopeAdminWrite),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /v1/projects", write(h.HandleCreateProject))
	r.Mux.Handle("GET /v1/projects", read(h.HandleListProjects))
	r.Mux.Handle("GET /v1/projects/{id}", read(h.HandleGetProject))
	r.Mux.Handle("POST /v1/projects/{id}/voters", write(h.HandleRegisterVoter))
	r.Mux.Handle("GET /v1/projects/{id}/voters", read(h.HandleListVoters))
	r.Mux.Handle("PUT /v1/voters/{id}/weight", write(h.HandleUpdateWeight))
	r.Mux.Handle("POST /v1/projects/{id}/agendas", write(h.HandleCreateAgenda))
	r.Mux.Handle("GET /v1/projects/{id}/agendas", read(h.HandleListAgendas))
	r.Mux.Handle("POST /v1/agendas/{id}/options", write(h.HandleAddOption))
	r.Mux.Handle("PUT /v1/agendas/{id}/status", write(h.HandleSetStatus))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys))
}

func (r *Router) registerBootstrap() {
	h := &AdminAuthHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(http.HandlerFunc(h.HandleBootstrap),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}
