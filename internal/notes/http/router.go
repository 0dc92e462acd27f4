package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/quillhq/quill/internal/notes/domain"
	"github.com/quillhq/quill/internal/notes/service"
	"github.com/quillhq/quill/internal/notes/store"
	"github.com/quillhq/quill/pkg/httpx"
	"github.com/quillhq/quill/pkg/metrics"
	"github.com/quillhq/quill/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store            store.Store
	AuthService      *service.AuthService
	NotesService     *service.NotesService
	TenantsService   *service.TenantsService
	BootstrapService *service.BootstrapService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		metrics.HTTPMiddleware,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerNotes()
	r.registerTenants()
	r.registerBootstrap()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /auth/login - strict rate limit by IP (credential endpoint)
	loginHandler := &LoginHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/verify - authenticated echo, lenient limit by user
	r.Mux.Handle("POST /v1/auth/verify",
		httpx.Chain(&VerifyHandler{},
			RequireAuth(r.AuthService),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerNotes() {
	h := &NotesHandler{NotesService: r.NotesService}

	// Reads get the lenient profile, mutations the moderate one.
	r.Mux.Handle("GET /v1/notes",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			RequireAuth(r.AuthService),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /v1/notes",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			RequireAuth(r.AuthService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/notes/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			RequireAuth(r.AuthService),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PUT /v1/notes/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			RequireAuth(r.AuthService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/notes/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			RequireAuth(r.AuthService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerTenants() {
	h := &TenantsHandler{TenantsService: r.TenantsService}

	// Tenant isolation runs before the role gate: a member probing another
	// tenant sees tenant_access_denied, a member on their own tenant sees
	// insufficient_permissions.
	r.Mux.Handle("POST /v1/tenants/{slug}/upgrade",
		httpx.Chain(http.HandlerFunc(h.HandleUpgrade),
			RequireAuth(r.AuthService),
			RequireTenantSlug(),
			RequireRole(domain.RoleAdmin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/tenants/{slug}/info",
		httpx.Chain(http.HandlerFunc(h.HandleInfo),
			RequireAuth(r.AuthService),
			RequireTenantSlug(),
			RequireRole(domain.RoleAdmin),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerBootstrap() {
	// POST /bootstrap - very strict rate limit by IP (one-time setup endpoint)
	bootstrapHandler := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(bootstrapHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /metrics", metrics.Handler())
}
