package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/coffeeshop/internal/coffee/service"
	"github.com/aussiebroadwan/coffeeshop/internal/coffee/store"
	"github.com/aussiebroadwan/coffeeshop/pkg/authz"
	"github.com/aussiebroadwan/coffeeshop/pkg/coffeesdk"
	"github.com/aussiebroadwan/coffeeshop/pkg/httpx"
	"github.com/aussiebroadwan/coffeeshop/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/aussiebroadwan/coffeeshop/api/coffee" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	guard        *authz.Guard
	keys         KeyReadiness
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	registry     *prometheus.Registry

	store         store.Store
	DrinksService *service.DrinksService
}

// NewRouter builds a router whose requests are logged and counted in reg.
// The metrics middleware sits closest to the mux so it sees the matched
// route pattern.
func NewRouter(
	guard *authz.Guard,
	keys KeyReadiness,
	buildVersion string,
	st store.Store,
	reg *prometheus.Registry,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		guard:        guard,
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		registry:     reg,
		store:        st,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.NewMetrics(reg).Middleware(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerDrinks()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
	r.Mux.Handle("/", NotFoundHandler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Coffee Shop API
//	@version		0.1.0
//	@description	Drinks menu for the coffee shop. Write endpoints and the detailed menu need a bearer token
//	@description	from the shop's identity provider carrying the endpoint's permission in its "permissions" claim.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/coffeeshop
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
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// guarded wraps h so only tokens granting permission reach it. Staff limits
// are keyed by subject, which is only known once the guard has run.
func (r *Router) guarded(h http.HandlerFunc, permission string) http.Handler {
	return httpx.Chain(h,
		httpx.RateLimitByIP(httpx.PublicLimit),
		httpx.RequirePermission(r.guard, permission),
		httpx.RateLimitBySubject(httpx.StaffLimit),
	)
}

func (r *Router) registerDrinks() {
	h := &DrinksHandler{DrinksService: r.DrinksService}

	// GET /drinks - public menu, limited by IP
	r.Mux.Handle("GET /drinks",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	r.Mux.Handle("GET /drinks-detail", r.guarded(h.HandleListDetail, coffeesdk.PermissionGetDrinksDetail))
	r.Mux.Handle("POST /drinks", r.guarded(h.HandleCreate, coffeesdk.PermissionPostDrinks))
	r.Mux.Handle("PATCH /drinks/{id}", r.guarded(h.HandleUpdate, coffeesdk.PermissionPatchDrinks))
	r.Mux.Handle("DELETE /drinks/{id}", r.guarded(h.HandleDelete, coffeesdk.PermissionDeleteDrinks))

	r.Mux.Handle("/drinks", MethodNotAllowedHandler(http.MethodGet, http.MethodPost))
	r.Mux.Handle("/drinks-detail", MethodNotAllowedHandler(http.MethodGet))
	r.Mux.Handle("/drinks/{id}", MethodNotAllowedHandler(http.MethodPatch, http.MethodDelete))
}

func (r *Router) registerSystem() {
	// Probes and scrapes poll often; the public limit is generous enough.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
}
