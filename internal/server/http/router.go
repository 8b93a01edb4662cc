package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/taskfence/taskfence/internal/auth"
)

// RouterDeps collects everything the router needs wired in.
type RouterDeps struct {
	Handlers *Handlers
	Verifier *auth.Verifier
	Logger   *zap.Logger
	Registry *prometheus.Registry
}

// NewRouter builds the HTTP routing tree. Probes and metrics are open;
// everything else sits behind the auth middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(Recover(deps.Logger))
	r.Use(Logging(deps.Logger))
	if deps.Registry != nil {
		r.Use(CollectMetrics(NewMetrics(deps.Registry)))
		r.Method(http.MethodGet, "/metrics", MetricsHandler(deps.Registry))
	}

	r.Get("/", deps.Handlers.Root)
	r.Get("/health", deps.Handlers.Health)
	r.Get("/ready", deps.Handlers.Ready)
	r.Get("/live", deps.Handlers.Live)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(deps.Verifier, deps.Logger))

		r.Get("/me", deps.Handlers.Me)
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", deps.Handlers.ListTasks)
			r.Post("/", deps.Handlers.CreateTask)
			r.Get("/{id}", deps.Handlers.GetTask)
			r.Put("/{id}", deps.Handlers.UpdateTask)
			r.Delete("/{id}", deps.Handlers.DeleteTask)
		})
	})

	return r
}
