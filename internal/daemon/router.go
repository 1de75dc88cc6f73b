package daemon

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/elsanchez/social-dashboard/internal/metrics"
	"github.com/elsanchez/social-dashboard/internal/service"
)

// Version es la versión publicada en GET /
const Version = "1.0.0"

// Deps agrupa lo que necesita el servidor HTTP
type Deps struct {
	Accounts  *service.AccountService
	Posts     *service.PostService
	Analytics *service.AnalyticsService
	Seeder    *service.Seeder
	Store     Pinger
	Metrics   *metrics.Collector
	Logger    *zap.Logger

	CORSOrigins []string
	// TrustProxy toma la IP de X-Forwarded-For / X-Real-IP
	TrustProxy  bool
	RateLimit   float64
	RateBurst   int
	Debug       bool
	Version     string
}

// NewRouter arma el router chi con middlewares y rutas
func NewRouter(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Version == "" {
		deps.Version = Version
	}
	h := NewHandlers(deps)

	r := chi.NewRouter()
	r.Use(RequestID)
	if deps.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(Logger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(Metrics(deps.Metrics))
	if deps.RateLimit > 0 {
		r.Use(RateLimit(deps.RateLimit, deps.RateBurst))
	}

	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", h.HandleRoot)
	r.Get("/health", h.HandleHealth)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/seed", h.HandleSeed)

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", h.HandleCreateAccount)
			r.Get("/", h.HandleListAccounts)
			r.Get("/{id}", h.HandleGetAccount)
			r.Delete("/{id}", h.HandleDeleteAccount)
			r.Post("/{id}/analytics", h.HandleAddSnapshot)
			r.Get("/{id}/analytics", h.HandleListSnapshots)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Post("/", h.HandleCreatePost)
			r.Get("/", h.HandleListPosts)
			// antes de /{id}
			r.Get("/scheduled", h.HandleListScheduled)
			r.Get("/{id}", h.HandleGetPost)
			r.Put("/{id}", h.HandleUpdatePost)
			r.Delete("/{id}", h.HandleDeletePost)
			r.Post("/{id}/publish", h.HandlePublishPost)
			r.Put("/{id}/engagement", h.HandleUpdateEngagement)
			r.Post("/{id}/comments", h.HandleAddComment)
			r.Get("/{id}/comments", h.HandleListComments)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/dashboard", h.HandleDashboard)
			r.Get("/trends", h.HandleTrends)
			r.Get("/platforms", h.HandlePlatforms)
			r.Get("/top-posts", h.HandleTopPosts)
			r.Get("/demographics", h.HandleDemographics)
		})
	})

	return r
}
