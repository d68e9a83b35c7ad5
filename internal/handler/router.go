package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jobtracker/jobtracker-go/internal/middleware"
	"github.com/jobtracker/jobtracker-go/internal/service"
)

// Services bundles what the router needs to serve every route.
type Services struct {
	Auth   *service.AuthService
	Jobs   *service.JobService
	Skills *service.SkillService
}

// RouterOptions tunes the outer surface of the API.
type RouterOptions struct {
	CORSOrigins []string
	// TrustProxy takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable only behind a proxy that overwrites those headers.
	TrustProxy bool
	// AuthRate and AuthBurst limit register/login per client IP.
	AuthRate  float64
	AuthBurst int
}

// NewRouter wires all routes and middleware. Background work started for
// the router stops when ctx is done.
func NewRouter(ctx context.Context, svc Services, opts RouterOptions) http.Handler {
	if opts.AuthRate <= 0 {
		opts.AuthRate = 5
	}
	if opts.AuthBurst <= 0 {
		opts.AuthBurst = 10
	}

	authHandler := NewAuthHandler(svc.Auth)
	jobHandler := NewJobHandler(svc.Jobs)
	skillHandler := NewSkillHandler(svc.Skills)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(opts.CORSOrigins))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusOK, "Smart Job Tracker API is running!")
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(ctx, opts.AuthRate, opts.AuthBurst))
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(svc.Auth))
			r.With(middleware.RequireAdmin).Get("/", authHandler.HandleListUsers)
			r.Get("/me", authHandler.HandleMe)
			r.Delete("/{id}", authHandler.HandleDeleteUser)
		})
	})

	r.Route("/api/jobs", func(r chi.Router) {
		r.Use(middleware.Authenticate(svc.Auth))
		r.Get("/", jobHandler.HandleList)
		r.Post("/", jobHandler.HandleCreate)
		r.Get("/stats", jobHandler.HandleStats)
		r.Get("/{id}", jobHandler.HandleGet)
		r.Put("/{id}", jobHandler.HandleUpdate)
		r.Delete("/{id}", jobHandler.HandleDelete)
	})

	r.Route("/api/skills", func(r chi.Router) {
		r.Use(middleware.Authenticate(svc.Auth))
		r.Get("/", skillHandler.HandleList)
		r.Post("/", skillHandler.HandleCreate)
		r.Get("/{id}", skillHandler.HandleGet)
		r.Put("/{id}", skillHandler.HandleUpdate)
		r.Delete("/{id}", skillHandler.HandleDelete)
	})

	return r
}
