package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

type RouterOptions struct {
	AllowedOrigins []string
	Metrics        http.Handler
	Logger         zerolog.Logger
}

func NewHandler(authHandler *AuthHandler, userHandler *UserHandler, dashboardHandler *DashboardHandler, analysisHandler *AnalysisHandler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(opts.Logger))
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(authHandler.RequireSession)

		r.Get("/me", userHandler.GetMe)

		r.Get("/overview", dashboardHandler.Overview)
		r.Get("/votes", dashboardHandler.Votes)
		r.Get("/counting", dashboardHandler.Counting)
		r.Get("/prediction", dashboardHandler.Prediction)
		r.Get("/vote-share", dashboardHandler.VoteShare)
		r.Get("/regions", dashboardHandler.Regions)
		r.Get("/records", dashboardHandler.Records)

		r.Get("/aggregate", analysisHandler.Aggregate)
		r.Get("/pivot", analysisHandler.Pivot)
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	access := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})
	return access(next)
}
