package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/dtroode/gatekeeper-server/internal/api/http/handler"
	"github.com/dtroode/gatekeeper-server/internal/api/http/middleware"
	"github.com/dtroode/gatekeeper-server/internal/logger"
)

// Pinger reports storage health for the healthcheck endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router assembles the HTTP routes and middleware for the auth service.
type Router struct {
	authService handler.AuthService
	db          Pinger
	rateLimit   int
	rateWindow  time.Duration
	logger      *logger.Logger
}

// New creates a new Router instance.
func New(authService handler.AuthService, db Pinger, rateLimit int, rateWindow time.Duration, logger *logger.Logger) *Router {
	return &Router{
		authService: authService,
		db:          db,
		rateLimit:   rateLimit,
		rateWindow:  rateWindow,
		logger:      logger,
	}
}

// Register builds the chi router with request logging and per-IP rate
// limiting on the credential endpoints.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authHandler := handler.NewAuth(r.authService, r.logger)

	mux := chi.NewRouter()
	mux.Use(logging.Handle)

	mux.Get("/health", r.health)

	mux.Route("/auth", func(auth chi.Router) {
		if r.rateLimit > 0 {
			auth.Use(httprate.LimitByIP(r.rateLimit, r.rateWindow))
		}

		auth.Post("/register", authHandler.Register)
		auth.Post("/login", authHandler.Login)
		auth.Post("/logout", authHandler.Logout)
		auth.Get("/verify-email/{token}", authHandler.VerifyEmail)
		auth.Post("/resend-verification", authHandler.ResendVerification)
		auth.Post("/refresh", authHandler.Refresh)
		auth.Get("/validate-reset-token/{token}", authHandler.ValidateResetToken)
		auth.Post("/forgot-password", authHandler.ForgotPassword)
		auth.Post("/reset-password", authHandler.ResetPassword)
	})

	return mux
}

func (r *Router) health(w http.ResponseWriter, req *http.Request) {
	if r.db != nil {
		if err := r.db.Ping(req.Context()); err != nil {
			r.logger.Error("healthcheck: database unreachable", "error", err.Error())
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}
