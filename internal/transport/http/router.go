package http

import (
	"net/http"

	"github.com/go-api-otp/internal/application/otp"
	"github.com/go-api-otp/internal/application/user"
	"github.com/go-api-otp/internal/config"
	"github.com/go-api-otp/internal/transport/http/handler"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	userSvc := user.NewService(deps.UserRepo)
	otpSvc := otp.NewService(otp.ServiceDeps{
		OtpRepo:   deps.OtpRepo,
		UserRepo:  deps.UserRepo,
		Mailer:    deps.Mailer,
		SMSSender: deps.SMSSender,
	})

	healthH := handler.NewHealthHandler()
	userH := handler.NewUserHandler(userSvc)
	otpH := handler.NewOtpHandler(otpSvc)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", userH.List)
		r.Post("/create", userH.Create)
		r.Get("/health/status", healthH.Status)
		r.Get("/{id}", userH.Get)
	})

	r.Route("/otp", func(r chi.Router) {
		r.Post("/generate", otpH.Generate)
		r.Post("/verify", otpH.Verify)
	})

	r.NotFound(handler.NotFound)

	return r
}
