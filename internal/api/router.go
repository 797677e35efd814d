package api

import (
	"net/http"
	"time"

	"authgate/internal/api/handler"
	"authgate/internal/api/middleware"
	"authgate/internal/app/service"
	"authgate/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type RouterConfig struct {
	ClientURL string
}

func NewRouter(
	cfg RouterConfig,
	authService *service.AuthService,
	tokens *security.TokenAuth,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(middleware.SecureHeaders()...)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.ClientURL},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(api chi.Router) {
		authHandler := handler.NewAuthHandler(authService, logger)
		api.Route("/auth", authHandler.RegisterRoutes)

		api.Group(func(protected chi.Router) {
			protected.Use(middleware.Authenticator(tokens, logger))
			protected.Get("/home", handler.Home)
		})
	})

	return r
}
