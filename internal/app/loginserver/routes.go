package loginserver

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/magabrotheeeer/login-server/docs" // swagger spec
	"github.com/magabrotheeeer/login-server/internal/http/handlers/health"
	"github.com/magabrotheeeer/login-server/internal/http/handlers/user/signin"
	"github.com/magabrotheeeer/login-server/internal/http/handlers/user/signup"
	"github.com/magabrotheeeer/login-server/internal/http/middlewarectx"
	"github.com/magabrotheeeer/login-server/internal/services/account"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	accountService *account.Service,
	pinger health.Pinger,
	metrics *middlewarectx.Metrics,
	metricsHandler http.Handler,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		metrics.Middleware,
	)

	r.Route("/user", func(r chi.Router) {
		r.Post("/signup", signup.New(logger, accountService).ServeHTTP)
		r.Post("/signin", signin.New(logger, accountService).ServeHTTP)
	})

	r.Get("/health", health.New(logger, pinger).ServeHTTP)
	r.Handle("/metrics", metricsHandler)
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
