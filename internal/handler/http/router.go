package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/faceid-bridge-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	jwtService jwt.Service,
	authHandler AuthHandler,
	deviceHandler DeviceHandler,
	attendanceHandler AttendanceHandler,
	webhookHandler WebhookHandler,
	jobHandler JobHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "faceid-bridge"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	// Terminal push ingress. Terminals cannot hold bearer tokens; the
	// endpoint is open and the payload is validated instead.
	r.Route("/hikvision", func(r chi.Router) {
		r.Post("/webhook", webhookHandler.Receive)
		r.Get("/webhook/test", webhookHandler.Test)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/token", authHandler.Token)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/devices", func(r chi.Router) {
				r.Get("/", deviceHandler.List)
				r.Post("/", deviceHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", deviceHandler.Get)
					r.Put("/", deviceHandler.Update)
					r.Delete("/", deviceHandler.Delete)
					r.Post("/test-connection", deviceHandler.TestConnection)
					r.Post("/configure-webhook", deviceHandler.ConfigureWebhook)
					r.Post("/sync-users", deviceHandler.SyncUsers)
				})
			})

			r.Route("/attendances", func(r chi.Router) {
				r.Get("/", attendanceHandler.List)
				r.Get("/logs", attendanceHandler.ListLogs)
			})

			r.Post("/jobs/{name}/trigger", jobHandler.Trigger)
		})
	})
	return r
}
