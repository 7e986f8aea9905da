package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/config"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/handler/http/middleware"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/pkg/jwt"
)

func NewRouter(cfg *config.Config, jwtService jwt.Service, leaveHandler LeaveHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "leave-ledger"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/leaves", func(r chi.Router) {

				r.Route("/requests", func(r chi.Router) {
					r.Post("/", leaveHandler.CreateRequest)
					r.Get("/", leaveHandler.ListRequests)

					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", leaveHandler.GetRequest)
						r.Put("/", leaveHandler.UpdateRequest)
						r.Post("/approve", leaveHandler.ApproveRequest)
						r.Post("/reject", leaveHandler.RejectRequest)
						r.Post("/cancel", leaveHandler.CancelRequest)
					})
				})

				r.Route("/balances", func(r chi.Router) {
					r.Post("/", leaveHandler.CreateBalance)
					r.Get("/", leaveHandler.ListBalances)
					r.Get("/lookup", leaveHandler.LookupBalance)
					r.Post("/close-for-employee", leaveHandler.CloseBalancesForEmployee)
					r.Post("/reset-year", leaveHandler.ResetYear)
					r.Post("/generate", leaveHandler.GenerateBalances)

					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", leaveHandler.GetBalance)
						r.Get("/transactions", leaveHandler.ListBalanceTransactions)
						r.Post("/close", leaveHandler.CloseBalance)
					})
				})
			})
		})
	})
	return r
}
