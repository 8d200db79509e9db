package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/hris-leave-go/internal/config"
	"github.com/cmlabs-hris/hris-leave-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-leave-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups every HTTP handler mounted by NewRouter
type Handlers struct {
	Auth         AuthHandler
	Leave        LeaveHandler
	LeaveState   LeaveStateHandler
	Balance      BalanceHandler
	Notification NotificationHandler
	Report       ReportHandler
}

func NewRouter(cfg config.AppConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.Name),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition", "X-Report-URL"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Auth.Login)
		r.Post("/logout", h.Auth.Logout)
	})

	// Supervisor decisions are identified by the user_email session cookie
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionEmail)
		r.Get("/leaves/supervisor/pending", h.Leave.ListSupervisorPending)
		r.Put("/leaves/supervisor/{id}/approve", h.Leave.SupervisorApprove)
		r.Put("/leaves/supervisor/{id}/reject", h.Leave.SupervisorReject)
	})

	// Requires authentication
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired(JWTService))

		r.Route("/leaves", func(r chi.Router) {
			r.Post("/", h.Leave.CreateRequest)
			r.Post("/check-availability", h.Leave.CheckAvailability)
			r.Get("/calendar", h.Leave.Calendar)
			r.Get("/team-absences", h.Leave.TeamAbsences)
			r.Get("/on-leave", h.Leave.OnLeave)
			r.Get("/employee/{employeeID}", h.Leave.ListByEmployee)
			r.Get("/stats/{employeeID}", h.Leave.Stats)
			r.Get("/evolution/{employeeID}", h.Leave.Evolution)
			r.Get("/{id}", h.Leave.GetRequest)

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/all", h.Leave.ListAll)
				r.Put("/{id}/approve", h.Leave.ApproveRequest)
				r.Put("/{id}/reject", h.Leave.RejectRequest)
				r.Put("/{id}/forward", h.Leave.ForwardRequest)
			})
		})

		r.Route("/leave-state/{id}", func(r chi.Router) {
			r.Post("/approve", h.LeaveState.Approve)
			r.Post("/reject", h.LeaveState.Reject)
			r.Post("/cancel", h.LeaveState.Cancel)
			r.Get("/info", h.LeaveState.Info)
		})

		r.Route("/balances", func(r chi.Router) {
			r.Get("/{employeeID}", h.Balance.Get)
			r.With(middleware.AdminOnly).Post("/initialize", h.Balance.InitializeAll)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.Notification.List)
			r.Get("/unread-count", h.Notification.UnreadCount)
			r.Get("/channels", h.Notification.Channels)
			r.Get("/stream", h.Notification.Stream)
			r.Put("/{id}/read", h.Notification.MarkAsRead)
			r.With(middleware.AdminOnly).Post("/send/{employeeID}", h.Notification.Send)
			r.With(middleware.AdminOnly).Post("/send-multi/{employeeID}", h.Notification.SendMulti)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(middleware.AdminOnly)
			r.Get("/leaves/{employeeID}", h.Report.GetLeaveReport)
			r.Get("/archive/*", h.Report.GetArchivedReport)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not found","success":false}`))
	})

	return r
}
