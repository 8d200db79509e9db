package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-leave-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-leave-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-leave-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-leave-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-leave-go/internal/pkg/email"
	"github.com/cmlabs-hris/hris-leave-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-leave-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-leave-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-leave-go/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/hris-leave-go/internal/service/auth"
	balanceService "github.com/cmlabs-hris/hris-leave-go/internal/service/balance"
	leaveService "github.com/cmlabs-hris/hris-leave-go/internal/service/leave"
	notificationService "github.com/cmlabs-hris/hris-leave-go/internal/service/notification"
	reportService "github.com/cmlabs-hris/hris-leave-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := postgresql.Migrate(ctx, db); err != nil {
			log.Fatal("Error applying schema: ", err)
		}
	}

	// Repositories
	transactor := postgresql.NewTransactor(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	balanceRepo := postgresql.NewBalanceRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	// Infrastructure
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub()
	emailService, err := email.NewEmailService(cfg.SMTP, cfg.App.Name)
	if err != nil {
		log.Fatal("Failed to initialize email service: ", err)
	}
	fileStorage, err := storage.NewLocalStorage(cfg.Report.BasePath, cfg.Report.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize local storage: ", err)
	}

	// Services
	ledger := balanceService.NewLedger(balanceRepo, employeeRepo, cfg.Leave.DefaultBalance)
	gateway := notificationService.NewGateway(notificationRepo, hub, employeeRepo, emailService, notificationService.GatewayConfig{
		SMSEnabled:   cfg.Leave.SMSEnabled,
		EmailTimeout: cfg.SMTP.Timeout,
	})
	inbox := notificationService.NewNotificationService(notificationRepo, hub)
	machine := leaveService.NewMachine(transactor, leaveRepo, ledger, gateway)
	workflow := leaveService.NewWorkflowService(leaveRepo, employeeRepo, ledger, gateway, machine, leaveService.Config{
		DepartmentCapacity: cfg.Leave.DepartmentCapacity,
	})
	queries := leaveService.NewQueryService(leaveRepo, employeeRepo, ledger)
	authService := serviceAuth.NewAuthService(employeeRepo, JWTService)
	reports := reportService.NewReportService(employeeRepo, leaveRepo, ledger, fileStorage)

	// Background jobs
	scheduler := cron.NewScheduler(ctx)
	cron.NewBalanceJobs(ledger).RegisterJobs(scheduler, cfg.Leave.BalanceSyncInterval)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(cfg.App, JWTService, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(JWTService, authService),
		Leave:        appHTTP.NewLeaveHandler(workflow, queries),
		LeaveState:   appHTTP.NewLeaveStateHandler(workflow),
		Balance:      appHTTP.NewBalanceHandler(ledger),
		Notification: appHTTP.NewNotificationHandler(inbox, gateway),
		Report:       appHTTP.NewReportHandler(reports),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
	slog.Info("Server stopped")
}
