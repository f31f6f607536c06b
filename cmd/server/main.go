package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "facility-admin-backend/internal/api/http"
	"facility-admin-backend/internal/config"
	"facility-admin-backend/internal/jobs"
	"facility-admin-backend/internal/logger"
	"facility-admin-backend/internal/repository/postgres"
	"facility-admin-backend/internal/scheduler"
	"facility-admin-backend/internal/security"
	"facility-admin-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Facility Admin Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "csrf", cfg.Server.CSRFKey != "")
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.Session.Secret, cfg.Session.Issuer, cfg.Session.Audience)

	// Initialize outbound collaborators
	var emailSvc service.EmailService = service.NoopEmailService{}
	if cfg.Email.SendGridAPIKey != "" {
		emailSvc = service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName)
	} else {
		logger.Info("SendGrid API key not set, applicant notifications disabled")
	}

	var revalidator service.Revalidator = service.NoopRevalidator{}
	if cfg.Revalidate.URL != "" {
		revalidator = service.NewWebhookRevalidator(cfg.Revalidate.URL, cfg.Revalidate.Token, time.Duration(cfg.Revalidate.TimeoutSeconds)*time.Second)
	}

	// Initialize Services
	approvalSvc := service.NewApprovalService(
		store,
		store.ApprovalRequestRepository,
		store.ApprovalOutcomeRepository,
		store.MembershipRepository,
		store.UserRepository,
		store.OrganizationRepository,
		emailSvc,
		revalidator,
		service.ApprovalOptions{StoreBuildingNumber: cfg.Membership.StoreBuildingNumber},
	)
	sessionSvc := service.NewSessionService(tokenManager, store.UserRepository)
	maintenanceSvc := service.NewMaintenanceService(store.ApprovalRequestRepository, store.ApprovalOutcomeRepository)

	// Initialize HTTP handlers
	router := httpapi.NewRouter(
		cfg.Server,
		httpapi.NewApprovalHandler(approvalSvc),
		httpapi.NewAuthenticator(sessionSvc, cfg.Session.CookieName),
	)

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	// Optionally run the retention job in-process
	var cronScheduler *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		jobRunner := jobs.NewJobRunner(&jobs.Services{Maintenance: maintenanceSvc}, cfg)
		cronScheduler, err = scheduler.NewScheduler(jobRunner)
		if err != nil {
			log.Fatalf("Failed to initialize scheduler: %v", err)
		}
		cronScheduler.Start()
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to serve HTTP", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	if cronScheduler != nil {
		cronScheduler.Stop()
	}
	logger.Info("Server stopped. Goodbye!")
}
