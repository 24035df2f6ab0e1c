package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apthandler "github.com/WeroML/back-bd-tattoo2/internal/handler/appointment"
	clienthandler "github.com/WeroML/back-bd-tattoo2/internal/handler/client"
	designhandler "github.com/WeroML/back-bd-tattoo2/internal/handler/design"
	healthhandler "github.com/WeroML/back-bd-tattoo2/internal/handler/health"
	materialhandler "github.com/WeroML/back-bd-tattoo2/internal/handler/material"
	purchasehandler "github.com/WeroML/back-bd-tattoo2/internal/handler/purchase"
	reporthandler "github.com/WeroML/back-bd-tattoo2/internal/handler/report"
	sessionhandler "github.com/WeroML/back-bd-tattoo2/internal/handler/session"
	supplierhandler "github.com/WeroML/back-bd-tattoo2/internal/handler/supplier"
	userhandler "github.com/WeroML/back-bd-tattoo2/internal/handler/user"

	"github.com/WeroML/back-bd-tattoo2/internal/config"
	"github.com/WeroML/back-bd-tattoo2/internal/email"
	"github.com/WeroML/back-bd-tattoo2/internal/middleware"
	"github.com/WeroML/back-bd-tattoo2/internal/repository/postgres"
	"github.com/WeroML/back-bd-tattoo2/internal/router"
	aptservice "github.com/WeroML/back-bd-tattoo2/internal/service/appointment"
	clientservice "github.com/WeroML/back-bd-tattoo2/internal/service/client"
	designservice "github.com/WeroML/back-bd-tattoo2/internal/service/design"
	"github.com/WeroML/back-bd-tattoo2/internal/service/event"
	"github.com/WeroML/back-bd-tattoo2/internal/service/inventory"
	materialservice "github.com/WeroML/back-bd-tattoo2/internal/service/material"
	purchaseservice "github.com/WeroML/back-bd-tattoo2/internal/service/purchase"
	reportservice "github.com/WeroML/back-bd-tattoo2/internal/service/report"
	sessionservice "github.com/WeroML/back-bd-tattoo2/internal/service/session"
	supplierservice "github.com/WeroML/back-bd-tattoo2/internal/service/supplier"
	userservice "github.com/WeroML/back-bd-tattoo2/internal/service/user"

	"github.com/WeroML/back-bd-tattoo2/pkg/auth"
	"github.com/WeroML/back-bd-tattoo2/pkg/logger"
	redisbroker "github.com/WeroML/back-bd-tattoo2/pkg/messaging/redis"
	"github.com/WeroML/back-bd-tattoo2/pkg/metrics"
	"github.com/WeroML/back-bd-tattoo2/pkg/validator"
	"github.com/WeroML/back-bd-tattoo2/pkg/worker"
)

func main() {
	log := logger.NewLogger(nil)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err, "failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	m := metrics.NewMetrics("tattoo_studio", "api")
	v := validator.New()
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)

	// Repositories
	txRunner := postgres.NewTxRunner(db)
	clientRepo := postgres.NewClientRepository(db)
	userRepo := postgres.NewUserRepository(db)
	artistRepo := postgres.NewArtistRepository(db)
	designRepo := postgres.NewDesignRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	materialRepo := postgres.NewMaterialRepository(db)
	movementRepo := postgres.NewMovementRepository(db)
	usageRepo := postgres.NewUsageRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	supplierRepo := postgres.NewSupplierRepository(db)
	purchaseRepo := postgres.NewPurchaseRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)
	reportRepo := postgres.NewReportRepository(db)

	// Services
	emitter := event.NewEmitter(outboxRepo)
	engine := sessionservice.NewEngine(txRunner, sessionRepo, appointmentRepo, m, log)
	inventorySvc := inventory.NewService(txRunner, materialRepo, movementRepo, usageRepo, sessionRepo, emitter, m, log)
	appointmentSvc := aptservice.NewService(txRunner, appointmentRepo, designRepo, paymentRepo, engine, inventorySvc, emitter, log)
	purchaseSvc := purchaseservice.NewService(txRunner, purchaseRepo, inventorySvc, log)
	userSvc := userservice.NewService(txRunner, userRepo, artistRepo, jwtSvc, log)
	clientSvc := clientservice.NewService(clientRepo)
	materialSvc := materialservice.NewService(materialRepo)
	supplierSvc := supplierservice.NewService(supplierRepo)
	designSvc := designservice.NewService(designRepo)
	reportSvc := reportservice.NewService(reportRepo)

	// HTTP layer
	authMw := middleware.NewAuthMiddleware(jwtSvc)
	handlers := router.Handlers{
		Appointment: apthandler.NewHandler(appointmentSvc, v),
		Session:     sessionhandler.NewHandler(engine, inventorySvc, v),
		Material:    materialhandler.NewHandler(materialSvc, inventorySvc, v),
		Client:      clienthandler.NewHandler(clientSvc, v),
		User:        userhandler.NewHandler(userSvc, v),
		Design:      designhandler.NewHandler(designSvc),
		Supplier:    supplierhandler.NewHandler(supplierSvc, v),
		Purchase:    purchasehandler.NewHandler(purchaseSvc, v),
		Report:      reporthandler.NewHandler(reportSvc),
		Health:      healthhandler.NewHandler(db),
	}
	r := router.New(authMw, handlers, router.Config{
		RateLimitRPS:   cfg.RateLimit.RequestsPerSecond,
		RateLimitBurst: cfg.RateLimit.Burst,
		RequestTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		CORS:           middleware.DefaultCORSConfig(),
		AuthEnabled:    cfg.Auth.Enabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Outbox processor runs in-process next to the API; the standalone
	// worker binary covers deployments that split them.
	broker, err := redisbroker.NewRedisBroker(redisbroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, log.Zerolog())
	if err != nil {
		log.Fatal(err, "failed to connect to redis")
	}
	defer broker.Close()

	mailer := email.NewService(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		To:       cfg.SMTP.To,
		Enabled:  cfg.SMTP.Enabled,
	}, log)

	processor := worker.NewOutboxProcessor(outboxRepo, broker, mailer, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval,
		RetryAttempts: cfg.Outbox.RetryAttempts,
		RetryDelay:    cfg.Outbox.RetryDelay,
		MaxAttempts:   cfg.Outbox.MaxAttempts,
	}, log, m)
	go processor.Start(ctx)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "graceful shutdown failed")
	}
}
