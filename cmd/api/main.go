package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pythonpro/coaching-backend/config"
	"github.com/pythonpro/coaching-backend/internal/infra/database"
	"github.com/pythonpro/coaching-backend/internal/infra/http/handlers"
	"github.com/pythonpro/coaching-backend/internal/infra/http/middleware"
	"github.com/pythonpro/coaching-backend/internal/infra/integration/aisensy"
	"github.com/pythonpro/coaching-backend/internal/infra/integration/bolna"
	"github.com/pythonpro/coaching-backend/internal/infra/mail"
	"github.com/pythonpro/coaching-backend/internal/infra/notify"
	"github.com/pythonpro/coaching-backend/internal/infra/queue"
	"github.com/pythonpro/coaching-backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger := config.NewLogger()

	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitUser, cfg.RabbitPass, cfg.RabbitHost, cfg.RabbitPort)
	if err != nil {
		log.Fatalf("connecting to RabbitMQ: %v", err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// Repositories and the transactional store
	store := database.NewStore(db, cfg.RequestTimeout)
	leadRepo := database.NewLeadRepository(db)
	batchRepo := database.NewBatchRepository(db)
	commLogRepo := database.NewCommunicationLogRepository(db)

	// Notification channels and dispatcher
	emailSender := mail.NewSender(
		cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass,
		cfg.SMTPSender, cfg.DashboardURL,
	)
	whatsappClient := aisensy.NewClient(cfg.AiSensyAPIKey, cfg.AiSensyUserName, cfg.AiSensyEnrollmentTemplate)
	callClient := bolna.NewClient(cfg.BolnaAPIKey, cfg.BolnaAgentID)
	dispatcher := notify.NewDispatcher(commLogRepo, cfg.ChannelTimeout,
		emailSender, whatsappClient, callClient)

	// Queue producer and the worker that drains notices
	producer := queue.NewProducer(rabbitMQ.Ch)
	worker := queue.NewWorker(rabbitMQ.Ch, dispatcher)
	go worker.Start(queue.QueueName)

	// Use cases
	selector := usecase.NewCourseBatchSelector(cfg.DefaultBatchID)
	convertUC := usecase.NewConvertLeadUseCase(store, selector, producer, cfg.DefaultAmount, logger)
	captureUC := usecase.NewCaptureLeadUseCase(leadRepo, batchRepo, producer, logger)

	// Handlers
	webhookHandler := handlers.NewWebhookHandler(convertUC, logger)
	enrollmentHandler := handlers.NewEnrollmentHandler(convertUC, logger)
	leadHandler := handlers.NewLeadHandler(captureUC, leadRepo, commLogRepo, dispatcher, logger)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn, dispatcher)

	// Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Post("/payments/webhook/{provider}", webhookHandler.Handle)
	r.Post("/leads", leadHandler.CaptureLead)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminAuth(cfg.AdminToken))
		r.Post("/enrollments/from-lead", enrollmentHandler.EnrollFromLead)
		r.Patch("/leads/{id}/status", leadHandler.UpdateStatus)
		r.Get("/leads/{id}/communications", leadHandler.ListCommunications)
		r.Post("/leads/{id}/call", leadHandler.TriggerCall)
	})

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	if cfg.Environment != "production" {
		r.Get("/mock-payment", handlers.NewMockPaymentHandler().Handle)
	}

	addr := ":" + cfg.Port
	logger.Info("server listening", "addr", addr, "env", cfg.Environment)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
