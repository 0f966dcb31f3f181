package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/projectred/donor-api/config"
	"github.com/projectred/donor-api/pkg/auth"
	"github.com/projectred/donor-api/pkg/logger"
	"github.com/projectred/donor-api/pkg/messaging/redis"
	"github.com/projectred/donor-api/pkg/metrics"
	"github.com/projectred/donor-api/pkg/validator"

	"github.com/projectred/donor-api/internal/advisor"
	"github.com/projectred/donor-api/internal/email"
	"github.com/projectred/donor-api/internal/handler"
	authHandler "github.com/projectred/donor-api/internal/handler/auth"
	chatHandler "github.com/projectred/donor-api/internal/handler/chat"
	donationHandler "github.com/projectred/donor-api/internal/handler/donation"
	donorHandler "github.com/projectred/donor-api/internal/handler/donor"
	hospitalHandler "github.com/projectred/donor-api/internal/handler/hospital"
	notificationHandler "github.com/projectred/donor-api/internal/handler/notification"
	requestHandler "github.com/projectred/donor-api/internal/handler/request"
	"github.com/projectred/donor-api/internal/middleware"
	"github.com/projectred/donor-api/internal/repository/postgres"
	"github.com/projectred/donor-api/internal/router"
	authService "github.com/projectred/donor-api/internal/service/auth"
	chatService "github.com/projectred/donor-api/internal/service/chat"
	donationService "github.com/projectred/donor-api/internal/service/donation"
	donorService "github.com/projectred/donor-api/internal/service/donor"
	healthService "github.com/projectred/donor-api/internal/service/health"
	hospitalService "github.com/projectred/donor-api/internal/service/hospital"
	notificationService "github.com/projectred/donor-api/internal/service/notification"
	requestService "github.com/projectred/donor-api/internal/service/request"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(nil)

	if err := validator.RegisterCustom(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	zl := log.Logger
	broker, err := redis.NewBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &zl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer broker.Close()

	m := metrics.New("donorapi")
	tokens := auth.NewTokenService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)

	// A missing advisor credential means fallback-only selection and
	// assessment. The services treat a nil advisor as permanently failing.
	var hospitalAdvisor advisor.HospitalAdvisor
	var healthAdvisor advisor.HealthAdvisor
	if cfg.Advisor.Enabled() {
		client := advisor.NewOpenAIClient(cfg.Advisor)
		hospitalAdvisor = client
		healthAdvisor = client
	} else {
		log.Warn().Msg("advisor credential missing, running with fallback selection only")
	}

	var emailer email.Service
	if cfg.SMTP.Host != "" {
		emailer = email.NewSMTPService(cfg.SMTP)
	}

	// Repositories
	personRepo := postgres.NewPersonRepository(db)
	hospitalRepo := postgres.NewHospitalRepository(db)
	requestRepo := postgres.NewBloodRequestRepository(db)
	donationRepo := postgres.NewDonationRepository(db)
	bloodTestRepo := postgres.NewBloodTestRepository(db)
	chatRoomRepo := postgres.NewChatRoomRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	// Services
	notificationSvc := notificationService.NewService(notificationRepo, broker, m, appLogger.WithComponent("notification"))
	healthSvc := healthService.NewService(healthAdvisor, m, appLogger.WithComponent("health"))
	hospitalSvc := hospitalService.NewService(hospitalRepo, hospitalAdvisor, cfg.Matching, m, appLogger.WithComponent("hospital"))
	donorSvc := donorService.NewService(personRepo, requestRepo, cfg.Matching, m, appLogger.WithComponent("donor"))
	requestSvc := requestService.NewService(requestRepo, personRepo, donorSvc, notificationSvc, cfg.Matching, appLogger.WithComponent("request"))
	donationSvc := donationService.NewService(
		donationRepo,
		requestRepo,
		personRepo,
		bloodTestRepo,
		chatRoomRepo,
		hospitalSvc,
		healthSvc,
		notificationSvc,
		emailer,
		m,
		appLogger.WithComponent("donation"),
	)
	chatSvc := chatService.NewService(chatRoomRepo, broker, appLogger.WithComponent("chat"))
	authSvc := authService.NewService(personRepo, hospitalRepo, tokens, emailer, appLogger.WithComponent("auth"))

	// Handlers
	h := handler.NewHandler()
	authH := authHandler.NewHandler(authSvc)
	donorH := donorHandler.NewHandler(donorSvc, cfg.Matching)
	requestH := requestHandler.NewHandler(requestSvc)
	donationH := donationHandler.NewHandler(donationSvc)
	hospitalH := hospitalHandler.NewHandler(hospitalSvc, donationSvc, hospitalRepo)
	chatH := chatHandler.NewHandler(chatSvc)
	notificationH := notificationHandler.NewHandler(notificationSvc)

	authMiddleware := middleware.NewAuthMiddleware(tokens)

	r := router.NewRouter(
		authMiddleware,
		authH,
		donorH,
		requestH,
		donationH,
		hospitalH,
		chatH,
		notificationH,
		h,
		router.RouterConfig{
			RateLimitRPS:   cfg.RateLimit.RequestsPerSecond,
			RateLimitBurst: cfg.RateLimit.Burst,
			CORSConfig:     middleware.DefaultCORSConfig(),
			MetricsPrefix:  "donorapi_http",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
