package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/jobboard/internal/jobboard/auth"
	"github.com/gartstein/jobboard/internal/jobboard/config"
	"github.com/gartstein/jobboard/internal/jobboard/controller"
	"github.com/gartstein/jobboard/internal/jobboard/db"
	"github.com/gartstein/jobboard/internal/jobboard/events"
	"github.com/gartstein/jobboard/internal/jobboard/handlers"
	"github.com/gartstein/jobboard/internal/jobboard/storage"
	"github.com/gartstein/jobboard/internal/jobboard/video"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	logger := initLogger()
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	repo, err := connectDatabase(cfg.Database(), logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}()

	var producer controller.EventProducer
	if len(cfg.KafkaBrokers) > 0 {
		kafkaProducer, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
		if err != nil {
			logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
		}
		defer kafkaProducer.Close()
		producer = kafkaProducer
	} else {
		logger.Warn("No Kafka brokers configured, events are only logged")
		producer = events.NewLogProducer(logger)
	}

	blobs, err := storage.NewBlobStore(cfg.StorageDir, cfg.PublicBaseURL, logger)
	if err != nil {
		logger.Fatal("failed to initialize storage", zap.Error(err))
	}

	launcher := video.NewLauncher(video.Config{
		AppID:           cfg.VideoAppID,
		ServerSecret:    cfg.VideoServerSecret,
		TokenTTL:        cfg.VideoTokenTTL,
		MaxParticipants: cfg.VideoMaxParticipants,
		PublicBaseURL:   cfg.PublicBaseURL,
	}, producer, logger)
	defer launcher.Close()

	profileSvc := controller.NewProfileService(repo, logger)
	savedSvc := controller.NewSavedService(repo, producer, logger)
	services := handlers.Services{
		Jobs:         controller.NewJobService(repo, producer, logger),
		Companies:    controller.NewCompanyService(repo, blobs, producer, logger),
		Applications: controller.NewApplicationService(repo, blobs, producer, logger),
		Appointments: controller.NewAppointmentService(repo, producer, logger),
		Saved:        savedSvc,
		Profiles:     profileSvc,
		Rooms:        launcher,
		Objects:      blobs,
	}

	verifier := auth.NewVerifier(cfg.JWTSecret, cfg.JWTAudience)
	authInterceptor := auth.NewAuthInterceptor(verifier, profileSvc)

	server := handlers.NewServer(cfg.GRPCPort, cfg.HTTPPort, logger, grpc.UnaryInterceptor(authInterceptor.Unary()))
	server.RegisterGRPCHandler(handlers.NewSavedItemHandler(savedSvc, logger))
	if err := server.RegisterHTTPHandler(
		handlers.NewHTTPHandler(services, cfg.MaxUploadBytes, logger),
		verifier,
		profileSvc,
	); err != nil {
		logger.Fatal("Failed to register HTTP routes", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	waitForShutdown(server, errCh, logger)
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger.Named("jobboard")
}

// connectDatabase retries until Postgres accepts connections.
func connectDatabase(cfg *db.Config, logger *zap.Logger) (*db.Repository, error) {
	var repo *db.Repository
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = time.Minute

	err := backoff.RetryNotify(func() error {
		var err error
		repo, err = db.NewRepository(cfg)
		return err
	}, policy, func(err error, next time.Duration) {
		logger.Warn("Database not ready, retrying", zap.Error(err), zap.Duration("next", next))
	})
	return repo, err
}

// waitForShutdown blocks until an interrupt, SIGTERM or a server error,
// then shuts down servers.
func waitForShutdown(server *handlers.Server, errCh <-chan error, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stop:
	case err := <-errCh:
		if err != nil {
			logger.Error("Server failed", zap.Error(err))
		}
	}

	server.Stop()
	logger.Info("Servers stopped properly")
}
