package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/examind/proctor-backend/internal/config"
	"github.com/examind/proctor-backend/internal/database"
	"github.com/examind/proctor-backend/internal/handler"
	"github.com/examind/proctor-backend/internal/hub"
	"github.com/examind/proctor-backend/internal/logger"
	"github.com/examind/proctor-backend/internal/notify"
	"github.com/examind/proctor-backend/internal/repository"
	"github.com/examind/proctor-backend/internal/router"
	"github.com/examind/proctor-backend/internal/service"
	"github.com/examind/proctor-backend/internal/storage"
	"github.com/examind/proctor-backend/internal/validator"
	"github.com/examind/proctor-backend/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := validator.Setup(); err != nil {
		log.Fatal().Err(err).Msg("setup validator")
	}

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	defer rdb.Close()

	testRepo := repository.NewTestRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	violationRepo := repository.NewViolationRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	snapshotRepo := repository.NewSnapshotRepository(pool)

	var notifier notify.Notifier = notify.Nop{}
	if cfg.SMTPHost != "" {
		notifier = notify.NewSMTP(cfg)
	} else {
		log.Warn().Msg("SMTP not configured, mail delivery disabled")
	}
	mailer := notify.NewEnqueuer(rdb, config.WorkerKey.NotifyQueue, log)

	var snapshotStore storage.SnapshotStore = storage.Disabled{}
	if cfg.CloudinaryCloudName != "" {
		snapshotStore, err = storage.NewCloudinaryStore(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("init snapshot storage")
		}
	} else {
		log.Warn().Msg("snapshot storage not configured, uploads will be rejected")
	}

	h := hub.New(log)

	sessionSvc := service.NewSessionService(testRepo, questionRepo, studentRepo, sessionRepo, h, mailer, log)
	accessSvc := service.NewAccessService(cfg, rdb, testRepo, studentRepo, mailer, log)
	violationSvc := service.NewViolationService(sessionRepo, testRepo, violationRepo, sessionSvc, h, cfg.ImmediateViolations, log)
	resultSvc := service.NewResultService(sessionRepo, testRepo, studentRepo, questionRepo, violationRepo, snapshotRepo, reviewRepo, mailer, log)
	testSvc := service.NewTestService(testRepo, questionRepo, log)
	questionSvc := service.NewQuestionService(questionRepo, log)
	studentSvc := service.NewStudentService(studentRepo, testRepo, mailer, log)
	snapshotSvc := service.NewSnapshotService(sessionRepo, snapshotRepo, snapshotStore, h, log)

	engine := router.Setup(cfg, router.Handlers{
		Access:   handler.NewAccessHandler(accessSvc),
		Exam:     handler.NewExamHandler(sessionSvc, violationSvc, snapshotSvc, resultSvc),
		Test:     handler.NewTestHandler(testSvc),
		Question: handler.NewQuestionHandler(questionSvc),
		Student:  handler.NewStudentHandler(studentSvc),
		Result:   handler.NewResultHandler(resultSvc, sessionSvc),
		WS:       handler.NewWSHandler(h, sessionSvc, violationSvc, cfg.AllowedOrigins, log),
	})

	notifWorker := worker.NewNotificationWorker(rdb, config.WorkerKey.NotifyQueue, notifier, log)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		notifWorker.Run(ctx)
	}()

	deadlineWorker := worker.NewDeadlineWorker(sessionSvc, cfg.SweepInterval, log)
	stopSweep := deadlineWorker.Start()

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: engine,
	}

	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	stopSweep <- true
	<-workerDone

	log.Info().Msg("bye")
}
