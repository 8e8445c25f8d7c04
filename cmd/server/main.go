// Command server starts the assesspoint HTTP API: candidate onboarding,
// timed assessment sessions, code execution, proctoring ingest, and the
// admin surface for job descriptions and evaluations.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	aiadp "github.com/ironquill/assesspoint/internal/adapter/ai"
	httpserver "github.com/ironquill/assesspoint/internal/adapter/httpserver"
	"github.com/ironquill/assesspoint/internal/adapter/observability"
	"github.com/ironquill/assesspoint/internal/adapter/otp"
	asynqadp "github.com/ironquill/assesspoint/internal/adapter/queue/asynq"
	"github.com/ironquill/assesspoint/internal/adapter/queue/redpanda"
	"github.com/ironquill/assesspoint/internal/adapter/repo/postgres"
	"github.com/ironquill/assesspoint/internal/adapter/sandbox"
	tikaext "github.com/ironquill/assesspoint/internal/adapter/textextractor/tika"
	qdrantcli "github.com/ironquill/assesspoint/internal/adapter/vector/qdrant"
	"github.com/ironquill/assesspoint/internal/app"
	"github.com/ironquill/assesspoint/internal/config"
	"github.com/ironquill/assesspoint/internal/service/ratelimiter"
	"github.com/ironquill/assesspoint/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)
	observability.SetAppEnv(cfg.AppEnv)
	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		slog.Error("redis url parse failed", slog.Any("error", err))
		os.Exit(1)
	}
	rdb := redis.NewClient(redisOpts)
	defer func() { _ = rdb.Close() }()

	queue, err := asynqadp.New(cfg.RedisURL)
	if err != nil {
		slog.Error("asynq queue init failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = queue.Close() }()

	proctoringProducer, err := redpanda.NewProducer(cfg.KafkaBrokers)
	if err != nil {
		slog.Error("redpanda producer connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := proctoringProducer.Close(); err != nil {
			slog.Error("failed to close proctoring producer", slog.Any("error", err))
		}
	}()

	// Repositories
	jdRepo := postgres.NewJDRepo(pool)
	setRepo := postgres.NewSetRepo(pool)
	candidateRepo := postgres.NewCandidateRepo(pool)
	answerRepo := postgres.NewAnswerRepo(pool)
	proctoringRepo := postgres.NewProctoringRepo(pool)
	evaluationRepo := postgres.NewEvaluationRepo(pool)
	interviewRepo := postgres.NewInterviewRepo(pool)
	auditRepo := postgres.NewAuditRepo(pool)

	// AI client: gateway with an embedding cache in front.
	gateway := aiadp.New(cfg)
	aiClient := aiadp.NewEmbedCache(gateway, cfg.EmbedCacheSize)

	var qcli *qdrantcli.Client
	if cfg.QdrantURL != "" {
		qcli = qdrantcli.New(cfg.QdrantURL, cfg.QdrantAPIKey)
	}

	sandboxGateway := sandbox.New(cfg)
	codeExecBuckets := ratelimiter.NewRedisLuaLimiter(rdb, pool, nil)
	if err := codeExecBuckets.WarmFromPostgres(ctx); err != nil {
		slog.Error("failed to warm code-exec rate limiter from postgres", slog.Any("error", err))
	}
	codeExecLimiter := ratelimiter.NewDomainAdapter(codeExecBuckets, ratelimiter.NewBucketConfigFromPerMinute(cfg.CodeExecRateLimitPerMin))
	otpStore := otp.New(rdb)
	notifier := asynqadp.NewEnqueueNotifier(queue)
	textExtractor := tikaext.New(cfg.TikaURL)

	app.EnsureDefaultCollections(ctx, qcli)

	plagiarismSvc := usecase.NewPlagiarismService(aiClient, qcli)

	// Usecases
	setGenSvc := usecase.NewSetGeneratorService(setRepo, aiClient)
	jdSvc := usecase.NewJDLifecycleService(jdRepo, setGenSvc, aiClient)
	onboardingSvc := usecase.NewOnboardingService(jdRepo, candidateRepo, otpStore, notifier, aiClient, textExtractor, cfg)
	evalSvc := usecase.NewEvaluationService(evaluationRepo, candidateRepo, answerRepo, setRepo, jdRepo, aiClient, plagiarismSvc, notifier, auditRepo)
	sessionSvc := usecase.NewSessionService(candidateRepo, answerRepo, setRepo, jdRepo, evalSvc, cfg)
	codeExecSvc := usecase.NewCodeExecService(sandboxGateway, answerRepo, setRepo, candidateRepo, codeExecLimiter)
	proctoringSvc := usecase.NewProctoringService(proctoringProducer, proctoringRepo, auditRepo)
	followUpEngine := usecase.NewFollowUpEngine(interviewRepo, aiClient)

	dbCheck, qdrantCheck, tikaCheck := app.BuildReadinessChecks(cfg, pool)

	srv := httpserver.NewServer(cfg, jdSvc, onboardingSvc, sessionSvc, codeExecSvc, proctoringSvc, evalSvc, followUpEngine, auditRepo, dbCheck, qdrantCheck, tikaCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
