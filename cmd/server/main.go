package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"tubely/internal/config"
	"tubely/internal/handler"
	"tubely/internal/logger"
	"tubely/internal/media"
	"tubely/internal/repository/postgres"
	"tubely/internal/router"
	"tubely/internal/service"
	"tubely/internal/staging"
	"tubely/internal/storage"
	s3storage "tubely/internal/storage/s3"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		logger.Log.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.Log)
	log := logger.Component("server")

	if cfg.Server.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(ctx, &cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	videoRepo := postgres.NewVideoRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(ctx, &cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	fs := afero.NewOsFs()
	stagingArea := staging.NewArea(fs, cfg.Media.StagingDir)
	if err := stagingArea.Ready(); err != nil {
		return err
	}
	relocator := storage.NewRelocator(fs, s3Client, cfg.S3.Bucket)

	// Initialize media tools
	runner := media.NewRunner(cfg.Media.MaxConcurrent)
	prober := media.NewProber(cfg.Media.FFprobePath, cfg.Media.ProbeTimeout, runner)
	optimizer := media.NewOptimizer(cfg.Media.FFmpegPath, cfg.Media.OptimizeTimeout, runner)

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWT)
	videoSvc := service.NewVideoService(videoRepo, prober, optimizer, relocator, stagingArea, service.VideoServiceConfig{
		MaxUploadBytes: cfg.Media.MaxUploadBytes(),
		PresignTTL:     cfg.S3.PresignTTL(),
	})

	// Initialize handlers
	videoH := handler.NewVideoHandler(videoSvc, cfg.Media.MaxUploadBytes())
	healthH := handler.NewHealthHandler(
		handler.ReadinessCheck{Name: "database", Check: db.PingContext},
		handler.ReadinessCheck{Name: "staging", Check: func(context.Context) error { return stagingArea.Ready() }},
		binaryCheck("ffprobe", cfg.Media.FFprobePath),
		binaryCheck("ffmpeg", cfg.Media.FFmpegPath),
	)

	// Setup router
	r := router.Setup(authSvc, videoH, healthH)

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func binaryCheck(name, path string) handler.ReadinessCheck {
	return handler.ReadinessCheck{
		Name: name,
		Check: func(context.Context) error {
			_, err := exec.LookPath(path)
			return err
		},
	}
}
