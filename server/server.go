package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"WaveFM/cache"
	"WaveFM/config"
	"WaveFM/core/hls"
	"WaveFM/db"
	"WaveFM/logger"
	"WaveFM/model"
	"WaveFM/queue"
	"WaveFM/repository"
	"WaveFM/storage"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
)

// Start initializes dependencies and runs the HTTP server until terminated.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogFile,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})

	if err := storage.InitMinio(cfg); err != nil {
		logger.Fatal("failed to initialize object storage", logger.ErrorField(err))
	}

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("failed to connect to database", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	if err := db.AutoMigrateModels(&model.StreamRendition{}, &model.UserQualityPreference{}); err != nil {
		logger.Fatal("failed to migrate models", logger.ErrorField(err))
	}

	// Redis backs the conversion lock and the preference cache; both degrade
	// gracefully, so a missing Redis is not fatal.
	if err := cache.ConnectRedis(cfg); err != nil {
		logger.Warn("Redis unavailable, conversion lock and preference cache disabled",
			logger.ErrorField(err))
	} else {
		defer cache.CloseRedis()
	}

	hlsStore, err := storage.NewHLSStore(cfg)
	if err != nil {
		logger.Fatal("failed to build HLS store", logger.ErrorField(err))
	}
	sourceStore, err := storage.NewSourceStore(cfg)
	if err != nil {
		logger.Fatal("failed to build source store", logger.ErrorField(err))
	}

	renditionRepo := repository.NewGormRenditionRepository(db.GormDB)
	preferenceRepo := repository.NewGormPreferenceRepository(db.GormDB)

	segmenter := hls.NewFFmpegSegmenter(cfg.FFmpegPath, cfg.EncodeTimeout)
	orchestrator := hls.NewOrchestrator(segmenter, hlsStore, sourceStore, renditionRepo, cfg.ScratchDir)

	taskQueue := queue.New(cfg.ConvertWorkers, cfg.QueueBuffer)
	hooks := hls.NewLifecycleHooks(orchestrator, renditionRepo, taskQueue, cfg.ScheduleDelay)

	// Hourly sweep for remote objects orphaned by a crash between upload
	// and rendition upsert.
	reconciler := hls.NewReconciler(hlsStore, renditionRepo)
	sweeper := cron.New()
	if _, err := sweeper.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		if err := reconciler.Sweep(ctx); err != nil {
			logger.Error("reconciliation sweep failed", logger.ErrorField(err))
		}
	}); err != nil {
		logger.Fatal("failed to schedule reconciliation sweep", logger.ErrorField(err))
	}
	sweeper.Start()
	defer sweeper.Stop()

	apiHandler := NewAPIHandler(renditionRepo, preferenceRepo, hooks)

	router := mux.NewRouter()
	router.Use(corsMiddleware)

	router.HandleFunc("/api/health", apiHandler.HealthHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/stream/{asset_id}", apiHandler.ResolveStreamHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/renditions/{asset_id}", apiHandler.ListRenditionsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/preference", apiHandler.GetPreferenceHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/preference", apiHandler.SetPreferenceHandler).Methods(http.MethodPut)
	router.HandleFunc("/api/assets/{asset_id}/events/{event}", apiHandler.AssetEventHandler).Methods(http.MethodPost)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", logger.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", logger.ErrorField(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", logger.ErrorField(err))
	}
	if err := taskQueue.Shutdown(shutdownCtx); err != nil {
		logger.Error("task queue shutdown incomplete", logger.ErrorField(err))
	}
}

// corsMiddleware allows browser playback clients from any origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Range, X-User-ID")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
