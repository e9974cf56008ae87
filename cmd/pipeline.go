package cmd

import (
	"WaveFM/cache"
	"WaveFM/config"
	"WaveFM/core/hls"
	"WaveFM/db"
	"WaveFM/logger"
	"WaveFM/model"
	"WaveFM/repository"
	"WaveFM/storage"
)

// buildOrchestrator initializes the pipeline dependencies for one-shot
// commands. The returned func closes the connections.
func buildOrchestrator() (*hls.Orchestrator, func(), error) {
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
		return nil, nil, err
	}

	if err := db.ConnectGormDB(cfg); err != nil {
		return nil, nil, err
	}

	if err := db.AutoMigrateModels(&model.StreamRendition{}, &model.UserQualityPreference{}); err != nil {
		db.CloseGormDB()
		return nil, nil, err
	}

	if err := cache.ConnectRedis(cfg); err != nil {
		logger.Warn("Redis unavailable, conversion lock disabled", logger.ErrorField(err))
	}

	hlsStore, err := storage.NewHLSStore(cfg)
	if err != nil {
		db.CloseGormDB()
		return nil, nil, err
	}
	sourceStore, err := storage.NewSourceStore(cfg)
	if err != nil {
		db.CloseGormDB()
		return nil, nil, err
	}

	renditionRepo := repository.NewGormRenditionRepository(db.GormDB)
	segmenter := hls.NewFFmpegSegmenter(cfg.FFmpegPath, cfg.EncodeTimeout)
	orchestrator := hls.NewOrchestrator(segmenter, hlsStore, sourceStore, renditionRepo, cfg.ScratchDir)

	cleanup := func() {
		cache.CloseRedis()
		db.CloseGormDB()
	}
	return orchestrator, cleanup, nil
}
