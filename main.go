package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/megaecommerce/backoffice/config"
	"github.com/megaecommerce/backoffice/media"
	"github.com/megaecommerce/backoffice/models"
	"github.com/megaecommerce/backoffice/routes"
	"github.com/megaecommerce/backoffice/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer utils.Logger.Sync()

	db := config.InitDatabase(models.All()...)

	provider, err := media.NewCloudinary(media.CloudinaryConfig{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
	})
	if err != nil {
		utils.Logger.Fatal("media provider init failed", zap.Error(err))
	}

	folder := media.Folder{Root: cfg.MediaFolderRoot, Sub: cfg.MediaFolderSub}
	client := media.NewClient(provider, folder, utils.Logger)
	intake := media.NewIntake(media.IntakeConfig{
		Dir:         cfg.MediaStagingDir,
		MaxFileSize: int64(cfg.MediaMaxFileSizeMB) << 20,
	})
	ledger := media.NewGormLedger(db, time.Duration(cfg.MediaOrphanBackoffMin)*time.Minute)
	assets := media.NewOrchestrator(client, ledger, utils.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	media.NewSweeper(ledger, client, intake, media.SweeperConfig{
		Interval:    time.Duration(cfg.MediaSweepMinutes) * time.Minute,
		StagedTTL:   time.Duration(cfg.MediaStagedTTLMin) * time.Minute,
		MaxAttempts: cfg.MediaOrphanRetries,
	}, utils.Logger).Start(ctx)

	r := routes.SetupRouter(db, routes.Media{Intake: intake, Assets: assets})

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r, cancel); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
