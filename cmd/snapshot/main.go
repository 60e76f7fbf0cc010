package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"academia/backend/rest"
	"academia/config"
	"academia/services"
	"academia/storage"
)

// snapshot führt einen einzelnen Archivlauf aus: Katalog-Snapshot, Dokumente spiegeln, rotieren.
func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}
	if !cfg.ArchiveReady() {
		logging.Fatal("S3 configuration incomplete, set S3_URL, S3_REGION, S3_KEY, S3_SECRET and S3_BUCKET")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	s3Client, err := storage.NewS3Client(ctx, cfg)
	if err != nil {
		logging.Fatal("S3 client creation failed", zap.Error(err))
	}

	archive := services.NewArchiveService(cfg, rest.NewClient(cfg, logging), storage.NewBucket(s3Client, cfg, logging), logging)
	report, err := archive.Run(ctx)
	if err != nil {
		logging.Fatal("Archive run failed", zap.Error(err))
	}
	logging.Info("Archive run completed",
		zap.String("snapshot", report.SnapshotKey),
		zap.Int("resources", report.Resources),
		zap.Int("mirrored", report.Mirrored),
		zap.Int("failed", report.Failed),
		zap.Strings("rotated", report.Rotated))
}
