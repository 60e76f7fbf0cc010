package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"academia/gateway"
	"academia/services"
	"academia/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local HTTP gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := app.cfg, app.logger
		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}

		srv := &gateway.Server{
			Config:    cfg,
			Logger:    logger,
			Resources: app.client,
			Session:   app.session,
			Catalog:   services.NewCatalog(app.client, logger),
			Opener:    services.NewOpener(cfg),
			Feed:      services.NewFeedService(app.client, app.session, logger),
			Profile:   services.NewProfileService(app.client, app.session, logger),
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.ArchiveReady() {
			s3Client, err := storage.NewS3Client(ctx, cfg)
			if err != nil {
				logger.Fatal("S3 client creation failed", zap.Error(err))
			}
			srv.Archive = services.NewArchiveService(cfg, app.client, storage.NewBucket(s3Client, cfg, logger), logger)
		}
		if cfg.ArchiveEnabled {
			if srv.Archive == nil {
				logger.Warn("Archive schedule enabled but S3 is not configured, skipping")
			} else {
				scheduler, err := srv.StartArchiveSchedule()
				if err != nil {
					return err
				}
				defer scheduler.Stop()
			}
		}

		if err := srv.Catalog.Load(ctx); err != nil {
			logger.Warn("Initial catalog load failed", zap.Error(err))
		}

		httpSrv := srv.HTTPServer()
		errCh := make(chan error, 1)
		go func() {
			logger.Info("Starting gateway", zap.String("port", cfg.GatewayPort))
			errCh <- httpSrv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("Shutting down gateway")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	},
}
