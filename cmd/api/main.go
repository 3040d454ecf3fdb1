package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"resale-inventory/config"
	_ "resale-inventory/docs" // Swagger docs
	"resale-inventory/internal/httpserver"
	itemHTTP "resale-inventory/internal/item/delivery/http"
	itemUC "resale-inventory/internal/item/usecase"
	"resale-inventory/pkg/log"
)

//go:generate swag init -g main.go -d ./,../../internal/httpserver,../../internal/item/delivery/http,../../pkg/response -o ../../docs

// @title       Resale Inventory API
// @description Items of a resale inventory, each stored with its primary photo.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Resale Inventory...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Storage
	docs, err := openDocstore(ctx, cfg, logger)
	if err != nil {
		logger.Errorf(ctx, "Failed to open document store: %v", err)
		return
	}
	defer closeQuietly(ctx, logger, "document store", docs)
	logger.Infof(ctx, "Document store: %s", cfg.Docstore.Backend)

	blobs, err := openBlobstore(ctx, cfg, logger)
	if err != nil {
		logger.Errorf(ctx, "Failed to open blob store: %v", err)
		return
	}
	defer closeQuietly(ctx, logger, "blob store", blobs)
	logger.Infof(ctx, "Blob store: %s (bucket %s)", cfg.Blobstore.Backend, cfg.Blobstore.Bucket)

	var filesRoot string
	if cfg.Blobstore.Backend == config.BlobstoreLocal {
		filesRoot = cfg.Blobstore.Local.Root
	}

	// 4. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		ShutdownTimeout: cfg.HTTPServer.ShutdownTimeout,
		RateLimitPerMin: cfg.RateLimit.PerMin,
		Docstore:        docs,
		Blobstore:       blobs,
		Collection:      cfg.Docstore.Collection,
		FilesRoot:       filesRoot,
		Item: itemUC.Options{
			AssetPrefix:         cfg.Item.AssetPrefix,
			BulkConcurrency:     cfg.Item.BulkConcurrency,
			CompensationTimeout: cfg.Item.CompensationTimeout,
		},
		Upload: itemHTTP.Options{
			MaxUploadBytes: cfg.Upload.MaxBytes,
			MaxDimension:   cfg.Upload.MaxDimension,
		},
	})
	if err != nil {
		logger.Errorf(ctx, "Failed to initialize HTTP server: %v", err)
		return
	}

	// 5. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Errorf(ctx, "Failed to run server: %v", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
