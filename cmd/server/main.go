package main

import (
	"os"
	"os/signal"
	"syscall"

	"face-overlay/internal/api"
	"face-overlay/internal/config"
	"face-overlay/internal/overlay"
	"face-overlay/internal/services/face"
	"face-overlay/internal/services/stream"
	"face-overlay/pkg/log"
)

func main() {
	cfg := config.Load()
	logger := log.Setup(log.Options{Level: cfg.LogLevel, File: cfg.LogFile})

	// Pigo is pure Go and always available; YuNet adds landmarks when a sidecar is configured
	pigoDetector, err := face.NewPigoDetector(cfg.CascadePath)
	if err != nil {
		logger.Fatalf("Failed to initialize Pigo: %v", err)
	}

	var detector face.Detector = pigoDetector
	if cfg.YuNetSocket != "" {
		detector = face.FallbackDetector{
			Primary:   face.NewYuNetClient(cfg.YuNetSocket, cfg.YuNetTimeout),
			Secondary: pigoDetector,
		}
		logger.Infof("YuNet landmarks enabled via %s", cfg.YuNetSocket)
	}

	opts := overlay.Options{
		MarkerEnabled:  cfg.MarkerEnabled,
		MarkerInterval: cfg.MarkerInterval,
		DrawBoxes:      cfg.DrawBoxes,
	}
	svc := stream.New(detector, opts, stream.FrameOptions{
		ViewWidth:  cfg.ViewWidth,
		ViewHeight: cfg.ViewHeight,
	})

	server := api.NewServer(cfg, svc)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Listen(":" + cfg.Port); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server running on http://localhost:" + cfg.Port)

	<-sigChan
	logger.Info("Shutting down server...")
	if err := server.Shutdown(); err != nil {
		logger.Errorf("Shutdown failed: %v", err)
	}
}
