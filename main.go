package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salescharts/internal/charts"
	"salescharts/internal/config"
	"salescharts/internal/logger"
	"salescharts/internal/server"
	"salescharts/internal/storage"
)

func main() {
	ctx := context.Background()
	log := logger.Component("main")

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal("Failed to load configuration", err)
	}

	log.Info("Starting sales chart service", map[string]interface{}{
		"port":            cfg.Port,
		"environment":     cfg.Environment,
		"deployment_mode": cfg.DeploymentMode,
		"version":         config.GetVersion(),
	})

	store, err := storage.NewStorageClient(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to create storage client", err)
	}

	obs, err := charts.LoadObservations(ctx, cfg, nil)
	if err != nil {
		log.Fatal("Failed to load dataset", err)
	}

	srv := server.NewServer(cfg, charts.NewSuite(charts.OptionsFromConfig(cfg), nil), store, obs)
	defer srv.Close()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.SetupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // report generation renders every chart
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", err)
	}

	log.Info("Server stopped")
}
