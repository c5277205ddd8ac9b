package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/readstash/readstash/app/api"
	"github.com/readstash/readstash/app/cfg"
	"github.com/readstash/readstash/app/creator"
	"github.com/readstash/readstash/app/database"
	"github.com/readstash/readstash/app/discovery"
	"github.com/readstash/readstash/app/extract"
	"github.com/readstash/readstash/app/ingest"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	slog.Info("Starting ReadStash server", "version", appCfg.Version)

	db, err := database.NewConnection(
		appCfg.DBHost, appCfg.DBPort, appCfg.DBUser,
		appCfg.DBPassword, appCfg.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	slog.Info("Connected to database")

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Migrations applied", "version", version, "dirty", dirty)

	itemRepo := database.NewItemRepository(db)
	creatorRepo := database.NewCreatorRepository(db)
	discoveryRepo := database.NewDiscoveryRepository(db)

	httpClient := &http.Client{
		Timeout: time.Duration(appCfg.FetchTimeout) * time.Second,
	}

	resolver := creator.NewResolver(creatorRepo)
	articleFetcher := extract.NewArticleFetcher(httpClient, appCfg.UserAgent)
	ingester := ingest.NewService(itemRepo, resolver, articleFetcher)

	prober := discovery.NewProber(httpClient, appCfg.UserAgent)
	discoverer := discovery.NewService(discoveryRepo, prober,
		time.Duration(appCfg.DiscoverySuccessTTL)*time.Second,
		time.Duration(appCfg.DiscoveryFailureTTL)*time.Second)

	apiHandler := api.NewHandler(itemRepo, creatorRepo, discoveryRepo, ingester, discoverer)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
