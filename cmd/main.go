package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/luo-one/inbox-agent/internal/api"
	"github.com/luo-one/inbox-agent/internal/api/middleware"
	"github.com/luo-one/inbox-agent/internal/cli"
	"github.com/luo-one/inbox-agent/internal/config"
	"github.com/luo-one/inbox-agent/internal/database"
	"github.com/luo-one/inbox-agent/internal/database/models"
	"github.com/luo-one/inbox-agent/internal/functions"
	"github.com/luo-one/inbox-agent/internal/services"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		logrus.Fatalf("Failed to create data directory: %v", err)
	}

	// Initialize database
	db, err := database.InitializeWithLogLevel(cfg.DatabasePath, cfg.LogLevel)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}

	logService := services.NewLogServiceWithLevel(db, cfg.LogLevel)
	log := logService.Logger()

	apiKeys, err := middleware.NewAPIKeyManager(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize API key: %v", err)
	}

	// Check if running CLI command
	if len(os.Args) > 1 {
		cli.Execute(&cli.App{Config: cfg, LogService: logService, APIKeys: apiKeys})
		return
	}

	inbox := services.NewInboxService(
		functions.NewProcessor(cfg.SignerName),
		services.DefaultsFromConfig(cfg),
		logService,
	)
	if cfg.LoadSampleInbox {
		emails, err := services.LoadInbox(context.Background(), services.SampleSource{}, logService)
		if err != nil {
			log.Fatalf("Failed to load sample inbox: %v", err)
		}
		inbox.Replace(emails)
	}

	if !strings.EqualFold(cfg.LogLevel, "DEBUG") {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.SetupRouter(api.Dependencies{
		Config:       cfg,
		InboxService: inbox,
		LogService:   logService,
		APIKeys:      apiKeys,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.WithFields(logrus.Fields{
		"port":     cfg.APIPort,
		"data_dir": cfg.DataDir,
		"database": cfg.DatabasePath,
		"emails":   len(inbox.Emails()),
	}).Info("Starting Inbox Agent server")
	log.Infof("API key file: %s (run `inbox-agent key show` to print it)", apiKeys.Path())
	_ = logService.LogInfo(models.LogModuleAPI, "start", "Server starting", map[string]string{"port": cfg.APIPort})

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server shutdown failed: %v", err)
	}
	log.Info("Server stopped")
}
