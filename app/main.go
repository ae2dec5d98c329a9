package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tubewatch/tubewatch/app/ai"
	"github.com/tubewatch/tubewatch/app/api"
	"github.com/tubewatch/tubewatch/app/cfg"
	"github.com/tubewatch/tubewatch/app/database"
	"github.com/tubewatch/tubewatch/app/digest"
	"github.com/tubewatch/tubewatch/app/ingest"
	"github.com/tubewatch/tubewatch/app/media"
	"github.com/tubewatch/tubewatch/app/profile"
	"github.com/tubewatch/tubewatch/app/tasks"
	"github.com/tubewatch/tubewatch/app/transcript"
	"github.com/tubewatch/tubewatch/app/youtube"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogger(appCfg.Debug)

	slog.Info("Starting TubeWatch server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("Database ready", "path", appCfg.DBPath)

	videoRepo := database.NewVideoRepository(db)
	ledgerRepo := database.NewLedgerRepository(db)

	profiles := profile.NewCache(appCfg.ProfilesDir)
	if err := profiles.Run(); err != nil {
		slog.Error("Failed to load profiles", "dir", appCfg.ProfilesDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Profiles loaded", "count", profiles.GetProfileCount())

	ctx := context.Background()
	httpClient := &http.Client{Timeout: 30 * time.Second}

	var lister youtube.ChannelLister
	if appCfg.YoutubeAPIKey != "" {
		apiLister, err := youtube.NewDataAPILister(ctx, appCfg.YoutubeAPIKey)
		if err != nil {
			slog.Error("Failed to create YouTube Data API client", "error", err)
			os.Exit(1)
		}
		lister = apiLister
		slog.Info("Channel enumeration via YouTube Data API")
	} else {
		lister = youtube.NewFeedLister(httpClient, appCfg.UserAgent)
		slog.Info("Channel enumeration via RSS uploads feeds (YOUTUBE_API_KEY not set)")
	}

	captions := youtube.NewCaptionClient(httpClient, appCfg.UserAgent)
	acquirer := transcript.NewAcquirer(captions)

	aiClient, err := ai.NewClient(ctx, appCfg.GeminiAPIKey, appCfg.GeminiModel)
	if err != nil {
		slog.Error("Failed to create AI client", "error", err)
		os.Exit(1)
	}

	downloader := media.NewDownloader(media.NewExecutor(), appCfg.WorkDir)
	fallback := media.NewFallbackTranscriber(downloader, aiClient)

	var sender digest.Sender
	if appCfg.SMTPUser != "" && appCfg.SMTPPassword != "" {
		sender = digest.NewSMTPNotifier(appCfg.SMTPHost, appCfg.SMTPPort, appCfg.SMTPUser, appCfg.SMTPPassword)
		slog.Info("Digest email delivery enabled", "host", appCfg.SMTPHost, "recipient", appCfg.Recipient)
	} else {
		slog.Info("Digest email delivery disabled (SMTP credentials not set)")
	}
	exporter := digest.NewExporter(appCfg.OutputDir)

	orchestrator := ingest.NewOrchestrator(
		profiles,
		lister,
		acquirer,
		fallback,
		aiClient,
		videoRepo,
		ledgerRepo,
		sender,
		exporter,
		appCfg.Recipient,
		time.Duration(appCfg.CallTimeout)*time.Second,
	)

	scheduler := tasks.NewScheduler(orchestrator)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "interval_seconds", appCfg.SchedulerInterval)

	apiHandler := api.NewHandler(videoRepo, profiles, orchestrator, scheduler, appCfg.Version)
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

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Shutdown complete")
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
