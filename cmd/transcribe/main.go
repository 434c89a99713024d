package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/skypro1111/tingwu-transcribe/internal/config"
	"github.com/skypro1111/tingwu-transcribe/internal/metrics"
	"github.com/skypro1111/tingwu-transcribe/internal/server"
	"github.com/skypro1111/tingwu-transcribe/internal/signer"
	"github.com/skypro1111/tingwu-transcribe/internal/tingwu"
)

const (
	defaultConfigPath = "configs/config.yaml"
	serviceName       = "tingwu-transcribe"
	serviceVersion    = "1.0.0"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Parse command line flags
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	language := flag.String("language", "", "Source language override (e.g. en, zh)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		return 2
	}
	fileURL := flag.Arg(0)

	// Load .env if present, then credentials from the environment
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	if *language != "" {
		cfg.Tingwu.SourceLanguage = *language
	}

	// Initialize logger based on configuration
	logger := initLogger(cfg.Logging)

	logger.Info("Client starting",
		slog.String("service", serviceName),
		slog.String("version", serviceVersion),
		slog.String("endpoint", cfg.Tingwu.Endpoint),
		slog.String("source_language", cfg.Tingwu.SourceLanguage),
		slog.String("file_url", fileURL),
	)

	creds := signer.CredentialsFromEnv()
	if creds.IsZero() {
		logger.Warn("No credentials in environment, requests will be rejected by the gateway",
			slog.String("expected", "ALIYUN_ACCESS_KEY_ID, ALIYUN_ACCESS_KEY_SECRET, TINGWU_APP_KEY"),
		)
	}

	// Cancel polling on Ctrl-C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Prometheus metrics
	appMetrics := metrics.NewMetrics()

	client, err := tingwu.NewClient(tingwu.Config{
		Endpoint:             cfg.Tingwu.Endpoint,
		APIVersion:           cfg.Tingwu.APIVersion,
		SourceLanguage:       cfg.Tingwu.SourceLanguage,
		Timeout:              cfg.Tingwu.GetTimeoutDuration(),
		PollInterval:         cfg.Tingwu.GetPollIntervalDuration(),
		MaxPollAttempts:      cfg.Tingwu.MaxPollAttempts,
		MaxConsecutiveErrors: cfg.Tingwu.MaxConsecutiveErrors,
	}, creds, logger, appMetrics)
	if err != nil {
		logger.Error("Failed to create Tingwu client", slog.String("error", err.Error()))
		return 1
	}

	// Start monitoring HTTP server (if enabled)
	if cfg.HTTP.Enabled {
		httpServer := server.NewHTTPServer(cfg.HTTP, logger, client, appMetrics)
		if err := httpServer.Start(); err != nil {
			logger.Error("Failed to start monitoring server", slog.String("error", err.Error()))
			return 1
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpServer.Stop(shutdownCtx); err != nil {
				logger.Error("Error stopping monitoring server", slog.String("error", err.Error()))
			}
		}()
	}

	// Submit the task
	createResp, err := client.CreateTask(ctx, fileURL)
	if err != nil {
		logger.Error("Task submission failed", slog.String("error", err.Error()))
		return 1
	}

	taskID := createResp.Data.TaskId
	if taskID == "" {
		logger.Error("Service response carries no TaskId")
		printJSON(createResp.Raw)
		return 1
	}

	logger.Info("Task submitted", slog.String("task_id", taskID))
	printJSON(createResp.Raw)

	// Poll to a terminal state
	poller := tingwu.NewPoller(client, logger)
	finalResp, err := poller.Wait(ctx, taskID)

	var failed *tingwu.TaskFailedError
	switch {
	case errors.As(err, &failed):
		logger.Error("Task failed", slog.String("task_id", taskID))
		printJSON(finalResp.Raw)
		return 1
	case err != nil:
		logger.Error("Polling stopped", slog.String("error", err.Error()))
		return 1
	}

	logger.Info("Task completed", slog.String("task_id", taskID))
	printJSON(finalResp.Raw)
	return 0
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [-config path] [-language code] <file-url>\n", os.Args[0])
	flag.PrintDefaults()
}

// printJSON pretty-prints a raw JSON payload to stdout
func printJSON(raw []byte) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		os.Stdout.Write(raw)
		fmt.Println()
		return
	}
	fmt.Println(buf.String())
}

// initLogger creates and configures the structured logger based on configuration
func initLogger(cfg config.LoggingConfig) *slog.Logger {
	// Parse log level
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo // default fallback
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug, // Add source info for debug level
	}

	// Logs go to stderr by default so stdout stays clean for the payload
	var output *os.File
	switch cfg.Output {
	case "stderr", "":
		output = os.Stderr
	case "stdout":
		output = os.Stdout
	default:
		// Assume it's a file path
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v, falling back to stderr\n", cfg.Output, err)
			output = os.Stderr
		} else {
			output = file
		}
	}

	// Create handler based on format
	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
