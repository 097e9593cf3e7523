package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voicepipe/internal/config"
	"voicepipe/internal/httpapi"
	"voicepipe/internal/notes"
	"voicepipe/internal/observability"
	"voicepipe/internal/pipeline"
	"voicepipe/internal/relay"
	"voicepipe/internal/session"
	"voicepipe/internal/speech"
	"voicepipe/internal/transcription"
	"voicepipe/internal/upstream/coqui"
	"voicepipe/internal/upstream/copilot"
	"voicepipe/internal/upstream/whisper"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)

	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      environment(),
		})
		if err != nil {
			logger.Warn("sentry init failed", "error", err)
		} else {
			logger.Info("sentry initialized")
			defer sentry.Flush(2 * time.Second)
		}
	}

	metrics := observability.NewMetrics()

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	upstreamHTTPClient := &http.Client{Timeout: cfg.RequestTimeout, Transport: transport}

	asrClient := whisper.New(cfg.ASRBaseURL, upstreamHTTPClient, whisper.WithObserver(metrics.UpstreamObserver("asr")))
	ttsClient := coqui.New(cfg.TTSBaseURL, upstreamHTTPClient, coqui.WithObserver(metrics.UpstreamObserver("tts")))
	chatClient := copilot.New(cfg.CopilotBaseURL, upstreamHTTPClient, copilot.WithObserver(metrics.UpstreamObserver("chat")))

	sessions := session.NewStore(cfg.ChatMaxPairs)
	chatRelay := relay.New(chatClient, sessions, relay.Config{
		Enabled:    cfg.CopilotEnabled,
		Timeout:    cfg.ChatTimeout,
		MaxRetries: cfg.ChatMaxRetries,
		RetryDelay: cfg.ChatRetryDelay,
		MaxPairs:   cfg.ChatMaxPairs,
	},
		relay.WithRetryObserver(metrics.IncRelayRetry),
		relay.WithFailureObserver(metrics.IncRelayFailure),
	)

	transcriptionService := transcription.New(asrClient, cfg.ASRTimeout)
	speechService := speech.New(ttsClient, cfg.TTSTimeout)

	noteStore, err := notes.NewStore(cfg.NotesDir)
	if err != nil {
		logger.Error("note store init failed", "error", err)
		os.Exit(1)
	}

	pipelineService := pipeline.New(
		transcriptionService,
		chatRelay,
		speechService,
		noteStore,
		cfg.SummaryMaxWords,
		pipeline.WithChatFallbackObserver(metrics.IncChatFallback),
	)

	handler := httpapi.NewServer(cfg, logger, httpapi.Dependencies{
		Transcription:  transcriptionService,
		Speech:         speechService,
		Chat:           chatRelay,
		Pipeline:       pipelineService,
		Sessions:       sessions,
		Notes:          noteStore,
		ASR:            asrClient,
		TTS:            ttsClient,
		Metrics:        metrics,
		MetricsHandler: metrics.Handler(),
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       35 * time.Second,
		WriteTimeout:      40 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.ListenAddr, "chat_enabled", cfg.CopilotEnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("server exited", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func newLogger(level string) *slog.Logger {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn", "warning":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel}))
}

func environment() string {
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		return env
	}
	return "development"
}
