package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/tasksync/tasksync/internal/aggregator"
	"github.com/tasksync/tasksync/internal/config"
	"github.com/tasksync/tasksync/internal/handlers"
	"github.com/tasksync/tasksync/internal/logger"
	"github.com/tasksync/tasksync/internal/middleware"
	"github.com/tasksync/tasksync/internal/sources"
	"github.com/tasksync/tasksync/internal/sources/github"
	"github.com/tasksync/tasksync/internal/sources/notion"
	"github.com/tasksync/tasksync/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("bind_addr", cfg.BindAddr()),
		zap.String("github_repo", cfg.GitHubRepo),
		zap.Bool("notion_configured", cfg.NotionConfigured()),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Initialize OpenTelemetry if enabled
	var tracerProvider *sdktrace.TracerProvider
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), "task-sync-api", cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracerProvider = tp
				zapLogger.Info("otel_tracer_initialized",
					zap.String("endpoint", cfg.OTELEndpoint),
				)
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := telemetry.Shutdown(shutdownCtx, tracerProvider); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Source adapters, tracker first. Registration order is the tie-break
	// order for equal importance scores.
	githubClient := github.NewClient(cfg.GitHubToken, cfg.GitHubRepo)
	srcs := []sources.Source{githubClient}
	if cfg.NotionConfigured() {
		srcs = append(srcs, notion.NewClient(cfg.NotionToken, cfg.NotionDatabaseID))
		zapLogger.Info("notion_adapter_enabled")
	} else {
		zapLogger.Info("notion_adapter_disabled_missing_credentials")
	}

	agg := aggregator.New(zapLogger, srcs...)

	taskHandler := handlers.NewTaskHandler(agg, zapLogger)
	healthChecker := handlers.NewHealthChecker(map[string]handlers.Pinger{
		sources.GitHub: githubClient,
	})

	r := mux.NewRouter()

	// Middleware. gorilla/mux runs these in registration order, outermost
	// first.
	if cfg.OTELEnabled && tracerProvider != nil {
		r.Use(otelmux.Middleware("task-sync-api"))
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	r.HandleFunc("/", taskHandler.Root).Methods("GET")
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", versionInfo).Methods("GET")

	taskHandler.RegisterRoutes(r.PathPrefix("/api").Subrouter())

	srv := &http.Server{
		Addr:           cfg.BindAddr(),
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   45 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zapLogger.Info("server_listening",
			zap.String("addr", cfg.BindAddr()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

func versionInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"version":"1.0.0","service":"task-sync-api"}`))
}
