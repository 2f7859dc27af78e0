package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	sqliteadapter "github.com/ericfisherdev/adview/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/adview/internal/adapter/driven/watson"
	httphandler "github.com/ericfisherdev/adview/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/adview/internal/adapter/driving/web"
	"github.com/ericfisherdev/adview/internal/application"
	"github.com/ericfisherdev/adview/internal/config"
	"github.com/ericfisherdev/adview/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"iam_url", cfg.IAMURL,
		"scoring_url", cfg.ScoringURL,
		"http_timeout", cfg.HTTPTimeout,
		"credential_storage", cfg.SecretKey != nil,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire stores. Credential storage needs ADVIEW_SECRET_KEY.
	predictionStore := sqliteadapter.NewPredictionRepo(db)
	var credentialStore driven.CredentialStore
	if cfg.SecretKey != nil {
		credentialStore = sqliteadapter.NewCredentialRepo(db, cfg.SecretKey)
	}

	// 6. Resolve the API key: a stored key takes priority over the env var.
	keys := application.NewAPIKeyProvider(cfg.APIKey)
	credentialSvc := application.NewCredentialService(credentialStore, keys, cfg.APIKey)
	if err := credentialSvc.LoadStored(ctx); err != nil {
		return err
	}
	if status := credentialSvc.Status(); status.Configured {
		slog.Info("api key configured", "source", status.Source)
	} else {
		slog.Warn("no api key configured, predictions fail until one is provided via ADVIEW_API_KEY or the GUI")
	}

	// 7. Create the identity/inference client.
	client, err := watson.NewClient(cfg.IAMURL, cfg.ScoringURL, cfg.HTTPTimeout)
	if err != nil {
		return err
	}

	// 8. Metrics registry with runtime collectors.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := application.NewMetrics(registry)
	if err != nil {
		return err
	}

	// 9. Create the prediction pipeline.
	predictionSvc := application.NewPredictionService(client, client, keys, predictionStore, metrics, slog.Default())

	// 10. Register API and GUI routes on one mux.
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, httphandler.NewHandler(predictionSvc, slog.Default()), registry)
	webhandler.RegisterRoutes(mux, webhandler.NewHandler(predictionSvc, credentialSvc, cfg.HistoryLimit, slog.Default()))

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	// WriteTimeout covers two sequential upstream calls.
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      2*cfg.HTTPTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	slog.Info("adview started", "listen_addr", cfg.ListenAddr)

	// 11. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 12. Graceful shutdown with 10s timeout for in-flight predictions.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
