package main

import (
	"context"
	"fmt"
	"log/slog"

	sqliteadapter "github.com/ericfisherdev/adview/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/adview/internal/adapter/driven/watson"
	"github.com/ericfisherdev/adview/internal/application"
	"github.com/ericfisherdev/adview/internal/config"
	"github.com/ericfisherdev/adview/internal/domain/port/driven"
)

// app is the CLI's composition root: the server's wiring without HTTP.
type app struct {
	db            *sqliteadapter.DB
	predictionSvc *application.PredictionService
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		return nil, err
	}

	var credentialStore driven.CredentialStore
	if cfg.SecretKey != nil {
		credentialStore = sqliteadapter.NewCredentialRepo(db, cfg.SecretKey)
	}

	keys := application.NewAPIKeyProvider(cfg.APIKey)
	if err := application.NewCredentialService(credentialStore, keys, cfg.APIKey).LoadStored(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	client, err := watson.NewClient(cfg.IAMURL, cfg.ScoringURL, cfg.HTTPTimeout)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating scoring client: %w", err)
	}

	return &app{
		db:            db,
		predictionSvc: application.NewPredictionService(client, client, keys, sqliteadapter.NewPredictionRepo(db), nil, slog.Default()),
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}
