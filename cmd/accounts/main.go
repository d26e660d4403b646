package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	adapthttp "accounts/internal/adapter/http"
	"accounts/internal/adapter/memory"
	"accounts/internal/adapter/postgres"
	"accounts/internal/app"
	"accounts/internal/config"
	"accounts/internal/domain"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config", "error", err)
		os.Exit(1)
	}

	var users domain.UserRepository
	if cfg.Database.URL != "" {
		db, err := postgres.Open(cfg.Database.URL)
		if err != nil {
			log.Error("db open", "error", err)
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()
		users = db
	} else {
		// No connection string configured; run on the in-memory store.
		log.Warn("ACCOUNTS_DATABASE_URL not set, using in-memory store")
		users = memory.New()
	}

	hasher := app.NewPasswordHasher(0)
	tokens := app.NewTokenService([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	authSvc := app.NewAuthService(users, hasher, tokens)
	userSvc := app.NewUserService(users, hasher)

	sso, err := adapthttp.NewSSO(context.Background(), cfg)
	if err != nil {
		log.Error("sso setup", "error", err)
		os.Exit(1)
	}

	h := adapthttp.New(authSvc, userSvc, tokens, sso, cfg, log).Handler()
	log.Info("listening", "addr", cfg.Server.Addr, "environment", cfg.Server.Environment)
	if err := http.ListenAndServe(cfg.Server.Addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server", "error", err)
		os.Exit(1)
	}
}
