package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/wishlyst/giftregistry/internal/config"
	"github.com/wishlyst/giftregistry/internal/db"
	"github.com/wishlyst/giftregistry/internal/repo"
	"github.com/wishlyst/giftregistry/internal/scheduler"
)

func main() {
	cfg := config.Load()

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	database, err := db.Connect(
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBUser,
		cfg.DBPass,
		cfg.DBMaxOpenConns,
		cfg.DBMaxIdleConns,
	)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)

	if err := db.Migrate(db.URL(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass)); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	go scheduler.Run(
		repo.NewAuditRepo(database),
		repo.NewReminderRepo(database),
		repo.NewGiftRepo(database),
		cfg.AuditRetentionDays,
	)

	router := newRouter(database, cfg)

	addr := ":" + cfg.Port
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		slog.Info("starting server with TLS", "addr", addr)
		err = http.ListenAndServeTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile, router)
	} else {
		slog.Info("starting server", "addr", addr)
		err = http.ListenAndServe(addr, router)
	}
	if err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
