package main

import (
	"context"
	"embed"
	"log/slog"
	"os"

	"github.com/ghuser/itemforge/pkg/config"
	"github.com/ghuser/itemforge/pkg/migrator"
)

//go:embed *.sql
var MigrationsFS embed.FS

// GOOSE_COMMAND selects the goose command; it defaults to "up".
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	command := os.Getenv("GOOSE_COMMAND")
	if command == "" {
		command = "up"
	}

	if err := migrator.Run(context.Background(), cfg.DatabaseURL, MigrationsFS, command); err != nil {
		slog.Error("migration failed", "command", command, "error", err)
		os.Exit(1)
	}
	slog.Info("migrations applied", "command", command)
}
