package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/nkhare/armada/internal/cli"
	"github.com/nkhare/armada/internal/util"
)

func main() {
	// Optional .env for local development; ignore if absent
	_ = godotenv.Load()

	// Setup signal handling for graceful shutdown
	ctx := util.SetupSignalHandler()

	if err := cli.Execute(ctx); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
