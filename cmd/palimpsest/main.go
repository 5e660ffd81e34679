package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"

	"github.com/tsawler/palimpsest/internal/cli"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "error", err)
	}

	if err := fang.Execute(context.Background(), cli.RootCmd); err != nil {
		os.Exit(1)
	}
}
