package main

import (
	"context"
	"fmt"
	"os"

	"github.com/de-tools/finance-atlas/pkg/runtime/app"
	"github.com/de-tools/finance-atlas/pkg/runtime/terminal"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	logger := app.NewLogger(os.Stderr, os.Getenv("FINANCE_LOG_LEVEL"))
	ctx := logger.WithContext(context.Background())

	cli := terminal.NewCLI(terminal.Options{
		Output: os.Stdout,
	})

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
