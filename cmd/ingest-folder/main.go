// ingest-folder batch-ingests every contract document in a folder.
// Idempotent: documents whose passport or transaction number already
// exists update the stored record instead of duplicating it. Failed and
// low-confidence documents land in the exceptions CSV.
//
// Usage:
//
//	ingest-folder <folder> [--exceptions-out <path>]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/loomi-hq/hr-service/internal/app"
	"github.com/loomi-hq/hr-service/internal/common"
	"github.com/loomi-hq/hr-service/internal/ingest"
)

func main() {
	exceptionsOut := flag.String("exceptions-out", "exceptions.csv", "path for the exceptions CSV")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: ingest-folder <folder> [--exceptions-out <path>]")
		os.Exit(1)
	}
	dir := flag.Arg(0)
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		fmt.Fprintf(os.Stderr, "Not a directory: %s\n", dir)
		os.Exit(1)
	}

	_ = godotenv.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, repo, cleanup, err := app.OpenRepository(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Startup failed: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	svc := ingest.NewService(app.NewParser(cfg, logger), repo, logger)

	stats, err := svc.IngestDirectory(ctx, dir, *exceptionsOut)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Folder ingest failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("----------------------------------------")
	fmt.Printf("%-28s %d\n", "Total documents processed", stats.Total)
	fmt.Printf("%-28s %d\n", "Stored / updated", stats.Stored)
	fmt.Printf("%-28s %d\n", "Flagged for review", stats.Flagged)
	fmt.Printf("%-28s %d\n", "Failed", stats.Failed)
	fmt.Println("----------------------------------------")
	if stats.Flagged > 0 || stats.Failed > 0 {
		fmt.Printf("Exceptions written to: %s\n", *exceptionsOut)
		os.Exit(1)
	}
}
