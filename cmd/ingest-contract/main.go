// ingest-contract parses one contract document and upserts it into the
// employee database, printing the per-field extraction table.
//
// Usage:
//
//	ingest-contract <path-to-document>
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/loomi-hq/hr-service/constants"
	"github.com/loomi-hq/hr-service/internal/app"
	"github.com/loomi-hq/hr-service/internal/common"
	"github.com/loomi-hq/hr-service/internal/ingest"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: ingest-contract <path-to-document>")
		os.Exit(1)
	}
	path := os.Args[1]
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(os.Stderr, "File not found: %s\n", path)
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

	fmt.Printf("Parsing: %s\n", filepath.Base(path))
	res, err := svc.IngestFile(ctx, path, filepath.Base(path))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ingest failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n%-25s %-35s Score\n", "Field", "Value")
	fmt.Println("-----------------------------------------------------------------")
	for _, f := range constants.AllFields() {
		value := "<null>"
		if v := res.Fields[f]; v != nil {
			value = *v
		}
		score := float64(res.Scores[f])
		flag := ""
		if score < 1.0 {
			flag = " <-- LOW"
		}
		fmt.Printf("%-25s %-35s %.2f%s\n", f, value, score, flag)
	}

	fmt.Printf("\nRecord confidence: %.2f\n", res.Confidence)
	fmt.Printf("Stored: %s\n", res.EmployeeID)
	if res.NeedsReview {
		fmt.Println("Flagged for review (one or more fields below threshold).")
		os.Exit(1)
	}
}
