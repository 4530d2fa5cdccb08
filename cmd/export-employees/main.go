// export-employees writes the employee roster, with contract-expiry
// countdown columns, to a CSV or XLSX file.
//
// Usage:
//
//	export-employees [--out employees.csv] [--format csv|xlsx]
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
	"github.com/loomi-hq/hr-service/internal/export"
)

func main() {
	out := flag.String("out", "employees.csv", "output file path")
	format := flag.String("format", "csv", "output format: csv or xlsx")
	flag.Parse()

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

	svc := export.NewService(repo, cfg.Export.ExpiryWarningDays, logger)

	var data []byte
	switch *format {
	case "csv":
		data, err = svc.ExportCSV(ctx)
	case "xlsx":
		data, err = svc.ExportXLSX(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown format: %s\n", *format)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Write failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Exported roster to: %s\n", *out)
}
