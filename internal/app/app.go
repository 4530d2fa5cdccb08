// Package app wires configuration into the service graph shared by the
// daemon and the CLI tools.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loomi-hq/hr-service/internal/common"
	"github.com/loomi-hq/hr-service/internal/llm/openai"
	"github.com/loomi-hq/hr-service/internal/parse"
	"github.com/loomi-hq/hr-service/internal/repository"
	"github.com/loomi-hq/hr-service/internal/textract"
)

// OpenRepository connects to Postgres, verifies connectivity, and ensures
// the schema exists. The returned cleanup closes the pool.
func OpenRepository(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*pgxpool.Pool, *repository.PGEmployeeRepository, func(), error) {
	pool, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := repository.HealthCheck(ctx, pool, 5*time.Second, logger); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}
	if err := repository.InitSchema(ctx, pool, logger); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}
	cleanup := func() { repository.Close(pool, logger) }
	return pool, repository.NewPGEmployeeRepository(pool, logger), cleanup, nil
}

// NewParser builds the extraction pipeline: acquirer plus the model
// fallback when an API key is configured.
func NewParser(cfg *common.Config, logger *slog.Logger) *parse.Parser {
	acquirer := textract.NewAcquirer(textract.Config{
		Pdftotext:    cfg.Acquire.Pdftotext,
		Pdftoppm:     cfg.Acquire.Pdftoppm,
		Tesseract:    cfg.Acquire.Tesseract,
		TessdataDir:  cfg.Acquire.TessdataDir,
		Language:     cfg.Acquire.Language,
		DPI:          cfg.Acquire.DPI,
		MinTextChars: cfg.Acquire.MinTextChars,
		InProcessOCR: cfg.Acquire.InProcessOCR,
	}, logger)

	var fallback parse.Fallback
	if cfg.LLM.APIKey != "" {
		fallback = openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
			MaxTextLen:  cfg.LLM.MaxTextLen,
		}, logger)
	} else {
		logger.Warn("OPENAI_API_KEY not set; model fallback disabled")
	}
	return parse.NewParser(acquirer, fallback, logger)
}
