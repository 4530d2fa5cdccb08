// Package ingest glues extraction to storage: bytes in, stored employee
// record out. Every readable document is stored regardless of confidence;
// low-scoring records are flagged for review rather than rejected.
package ingest

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/loomi-hq/hr-service/constants"
	"github.com/loomi-hq/hr-service/internal/common"
	"github.com/loomi-hq/hr-service/internal/parse"
	"github.com/loomi-hq/hr-service/internal/repository"
)

// ContractParser is the extraction pipeline the service drives.
type ContractParser interface {
	Parse(ctx context.Context, path string) (parse.Result, error)
}

// Result is one ingested document: the assigned employee ID plus the
// extraction outcome the caller may want to surface.
type Result struct {
	EmployeeID  string
	Confidence  float64
	NeedsReview bool
	OCRUsed     bool
	DocType     constants.DocType
	Fields      map[constants.Field]*string
	Scores      map[constants.Field]constants.Score
}

type Service struct {
	parser ContractParser
	repo   repository.EmployeeRepository
	logger *slog.Logger
}

func NewService(parser ContractParser, repo repository.EmployeeRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{parser: parser, repo: repo, logger: logger}
}

// IngestFile parses the document at path and upserts the result.
// sourceName is the name recorded against the stored row; for uploads it
// is the client's filename, for folder ingestion the on-disk name.
func (s *Service) IngestFile(ctx context.Context, path, sourceName string) (Result, error) {
	start := time.Now()
	s.logger.Info("ingest.start", "source_file", sourceName)

	res, err := s.parser.Parse(ctx, path)
	if err != nil {
		s.logger.Error("ingest.parse_failed", "source_file", sourceName, "error", err)
		return Result{}, err
	}

	employeeID, err := s.repo.Upsert(ctx, repository.UpsertParams{
		Fields:     res.Fields,
		Scores:     res.Scores,
		Confidence: res.Confidence,
		DocType:    res.DocType,
		SourceFile: sourceName,
	})
	if err != nil {
		s.logger.Error("ingest.store_failed", "source_file", sourceName, "error", err)
		return Result{}, err
	}

	needsReview := res.Confidence < constants.ReviewThreshold
	s.logger.Info("ingest.ok",
		"source_file", sourceName,
		"employee_id", employeeID,
		"confidence", res.Confidence,
		"needs_review", needsReview,
		"ocr_used", res.OCRUsed,
		"doc_type", string(res.DocType),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return Result{
		EmployeeID:  employeeID,
		Confidence:  res.Confidence,
		NeedsReview: needsReview,
		OCRUsed:     res.OCRUsed,
		DocType:     res.DocType,
		Fields:      res.Fields,
		Scores:      res.Scores,
	}, nil
}

// IngestBytes stages uploaded document bytes in a temp file and ingests
// them. The temp file keeps the upload's extension so acquisition can
// route PDFs and images correctly.
func (s *Service) IngestBytes(ctx context.Context, contents []byte, filename string) (Result, error) {
	ext := constants.NormalizeExt(filepath.Ext(filename))
	if ext == "" {
		return Result{}, common.NewAppError("INVALID_FILE", "filename has no extension", common.ErrInvalidInput)
	}

	tmp, err := os.CreateTemp("", "hr-ingest-*."+ext)
	if err != nil {
		return Result{}, common.WrapError(err, "stage upload")
	}
	tmpPath := tmp.Name()
	defer func() {
		if err := os.Remove(tmpPath); err != nil {
			s.logger.Warn("ingest.tmp_cleanup_failed", "path", tmpPath, "error", err)
		}
	}()

	if _, err := tmp.Write(contents); err != nil {
		_ = tmp.Close()
		return Result{}, common.WrapError(err, "stage upload")
	}
	if err := tmp.Close(); err != nil {
		return Result{}, common.WrapError(err, "stage upload")
	}

	return s.IngestFile(ctx, tmpPath, filepath.Base(strings.TrimSpace(filename)))
}
