package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/loomi-hq/hr-service/constants"
)

// DirStats summarizes one folder ingestion run.
type DirStats struct {
	Total  int
	Stored int
	// Flagged counts stored records whose confidence fell below the review
	// threshold; they also land in the exceptions CSV.
	Flagged int
	Failed  int
}

// exceptionRow is one line of the exceptions CSV: a failed or low-confidence
// document with whatever was extracted, for manual review.
type exceptionRow struct {
	sourceFile string
	confidence float64
	fields     map[constants.Field]*string
	scores     map[constants.Field]constants.Score
	err        string
}

// IngestDirectory processes every supported document in dir in name order.
// Unreadable and low-confidence documents are collected into the exceptions
// CSV at exceptionsOut (skipped when empty); per-file failures never stop
// the run.
func (s *Service) IngestDirectory(ctx context.Context, dir, exceptionsOut string) (DirStats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return DirStats{}, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if constants.MapExtToFormat(filepath.Ext(e.Name())) == "" {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	var (
		stats      DirStats
		exceptions []exceptionRow
	)
	stats.Total = len(paths)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		name := filepath.Base(path)

		res, err := s.IngestFile(ctx, path, name)
		if err != nil {
			stats.Failed++
			exceptions = append(exceptions, exceptionRow{sourceFile: name, err: err.Error()})
			continue
		}

		stats.Stored++
		if res.NeedsReview {
			stats.Flagged++
			exceptions = append(exceptions, exceptionRow{
				sourceFile: name,
				confidence: res.Confidence,
				fields:     res.Fields,
				scores:     res.Scores,
			})
		}
	}

	if len(exceptions) > 0 && exceptionsOut != "" {
		if err := writeExceptionsCSV(exceptionsOut, exceptions); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func exceptionHeader() []string {
	header := []string{"source_file", "confidence"}
	for _, f := range constants.AllFields() {
		header = append(header, string(f))
	}
	for _, f := range constants.AllFields() {
		if f == constants.InsuranceStatus {
			continue
		}
		header = append(header, "score_"+string(f))
	}
	return append(header, "error")
}

func writeExceptionsCSV(path string, rows []exceptionRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create exceptions csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(exceptionHeader()); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{r.sourceFile, strconv.FormatFloat(r.confidence, 'f', 2, 64)}
		for _, field := range constants.AllFields() {
			record = append(record, strVal(r.fields[field]))
		}
		for _, field := range constants.AllFields() {
			if field == constants.InsuranceStatus {
				continue
			}
			score := ""
			if r.scores != nil {
				score = strconv.FormatFloat(float64(r.scores[field]), 'f', 2, 64)
			}
			record = append(record, score)
		}
		record = append(record, r.err)
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write exceptions csv: %w", err)
	}
	return nil
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
