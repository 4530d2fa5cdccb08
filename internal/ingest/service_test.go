package ingest

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loomi-hq/hr-service/constants"
	"github.com/loomi-hq/hr-service/internal/parse"
	"github.com/loomi-hq/hr-service/internal/repository"
)

// stubParser resolves a fixed result per source filename, so tests can
// drive the service without documents or binaries.
type stubParser struct {
	results map[string]parse.Result
	err     error
}

func (p stubParser) Parse(_ context.Context, path string) (parse.Result, error) {
	if p.err != nil {
		return parse.Result{}, p.err
	}
	if r, ok := p.results[filepath.Base(path)]; ok {
		return r, nil
	}
	return parse.Result{
		Fields: map[constants.Field]*string{},
		Scores: map[constants.Field]constants.Score{},
	}, nil
}

func strp(s string) *string { return &s }

func fullResult(passport string) parse.Result {
	return parse.Result{
		Fields: map[constants.Field]*string{
			constants.FullName:       strp("FRANK OKELLO OMONDI"),
			constants.PassportNumber: strp(passport),
		},
		Scores: map[constants.Field]constants.Score{
			constants.FullName:       constants.ScoreMatched,
			constants.PassportNumber: constants.ScoreMatched,
		},
		Confidence: 1.0,
		DocType:    constants.DocTypeEmploymentContract,
	}
}

func TestIngestBytesStoresRecord(t *testing.T) {
	// The stub ignores content; the stage-to-temp-file path is what's
	// under test here.
	repo := repository.NewMemoryEmployeeRepository()
	svc := NewService(stubParser{}, repo, nil)

	res, err := svc.IngestBytes(context.Background(), []byte("%PDF-1.4"), "contract.pdf")
	require.NoError(t, err)
	require.Equal(t, "EID-1001", res.EmployeeID)
	require.True(t, res.NeedsReview) // empty extraction scores 0.0

	got, err := repo.Get(context.Background(), res.EmployeeID)
	require.NoError(t, err)
	require.Equal(t, "contract.pdf", got.SourceFile)
}

func TestIngestBytesRejectsMissingExtension(t *testing.T) {
	svc := NewService(stubParser{}, repository.NewMemoryEmployeeRepository(), nil)
	_, err := svc.IngestBytes(context.Background(), []byte("x"), "contract")
	require.Error(t, err)
}

func TestIngestFileFlagsLowConfidence(t *testing.T) {
	low := fullResult("A00580269")
	low.Scores[constants.JobTitle] = constants.ScoreDerived
	low.Confidence = 0.85

	repo := repository.NewMemoryEmployeeRepository()
	svc := NewService(stubParser{results: map[string]parse.Result{"offer.pdf": low}}, repo, nil)

	res, err := svc.IngestFile(context.Background(), "/tmp/offer.pdf", "offer.pdf")
	require.NoError(t, err)
	require.True(t, res.NeedsReview)

	// Stored despite the flag.
	exceptions, err := repo.Exceptions(context.Background())
	require.NoError(t, err)
	require.Len(t, exceptions, 1)
}

func TestIngestDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "b.pdf", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0o644))
	}

	low := fullResult("P10474550")
	low.Scores[constants.JobTitle] = constants.ScoreMissing
	low.Confidence = 0.0

	repo := repository.NewMemoryEmployeeRepository()
	svc := NewService(stubParser{results: map[string]parse.Result{
		"a.pdf": fullResult("A00580269"),
		"b.pdf": low,
	}}, repo, nil)

	out := filepath.Join(dir, "exceptions.csv")
	stats, err := svc.IngestDirectory(context.Background(), dir, out)
	require.NoError(t, err)

	// notes.txt is not a supported document.
	require.Equal(t, DirStats{Total: 2, Stored: 2, Flagged: 1, Failed: 0}, stats)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2) // header + one flagged row
	require.Equal(t, "b.pdf", records[1][0])
}

func TestIngestDirectoryEmptyFolder(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(stubParser{}, repository.NewMemoryEmployeeRepository(), nil)

	stats, err := svc.IngestDirectory(context.Background(), dir, filepath.Join(dir, "exceptions.csv"))
	require.NoError(t, err)
	require.Equal(t, DirStats{}, stats)
	_, statErr := os.Stat(filepath.Join(dir, "exceptions.csv"))
	require.True(t, os.IsNotExist(statErr))
}
