package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/loomi-hq/hr-service/constants"
	"github.com/loomi-hq/hr-service/internal/repository"
)

func strp(s string) *string { return &s }

func seed(t *testing.T, repo repository.EmployeeRepository, passport, expiry string) string {
	t.Helper()
	fields := map[constants.Field]*string{
		constants.FullName:       strp("FRANK OKELLO OMONDI"),
		constants.PassportNumber: strp(passport),
	}
	if expiry != "" {
		fields[constants.ContractExpiryDate] = strp(expiry)
	}
	id, err := repo.Upsert(context.Background(), repository.UpsertParams{
		Fields: fields,
		Scores: map[constants.Field]constants.Score{
			constants.FullName: constants.ScoreMatched,
		},
		Confidence: 1.0,
		DocType:    constants.DocTypeEmploymentContract,
		SourceFile: "contract.pdf",
	})
	require.NoError(t, err)
	return id
}

func fixedNow() time.Time {
	return time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
}

func TestExportCSVExpiryColumns(t *testing.T) {
	repo := repository.NewMemoryEmployeeRepository()
	seed(t, repo, "A00580269", "2026-03-15") // 14 days out: flagged
	seed(t, repo, "P10474550", "2027-01-01") // far out: not flagged
	seed(t, repo, "B11111111", "")           // no expiry: empty countdown

	svc := NewService(repo, 30, nil)
	svc.now = fixedNow

	out, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	require.Equal(t, Columns, records[0])

	byPassport := map[string][]string{}
	for _, rec := range records[1:] {
		byPassport[rec[4]] = rec
	}

	soon := byPassport["A00580269"]
	require.Equal(t, "14", soon[15])
	require.Equal(t, "true", soon[16])

	far := byPassport["P10474550"]
	require.Equal(t, "306", far[15])
	require.Equal(t, "false", far[16])

	none := byPassport["B11111111"]
	require.Equal(t, "", none[15])
	require.Equal(t, "false", none[16])
}

func TestExportCSVMalformedExpiry(t *testing.T) {
	repo := repository.NewMemoryEmployeeRepository()
	seed(t, repo, "A00580269", "15/03/2026") // not ISO: no countdown

	svc := NewService(repo, 30, nil)
	svc.now = fixedNow

	out, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Equal(t, "", records[1][15])
	require.Equal(t, "false", records[1][16])
}

func TestExportXLSX(t *testing.T) {
	repo := repository.NewMemoryEmployeeRepository()
	seed(t, repo, "A00580269", "2026-03-15")

	svc := NewService(repo, 30, nil)
	svc.now = fixedNow

	out, err := svc.ExportXLSX(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Employees")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "employee_id", rows[0][0])
	require.Equal(t, "FRANK OKELLO OMONDI", rows[1][1])
}
