// Package export renders the employee roster as CSV or XLSX, enriched
// with contract-expiry countdown columns for the HR review sheet.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/loomi-hq/hr-service/internal/entity"
	"github.com/loomi-hq/hr-service/internal/repository"
)

// Columns is the roster layout: every stored column plus the two derived
// expiry columns. Downstream sheets key on these names, so order is part
// of the contract.
var Columns = []string{
	"employee_id",
	"full_name",
	"nationality",
	"date_of_birth",
	"passport_number",
	"job_title",
	"base_salary",
	"total_salary",
	"contract_start_date",
	"contract_expiry_date",
	"insurance_status",
	"mohre_transaction_no",
	"source_file",
	"confidence_score",
	"ingested_at",
	"days_until_expiry",
	"expiry_flag",
}

type Service struct {
	repo        repository.EmployeeRepository
	warningDays int
	logger      *slog.Logger

	// now is swapped in tests to pin the expiry countdown.
	now func() time.Time
}

func NewService(repo repository.EmployeeRepository, warningDays int, logger *slog.Logger) *Service {
	if warningDays <= 0 {
		warningDays = 30
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, warningDays: warningDays, logger: logger, now: time.Now}
}

// ExportCSV returns the full roster as CSV bytes.
func (s *Service) ExportCSV(ctx context.Context) ([]byte, error) {
	start := time.Now()
	employees, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Columns); err != nil {
		return nil, err
	}
	for i := range employees {
		if err := w.Write(s.row(&employees[i])); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv write: %w", err)
	}

	s.logger.Info("export.csv.ok",
		"rows", len(employees),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// ExportXLSX returns the same roster as an XLSX workbook.
func (s *Service) ExportXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()
	employees, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Employees"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for rowIdx := range employees {
		for colIdx, v := range s.row(&employees[rowIdx]) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 12) // employee id
	_ = f.SetColWidth(sheet, "B", "B", 28) // name
	_ = f.SetColWidth(sheet, "E", "E", 16) // passport
	_ = f.SetColWidth(sheet, "I", "J", 18) // contract dates
	_ = f.SetColWidth(sheet, "L", "M", 24) // transaction no, source file

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(employees),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (s *Service) row(e *entity.Employee) []string {
	days, hasDays := s.daysUntilExpiry(e)

	daysStr := ""
	if hasDays {
		daysStr = strconv.Itoa(days)
	}
	flag := hasDays && days < s.warningDays

	return []string{
		e.EmployeeID,
		deref(e.FullName),
		deref(e.Nationality),
		deref(e.DateOfBirth),
		deref(e.PassportNumber),
		deref(e.JobTitle),
		deref(e.BaseSalary),
		deref(e.TotalSalary),
		deref(e.ContractStartDate),
		deref(e.ContractExpiryDate),
		deref(e.InsuranceStatus),
		deref(e.MohreTransactionNo),
		e.SourceFile,
		strconv.FormatFloat(e.ConfidenceScore, 'f', 2, 64),
		e.IngestedAt,
		daysStr,
		strconv.FormatBool(flag),
	}
}

// daysUntilExpiry counts whole days from today to the contract expiry; a
// missing or malformed expiry date yields no countdown rather than an error.
func (s *Service) daysUntilExpiry(e *entity.Employee) (int, bool) {
	if e.ContractExpiryDate == nil || *e.ContractExpiryDate == "" {
		return 0, false
	}
	expiry, err := time.Parse("2006-01-02", *e.ContractExpiryDate)
	if err != nil {
		return 0, false
	}
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(expiry.Sub(today).Hours() / 24), true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
