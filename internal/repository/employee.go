package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loomi-hq/hr-service/constants"
	"github.com/loomi-hq/hr-service/internal/common"
	"github.com/loomi-hq/hr-service/internal/entity"
)

// UpsertParams carries one extraction result into storage. Every record is
// stored regardless of confidence; low scores surface through the
// exceptions queue instead of being rejected.
type UpsertParams struct {
	Fields     map[constants.Field]*string
	Scores     map[constants.Field]constants.Score
	Confidence float64
	DocType    constants.DocType
	SourceFile string
}

// EmployeeRepository is the storage interface the pipeline and API depend on.
type EmployeeRepository interface {
	// Upsert inserts or updates a record, deduplicating on passport number
	// or MOHRE transaction number. Returns the employee ID.
	Upsert(ctx context.Context, p UpsertParams) (string, error)
	List(ctx context.Context) ([]entity.Employee, error)
	Get(ctx context.Context, employeeID string) (*entity.Employee, error)
	// Exceptions returns records with any field score below the review
	// threshold, insurance_status excluded.
	Exceptions(ctx context.Context) ([]entity.Employee, error)
}

// FormatEID renders a sequence value as an employee ID: 1 -> EID-1001.
func FormatEID(seq int64) string {
	return fmt.Sprintf("EID-10%02d", seq)
}

type PGEmployeeRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPGEmployeeRepository(pool *pgxpool.Pool, logger *slog.Logger) *PGEmployeeRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PGEmployeeRepository{pool: pool, logger: logger}
}

const employeeColumns = `
employee_id, full_name, nationality, date_of_birth, passport_number,
job_title, base_salary::text, total_salary::text, contract_start_date,
contract_expiry_date, insurance_status, mohre_transaction_no,
COALESCE(source_file, ''), COALESCE(confidence_score, 0)::float8,
COALESCE(field_scores, '{}'::jsonb),
COALESCE(source_doc_type, 'unknown'), COALESCE(ingested_at, '')`

func (r *PGEmployeeRepository) Upsert(ctx context.Context, p UpsertParams) (string, error) {
	scoresJSON, err := json.Marshal(scoreMap(p.Scores))
	if err != nil {
		return "", fmt.Errorf("marshal field scores: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", common.WrapError(err, "begin upsert")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// NULL dedup keys never match: a record with neither passport nor
	// transaction number always inserts fresh.
	var employeeID string
	err = tx.QueryRow(ctx,
		`SELECT employee_id FROM employees
		 WHERE passport_number = $1 OR mohre_transaction_no = $2`,
		p.Fields[constants.PassportNumber], p.Fields[constants.MohreTransactionNo],
	).Scan(&employeeID)

	switch {
	case err == nil:
		// Re-ingest of a known employee: refresh everything except the
		// dedup keys and the assigned ID.
		_, err = tx.Exec(ctx,
			`UPDATE employees SET
			    full_name=$1, nationality=$2, date_of_birth=$3, job_title=$4,
			    base_salary=$5::numeric, total_salary=$6::numeric,
			    contract_start_date=$7, contract_expiry_date=$8,
			    insurance_status=$9, source_file=$10, confidence_score=$11,
			    field_scores=$12::jsonb, source_doc_type=$13, ingested_at=$14
			 WHERE employee_id=$15`,
			p.Fields[constants.FullName],
			p.Fields[constants.Nationality],
			p.Fields[constants.DateOfBirth],
			p.Fields[constants.JobTitle],
			p.Fields[constants.BaseSalary],
			p.Fields[constants.TotalSalary],
			p.Fields[constants.ContractStartDate],
			p.Fields[constants.ContractExpiryDate],
			p.Fields[constants.InsuranceStatus],
			p.SourceFile,
			p.Confidence,
			scoresJSON,
			string(p.DocType),
			now,
			employeeID,
		)
		if err != nil {
			return "", common.WrapError(err, "update employee")
		}
		r.logger.Info("employee.updated", "employee_id", employeeID, "source_file", p.SourceFile)

	case errors.Is(err, pgx.ErrNoRows):
		var seq int64
		if err := tx.QueryRow(ctx, `SELECT nextval('eid_seq')`).Scan(&seq); err != nil {
			return "", common.WrapError(err, "next employee id")
		}
		employeeID = FormatEID(seq)
		_, err = tx.Exec(ctx,
			`INSERT INTO employees (
			    employee_id, full_name, nationality, date_of_birth, passport_number,
			    job_title, base_salary, total_salary, contract_start_date,
			    contract_expiry_date, insurance_status, mohre_transaction_no,
			    source_file, confidence_score, field_scores, source_doc_type, ingested_at
			 ) VALUES ($1,$2,$3,$4,$5,$6,$7::numeric,$8::numeric,$9,$10,$11,$12,$13,$14,$15::jsonb,$16,$17)`,
			employeeID,
			p.Fields[constants.FullName],
			p.Fields[constants.Nationality],
			p.Fields[constants.DateOfBirth],
			p.Fields[constants.PassportNumber],
			p.Fields[constants.JobTitle],
			p.Fields[constants.BaseSalary],
			p.Fields[constants.TotalSalary],
			p.Fields[constants.ContractStartDate],
			p.Fields[constants.ContractExpiryDate],
			p.Fields[constants.InsuranceStatus],
			p.Fields[constants.MohreTransactionNo],
			p.SourceFile,
			p.Confidence,
			scoresJSON,
			string(p.DocType),
			now,
		)
		if err != nil {
			return "", common.WrapError(err, "insert employee")
		}
		r.logger.Info("employee.created", "employee_id", employeeID, "source_file", p.SourceFile)

	default:
		return "", common.WrapError(err, "lookup employee")
	}

	if err := tx.Commit(ctx); err != nil {
		return "", common.WrapError(err, "commit upsert")
	}
	return employeeID, nil
}

func (r *PGEmployeeRepository) List(ctx context.Context) ([]entity.Employee, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+employeeColumns+` FROM employees ORDER BY employee_id`)
	if err != nil {
		return nil, common.WrapError(err, "list employees")
	}
	defer rows.Close()

	out := make([]entity.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapError(err, "iterate employees")
	}
	return out, nil
}

func (r *PGEmployeeRepository) Get(ctx context.Context, employeeID string) (*entity.Employee, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE employee_id = $1`, employeeID)
	if err != nil {
		return nil, common.WrapError(err, "get employee")
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, common.WrapError(err, "get employee")
		}
		return nil, common.ErrNotFound
	}
	e, err := scanEmployee(rows)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *PGEmployeeRepository) Exceptions(ctx context.Context) ([]entity.Employee, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Employee, 0)
	for _, e := range all {
		if e.NeedsReview() {
			out = append(out, e)
		}
	}
	return out, nil
}

func scanEmployee(rows pgx.Rows) (entity.Employee, error) {
	var (
		e      entity.Employee
		scores []byte
	)
	if err := rows.Scan(
		&e.EmployeeID, &e.FullName, &e.Nationality, &e.DateOfBirth,
		&e.PassportNumber, &e.JobTitle, &e.BaseSalary, &e.TotalSalary,
		&e.ContractStartDate, &e.ContractExpiryDate, &e.InsuranceStatus,
		&e.MohreTransactionNo, &e.SourceFile, &e.ConfidenceScore,
		&scores, &e.SourceDocType, &e.IngestedAt,
	); err != nil {
		return entity.Employee{}, common.WrapError(err, "scan employee")
	}
	if err := json.Unmarshal(scores, &e.FieldScores); err != nil {
		return entity.Employee{}, common.WrapError(err, "decode field scores")
	}
	return e, nil
}

func scoreMap(scores map[constants.Field]constants.Score) map[string]float64 {
	out := make(map[string]float64, len(scores))
	for f, s := range scores {
		out[string(f)] = float64(s)
	}
	return out
}
