package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/loomi-hq/hr-service/constants"
	"github.com/loomi-hq/hr-service/internal/common"
	"github.com/loomi-hq/hr-service/internal/entity"
)

// MemoryEmployeeRepository implements EmployeeRepository in memory with the
// same dedup and ID-assignment semantics as the Postgres implementation.
// It backs handler and pipeline tests; it is not meant for production use.
type MemoryEmployeeRepository struct {
	mu      sync.Mutex
	seq     int64
	records map[string]entity.Employee
}

func NewMemoryEmployeeRepository() *MemoryEmployeeRepository {
	return &MemoryEmployeeRepository{records: make(map[string]entity.Employee)}
}

func (r *MemoryEmployeeRepository) Upsert(_ context.Context, p UpsertParams) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	passport := p.Fields[constants.PassportNumber]
	txn := p.Fields[constants.MohreTransactionNo]

	var employeeID string
	for id, e := range r.records {
		if (passport != nil && e.PassportNumber != nil && *passport == *e.PassportNumber) ||
			(txn != nil && e.MohreTransactionNo != nil && *txn == *e.MohreTransactionNo) {
			employeeID = id
			break
		}
	}

	isNew := employeeID == ""
	if isNew {
		r.seq++
		employeeID = FormatEID(r.seq)
	}

	e := entity.Employee{
		EmployeeID:         employeeID,
		FullName:           p.Fields[constants.FullName],
		Nationality:        p.Fields[constants.Nationality],
		DateOfBirth:        p.Fields[constants.DateOfBirth],
		JobTitle:           p.Fields[constants.JobTitle],
		BaseSalary:         p.Fields[constants.BaseSalary],
		TotalSalary:        p.Fields[constants.TotalSalary],
		ContractStartDate:  p.Fields[constants.ContractStartDate],
		ContractExpiryDate: p.Fields[constants.ContractExpiryDate],
		InsuranceStatus:    p.Fields[constants.InsuranceStatus],
		SourceFile:         p.SourceFile,
		ConfidenceScore:    p.Confidence,
		FieldScores:        scoreMap(p.Scores),
		SourceDocType:      string(p.DocType),
		IngestedAt:         time.Now().UTC().Format(time.RFC3339),
	}
	if isNew {
		e.PassportNumber = passport
		e.MohreTransactionNo = txn
	} else {
		// Dedup keys are immutable once assigned, matching the UPDATE
		// column list in the Postgres implementation.
		prev := r.records[employeeID]
		e.PassportNumber = prev.PassportNumber
		e.MohreTransactionNo = prev.MohreTransactionNo
	}
	r.records[employeeID] = e
	return employeeID, nil
}

func (r *MemoryEmployeeRepository) List(context.Context) ([]entity.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entity.Employee, 0, len(r.records))
	for _, e := range r.records {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (r *MemoryEmployeeRepository) Get(_ context.Context, employeeID string) (*entity.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.records[employeeID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &e, nil
}

func (r *MemoryEmployeeRepository) Exceptions(ctx context.Context) ([]entity.Employee, error) {
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
