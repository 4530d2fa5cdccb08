// Package entity holds the storage-facing domain types shared by the
// repository, server, and export layers.
package entity

import (
	"github.com/loomi-hq/hr-service/constants"
)

// Employee is one stored HR record. Pointer fields are nullable in the
// database; an unresolved extraction stores NULL, never an empty string.
// Dates are ISO-8601 strings and salaries canonical decimal strings; the
// formats are fixed upstream by extraction, so the storage layer does not
// re-parse them.
type Employee struct {
	EmployeeID         string             `json:"employee_id"`
	FullName           *string            `json:"full_name"`
	Nationality        *string            `json:"nationality"`
	DateOfBirth        *string            `json:"date_of_birth"`
	PassportNumber     *string            `json:"passport_number"`
	JobTitle           *string            `json:"job_title"`
	BaseSalary         *string            `json:"base_salary"`
	TotalSalary        *string            `json:"total_salary"`
	ContractStartDate  *string            `json:"contract_start_date"`
	ContractExpiryDate *string            `json:"contract_expiry_date"`
	InsuranceStatus    *string            `json:"insurance_status"`
	MohreTransactionNo *string            `json:"mohre_transaction_no"`
	SourceFile         string             `json:"source_file"`
	ConfidenceScore    float64            `json:"confidence_score"`
	FieldScores        map[string]float64 `json:"field_scores"`
	SourceDocType      string             `json:"source_doc_type"`
	IngestedAt         string             `json:"ingested_at"`
}

// Field returns the employee's value for one extraction field.
func (e *Employee) Field(f constants.Field) *string {
	switch f {
	case constants.FullName:
		return e.FullName
	case constants.Nationality:
		return e.Nationality
	case constants.DateOfBirth:
		return e.DateOfBirth
	case constants.PassportNumber:
		return e.PassportNumber
	case constants.JobTitle:
		return e.JobTitle
	case constants.BaseSalary:
		return e.BaseSalary
	case constants.TotalSalary:
		return e.TotalSalary
	case constants.ContractStartDate:
		return e.ContractStartDate
	case constants.ContractExpiryDate:
		return e.ContractExpiryDate
	case constants.InsuranceStatus:
		return e.InsuranceStatus
	case constants.MohreTransactionNo:
		return e.MohreTransactionNo
	}
	return nil
}

// NeedsReview reports whether any field score sits below the review
// threshold. insurance_status is excluded: it is null by policy until the
// benefits feed lands and would otherwise flag every record.
func (e *Employee) NeedsReview() bool {
	for field, score := range e.FieldScores {
		if field == string(constants.InsuranceStatus) {
			continue
		}
		if score < constants.ReviewThreshold {
			return true
		}
	}
	return false
}
