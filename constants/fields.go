package constants

// Field names one extraction target on a contract document.
type Field string

const (
	FullName           Field = "full_name"
	Nationality        Field = "nationality"
	DateOfBirth        Field = "date_of_birth"
	PassportNumber     Field = "passport_number"
	JobTitle           Field = "job_title"
	BaseSalary         Field = "base_salary"
	TotalSalary        Field = "total_salary"
	ContractStartDate  Field = "contract_start_date"
	ContractExpiryDate Field = "contract_expiry_date"
	MohreTransactionNo Field = "mohre_transaction_no"
	InsuranceStatus    Field = "insurance_status"
)

// allFields is the canonical ordering; stored rows and exports follow it.
var allFields = []Field{
	FullName,
	Nationality,
	DateOfBirth,
	PassportNumber,
	JobTitle,
	BaseSalary,
	TotalSalary,
	ContractStartDate,
	ContractExpiryDate,
	MohreTransactionNo,
	InsuranceStatus,
}

// AllFields returns every field in canonical order.
func AllFields() []Field {
	out := make([]Field, len(allFields))
	copy(out, allFields)
	return out
}

// DateFields hold DD/MM/YYYY values in source documents, ISO-8601 in output.
var DateFields = map[Field]struct{}{
	DateOfBirth:        {},
	ContractStartDate:  {},
	ContractExpiryDate: {},
}

// DecimalFields hold AED amounts; output is a bare decimal string.
var DecimalFields = map[Field]struct{}{
	BaseSalary:  {},
	TotalSalary: {},
}

func (f Field) IsDate() bool {
	_, ok := DateFields[f]
	return ok
}

func (f Field) IsDecimal() bool {
	_, ok := DecimalFields[f]
	return ok
}

// DocType labels which known template a document matches.
type DocType string

const (
	DocTypeEmploymentContract DocType = "employment_contract"
	DocTypeJobOffer           DocType = "job_offer"
	DocTypeUnknown            DocType = "unknown"
)
