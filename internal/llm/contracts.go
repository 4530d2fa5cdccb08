// Package llm holds the provider-neutral pieces of the model fallback:
// field definitions, prompt construction, and schema validation. The
// provider client lives in the openai subpackage.
package llm

import "github.com/loomi-hq/hr-service/constants"

// fieldDefs describe each extractable field for the model. Wording matters:
// "Second Party / employee, not the employer" is what keeps the model off
// the sponsor company's details on a bilingual MOHRE form.
var fieldDefs = map[constants.Field]string{
	constants.FullName:           "Employee's full name (Second Party / employee, not the employer)",
	constants.Nationality:        "Employee's nationality (e.g. UGANDAN, PAKISTANI, SUDANESE)",
	constants.DateOfBirth:        "Employee's date of birth in DD/MM/YYYY format",
	constants.PassportNumber:     "Employee's passport number (alphanumeric, starts with a letter)",
	constants.JobTitle:           "Employee's job title or profession",
	constants.BaseSalary:         "Basic/base salary in AED, return a number only, no currency symbol",
	constants.TotalSalary:        "Total monthly salary in AED, return a number only, no currency symbol",
	constants.ContractStartDate:  "Date the employment contract starts or commences, in DD/MM/YYYY format",
	constants.ContractExpiryDate: "Date the employment contract ends or expires, in DD/MM/YYYY format",
	constants.MohreTransactionNo: "MOHRE or Ministry transaction/reference number (alphanumeric code)",
}

// DefinedFields filters the requested fields down to those the model can be
// asked about, preserving order. insurance_status has no definition and is
// never requested.
func DefinedFields(fields []constants.Field) []constants.Field {
	out := make([]constants.Field, 0, len(fields))
	for _, f := range fields {
		if _, ok := fieldDefs[f]; ok {
			out = append(out, f)
		}
	}
	return out
}
