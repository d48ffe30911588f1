package validator

import "employee-bot/internal/domain"

// FieldFailure pairs a field with the rule it broke.
type FieldFailure struct {
	Field   Field
	Failure Failure
}

// Value reads field out of rec.
func Value(rec domain.EmployeeRecord, field Field) string {
	switch field {
	case FirstName:
		return rec.Personal.FirstName
	case LastName:
		return rec.Personal.LastName
	case Phone:
		return rec.Personal.Phone
	case Gender:
		return rec.Personal.Gender
	case DateOfBirth:
		return rec.Personal.DateOfBirth
	case EmployeeNumber:
		return rec.Employment.EmployeeNumber
	case EmployeeName:
		return rec.Employment.EmployeeName
	case Designation:
		return rec.Employment.Designation
	case AccountType:
		return rec.Employment.AccountType
	case Experience:
		return rec.Employment.Experience
	case BankName:
		return rec.Banking.BankName
	case BranchName:
		return rec.Banking.BranchName
	case AccountNumber:
		return rec.Banking.AccountNumber
	case IFSCCode:
		return rec.Banking.IFSCCode
	case Document:
		if rec.Banking.DocumentRef != "" {
			return rec.Banking.DocumentRef
		}
		return rec.ImageRef
	}
	return ""
}

// ValidateRecord applies every rule to an already composed record, for
// records that did not come through the wizard.
func ValidateRecord(rec domain.EmployeeRecord) []FieldFailure {
	var out []FieldFailure
	for _, p := range []Page{PagePersonal, PageEmployment, PageBanking} {
		for _, f := range pageFields[p] {
			if fail := Validate(f, Value(rec, f)); fail != nil {
				out = append(out, FieldFailure{Field: f, Failure: *fail})
			}
		}
	}
	return out
}
