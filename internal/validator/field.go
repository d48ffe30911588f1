package validator

// Field identifies one input of the registration form.
type Field int

const (
	FirstName Field = iota + 1
	LastName
	Phone
	Gender
	DateOfBirth
	EmployeeNumber
	EmployeeName
	Designation
	AccountType
	Experience
	BankName
	BranchName
	AccountNumber
	IFSCCode
	Document
)

// Page is the wizard step a field belongs to.
type Page int

const (
	PagePersonal Page = iota
	PageEmployment
	PageBanking
)

var pageFields = map[Page][]Field{
	PagePersonal:   {FirstName, LastName, Phone, Gender, DateOfBirth},
	PageEmployment: {EmployeeNumber, EmployeeName, Designation, AccountType, Experience},
	PageBanking:    {BankName, BranchName, AccountNumber, IFSCCode, Document},
}

var fieldLabels = map[Field]string{
	FirstName:      "First name",
	LastName:       "Last name",
	Phone:          "Phone number",
	Gender:         "Gender",
	DateOfBirth:    "Date of birth",
	EmployeeNumber: "Employee number",
	EmployeeName:   "Employee name",
	Designation:    "Designation",
	AccountType:    "Account type",
	Experience:     "Work experience",
	BankName:       "Bank name",
	BranchName:     "Branch name",
	AccountNumber:  "Account number",
	IFSCCode:       "IFSC code",
	Document:       "Document",
}

// Fields returns the fields of p in form order.
func Fields(p Page) []Field {
	out := make([]Field, len(pageFields[p]))
	copy(out, pageFields[p])
	return out
}

func (f Field) Page() Page {
	switch {
	case f >= FirstName && f <= DateOfBirth:
		return PagePersonal
	case f >= EmployeeNumber && f <= Experience:
		return PageEmployment
	default:
		return PageBanking
	}
}

func (f Field) Valid() bool {
	return f >= FirstName && f <= Document
}

func (f Field) String() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return "unknown"
}

func (p Page) String() string {
	switch p {
	case PagePersonal:
		return "Personal"
	case PageEmployment:
		return "Employee"
	case PageBanking:
		return "Bank"
	}
	return "unknown"
}
