package domain

// Gender values accepted by the personal step.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Account types accepted by the employment step.
const (
	AccountSaving  = "Saving"
	AccountCurrent = "Current"
	AccountOther   = "Other"
)

// Experience bands, in ascending order.
const (
	Experience1Year  = "1 Year"
	Experience2Years = "2 Years"
	Experience3Years = "3 Years"
	Experience4Plus  = "4+ Years"
)

var (
	Genders      = []string{GenderMale, GenderFemale, GenderOther}
	AccountTypes = []string{AccountSaving, AccountCurrent, AccountOther}
	Experiences  = []string{Experience1Year, Experience2Years, Experience3Years, Experience4Plus}
)

type PersonalInfo struct {
	FirstName   string
	LastName    string
	Phone       string
	Gender      string
	DateOfBirth string
}

type EmploymentInfo struct {
	EmployeeNumber string
	EmployeeName   string
	Designation    string
	AccountType    string
	Experience     string
}

type BankingInfo struct {
	BankName      string
	BranchName    string
	AccountNumber string
	IFSCCode      string
	DocumentRef   string
}

// EmployeeRecord is the unit of persistence. ID is zero until the record
// has been stored; ImageRef is empty when no document was attached.
type EmployeeRecord struct {
	ID         int64
	Personal   PersonalInfo
	Employment EmploymentInfo
	Banking    BankingInfo
	ImageRef   string
}

func (r EmployeeRecord) Persisted() bool {
	return r.ID > 0
}

// FullName joins first and last name for display.
func (r EmployeeRecord) FullName() string {
	if r.Personal.LastName == "" {
		return r.Personal.FirstName
	}
	return r.Personal.FirstName + " " + r.Personal.LastName
}

// ExperienceRank returns the position of band in Experiences, or -1.
func ExperienceRank(band string) int {
	for i, e := range Experiences {
		if e == band {
			return i
		}
	}
	return -1
}

func Contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
