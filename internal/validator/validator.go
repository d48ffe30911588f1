// Package validator holds the per-field rules of the registration form.
// Every rule is pure: a nil *Failure means the value passed.
package validator

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"employee-bot/internal/domain"
)

// Failure is the validation message attached to one field.
type Failure struct {
	Message string
}

var (
	phonePattern          = regexp.MustCompile(`^[6-9]\d{9}$`)
	employeeNumberPattern = regexp.MustCompile(`^[A-Za-z0-9]{3,}$`)
	accountNumberPattern  = regexp.MustCompile(`^\d{9,18}$`)
	ifscPattern           = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
)

// Validate runs the rule for field against raw.
func Validate(field Field, raw string) *Failure {
	switch field {
	case FirstName:
		return name(raw, "First name", "First name cannot contain digits")
	case LastName:
		return name(raw, "Last name", "Last name cannot contain digits")
	case EmployeeName:
		return name(raw, "Employee name", "Name should not contain numbers")
	case Phone:
		return pattern(raw, phonePattern, "Phone number cannot be empty", "Enter a valid 10-digit phone number")
	case Gender:
		return choice(raw, domain.Genders, "Please select a gender", "Invalid gender selected")
	case DateOfBirth:
		// Only blankness is checked; the picker supplies the format.
		return required(raw, "Date of birth cannot be empty")
	case EmployeeNumber:
		return pattern(raw, employeeNumberPattern, "Employee number cannot be empty", "Invalid employee number")
	case Designation:
		return required(raw, "Designation cannot be empty")
	case AccountType:
		return choice(raw, domain.AccountTypes, "Please select an account type", "Invalid account type selected")
	case Experience:
		return required(raw, "Please select work experience")
	case BankName:
		return required(raw, "Bank name cannot be empty")
	case BranchName:
		return required(raw, "Branch name cannot be empty")
	case AccountNumber:
		return pattern(raw, accountNumberPattern, "Account number cannot be empty", "Enter a valid account number")
	case IFSCCode:
		return pattern(raw, ifscPattern, "IFSC code cannot be empty", "Enter a valid IFSC code")
	case Document:
		if raw == "" {
			return &Failure{Message: "Please select document"}
		}
		return nil
	}
	return &Failure{Message: "Unknown field"}
}

// Blank reports whether s is empty or whitespace only.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func required(raw, emptyMsg string) *Failure {
	if Blank(raw) {
		return &Failure{Message: emptyMsg}
	}
	return nil
}

func name(raw, label, digitMsg string) *Failure {
	if Blank(raw) {
		return &Failure{Message: label + " cannot be empty"}
	}
	if utf8.RuneCountInString(raw) < 3 {
		return &Failure{Message: label + " must be at least 3 characters"}
	}
	if strings.IndexFunc(raw, unicode.IsDigit) >= 0 {
		return &Failure{Message: digitMsg}
	}
	return nil
}

func pattern(raw string, re *regexp.Regexp, emptyMsg, invalidMsg string) *Failure {
	if Blank(raw) {
		return &Failure{Message: emptyMsg}
	}
	if !re.MatchString(raw) {
		return &Failure{Message: invalidMsg}
	}
	return nil
}

func choice(raw string, options []string, emptyMsg, invalidMsg string) *Failure {
	if Blank(raw) {
		return &Failure{Message: emptyMsg}
	}
	if !domain.Contains(options, raw) {
		return &Failure{Message: invalidMsg}
	}
	return nil
}
