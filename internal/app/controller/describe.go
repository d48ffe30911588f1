package controller

import (
	"fmt"
	"strings"

	"employee-bot/internal/domain"
)

// Describe renders one employee as plain text.
func Describe(r domain.EmployeeRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (ID %d)\n\n", r.Employment.EmployeeName, r.ID)
	fmt.Fprintf(&b, "Personal\n")
	fmt.Fprintf(&b, "Name: %s\n", r.FullName())
	fmt.Fprintf(&b, "Phone: %s\n", r.Personal.Phone)
	fmt.Fprintf(&b, "Gender: %s\n", r.Personal.Gender)
	fmt.Fprintf(&b, "Date of birth: %s\n\n", r.Personal.DateOfBirth)
	fmt.Fprintf(&b, "Employment\n")
	fmt.Fprintf(&b, "Number: %s\n", r.Employment.EmployeeNumber)
	fmt.Fprintf(&b, "Designation: %s\n", r.Employment.Designation)
	fmt.Fprintf(&b, "Account type: %s\n", r.Employment.AccountType)
	fmt.Fprintf(&b, "Experience: %s\n\n", r.Employment.Experience)
	fmt.Fprintf(&b, "Bank\n")
	fmt.Fprintf(&b, "Bank: %s, %s\n", r.Banking.BankName, r.Banking.BranchName)
	fmt.Fprintf(&b, "Account: %s\n", r.Banking.AccountNumber)
	fmt.Fprintf(&b, "IFSC: %s", r.Banking.IFSCCode)
	if r.ImageRef != "" {
		b.WriteString("\nDocument: attached")
	}
	return b.String()
}
