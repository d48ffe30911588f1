package form

import (
	"employee-bot/internal/domain"
	v "employee-bot/internal/validator"
)

func (g Group) PersonalInfo() domain.PersonalInfo {
	return domain.PersonalInfo{
		FirstName:   g.values[v.FirstName],
		LastName:    g.values[v.LastName],
		Phone:       g.values[v.Phone],
		Gender:      g.values[v.Gender],
		DateOfBirth: g.values[v.DateOfBirth],
	}
}

func (g Group) EmploymentInfo() domain.EmploymentInfo {
	return domain.EmploymentInfo{
		EmployeeNumber: g.values[v.EmployeeNumber],
		EmployeeName:   g.values[v.EmployeeName],
		Designation:    g.values[v.Designation],
		AccountType:    g.values[v.AccountType],
		Experience:     g.values[v.Experience],
	}
}

func (g Group) BankingInfo() domain.BankingInfo {
	return domain.BankingInfo{
		BankName:      g.values[v.BankName],
		BranchName:    g.values[v.BranchName],
		AccountNumber: g.values[v.AccountNumber],
		IFSCCode:      g.values[v.IFSCCode],
		DocumentRef:   g.values[v.Document],
	}
}
