// Package codec converts employee records to and from the text stored in
// the employees table.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"employee-bot/internal/domain"
)

// ErrMalformed wraps every decoding failure.
var ErrMalformed = errors.New("malformed employee record")

type personalDoc struct {
	FirstName   string `json:"firstName" yaml:"firstName"`
	LastName    string `json:"lastName" yaml:"lastName"`
	Phone       string `json:"phone" yaml:"phone"`
	Gender      string `json:"gender" yaml:"gender"`
	DateOfBirth string `json:"dob" yaml:"dob"`
}

type employmentDoc struct {
	EmployeeNumber string `json:"employeeNo" yaml:"employeeNo"`
	EmployeeName   string `json:"employeeName" yaml:"employeeName"`
	Designation    string `json:"designation" yaml:"designation"`
	AccountType    string `json:"accountType" yaml:"accountType"`
	Experience     string `json:"experience" yaml:"experience"`
}

type bankingDoc struct {
	BankName      string `json:"bankName" yaml:"bankName"`
	BranchName    string `json:"branchName" yaml:"branchName"`
	AccountNumber string `json:"accountNo" yaml:"accountNo"`
	IFSCCode      string `json:"ifscCode" yaml:"ifscCode"`
	DocumentRef   string `json:"documentRef,omitempty" yaml:"documentRef,omitempty"`
}

type recordDoc struct {
	ID         int64          `json:"id,omitempty" yaml:"id,omitempty"`
	Personal   *personalDoc   `json:"personalInfo" yaml:"personalInfo"`
	Employment *employmentDoc `json:"employeeInfo" yaml:"employeeInfo"`
	Banking    *bankingDoc    `json:"bankInfo" yaml:"bankInfo"`
	ImageRef   string         `json:"imageUri,omitempty" yaml:"imageUri,omitempty"`
}

func toDoc(r domain.EmployeeRecord) recordDoc {
	return recordDoc{
		ID:         r.ID,
		Personal:   (*personalDoc)(&r.Personal),
		Employment: (*employmentDoc)(&r.Employment),
		Banking:    (*bankingDoc)(&r.Banking),
		ImageRef:   r.ImageRef,
	}
}

func fromDoc(d recordDoc) (domain.EmployeeRecord, error) {
	if d.Personal == nil || d.Employment == nil || d.Banking == nil {
		return domain.EmployeeRecord{}, fmt.Errorf("%w: missing section", ErrMalformed)
	}
	return domain.EmployeeRecord{
		ID:         d.ID,
		Personal:   domain.PersonalInfo(*d.Personal),
		Employment: domain.EmploymentInfo(*d.Employment),
		Banking:    domain.BankingInfo(*d.Banking),
		ImageRef:   d.ImageRef,
	}, nil
}

func Encode(r domain.EmployeeRecord) (string, error) {
	b, err := json.Marshal(toDoc(r))
	if err != nil {
		return "", fmt.Errorf("encode employee: %w", err)
	}
	return string(b), nil
}

func Decode(blob string) (domain.EmployeeRecord, error) {
	var d recordDoc
	if err := json.Unmarshal([]byte(blob), &d); err != nil {
		return domain.EmployeeRecord{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return fromDoc(d)
}

// EncodeJSONList renders records as an indented JSON array.
func EncodeJSONList(records []domain.EmployeeRecord) ([]byte, error) {
	docs := make([]recordDoc, 0, len(records))
	for _, r := range records {
		docs = append(docs, toDoc(r))
	}
	return json.MarshalIndent(docs, "", "  ")
}

func EncodeYAML(records []domain.EmployeeRecord) ([]byte, error) {
	docs := make([]recordDoc, 0, len(records))
	for _, r := range records {
		docs = append(docs, toDoc(r))
	}
	return yaml.Marshal(docs)
}

// DecodeList reads a list of records. YAML is a superset of JSON, so both
// export formats are accepted.
func DecodeList(data []byte) ([]domain.EmployeeRecord, error) {
	var docs []recordDoc
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	out := make([]domain.EmployeeRecord, 0, len(docs))
	for i, d := range docs {
		r, err := fromDoc(d)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}
