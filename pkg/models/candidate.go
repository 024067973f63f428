package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ContractRef is one rental agreement attached to a customer, carrying the
// attributes the context scorer compares against.
type ContractRef struct {
	ContractID     string           `json:"contract_id" db:"contract_id"`
	ContractNumber string           `json:"contract_number" db:"contract_number"`
	MonthlyAmount  *decimal.Decimal `json:"monthly_amount,omitempty" db:"monthly_amount"`
	CarNumber      *string          `json:"car_number,omitempty" db:"car_number"`
	Status         string           `json:"status" db:"status"`
}

// CandidateRecord is one business entity eligible to be scored against an
// incoming scan, with zero or more contracts.
type CandidateRecord struct {
	CustomerID    string  `json:"customer_id" db:"customer_id"`
	CompanyName   *string `json:"company_name,omitempty" db:"company_name"`
	CompanyNameAr *string `json:"company_name_ar,omitempty" db:"company_name_ar"`
	FirstName     *string `json:"first_name,omitempty" db:"first_name"`
	FirstNameAr   *string `json:"first_name_ar,omitempty" db:"first_name_ar"`
	LastName      *string `json:"last_name,omitempty" db:"last_name"`
	LastNameAr    *string `json:"last_name_ar,omitempty" db:"last_name_ar"`
	Phone         *string `json:"phone,omitempty" db:"phone"`
	CustomerType  string  `json:"customer_type" db:"customer_type"`

	Contracts []ContractRef `json:"contracts,omitempty"`
}

// ResolveName picks the display name used for similarity scoring. The
// localized company name wins, then the Latin company name, then the
// concatenated person name. Each person-name part prefers its localized
// variant. Returns "" when nothing is set.
func (c *CandidateRecord) ResolveName() string {
	if c.CompanyNameAr != nil && strings.TrimSpace(*c.CompanyNameAr) != "" {
		return strings.TrimSpace(*c.CompanyNameAr)
	}
	if c.CompanyName != nil && strings.TrimSpace(*c.CompanyName) != "" {
		return strings.TrimSpace(*c.CompanyName)
	}
	var parts []string
	if first := firstSet(c.FirstNameAr, c.FirstName); first != "" {
		parts = append(parts, first)
	}
	if last := firstSet(c.LastNameAr, c.LastName); last != "" {
		parts = append(parts, last)
	}
	return strings.Join(parts, " ")
}

// firstSet returns the first non-blank value, trimmed.
func firstSet(values ...*string) string {
	for _, v := range values {
		if v == nil {
			continue
		}
		if s := strings.TrimSpace(*v); s != "" {
			return s
		}
	}
	return ""
}
