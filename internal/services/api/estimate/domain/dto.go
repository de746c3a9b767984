// Package domain holds the estimate DTOs and ports
package domain

import (
	"taxintake/internal/core/money"
	"taxintake/internal/core/salary"
)

// Input is the POST /estimate body. values are lenient numeric strings:
// anything salary.ParseAmount cannot read counts as 0
type Input struct {
	AnnualRevenue         string `json:"annual_revenue" validate:"max=64"`
	SimilarPositionSalary string `json:"similar_position_salary" validate:"max=64"`
	YearsExperience       string `json:"years_experience" validate:"max=64"`
	HoursWorked           string `json:"hours_worked" validate:"max=64"`
}

// EstimateInput parses the strings the way the intake form does
func (in Input) EstimateInput() salary.EstimateInput {
	return salary.InputFromFields(in.AnnualRevenue, in.SimilarPositionSalary, in.YearsExperience, in.HoursWorked)
}

// Formatted holds the figures as US dollar strings
type Formatted struct {
	ReasonableSalary  string `json:"reasonable_salary"`
	FederalTax        string `json:"federal_tax"`
	StateTax          string `json:"state_tax"`
	MedicareTax       string `json:"medicare_tax"`
	SocialSecurityTax string `json:"social_security_tax"`
	TotalTax          string `json:"total_tax"`
	NetIncome         string `json:"net_income"`
}

// Output is the estimate plus its formatted figures
type Output struct {
	salary.EstimateResult
	Formatted Formatted `json:"formatted"`
	Cached    bool      `json:"cached"`
}

// NewOutput formats r
func NewOutput(r salary.EstimateResult) Output {
	return Output{
		EstimateResult: r,
		Formatted: Formatted{
			ReasonableSalary:  money.FormatUSD(r.ReasonableSalary),
			FederalTax:        money.FormatUSD(r.FederalTax),
			StateTax:          money.FormatUSD(r.StateTax),
			MedicareTax:       money.FormatUSD(r.MedicareTax),
			SocialSecurityTax: money.FormatUSD(r.SocialSecurityTax),
			TotalTax:          money.FormatUSD(r.TotalTax),
			NetIncome:         money.FormatUSD(r.NetIncome),
		},
	}
}
