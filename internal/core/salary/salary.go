// Package salary estimates an S corporation owner's reasonable W-2 salary and
// the payroll taxes owed on it
//
// the estimate is a fixed pipeline: market benchmark, experience uplift,
// full time equivalence scaling, then a hard cap at half of business revenue.
// intermediate values are never clamped, only the final salary is capped
package salary

// Rates and thresholds applied by Estimate
const (
	// ExperienceUplift is the per-year raise applied to the market benchmark
	ExperienceUplift = 0.02

	// FullTimeHours is the weekly hours that map to a 1.0 scaling factor
	FullTimeHours = 40.0

	// RevenueCapShare is the share of annual revenue the salary may not exceed
	RevenueCapShare = 0.5

	FederalRate        = 0.22
	StateRate          = 0.05
	MedicareRate       = 0.0145
	SocialSecurityRate = 0.062

	// SocialSecurityWageBase is the 2023 wage base; earnings above it owe no SS tax
	SocialSecurityWageBase = 160200.0
)

// EstimateInput holds the four figures the estimate depends on
type EstimateInput struct {
	AnnualRevenue         float64 `json:"annual_revenue"`
	SimilarPositionSalary float64 `json:"similar_position_salary"`
	YearsExperience       float64 `json:"years_experience"`
	HoursWorkedPerWeek    float64 `json:"hours_worked_per_week"`
}

// EstimateResult is the salary and tax breakdown
// TotalTax is always the sum of the four taxes and NetIncome is ReasonableSalary minus TotalTax
type EstimateResult struct {
	ReasonableSalary  float64 `json:"reasonable_salary"`
	FederalTax        float64 `json:"federal_tax"`
	StateTax          float64 `json:"state_tax"`
	MedicareTax       float64 `json:"medicare_tax"`
	SocialSecurityTax float64 `json:"social_security_tax"`
	TotalTax          float64 `json:"total_tax"`
	NetIncome         float64 `json:"net_income"`
}

// Estimate runs the salary pipeline and applies the flat tax rates
// negative inputs are not rejected and flow through the formulas as-is
func Estimate(in EstimateInput) EstimateResult {
	s := in.SimilarPositionSalary
	s *= 1 + in.YearsExperience*ExperienceUplift
	s *= in.HoursWorkedPerWeek / FullTimeHours
	s = min(s, in.AnnualRevenue*RevenueCapShare)

	out := EstimateResult{
		ReasonableSalary:  s,
		FederalTax:        s * FederalRate,
		StateTax:          s * StateRate,
		MedicareTax:       s * MedicareRate,
		SocialSecurityTax: min(s, SocialSecurityWageBase) * SocialSecurityRate,
	}
	out.TotalTax = out.FederalTax + out.StateTax + out.MedicareTax + out.SocialSecurityTax
	out.NetIncome = out.ReasonableSalary - out.TotalTax
	return out
}
