// Package intake holds the data collected across the wizard steps
//
// every figure is kept as the text the user typed. numeric fields are checked
// for shape only (digits with at most one decimal point) and are read leniently
// by the estimator, so a partially filled form is always representable
package intake

import (
	"taxintake/internal/core/salary"
	"taxintake/internal/core/wizard"
)

// PersonalInfo is the personal step
type PersonalInfo struct {
	FirstName  string `json:"first_name" validate:"max=100"`
	LastName   string `json:"last_name" validate:"max=100"`
	Email      string `json:"email" validate:"omitempty,email,max=254"`
	Phone      string `json:"phone" validate:"max=40"`
	Address    string `json:"address" validate:"max=300"`
	Occupation string `json:"occupation" validate:"max=100"`
	Employer   string `json:"employer" validate:"max=100"`
}

// IncomeData is the income step
type IncomeData struct {
	PersonalSalary      string `json:"personal_salary" validate:"amount"`
	PersonalBonuses     string `json:"personal_bonuses" validate:"amount"`
	PersonalInvestments string `json:"personal_investments" validate:"amount"`
	SCorpRevenue        string `json:"s_corp_revenue" validate:"amount"`
	SCorpExpenses       string `json:"s_corp_expenses" validate:"amount"`
	SCorpDistributions  string `json:"s_corp_distributions" validate:"amount"`
}

// ExpenseData is the S corp expenses step, every line is optional
type ExpenseData struct {
	OfficeRent         string `json:"office_rent" validate:"amount"`
	Utilities          string `json:"utilities" validate:"amount"`
	Supplies           string `json:"supplies" validate:"amount"`
	EmployeeSalaries   string `json:"employee_salaries" validate:"amount"`
	EmployeeBenefits   string `json:"employee_benefits" validate:"amount"`
	Insurance          string `json:"insurance" validate:"amount"`
	Marketing          string `json:"marketing" validate:"amount"`
	TravelExpenses     string `json:"travel_expenses" validate:"amount"`
	ProfessionalFees   string `json:"professional_fees" validate:"amount"`
	EquipmentPurchases string `json:"equipment_purchases" validate:"amount"`
	OwnerSalary        string `json:"owner_salary" validate:"amount"`
	OwnerWithdrawals   string `json:"owner_withdrawals" validate:"amount"`
	ProfitDistribution string `json:"profit_distribution" validate:"amount"`
	RetainedEarnings   string `json:"retained_earnings" validate:"amount"`
}

// SalaryData is the salary benchmarking step
type SalaryData struct {
	Industry              string `json:"industry" validate:"omitempty,oneof=technology healthcare finance retail manufacturing construction services other"`
	YearsExperience       string `json:"years_experience" validate:"amount"`
	Education             string `json:"education" validate:"omitempty,oneof=highschool associate bachelor master doctorate professional"`
	HoursWorked           string `json:"hours_worked" validate:"amount"`
	EmployeeCount         string `json:"employee_count" validate:"amount"`
	AnnualRevenue         string `json:"annual_revenue" validate:"amount"`
	SimilarPositionSalary string `json:"similar_position_salary" validate:"amount"`
}

// Form is the whole intake record carried from step to step
type Form struct {
	Personal PersonalInfo `json:"personal"`
	Income   IncomeData   `json:"income"`
	Expenses ExpenseData  `json:"expenses"`
	Salary   SalaryData   `json:"salary"`
}

// EstimateInput reads the four estimator figures off the salary step
func (f Form) EstimateInput() salary.EstimateInput {
	s := f.Salary
	return salary.InputFromFields(s.AnnualRevenue, s.SimilarPositionSalary, s.YearsExperience, s.HoursWorked)
}

// Estimate runs the estimator over the salary step
func (f Form) Estimate() salary.EstimateResult {
	return salary.Estimate(f.EstimateInput())
}

// Field is one flattened form value
type Field struct {
	Key   string
	Value string
}

// Fields flattens the form in step order. keys carry the step prefix
// (personal_, income_, expense_, salary_) followed by the camelCase field name
func (f Form) Fields() []Field {
	p, i, e, s := f.Personal, f.Income, f.Expenses, f.Salary
	return []Field{
		{"personal_firstName", p.FirstName},
		{"personal_lastName", p.LastName},
		{"personal_email", p.Email},
		{"personal_phone", p.Phone},
		{"personal_address", p.Address},
		{"personal_occupation", p.Occupation},
		{"personal_employer", p.Employer},

		{"income_personalSalary", i.PersonalSalary},
		{"income_personalBonuses", i.PersonalBonuses},
		{"income_personalInvestments", i.PersonalInvestments},
		{"income_sCorpRevenue", i.SCorpRevenue},
		{"income_sCorpExpenses", i.SCorpExpenses},
		{"income_sCorpDistributions", i.SCorpDistributions},

		{"expense_officeRent", e.OfficeRent},
		{"expense_utilities", e.Utilities},
		{"expense_supplies", e.Supplies},
		{"expense_employeeSalaries", e.EmployeeSalaries},
		{"expense_employeeBenefits", e.EmployeeBenefits},
		{"expense_insurance", e.Insurance},
		{"expense_marketing", e.Marketing},
		{"expense_travelExpenses", e.TravelExpenses},
		{"expense_professionalFees", e.ProfessionalFees},
		{"expense_equipmentPurchases", e.EquipmentPurchases},
		{"expense_ownerSalary", e.OwnerSalary},
		{"expense_ownerWithdrawals", e.OwnerWithdrawals},
		{"expense_profitDistribution", e.ProfitDistribution},
		{"expense_retainedEarnings", e.RetainedEarnings},

		{"salary_industry", s.Industry},
		{"salary_yearsExperience", s.YearsExperience},
		{"salary_education", s.Education},
		{"salary_hoursWorked", s.HoursWorked},
		{"salary_employeeCount", s.EmployeeCount},
		{"salary_annualRevenue", s.AnnualRevenue},
		{"salary_similarPositionSalary", s.SimilarPositionSalary},
	}
}

// Missing lists the required fields of step that are still blank, by json name.
// the expenses step has no required fields
func (f Form) Missing(step wizard.Step) []string {
	var req []Field
	switch step {
	case wizard.StepPersonal:
		p := f.Personal
		req = []Field{
			{"first_name", p.FirstName},
			{"last_name", p.LastName},
			{"email", p.Email},
			{"phone", p.Phone},
			{"address", p.Address},
			{"occupation", p.Occupation},
			{"employer", p.Employer},
		}
	case wizard.StepIncome:
		i := f.Income
		req = []Field{
			{"personal_salary", i.PersonalSalary},
			{"s_corp_revenue", i.SCorpRevenue},
			{"s_corp_expenses", i.SCorpExpenses},
			{"s_corp_distributions", i.SCorpDistributions},
		}
	case wizard.StepSalary:
		s := f.Salary
		req = []Field{
			{"industry", s.Industry},
			{"years_experience", s.YearsExperience},
			{"education", s.Education},
			{"hours_worked", s.HoursWorked},
			{"employee_count", s.EmployeeCount},
			{"annual_revenue", s.AnnualRevenue},
			{"similar_position_salary", s.SimilarPositionSalary},
		}
	}
	var out []string
	for _, r := range req {
		if r.Value == "" {
			out = append(out, r.Key)
		}
	}
	return out
}
