package intake

import (
	"strings"

	"taxintake/internal/core/money"
	"taxintake/internal/core/salary"
)

// Figures are the estimate values formatted as US dollars, keyed the way the
// relay expects them
func Figures(r salary.EstimateResult) []Field {
	return []Field{
		{"tax_reasonable_salary", money.FormatUSD(r.ReasonableSalary)},
		{"tax_federal", money.FormatUSD(r.FederalTax)},
		{"tax_state", money.FormatUSD(r.StateTax)},
		{"tax_medicare", money.FormatUSD(r.MedicareTax)},
		{"tax_social_security", money.FormatUSD(r.SocialSecurityTax)},
		{"tax_total", money.FormatUSD(r.TotalTax)},
		{"tax_net_income", money.FormatUSD(r.NetIncome)},
	}
}

// Section is a titled block of label/value lines
type Section struct {
	Title string
	Lines []Field
}

// Sections are the blocks of the submission message: the tax summary, the
// contact details and the income step
func Sections(f Form, r salary.EstimateResult) []Section {
	p, i := f.Personal, f.Income
	return []Section{
		{"Tax Calculation Summary", []Field{
			{"Reasonable Salary", money.FormatUSD(r.ReasonableSalary)},
			{"Federal Tax (22%)", money.FormatUSD(r.FederalTax)},
			{"State Tax (5%)", money.FormatUSD(r.StateTax)},
			{"Medicare Tax (1.45%)", money.FormatUSD(r.MedicareTax)},
			{"Social Security Tax (6.2%)", money.FormatUSD(r.SocialSecurityTax)},
			{"Total Tax", money.FormatUSD(r.TotalTax)},
			{"Net Income", money.FormatUSD(r.NetIncome)},
		}},
		{"Personal Information", []Field{
			{"Name", strings.TrimSpace(p.FirstName + " " + p.LastName)},
			{"Email", p.Email},
			{"Phone", p.Phone},
			{"Occupation", p.Occupation},
			{"Employer", p.Employer},
		}},
		{"Income Information", []Field{
			{"Personal Salary", i.PersonalSalary},
			{"Personal Bonuses", i.PersonalBonuses},
			{"Personal Investments", i.PersonalInvestments},
			{"S Corp Revenue", i.SCorpRevenue},
			{"S Corp Expenses", i.SCorpExpenses},
			{"S Corp Distributions", i.SCorpDistributions},
		}},
	}
}

// DetailSections are the expense and salary steps, which the message leaves out
func DetailSections(f Form) []Section {
	e, s := f.Expenses, f.Salary
	return []Section{
		{"Business Expenses", []Field{
			{"Office Rent", e.OfficeRent},
			{"Utilities", e.Utilities},
			{"Supplies", e.Supplies},
			{"Employee Salaries", e.EmployeeSalaries},
			{"Employee Benefits", e.EmployeeBenefits},
			{"Insurance", e.Insurance},
			{"Marketing", e.Marketing},
			{"Travel Expenses", e.TravelExpenses},
			{"Professional Fees", e.ProfessionalFees},
			{"Equipment Purchases", e.EquipmentPurchases},
			{"Owner Salary", e.OwnerSalary},
			{"Owner Withdrawals", e.OwnerWithdrawals},
			{"Profit Distribution", e.ProfitDistribution},
			{"Retained Earnings", e.RetainedEarnings},
		}},
		{"Salary Benchmarking", []Field{
			{"Industry", s.Industry},
			{"Years of Experience", s.YearsExperience},
			{"Education", s.Education},
			{"Hours Worked per Week", s.HoursWorked},
			{"Employee Count", s.EmployeeCount},
			{"Annual Revenue", s.AnnualRevenue},
			{"Similar Position Salary", s.SimilarPositionSalary},
		}},
	}
}

// Summary renders the plain text message body sent along with a submission
func Summary(f Form, r salary.EstimateResult) string {
	var b strings.Builder
	for n, sec := range Sections(f, r) {
		if n > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(sec.Title)
		b.WriteString(":\n")
		b.WriteString(strings.Repeat("-", len(sec.Title)+1))
		b.WriteByte('\n')
		for _, l := range sec.Lines {
			b.WriteString(l.Key)
			b.WriteString(": ")
			b.WriteString(l.Value)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
