package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"taxintake/internal/core/salary"
	"taxintake/internal/core/version"
	"taxintake/internal/services/api/estimate/domain"

	"github.com/urfave/cli/v2"
)

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:    "taxintake-estimate",
		Usage:   "estimate a reasonable S corp salary and its payroll taxes",
		Version: version.Version(),
		Writer:  out,
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "revenue", Usage: "annual business revenue", Required: true},
			&cli.Float64Flag{Name: "market", Usage: "salary of a similar position", Required: true},
			&cli.Float64Flag{Name: "years", Usage: "years of experience"},
			&cli.Float64Flag{Name: "hours", Usage: "hours worked per week", Value: 40},
			&cli.BoolFlag{Name: "json", Usage: "print JSON instead of a table"},
		},
		Action: func(c *cli.Context) error {
			out := domain.NewOutput(salary.Estimate(salary.EstimateInput{
				AnnualRevenue:         c.Float64("revenue"),
				SimilarPositionSalary: c.Float64("market"),
				YearsExperience:       c.Float64("years"),
				HoursWorkedPerWeek:    c.Float64("hours"),
			}))
			if c.Bool("json") {
				enc := json.NewEncoder(c.App.Writer)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			return printTable(c.App.Writer, out.Formatted)
		},
	}
}

func printTable(w io.Writer, f domain.Formatted) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	rows := [][2]string{
		{"Reasonable Salary", f.ReasonableSalary},
		{"Federal Tax (22%)", f.FederalTax},
		{"State Tax (5%)", f.StateTax},
		{"Medicare Tax (1.45%)", f.MedicareTax},
		{"Social Security Tax (6.2%)", f.SocialSecurityTax},
		{"Total Tax", f.TotalTax},
		{"Net Income", f.NetIncome},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t\n", r[0], r[1]); err != nil {
			return err
		}
	}
	return tw.Flush()
}
