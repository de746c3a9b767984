// Package wizard is the intake step machine
//
// steps run personal -> income -> expenses -> salary -> success and only move
// one place forward or back. success is terminal and is entered by Complete,
// never by Next, so a form is only done once it has been delivered
package wizard

import (
	"strings"

	perr "taxintake/internal/platform/errors"
)

// Step is a position in the intake flow
type Step uint8

const (
	// StepPersonal collects name and contact details
	StepPersonal Step = iota

	// StepIncome collects personal and S corp income
	StepIncome

	// StepExpenses collects S corp expense line items
	StepExpenses

	// StepSalary collects salary benchmarking inputs
	StepSalary

	// StepSuccess is reached after a successful submission
	StepSuccess
)

var names = [...]string{"personal", "income", "expenses", "salary", "success"}

// Steps lists every step in flow order
func Steps() []Step {
	return []Step{StepPersonal, StepIncome, StepExpenses, StepSalary, StepSuccess}
}

// String returns the wire name of the step
func (s Step) String() string {
	if int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// Valid reports whether s is a known step
func (s Step) Valid() bool { return int(s) < len(names) }

// Index is the 1-based position used for progress display
func (s Step) Index() int { return int(s) + 1 }

// Editable reports whether form data may still change at this step
func (s Step) Editable() bool { return s.Valid() && s != StepSuccess }

// Parse reads a wire name
func Parse(name string) (Step, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, v := range names {
		if v == n {
			return Step(i), nil
		}
	}
	return 0, perr.InvalidArgf("unknown step %q", name)
}

// Next moves one step forward
// salary cannot advance here; use Complete once the form has been submitted
func Next(s Step) (Step, error) {
	switch s {
	case StepPersonal, StepIncome, StepExpenses:
		return s + 1, nil
	case StepSalary:
		return s, perr.Conflictf("salary is the last step; submit the form to finish")
	case StepSuccess:
		return s, perr.Conflictf("intake already submitted")
	default:
		return s, perr.InvalidArgf("unknown step %d", s)
	}
}

// Back moves one step backward
func Back(s Step) (Step, error) {
	switch s {
	case StepIncome, StepExpenses, StepSalary:
		return s - 1, nil
	case StepPersonal:
		return s, perr.Conflictf("already at the first step")
	case StepSuccess:
		return s, perr.Conflictf("intake already submitted")
	default:
		return s, perr.InvalidArgf("unknown step %d", s)
	}
}

// Complete moves salary to success after delivery
func Complete(s Step) (Step, error) {
	if s != StepSalary {
		return s, perr.Conflictf("submit is only allowed from the salary step, current step is %s", s)
	}
	return StepSuccess, nil
}

// MarshalText encodes the wire name
func (s Step) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a wire name
func (s *Step) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
