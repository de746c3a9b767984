package wizard

import (
	"testing"

	perr "taxintake/internal/platform/errors"
)

func TestNextWalksForwardToSalary(t *testing.T) {
	s := StepPersonal
	want := []Step{StepIncome, StepExpenses, StepSalary}
	for _, w := range want {
		var err error
		s, err = Next(s)
		if err != nil {
			t.Fatalf("Next: unexpected err %v", err)
		}
		if s != w {
			t.Fatalf("Next = %s, want %s", s, w)
		}
	}
	if _, err := Next(StepSalary); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("Next(salary) err = %v, want conflict", err)
	}
}

func TestBackWalksToPersonal(t *testing.T) {
	s := StepSalary
	for _, w := range []Step{StepExpenses, StepIncome, StepPersonal} {
		var err error
		s, err = Back(s)
		if err != nil {
			t.Fatalf("Back: unexpected err %v", err)
		}
		if s != w {
			t.Fatalf("Back = %s, want %s", s, w)
		}
	}
	got, err := Back(StepPersonal)
	if !perr.IsCode(err, perr.ErrorCodeConflict) || got != StepPersonal {
		t.Fatalf("Back(personal) = %s, %v", got, err)
	}
}

func TestSuccessIsTerminal(t *testing.T) {
	if _, err := Next(StepSuccess); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("Next(success) err = %v", err)
	}
	if _, err := Back(StepSuccess); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("Back(success) err = %v", err)
	}
	if StepSuccess.Editable() {
		t.Fatal("success should not be editable")
	}
}

func TestComplete(t *testing.T) {
	got, err := Complete(StepSalary)
	if err != nil || got != StepSuccess {
		t.Fatalf("Complete(salary) = %s, %v", got, err)
	}
	for _, s := range []Step{StepPersonal, StepIncome, StepExpenses, StepSuccess} {
		if _, err := Complete(s); !perr.IsCode(err, perr.ErrorCodeConflict) {
			t.Fatalf("Complete(%s) err = %v, want conflict", s, err)
		}
	}
}

func TestParseAndString(t *testing.T) {
	for _, s := range Steps() {
		got, err := Parse(" " + s.String() + " ")
		if err != nil || got != s {
			t.Fatalf("Parse(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := Parse("review"); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("Parse(review) err = %v", err)
	}
	if Step(42).String() != "unknown" || Step(42).Valid() {
		t.Fatal("out of range step should be unknown")
	}
	if StepPersonal.Index() != 1 || StepSuccess.Index() != 5 {
		t.Fatal("Index should be 1-based")
	}
	if _, err := Next(Step(9)); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("Next(9) err = %v", err)
	}
}

func TestStepJSONUsesNames(t *testing.T) {
	b, err := StepExpenses.MarshalText()
	if err != nil || string(b) != "expenses" {
		t.Fatalf("MarshalText = %q, %v", b, err)
	}
	var s Step
	if err := s.UnmarshalText([]byte("salary")); err != nil || s != StepSalary {
		t.Fatalf("UnmarshalText = %s, %v", s, err)
	}
	if err := s.UnmarshalText([]byte("nope")); err == nil {
		t.Fatal("expected error for unknown step")
	}
}
