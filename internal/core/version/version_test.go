package version

import "testing"

func TestInfoDefaults(t *testing.T) {
	bi := Info("")
	if bi.Service != "taxintake-api" {
		t.Fatalf("service %q", bi.Service)
	}
	if bi.Version != "dev" || bi.Commit != "none" || bi.Date != "unknown" {
		t.Fatalf("unexpected defaults %+v", bi)
	}
	if Version() != bi.Version {
		t.Fatalf("Version() = %q", Version())
	}
}

func TestInfoNamedService(t *testing.T) {
	if got := Info("taxintake-estimate").Service; got != "taxintake-estimate" {
		t.Fatalf("service %q", got)
	}
}
