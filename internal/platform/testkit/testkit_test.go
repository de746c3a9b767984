package testkit

import "testing"

func TestMustPanic(t *testing.T) {
	MustPanic(t, func() { panic("boom") })
}

func TestMustContain(t *testing.T) {
	MustContain(t, "Federal Tax (22%): $22,000.00", "$22,000.00")
}

func TestNear(t *testing.T) {
	Near(t, "medicare", 1450.0000000000002, 1450, 1e-9)
}
