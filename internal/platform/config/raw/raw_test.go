package raw

import "testing"

func TestGet(t *testing.T) {
	t.Setenv("LOG_SERVICE", " taxintake-api ")
	c := New().Prefix("LOG_")

	if got := c.Get("SERVICE", "x"); got != "taxintake-api" {
		t.Fatalf("Get = %q", got)
	}
	if got := c.Get("COMPONENT", "def"); got != "def" {
		t.Fatalf("Get default = %q", got)
	}
}

func TestGetBool(t *testing.T) {
	c := New().Prefix("B_")
	cases := []struct {
		env  string
		def  bool
		want bool
	}{
		{"", true, true},
		{"", false, false},
		{"1", false, true},
		{"TRUE", false, true},
		{" yes ", false, true},
		{"0", true, false},
		{"off", true, false},
	}
	for _, tc := range cases {
		t.Setenv("B_CALLER", tc.env)
		if got := c.GetBool("CALLER", tc.def); got != tc.want {
			t.Fatalf("GetBool(%q, %v) = %v, want %v", tc.env, tc.def, got, tc.want)
		}
	}
}

func TestGetInt(t *testing.T) {
	c := New().Prefix("I_")
	cases := []struct {
		env  string
		want int
	}{
		{"", 5},
		{"10", 10},
		{" 42 ", 42},
		{"-3", 5},
		{"+3", 5},
		{"3x", 5},
	}
	for _, tc := range cases {
		t.Setenv("I_SAMPLE_EVERY", tc.env)
		if got := c.GetInt("SAMPLE_EVERY", 5); got != tc.want {
			t.Fatalf("GetInt(%q) = %d, want %d", tc.env, got, tc.want)
		}
	}
}
