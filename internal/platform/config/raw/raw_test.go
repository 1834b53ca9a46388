package raw

import "testing"

func TestGetters(t *testing.T) {
	t.Setenv("RAWT_NAME", "  svc  ")
	t.Setenv("RAWT_ON", "On")
	t.Setenv("RAWT_OFF", "nah")
	t.Setenv("RAWT_N", "12")
	t.Setenv("RAWT_BAD", "12x")
	t.Setenv("RAWT_NEG", "-3")

	c := New().Prefix("RAWT_")
	if got := c.Get("NAME", "d"); got != "svc" {
		t.Fatalf("Get = %q", got)
	}
	if got := c.Get("MISSING", "d"); got != "d" {
		t.Fatalf("Get default = %q", got)
	}
	if !c.GetBool("ON", false) || c.GetBool("OFF", true) || !c.GetBool("MISSING", true) {
		t.Fatalf("GetBool mismatch")
	}
	cases := map[string]int{"N": 12, "BAD": 7, "NEG": 7, "MISSING": 7}
	for k, want := range cases {
		if got := c.GetInt(k, 7); got != want {
			t.Fatalf("GetInt(%s) = %d, want %d", k, got, want)
		}
	}
}
