package testkit

import "testing"

var addFn = func(a, b int) int { return a + b }

func TestMustPanic(t *testing.T) {
	t.Parallel()
	MustPanic(t, func() { panic("boom") })
}

func TestMustContain(t *testing.T) {
	t.Parallel()
	MustContain(t, "alpha beta gamma", "beta")
}

func TestJSONEq_IgnoresKeyOrderAndSpacing(t *testing.T) {
	t.Parallel()
	JSONEq(t, `{"b":1, "a":[1,2]}`, `{"a":[1,2],"b":1}`)
}

func TestSwap_Restores(t *testing.T) {
	t.Run("swap", func(t *testing.T) {
		Swap(t, &addFn, func(a, b int) int { return 99 })
		if got := addFn(1, 2); got != 99 {
			t.Fatalf("swap did not take effect, got %d", got)
		}
	})
	if got := addFn(1, 2); got != 3 {
		t.Fatalf("swap did not restore, got %d", got)
	}
}
