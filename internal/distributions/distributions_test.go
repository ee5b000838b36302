package distributions

import (
	"math/rand"
	"testing"
)

func TestExponential_SameSeed_ReproducesDraws(t *testing.T) {
	// GIVEN two identically-seeded sources
	src1 := rand.NewSource(1)
	src2 := rand.NewSource(1)

	// WHEN drawing from an exponential distribution with each
	a := Exponential(2.0, src1)
	b := Exponential(2.0, src2)

	// THEN the draws are identical and positive
	if a != b {
		t.Errorf("Exponential: got %v and %v, want identical draws", a, b)
	}
	if a < 0 {
		t.Errorf("Exponential: got negative draw %v", a)
	}
}

func TestGeometric_AlwaysReturnsAtLeastOneTrial(t *testing.T) {
	// GIVEN a low success probability
	src := rand.NewSource(7)

	// WHEN drawing from the geometric distribution repeatedly
	for i := 0; i < 50; i++ {
		got := Geometric(0.3, src)
		// THEN every draw is at least one trial
		if got < 1 {
			t.Fatalf("Geometric: got %d trials, want >= 1", got)
		}
	}
}

func TestUniform_StaysWithinBounds(t *testing.T) {
	src := rand.NewSource(3)
	for i := 0; i < 100; i++ {
		got := Uniform(5, 10, src)
		if got < 5 || got >= 10 {
			t.Fatalf("Uniform(5,10): got %v, want within [5,10)", got)
		}
	}
}
