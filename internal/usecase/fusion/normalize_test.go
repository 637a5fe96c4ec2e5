package fusion

import "testing"

func TestNormalizeEmpty(t *testing.T) {
	got := Normalize(nil)
	if len(got) != 0 {
		t.Errorf("Normalize(nil) = %v, want empty", got)
	}

	got = Normalize([]float64{})
	if len(got) != 0 {
		t.Errorf("Normalize([]) = %v, want empty", got)
	}
}

func TestNormalizeAllEqual(t *testing.T) {
	got := Normalize([]float64{3.5, 3.5, 3.5})
	for i, v := range got {
		if v != 1.0 {
			t.Errorf("got[%d] = %g, want 1.0", i, v)
		}
	}
}

func TestNormalizeSingle(t *testing.T) {
	got := Normalize([]float64{42})
	if len(got) != 1 || got[0] != 1.0 {
		t.Errorf("Normalize([42]) = %v, want [1.0]", got)
	}
}

func TestNormalizeMinMax(t *testing.T) {
	got := Normalize([]float64{2, 6, 10})
	want := []float64{0, 0.5, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}

func TestNormalizePreservesOrderAndInput(t *testing.T) {
	in := []float64{10, 2, 6}
	got := Normalize(in)

	if got[0] != 1 || got[1] != 0 || got[2] != 0.5 {
		t.Errorf("Normalize(%v) = %v, want [1 0 0.5]", in, got)
	}
	if in[0] != 10 || in[1] != 2 || in[2] != 6 {
		t.Errorf("input mutated: %v", in)
	}
}

func TestNormalizeNegativeScores(t *testing.T) {
	got := Normalize([]float64{-4, 0, 4})
	want := []float64{0, 0.5, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}
