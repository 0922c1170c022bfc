package testutil

import (
	"math"
	"testing"
)

func TestLinspace(t *testing.T) {
	x := Linspace(1000, 4500, 1000)
	if len(x) != 1000 {
		t.Fatalf("len = %d, want 1000", len(x))
	}
	if x[0] != 1000 || math.Abs(x[999]-4500) > 1e-9 {
		t.Fatalf("endpoints = %v, %v", x[0], x[999])
	}
	for i := 1; i < len(x); i++ {
		if x[i] <= x[i-1] {
			t.Fatalf("not increasing at %d", i)
		}
	}
}

func TestLinspaceSingle(t *testing.T) {
	x := Linspace(3, 7, 1)
	if len(x) != 1 || x[0] != 3 {
		t.Fatalf("Linspace(3, 7, 1) = %v", x)
	}
}

func TestGaussianPeak(t *testing.T) {
	x := []float64{3400, 3500, 3600}
	g := Gaussian(x, 3500, 5, 50)
	if g[1] != 5 {
		t.Fatalf("g[center] = %v, want 5", g[1])
	}
	if math.Abs(g[0]-g[2]) > 1e-15 {
		t.Fatalf("gaussian not symmetric: %v vs %v", g[0], g[2])
	}
	if g[0] >= g[1] {
		t.Fatalf("flank %v not below peak %v", g[0], g[1])
	}
}

func TestWaterSpectrumAddsBaseline(t *testing.T) {
	x := []float64{1000, 3500}
	y := WaterSpectrum(x, LinearBaseline(0.5, 0, 0), 3500, 2, 10)
	if math.Abs(y[0]-0.5) > 1e-12 {
		t.Fatalf("y[0] = %v, want 0.5", y[0])
	}
	if math.Abs(y[1]-2.5) > 1e-12 {
		t.Fatalf("y[1] = %v, want 2.5", y[1])
	}
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 1.0, 64)
	b := DeterministicNoise(42, 1.0, 64)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
	}
}

func TestReverse(t *testing.T) {
	r := Reverse([]float64{1, 2, 3})
	RequireSliceNearlyEqual(t, r, []float64{3, 2, 1}, 0)
}
