package vector

import (
	"math"
	"testing"
)

func TestInnerProduct(t *testing.T) {
	if got := InnerProduct([]float64{1, 2, 3}, []float64{4, 5, 6}); got != 32 {
		t.Errorf("got %v, want 32", got)
	}
	if got := InnerProduct([]float64{1}, []float64{1, 2}); got != 0 {
		t.Errorf("length mismatch should yield 0, got %v", got)
	}
	if got := InnerProduct(nil, nil); got != 0 {
		t.Errorf("empty vectors should yield 0, got %v", got)
	}
}

func TestL2Norm(t *testing.T) {
	if got := L2Norm([]float64{3, 4}); got != 5 {
		t.Errorf("got %v, want 5", got)
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 0}, []float64{1, 2, 0}, 1},
		{"scaled", []float64{1, 1}, []float64{5, 5}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 3}, 0},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0},
		{"45 degrees", []float64{1, 0}, []float64{1, 1}, 1 / math.Sqrt2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Cosine = %v, want %v", got, tt.want)
			}
		})
	}
}
