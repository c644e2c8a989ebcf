package ncc_test

import (
	"errors"
	"math"
	"testing"

	"github.com/MeKo-Tech/ncc-fft/ncc"
)

func TestTimeNCCMulti_InvalidShape(t *testing.T) {
	out := make([]float32, 1)

	err := ncc.TimeNCCMulti(nil, nil, 1, 0, 4, out)
	if !errors.Is(err, ncc.ErrInvalidShape) {
		t.Fatalf("expected ErrInvalidShape, got %v", err)
	}
}

func TestTimeNCCMulti_SelfMatch(t *testing.T) {
	template := []float32{-1, 0, 2, 0, -1}
	image := make([]float32, 20)
	copy(image[7:12], template)

	steps := len(image) - len(template) + 1
	out := make([]float32, steps)

	if err := ncc.TimeNCCMulti(template, image, 1, len(template), len(image), out); err != nil {
		t.Fatalf("TimeNCCMulti failed: %v", err)
	}

	// All-zero windows have no defined correlation (NaN); skip them.
	peak := -1
	for i, v := range out {
		if math.IsNaN(float64(v)) {
			continue
		}

		if peak < 0 || v > out[peak] {
			peak = i
		}
	}

	if peak != 7 {
		t.Fatalf("expected peak at step 7, got %d (value %g)", peak, out[peak])
	}

	if math.Abs(float64(out[peak])-1.0) > 1e-4 {
		t.Fatalf("expected peak value near 1.0, got %g", out[peak])
	}
}

func TestTimeNCCMulti_MultipleTemplates(t *testing.T) {
	templates := []float32{
		0, 1, 0,
		1, 0, 1,
	}
	image := []float32{0, 1, 0, 1, 0, 1, 0}

	steps := len(image) - 3 + 1
	out := make([]float32, 2*steps)

	if err := ncc.TimeNCCMulti(templates, image, 2, 3, len(image), out); err != nil {
		t.Fatalf("TimeNCCMulti failed: %v", err)
	}

	for _, v := range out {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("unexpected non-finite value in output: %v", out)
		}
	}
}
