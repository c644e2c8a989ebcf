package ncc

import (
	"math"
	"sync/atomic"
)

// overflowTolerance is the magnitude above which a kept sample is
// considered a normalisation failure rather than benign round-off.
// spec.md 4.E / 8 P1.
const overflowTolerance = 1.01

// sanitizeTrace replaces NaNs with zero, clamps samples in (1.0, 1.01]
// (and symmetrically below -1.0) to +/-1.0, and counts samples whose
// magnitude exceeds overflowTolerance without modifying them, so the
// offending buffer survives for diagnostics (spec.md 4.E step 2, 9).
func sanitizeTrace(trace []float32, overflow *atomic.Int64) {
	for i, v := range trace {
		switch {
		case math.IsNaN(float64(v)):
			trace[i] = 0
		case v > overflowTolerance || v < -overflowTolerance:
			overflow.Add(1)
		case v > 1.0:
			trace[i] = 1.0
		case v < -1.0:
			trace[i] = -1.0
		}
	}
}

// applyPad shifts trace left by pad samples, zeroing the vacated tail:
// trace[j] := trace[j+pad] for j in [0, len(trace)-pad), then zero the
// rest. The source index always exceeds or equals the destination index,
// so the forward overlapping copy is safe (spec.md 4.E step 3).
func applyPad(trace []float32, pad int) {
	steps := len(trace)
	if pad <= 0 {
		return
	}

	if pad >= steps {
		for i := range trace {
			trace[i] = 0
		}

		return
	}

	m := 0
	for k := pad; k < steps; k++ {
		trace[m] = trace[k]
		m++
	}

	for j := m; j < steps; j++ {
		trace[j] = 0
	}
}
