package ncc

import (
	"fmt"
	"math"
)

// varianceFloor (epsilon) is the running-variance threshold below which
// a column is treated as flat: the trace is zero there rather than
// divided by a near-zero standard deviation. spec.md 4.B "Numeric
// policy".
const varianceFloor = 1e-7

// FFTNCCSingle computes the frequency-domain NCC of nTemplates templates
// against one image, writing steps = imageLen-templateLen+1 samples per
// template into out (row-major, nTemplates x steps).
//
// templates has logical shape (nTemplates, templateLen); image has
// length imageLen; fftLen must be >= templateLen+imageLen-1. Templates
// are expected zero-mean by the caller; this kernel does not recentre
// them (spec.md 3). Each column is divided by the window's standard
// deviation times sqrt(templateLen) times the template's L2 norm, so the
// result is the normalised correlation TimeNCCMulti computes, whatever
// the template's scale.
//
// This is exposed directly for tests and small-batch callers; FFTNCCMulti
// is the primary multi-channel entry point.
func FFTNCCSingle(templates, image []float32, nTemplates, templateLen, imageLen, fftLen int, out []float32) error {
	if err := validateSingleShape(nTemplates, templateLen, imageLen, fftLen); err != nil {
		return err
	}

	steps := imageLen - templateLen + 1

	if err := checkLen("templates", templates, nTemplates*templateLen); err != nil {
		return err
	}

	if err := checkLen("image", image, imageLen); err != nil {
		return err
	}

	if err := checkLen("out", out, nTemplates*steps); err != nil {
		return err
	}

	if nTemplates == 0 || steps == 0 {
		return nil
	}

	plan, err := newFFTPlan(fftLen)
	if err != nil {
		return err
	}

	ws := newWorkspace(nTemplates, fftLen)

	return fftNCCSingleChannel(plan, ws, templates, image, nTemplates, templateLen, imageLen, fftLen, out)
}

// fftNCCSingleChannel implements spec.md 4.B against a caller-supplied
// plan and workspace, so the multi-channel orchestrator can share both
// across channels without reallocating or replanning.
func fftNCCSingleChannel(
	plan *fftPlan,
	ws *Workspace,
	templates, image []float32,
	nTemplates, templateLen, imageLen, fftLen int,
	out []float32,
) error {
	steps := imageLen - templateLen + 1
	if nTemplates == 0 || steps == 0 {
		return nil
	}

	ws.reset()

	// Phase 1: zero-pad and time-reverse templates, accumulate the raw
	// (non-reversed) per-template sum and norm, and zero-pad the image.
	normSums := make([]float64, nTemplates)
	normScales := make([]float64, nTemplates)

	for k := 0; k < nTemplates; k++ {
		row := templates[k*templateLen : (k+1)*templateLen]
		dst := ws.TemplateExt[k*fftLen : k*fftLen+templateLen]

		sum := 0.0
		sumSq := 0.0
		for i := 0; i < templateLen; i++ {
			dst[i] = row[templateLen-1-i]
			sum += float64(row[i])
			sumSq += float64(row[i]) * float64(row[i])
		}

		normSums[k] = sum
		normScales[k] = math.Sqrt(float64(templateLen) * sumSq)
	}

	copy(ws.ImageExt[:imageLen], image[:imageLen])

	// Phase 2: forward transforms, pointwise product, inverse transform.
	for k := 0; k < nTemplates; k++ {
		src := ws.TemplateExt[k*fftLen : (k+1)*fftLen]
		dst := ws.OutA[k*ws.halfLen : (k+1)*ws.halfLen]

		if err := plan.Forward(dst, src); err != nil {
			return fmt.Errorf("ncc: forward transform of template %d: %w", k, err)
		}
	}

	if err := plan.Forward(ws.OutB, ws.ImageExt); err != nil {
		return fmt.Errorf("ncc: forward transform of image: %w", err)
	}

	for k := 0; k < nTemplates; k++ {
		a := ws.OutA[k*ws.halfLen : (k+1)*ws.halfLen]
		dst := ws.Out[k*ws.halfLen : (k+1)*ws.halfLen]

		for i := range a {
			dst[i] = a[i] * ws.OutB[i]
		}
	}

	for k := 0; k < nTemplates; k++ {
		src := ws.Out[k*ws.halfLen : (k+1)*ws.halfLen]
		dst := ws.CCC[k*fftLen : (k+1)*fftLen]

		if err := plan.Inverse(dst, src); err != nil {
			return fmt.Errorf("ncc: inverse transform of template %d: %w", k, err)
		}
	}

	// Phase 3: running-moment normalisation, all in double precision.
	startInd := templateLen - 1

	mean, variance := meanAndBiasedVariance(image[:templateLen])

	writeColumn := func(j int, mean, variance float64) {
		if variance < varianceFloor {
			for k := 0; k < nTemplates; k++ {
				out[k*steps+j] = 0
			}

			return
		}

		sigma := math.Sqrt(variance)

		for k := 0; k < nTemplates; k++ {
			if normScales[k] == 0 {
				out[k*steps+j] = 0
				continue
			}

			c := (float64(ws.CCC[k*fftLen+startInd+j]) - normSums[k]*mean) / (sigma * normScales[k])
			out[k*steps+j] = float32(c)
		}
	}

	writeColumn(0, mean, variance)

	for j := 1; j < steps; j++ {
		xIn := float64(image[j+templateLen-1])
		xOut := float64(image[j-1])
		oldMean := mean

		mean += (xIn - xOut) / float64(templateLen)
		variance += (xIn - xOut) * (xIn - mean + xOut - oldMean) / float64(templateLen)

		writeColumn(j, mean, variance)
	}

	return nil
}

// meanAndBiasedVariance computes the mean and biased (divisor = len(x))
// variance of x in double precision.
func meanAndBiasedVariance(x []float32) (mean, variance float64) {
	sum := 0.0
	for _, v := range x {
		sum += float64(v)
	}

	n := float64(len(x))
	mean = sum / n

	varSum := 0.0
	for _, v := range x {
		d := float64(v) - mean
		varSum += d * d
	}

	variance = varSum / n

	return mean, variance
}

func validateSingleShape(nTemplates, templateLen, imageLen, fftLen int) error {
	if nTemplates < 0 {
		return &ShapeError{Field: "nTemplates", Message: "must be non-negative"}
	}

	if templateLen < 1 {
		return &ShapeError{Field: "templateLen", Message: "must be >= 1"}
	}

	if imageLen < templateLen {
		return &ShapeError{Field: "imageLen", Message: "must be >= templateLen"}
	}

	if fftLen < templateLen+imageLen-1 {
		return &ShapeError{Field: "fftLen", Message: "must be >= templateLen + imageLen - 1"}
	}

	return nil
}

func checkLen(name string, buf []float32, want int) error {
	if len(buf) != want {
		return &SizeError{Expected: want, Got: len(buf), Context: name}
	}

	return nil
}
