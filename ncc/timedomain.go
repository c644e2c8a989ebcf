package ncc

import "math"

// timeNCCSingle computes the direct O(templateLen * steps) NCC of one
// template against one image, per spec.md 4.C. It is the small-input /
// reference path: the template autocorrelation is computed once and
// held constant; the image autocorrelation and the numerator are
// recomputed from scratch for every output column, exactly mirroring
// original_source/eqcorrscan/lib/multi_corr.c's normxcorr_time.
func timeNCCSingle(template, image []float32, out []float32) {
	templateLen := len(template)
	imageLen := len(image)
	steps := imageLen - templateLen + 1

	if steps <= 0 {
		return
	}

	autoA := 0.0
	for _, v := range template {
		autoA += float64(v) * float64(v)
	}

	sum := 0.0
	for _, v := range image[:templateLen] {
		sum += float64(v)
	}

	mean := sum / float64(templateLen)

	out[0] = float32(timeNCCColumn(template, image[0:templateLen], mean, autoA))

	for k := 1; k < steps; k++ {
		mean += (float64(image[k+templateLen-1]) - float64(image[k-1])) / float64(templateLen)
		out[k] = float32(timeNCCColumn(template, image[k:k+templateLen], mean, autoA))
	}
}

// timeNCCColumn computes one output sample given the window's mean and
// the (constant) template autocorrelation.
func timeNCCColumn(template, window []float32, mean, autoA float64) float64 {
	numerator := 0.0
	autoB := 0.0

	for p, t := range template {
		centered := float64(window[p]) - mean
		numerator += float64(t) * centered
		autoB += centered * centered
	}

	denom := math.Sqrt(autoA * autoB)

	return numerator / denom
}

// TimeNCCMulti computes the time-domain NCC of nTemplates templates
// against one image, writing steps = imageLen-templateLen+1 samples per
// template into out (row-major, nTemplates x steps).
//
// This is a pure oracle: unlike FFTNCCMulti, it applies no channel mask,
// no pad shift, and no cross-channel accumulation (spec.md 1, 4.C, 6) —
// exactly multi_normxcorr_time in the original C, a bare loop over
// templates.
func TimeNCCMulti(templates, image []float32, nTemplates, templateLen, imageLen int, out []float32) error {
	if nTemplates < 0 {
		return &ShapeError{Field: "nTemplates", Message: "must be non-negative"}
	}

	if templateLen < 1 {
		return &ShapeError{Field: "templateLen", Message: "must be >= 1"}
	}

	if imageLen < templateLen {
		return &ShapeError{Field: "imageLen", Message: "must be >= templateLen"}
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

	for k := 0; k < nTemplates; k++ {
		timeNCCSingle(templates[k*templateLen:(k+1)*templateLen], image, out[k*steps:(k+1)*steps])
	}

	return nil
}
