package ncc

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// fftPlan is the real<->complex transform type this kernel is built on.
// algo-fft's Forward/Inverse take explicit source/destination slices
// rather than buffers bound at construction time, so a single plan of a
// given length can be built once and applied to every worker's
// workspace buffers ("new-array" execution, see doc.go and
// DESIGN.md's Plan reuse section).
type fftPlan = algofft.PlanRealT[float32, complex64]

// newFFTPlan builds the one shared transform plan for a call: a single
// real<->complex plan of length fftLen serves as Pa (batched template
// forward, applied once per template row), Pb (image forward), and Px
// (batched inverse, applied once per template row) from spec.md 4.A —
// grounded on pw_convoverb's ConvolutionStage, which reuses one
// *algofft.PlanRealT[float32, complex64] for both its forward and
// inverse calls.
func newFFTPlan(fftLen int) (*fftPlan, error) {
	plan, err := algofft.NewPlanReal32(fftLen)
	if err != nil {
		return nil, fmt.Errorf("ncc: creating FFT plan of length %d: %w", fftLen, err)
	}

	return plan, nil
}

// Workspace holds the scratch buffers for one worker, sized for a given
// (nTemplates, fftLen) pair. It implements spec.md 4.A: template_ext,
// image_ext, ccc, outa, outb, out.
type Workspace struct {
	fftLen     int
	nTemplates int
	halfLen    int

	// TemplateExt holds the zero-padded, time-reversed templates, one
	// row of length fftLen per template.
	TemplateExt []float32

	// ImageExt holds the zero-padded image, length fftLen.
	ImageExt []float32

	// CCC holds the inverse-transform output, one row of length fftLen
	// per template.
	CCC []float32

	// OutA holds the forward transform of TemplateExt, one row of
	// length halfLen per template.
	OutA []complex64

	// OutB holds the forward transform of ImageExt, length halfLen.
	OutB []complex64

	// Out holds the pointwise product OutA .* OutB, one row of length
	// halfLen per template.
	Out []complex64
}

// newWorkspace allocates a Workspace for nTemplates templates and an
// fftLen-length transform. Allocation failure (out-of-memory) surfaces
// as a recovered panic converted to ErrAllocationFailed by the caller
// (see multi.go); Go's runtime does not expose allocation failure any
// other way, and its garbage collector reclaims any partially built
// buffers once the Workspace value is dropped, standing in for the
// original's explicit free_fftw_arrays cleanup.
func newWorkspace(nTemplates, fftLen int) *Workspace {
	halfLen := fftLen/2 + 1

	return &Workspace{
		fftLen:      fftLen,
		nTemplates:  nTemplates,
		halfLen:     halfLen,
		TemplateExt: make([]float32, fftLen*nTemplates),
		ImageExt:    make([]float32, fftLen),
		CCC:         make([]float32, fftLen*nTemplates),
		OutA:        make([]complex64, halfLen*nTemplates),
		OutB:        make([]complex64, halfLen),
		Out:         make([]complex64, halfLen*nTemplates),
	}
}

// reset zeros the two transform input buffers ahead of a new channel's
// single-channel kernel invocation (spec.md 4.D step 4: "zeros
// template_ext and image_ext").
func (w *Workspace) reset() {
	for i := range w.TemplateExt {
		w.TemplateExt[i] = 0
	}

	for i := range w.ImageExt {
		w.ImageExt[i] = 0
	}
}
