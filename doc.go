// Package nccfft provides a frequency-domain normalised cross-correlation
// (NCC) kernel for multi-channel template matching.
//
// This package builds on algo-fft to provide an O((L_t+L_i) log L_f)
// alternative to the direct O(L_t*L_i) correlator, with:
//   - A single-channel FFT NCC kernel with running-moment normalisation
//   - A time-domain kernel used as a correctness oracle and for tiny inputs
//   - A multi-channel orchestrator that fans work out across a worker pool,
//     one FFT workspace per worker, and reduces the per-channel traces into
//     a single summed trace
//
// # Architecture
//
// The library follows a plan/workspace split similar to FFTW and algo-fft:
//
//  1. The orchestrator allocates one workspace per worker and builds one
//     real-FFT plan once, serially, before any worker runs; that plan
//     serves the template forward, image forward, and inverse transforms.
//  2. Each worker applies the shared plan to its own workspace buffers
//     (algo-fft's Forward/Inverse take explicit source/destination slices,
//     so one plan can be reused across every worker's buffers).
//  3. Per-channel traces are sanitised, clamped, and pad-shifted, then
//     reduced (summed) across the channel axis into the first plane.
//
// # Packages
//
//   - ncc: the FFT and time-domain NCC kernels and the multi-channel orchestrator
//   - grid: tensor shape, stride, and axis-iteration utilities
//
// # Example
//
//	out := make([]float32, nChannels*nTemplates*steps)
//	err := ncc.FFTNCCMulti(ncc.MultiParams{
//	    Templates:  templates,
//	    Image:      image,
//	    NChannels:  nChannels,
//	    NTemplates: nTemplates,
//	    TemplateLen: templateLen,
//	    ImageLen:    imageLen,
//	    FFTLen:      fftLen,
//	    UsedChans:   usedChans,
//	    Pad:         pad,
//	}, out)
//	if err != nil {
//	    log.Fatal(err)
//	}
package nccfft
