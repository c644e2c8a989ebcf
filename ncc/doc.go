// Package ncc implements normalised cross-correlation template matching:
// a frequency-domain kernel backed by algo-fft, a time-domain oracle used
// to check it and to serve very short inputs, and a multi-channel
// orchestrator that fans the frequency-domain kernel out across a worker
// pool and reduces the per-channel results into one summed trace.
//
// # Shapes
//
// Templates are (nTemplates, templateLen) or, for the multi-channel
// entry point, (nChannels, nTemplates, templateLen); images are
// (imageLen) or (nChannels, imageLen). All buffers are row-major flat
// []float32, matching the C array layout this kernel was ported from.
// Every public function validates buffer lengths against the shape
// parameters it is given and returns a *SizeError or *ShapeError rather
// than panicking or reading out of bounds.
//
// # Worker count
//
// FFTNCCMulti resolves its worker count from, in order: an explicit
// WithWorkers option, the NCC_MAX_WORKERS environment variable, then
// runtime.GOMAXPROCS. See options.go.
package ncc
