package ncc

import (
	"fmt"
	"sync/atomic"

	"github.com/MeKo-Tech/ncc-fft/grid"
)

// MultiParams describes one multi-channel FFTNCCMulti call. Templates has
// logical shape (nChannels, nTemplates, templateLen); Image has shape
// (nChannels, imageLen); UsedChans and Pad both have shape
// (nChannels, nTemplates), row-major. spec.md 4.D.
type MultiParams struct {
	Templates []float32
	Image     []float32

	NChannels   int
	NTemplates  int
	TemplateLen int
	ImageLen    int
	FFTLen      int

	// UsedChans masks out (channel, template) pairs the caller doesn't
	// want included in the output: masked traces are zeroed and excluded
	// from the accumulation.
	UsedChans []bool

	// Pad holds, per (channel, template) pair, the number of leading
	// samples to drop from that trace before accumulation (spec.md 4.E
	// step 3).
	Pad []int
}

// FFTNCCMulti computes the masked, pad-aligned, cross-channel-summed NCC
// of NChannels channels against NTemplates templates each, per spec.md
// 4.D-4.E. out must hold NChannels*NTemplates*steps samples, row-major
// (channel, template, step); on return, out[0:NTemplates*steps] holds the
// channel-summed result and the remaining channel planes hold the
// individual per-channel traces used to build it.
//
// One FFT plan and one Workspace per worker are built serially before any
// channel is processed, then shared read-only (the plan) or exclusively
// (the workspace, indexed by worker id) across the parallel region —
// see parallelForChannels and workspace.go.
func FFTNCCMulti(params MultiParams, out []float32, opts ...Option) error {
	if err := validateMultiShape(params); err != nil {
		return err
	}

	steps := params.ImageLen - params.TemplateLen + 1

	if err := checkLen("out", out, params.NChannels*params.NTemplates*steps); err != nil {
		return err
	}

	if params.NChannels == 0 || params.NTemplates == 0 || steps == 0 {
		return nil
	}

	options := ApplyOptions(DefaultOptions(), opts)

	requested := options.Workers
	if requested == 0 {
		requested = WorkersFromEnv()
	}

	workers := clampWorkers(effectiveWorkers(requested), params.NChannels)

	plan, err := newFFTPlan(params.FFTLen)
	if err != nil {
		return err
	}

	workspaces, err := allocateWorkspaces(workers, params.NTemplates, params.FFTLen)
	if err != nil {
		return err
	}

	var overflow atomic.Int64

	runErr := parallelForChannels(workers, params.NChannels, func(worker, c int) error {
		ws := workspaces[worker]

		chTemplates := params.Templates[c*params.NTemplates*params.TemplateLen : (c+1)*params.NTemplates*params.TemplateLen]
		chImage := params.Image[c*params.ImageLen : (c+1)*params.ImageLen]
		chOut := out[c*params.NTemplates*steps : (c+1)*params.NTemplates*steps]

		if err := fftNCCSingleChannel(
			plan, ws, chTemplates, chImage,
			params.NTemplates, params.TemplateLen, params.ImageLen, params.FFTLen,
			chOut,
		); err != nil {
			return fmt.Errorf("ncc: channel %d: %w", c, err)
		}

		for k := 0; k < params.NTemplates; k++ {
			trace := chOut[k*steps : (k+1)*steps]

			if !params.UsedChans[c*params.NTemplates+k] {
				for i := range trace {
					trace[i] = 0
				}

				continue
			}

			sanitizeTrace(trace, &overflow)
		}

		return nil
	})
	if runErr != nil {
		return runErr
	}

	if overflow.Load() > 0 {
		return ErrNormalisationFailed
	}

	for c := 0; c < params.NChannels; c++ {
		chOut := out[c*params.NTemplates*steps : (c+1)*params.NTemplates*steps]

		for k := 0; k < params.NTemplates; k++ {
			pad := params.Pad[c*params.NTemplates+k]
			if pad == 0 {
				continue
			}

			applyPad(chOut[k*steps:(k+1)*steps], pad)
		}
	}

	return accumulateChannels(out, params.NChannels, params.NTemplates, steps, workers)
}

// allocateWorkspaces builds one Workspace per worker, converting an
// out-of-memory panic (Go exposes allocation failure no other way) into
// ErrAllocationFailed rather than crashing the process.
func allocateWorkspaces(workers, nTemplates, fftLen int) (ws []*Workspace, err error) {
	defer func() {
		if r := recover(); r != nil {
			ws = nil
			err = fmt.Errorf("%w: %v", ErrAllocationFailed, r)
		}
	}()

	ws = make([]*Workspace, workers)
	for i := range ws {
		ws[i] = newWorkspace(nTemplates, fftLen)
	}

	return ws, nil
}

// accumulateChannels sums channel planes 1..NChannels-1 of out into plane
// 0, in place, parallelised over (template, step) lines along the channel
// axis (spec.md 4.D step 7). Lines are split into contiguous chunks by
// parallelFor, and each chunk advances its own grid.LineIterator from the
// chunk's first line, so no iterator state is ever shared across workers.
func accumulateChannels(out []float32, nChannels, nTemplates, steps, requestedWorkers int) error {
	if nChannels <= 1 {
		return nil
	}

	shape := grid.NewShape3D(nChannels, nTemplates, steps)
	totalLines := grid.NewLineIterator(shape, 0).NumLines()

	workers := clampWorkers(requestedWorkers, totalLines)

	return parallelFor(workers, totalLines, func(start, end int) error {
		it := grid.NewLineIterator(shape, 0)

		for i := 0; i < start; i++ {
			it.Next()
		}

		lineLen := it.LineLength()
		lineStride := it.LineStride()

		for i := start; i < end; i++ {
			startIdx := it.StartIndex()

			for c := 1; c < lineLen; c++ {
				out[startIdx] += out[startIdx+c*lineStride]
			}

			if i+1 < end {
				it.Next()
			}
		}

		return nil
	})
}

func validateMultiShape(p MultiParams) error {
	if p.NChannels < 0 {
		return &ShapeError{Field: "NChannels", Message: "must be non-negative"}
	}

	if err := validateSingleShape(p.NTemplates, p.TemplateLen, p.ImageLen, p.FFTLen); err != nil {
		return err
	}

	if err := checkLen("Templates", p.Templates, p.NChannels*p.NTemplates*p.TemplateLen); err != nil {
		return err
	}

	if err := checkLen("Image", p.Image, p.NChannels*p.ImageLen); err != nil {
		return err
	}

	if want := p.NChannels * p.NTemplates; len(p.UsedChans) != want {
		return &SizeError{Expected: want, Got: len(p.UsedChans), Context: "UsedChans"}
	}

	if want := p.NChannels * p.NTemplates; len(p.Pad) != want {
		return &SizeError{Expected: want, Got: len(p.Pad), Context: "Pad"}
	}

	steps := p.ImageLen - p.TemplateLen + 1

	for i, pad := range p.Pad {
		if pad < 0 || pad > steps {
			return &ShapeError{Field: "Pad", Message: fmt.Sprintf("entry %d (%d) must be within [0, steps]", i, pad)}
		}
	}

	return nil
}
