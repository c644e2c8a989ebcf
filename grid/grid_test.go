package grid

import "testing"

func TestRowMajorStride(t *testing.T) {
	shape := NewShape3D(3, 4, 5)

	want := Stride{20, 5, 1}
	if got := RowMajorStride(shape); got != want {
		t.Errorf("RowMajorStride(%v) = %v, want %v", shape, got, want)
	}
}

func TestIndex(t *testing.T) {
	shape := NewShape3D(3, 4, 5)
	stride := RowMajorStride(shape)

	tests := []struct {
		i, j, k int
		want    int
	}{
		{0, 0, 0, 0},
		{0, 0, 1, 1},
		{0, 1, 0, 5},
		{1, 0, 0, 20},
		{2, 3, 4, 59},
	}

	for _, tt := range tests {
		if got := Index(tt.i, tt.j, tt.k, stride); got != tt.want {
			t.Errorf("Index(%d, %d, %d) = %d, want %d", tt.i, tt.j, tt.k, got, tt.want)
		}
	}
}

// TestLineIterator_ChannelAxis exercises the exact shape and axis
// accumulateChannels uses: a (nChannels, nTemplates, steps) tensor,
// walking channel-axis lines in row-major (template, step) order.
func TestLineIterator_ChannelAxis(t *testing.T) {
	const (
		nChannels  = 3
		nTemplates = 2
		steps      = 4
	)

	shape := NewShape3D(nChannels, nTemplates, steps)
	it := NewLineIterator(shape, 0)

	if got := it.NumLines(); got != nTemplates*steps {
		t.Fatalf("NumLines() = %d, want %d", got, nTemplates*steps)
	}

	if got := it.LineLength(); got != nChannels {
		t.Fatalf("LineLength() = %d, want %d", got, nChannels)
	}

	stride := RowMajorStride(shape)
	if got := it.LineStride(); got != stride[0] {
		t.Fatalf("LineStride() = %d, want %d", got, stride[0])
	}

	// First line is (template 0, step 0), starting at index 0; lines
	// then advance step-fastest, matching row-major (template, step)
	// order for a fixed channel.
	wantStarts := []int{0, 1, 2, 3, 4, 5, 6, 7}

	starts := []int{it.StartIndex()}
	for it.Next() {
		starts = append(starts, it.StartIndex())
	}

	if len(starts) != len(wantStarts) {
		t.Fatalf("got %d lines, want %d", len(starts), len(wantStarts))
	}

	for i, want := range wantStarts {
		if starts[i] != want {
			t.Errorf("starts[%d] = %d, want %d", i, starts[i], want)
		}
	}
}

func TestLineIterator_SingleChannelHasNoOtherLinesToSum(t *testing.T) {
	shape := NewShape3D(1, 2, 3)
	it := NewLineIterator(shape, 0)

	if got := it.LineLength(); got != 1 {
		t.Fatalf("LineLength() = %d, want 1", got)
	}

	if got := it.NumLines(); got != 6 {
		t.Fatalf("NumLines() = %d, want 6", got)
	}
}
