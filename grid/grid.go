// Package grid indexes the (channel, template, step) output tensor that
// ncc.FFTNCCMulti reduces across its channel axis: row-major strides for
// a 3D shape, and an iterator that walks every line parallel to one axis
// so a reduction can be split across goroutines by line range.
package grid

// Shape is the extent of the (channel, template, step) tensor along
// each of its three axes.
type Shape [3]int

// NewShape3D builds the tensor shape for nChannels channels,
// nTemplates templates, and steps output samples per trace.
func NewShape3D(nChannels, nTemplates, steps int) Shape {
	return Shape{nChannels, nTemplates, steps}
}

// Stride holds the row-major memory strides for a Shape: stride[i] is
// the number of elements to skip to advance one step along axis i.
type Stride [3]int

// RowMajorStride computes row-major (C-order) strides for a shape.
func RowMajorStride(s Shape) Stride {
	return Stride{s[1] * s[2], s[2], 1}
}

// Index returns the linear index for coordinates using strides.
func Index(i, j, k int, stride Stride) int {
	return i*stride[0] + j*stride[1] + k*stride[2]
}

// LineIterator walks every line of a Shape parallel to one axis, in
// row-major order of the other two axes. A line at channel-axis 0 of
// the (nChannels, nTemplates, steps) tensor is one (template, step)
// pair's run of nChannels channel planes.
type LineIterator struct {
	shape  Shape
	stride Stride
	axis   int

	pos   [2]int // position in the two non-axis dimensions
	max   [2]int // extent of those two dimensions
	other [2]int // which axes they are

	done bool
}

// NewLineIterator creates an iterator over lines parallel to axis in
// shape. The iterator starts positioned on the first line; call
// StartIndex before the first Next.
func NewLineIterator(shape Shape, axis int) *LineIterator {
	stride := RowMajorStride(shape)
	it := &LineIterator{
		shape:  shape,
		stride: stride,
		axis:   axis,
	}

	idx := 0

	for d := range 3 {
		if d != axis {
			it.other[idx] = d
			it.max[idx] = shape[d]

			idx++
			if idx >= 2 {
				break
			}
		}
	}

	return it
}

// Next advances to the next line. Returns false when done.
func (it *LineIterator) Next() bool {
	if it.done {
		return false
	}

	it.pos[1]++
	if it.pos[1] >= it.max[1] {
		it.pos[1] = 0

		it.pos[0]++
		if it.pos[0] >= it.max[0] {
			it.done = true
			return false
		}
	}

	return true
}

// StartIndex returns the starting linear index for the current line.
func (it *LineIterator) StartIndex() int {
	var coords [3]int

	coords[it.other[0]] = it.pos[0]
	coords[it.other[1]] = it.pos[1]
	coords[it.axis] = 0

	return Index(coords[0], coords[1], coords[2], it.stride)
}

// LineStride returns the stride to advance along the line.
func (it *LineIterator) LineStride() int {
	return it.stride[it.axis]
}

// LineLength returns the number of elements in each line.
func (it *LineIterator) LineLength() int {
	return it.shape[it.axis]
}

// NumLines returns the total number of lines.
func (it *LineIterator) NumLines() int {
	total := 1

	for d := range 3 {
		if d != it.axis && it.shape[d] > 0 {
			total *= it.shape[d]
		}
	}

	return total
}
