package kernels

import (
	"math"
	"slices"

	"github.com/pkg/errors"
)

// GaussianBlur blurs data in place with a multi-pass box blur approximating a
// Gaussian of standard deviation sigma.
//
// data holds width*height pixels in row-major order; any pixels past that are
// left untouched. A single back buffer the size of data is allocated per call.
// A sigma that is not positive leaves data unchanged.
//
// GaussianBlur panics if data holds fewer than width*height pixels.
func GaussianBlur[P Pixel](data []P, width, height int, sigma float32) {
	checkBounds(len(data), width, height)

	boxes := PlanBoxes[P](sigma)
	back := slices.Clone(data)
	for _, size := range boxes {
		boxBlur(data, back, width, height, (size-1)/2, width)
	}
}

// GaussianBlurBytes is GaussianBlur over a packed byte buffer. It fails with a
// SliceSizeError when len(data) is not a multiple of the channel count of P.
func GaussianBlurBytes[P Pixel](data []byte, width, height int, sigma float32) error {
	pixels, err := FromByteSlice[P](data)
	if err != nil {
		return err
	}
	GaussianBlur(pixels, width, height, sigma)
	return nil
}

// BoxBlur applies a single separable box blur of the given radius in place.
// The window is 2*radius+1 pixels wide in both directions; edges clamp.
// A radius below 1 leaves data unchanged.
//
// BoxBlur panics if data holds fewer than width*height pixels.
func BoxBlur[P Pixel](data []P, width, height, radius int) {
	checkBounds(len(data), width, height)
	if radius < 1 {
		return
	}
	back := slices.Clone(data)
	boxBlur(data, back, width, height, radius, width)
}

// checkBounds panics unless n pixels hold a width x height image. The
// division form avoids overflowing width*height.
func checkBounds(n, width, height int) {
	if width < 0 || height < 0 || (width > 0 && height > n/width) {
		panic(errors.Errorf("kernels: %d pixels cannot hold a %dx%d image", n, width, height))
	}
}

// boxBlur runs the horizontal pass front->back and the vertical pass
// back->front, so the result is always in front.
func boxBlur[P Pixel](front, back []P, width, height, radius, stride int) {
	boxBlurHorz(front, back, width, height, radius, stride)
	boxBlurVert(back, front, width, height, radius, stride)
}

// boxBlurHorz averages every row of src into dst.
func boxBlurHorz[P Pixel](src, dst []P, width, height, radius, stride int) {
	if radius == 0 {
		copy(dst, src)
		return
	}
	inv := 1 / float32(2*radius+1)
	for y := 0; y < height; y++ {
		boxBlurLine(src, dst, y*stride, 1, width, radius, inv)
	}
}

// boxBlurVert averages every column of src into dst.
func boxBlurVert[P Pixel](src, dst []P, width, height, radius, stride int) {
	if radius == 0 {
		copy(dst, src)
		return
	}
	inv := 1 / float32(2*radius+1)
	for x := 0; x < width; x++ {
		boxBlurLine(src, dst, x, stride, height, radius, inv)
	}
}

// boxBlurLine computes the clamp-to-edge moving average of one scan line.
// The line starts at src[start] and has length pixels spaced step apart.
// inv is 1/(2*radius+1).
func boxBlurLine[P Pixel](src, dst []P, start, step, length, radius int, inv float32) {
	if length == 0 {
		return
	}
	last := start + (length-1)*step
	fv, lv := src[start], src[last]
	channels := len(fv)

	// Seed with the window centred one pixel before the line start.
	var acc [maxChannels]int
	for c := 0; c < channels; c++ {
		acc[c] = (radius + 1) * int(fv[c])
	}
	for j := 0; j < min(radius, length); j++ {
		px := src[start+j*step]
		for c := 0; c < channels; c++ {
			acc[c] += int(px[c])
		}
	}
	if radius > length {
		for c := 0; c < channels; c++ {
			acc[c] += (radius - length) * int(lv[c])
		}
	}

	ti, li, ri := start, start, start+radius*step

	// Leading edge: the pixel leaving on the left is still the clamped first.
	for i := 0; i < min(length, radius+1); i++ {
		in := lv
		if ri <= last {
			in = src[ri]
		}
		ri += step
		for c := 0; c < channels; c++ {
			acc[c] += int(in[c]) - int(fv[c])
		}
		dst[ti] = average[P](&acc, inv)
		ti += step
	}
	if length <= radius {
		return
	}

	// Middle: both window edges are inside the line.
	for i := radius + 1; i < length-radius; i++ {
		in, out := src[ri], src[li]
		ri += step
		li += step
		for c := 0; c < channels; c++ {
			acc[c] += int(in[c]) - int(out[c])
		}
		dst[ti] = average[P](&acc, inv)
		ti += step
	}

	// Trailing edge: the pixel entering on the right is the clamped last.
	for i := 0; i < min(length-radius-1, radius); i++ {
		out := src[li]
		li += step
		for c := 0; c < channels; c++ {
			acc[c] += int(lv[c]) - int(out[c])
		}
		dst[ti] = average[P](&acc, inv)
		ti += step
	}
}

func average[P Pixel](acc *[maxChannels]int, inv float32) P {
	var px P
	for c := 0; c < len(px); c++ {
		px[c] = roundAverage(acc[c], inv)
	}
	return px
}

// roundAverage scales a window sum by inv and rounds half to even, the same
// result as forcing the rounding through a float32 mantissa.
func roundAverage(sum int, inv float32) uint8 {
	v := math.RoundToEven(float64(float32(sum) * inv))
	switch {
	case v < 0:
		return 0
	case v > math.MaxUint8:
		return math.MaxUint8
	}
	return uint8(v)
}
