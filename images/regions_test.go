package images

import (
	"image"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlurRegions(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	img := noiseRGBA(rng, 20, 20)
	orig := slices.Clone(img.Pix)

	regions := []Rect{
		{X1: -5, Y1: -5, X2: 6, Y2: 6},   // clipped to (0,0)-(6,6)
		{X1: 30, Y1: 30, X2: 40, Y2: 40}, // outside the frame
		{X1: 12, Y1: 12, X2: 12, Y2: 18}, // empty
	}
	require.NoError(t, BlurRegions(img, regions, 2))

	window := image.Rect(0, 0, 6, 6)
	want := blurredWindow(orig, img.Stride, window, 2)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			off := img.PixOffset(x, y)
			got := [4]uint8(img.Pix[off : off+4])
			if image.Pt(x, y).In(window) {
				assert.Equal(t, want[y*6+x], got, "inside (%d,%d)", x, y)
			} else {
				assert.Equal(t, [4]uint8(orig[off:off+4]), got, "outside (%d,%d)", x, y)
			}
		}
	}
}

func TestBlurRegionsUnsupported(t *testing.T) {
	img := image.NewYCbCr(image.Rect(0, 0, 8, 8), image.YCbCrSubsampleRatio420)
	err := BlurRegions(img, []Rect{{X1: 0, Y1: 0, X2: 4, Y2: 4}}, 2)
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	err = BlurRegions(image.NewUniform(image.Black), nil, 2)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestRectRectangle(t *testing.T) {
	assert.Equal(t, image.Rect(1, 2, 5, 9), Rect{X1: 5, Y1: 9, X2: 1, Y2: 2}.Rectangle())
}
