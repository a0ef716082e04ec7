package benchmark

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-blur/images"
)

func noiseImage(seed int64, w, h int) *image.NRGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	return img
}

func TestSyntheticFrame(t *testing.T) {
	res := images.Resolutions[images.ResolutionAliasNHD]
	a := syntheticFrame(res, 3, 1)
	b := syntheticFrame(res, 3, 1)

	assert.Equal(t, 640, a.width)
	assert.Equal(t, 360, a.height)
	assert.Len(t, a.pix, 640*360*3)
	assert.Equal(t, a.pix, b.pix, "same seed, same noise")
}

func TestPackFrame(t *testing.T) {
	img := image.NewRGBA(image.Rect(2, 3, 4, 4))
	img.SetRGBA(2, 3, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	img.SetRGBA(3, 3, color.RGBA{R: 40, G: 50, B: 60, A: 128})

	rgba := packFrame(img, 4)
	assert.Equal(t, []uint8{10, 20, 30, 255, 40, 50, 60, 128}, rgba.pix)

	rgb := packFrame(img, 3)
	assert.Equal(t, []uint8{10, 20, 30, 40, 50, 60}, rgb.pix)

	la := packFrame(img, 2)
	require.Len(t, la.pix, 4)
	assert.Equal(t, uint8(255), la.pix[1])
	assert.Equal(t, uint8(128), la.pix[3])

	luma := packFrame(img, 1)
	assert.Equal(t, 2, luma.width)
	assert.Equal(t, 1, luma.height)
	assert.Len(t, luma.pix, 2)
}
