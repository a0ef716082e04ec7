package images

import (
	"bytes"
	"image"
	"image/color"
	"log/slog"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-blur/images/kernels"
)

func noiseRGBA(rng *rand.Rand, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	return img
}

func noiseGray(rng *rand.Rand, w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	return img
}

// blurredWindow blurs a copy of the given window of img's pixels directly
// with the kernels package.
func blurredWindow(pix []uint8, stride int, r image.Rectangle, sigma float32) []kernels.RGBA {
	w, h := r.Dx(), r.Dy()
	out := make([]kernels.RGBA, w*h)
	raw := kernels.ToByteSlice(out)
	for y := 0; y < h; y++ {
		off := (r.Min.Y+y)*stride + 4*r.Min.X
		copy(raw[y*4*w:(y+1)*4*w], pix[off:off+4*w])
	}
	kernels.GaussianBlur(out, w, h, sigma)
	return out
}

func TestBlurGray(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	src := noiseGray(rng, 21, 13)
	orig := slices.Clone(src.Pix)

	got := Blur(src, 2.5)

	dst, ok := got.(*image.Gray)
	require.True(t, ok, "gray input stays gray, got %T", got)
	assert.Equal(t, src.Bounds(), dst.Bounds())
	assert.Equal(t, orig, src.Pix, "source must not change")

	want := slices.Clone(orig)
	pixels, err := kernels.FromByteSlice[kernels.Luma](want)
	require.NoError(t, err)
	kernels.GaussianBlur(pixels, 21, 13, 2.5)
	assert.Equal(t, want, dst.Pix)
}

func TestBlurRGBA(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	src := noiseRGBA(rng, 17, 11)
	orig := slices.Clone(src.Pix)

	got := Blur(src, 3)

	dst, ok := got.(*image.RGBA)
	require.True(t, ok)
	assert.Equal(t, orig, src.Pix, "source must not change")
	assert.Equal(t, kernels.ToByteSlice(blurredWindow(orig, src.Stride, src.Bounds(), 3)), dst.Pix)
}

func TestBlurNRGBA(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	src := image.NewNRGBA(image.Rect(0, 0, 9, 9))
	for i := range src.Pix {
		src.Pix[i] = uint8(rng.Intn(256))
	}

	got := Blur(src, 1.5)

	dst, ok := got.(*image.NRGBA)
	require.True(t, ok, "NRGBA input stays NRGBA, got %T", got)
	assert.Equal(t, kernels.ToByteSlice(blurredWindow(src.Pix, src.Stride, src.Bounds(), 1.5)), dst.Pix)
}

func TestBlurOpaqueImageUsesRGB(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	const w, h = 12, 8
	src := image.NewRGBA64(image.Rect(0, 0, w, h))
	rgb := make([]kernels.RGB, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := kernels.RGB{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256))}
			rgb[y*w+x] = px
			src.SetRGBA64(x, y, color.RGBA64{
				R: uint16(px[0]) * 0x101, G: uint16(px[1]) * 0x101, B: uint16(px[2]) * 0x101, A: 0xffff,
			})
		}
	}
	require.True(t, src.Opaque())

	got := Blur(src, 2)
	kernels.GaussianBlur(rgb, w, h, 2)

	dst, ok := got.(*image.RGBA)
	require.True(t, ok)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := rgb[y*w+x]
			assert.Equal(t, color.RGBA{R: px[0], G: px[1], B: px[2], A: 0xff}, dst.RGBAAt(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestBlurTranslucentImageUsesRGBA(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	src := image.NewRGBA64(image.Rect(0, 0, 10, 6))
	for i := range src.Pix {
		src.Pix[i] = uint8(rng.Intn(256))
	}
	// Keep every pixel a valid premultiplied colour.
	for i := 0; i < len(src.Pix); i += 8 {
		for c := 0; c < 6; c += 2 {
			src.Pix[i+c], src.Pix[i+c+1] = min(src.Pix[i+c], src.Pix[i+6]), 0
		}
	}
	require.False(t, src.Opaque())

	converted := toRGBA(src)
	want := blurredWindow(converted.Pix, converted.Stride, converted.Bounds(), 4)

	got := Blur(src, 4)

	dst, ok := got.(*image.RGBA)
	require.True(t, ok)
	assert.Equal(t, kernels.ToByteSlice(want), dst.Pix)
}

func TestBlurKeepsBoundsOrigin(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	src := noiseRGBA(rng, 20, 20).SubImage(image.Rect(5, 3, 15, 9))

	got := Blur(src, 2)

	assert.Equal(t, image.Rect(5, 3, 15, 9), got.Bounds())
}

func TestBlurEmpty(t *testing.T) {
	assert.NotPanics(t, func() {
		Blur(image.NewRGBA(image.Rect(0, 0, 0, 5)), 3)
		Blur(image.NewGray(image.Rect(0, 0, 4, 0)), 3)
		Blur(image.NewYCbCr(image.Rect(0, 0, 0, 0), image.YCbCrSubsampleRatio420), 3)
	})
}

func TestBlurInPlaceSubImage(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	img := noiseRGBA(rng, 16, 12)
	orig := slices.Clone(img.Pix)
	window := image.Rect(3, 2, 11, 9)

	require.NoError(t, BlurInPlace(img.SubImage(window), 2))

	want := blurredWindow(orig, img.Stride, window, 2)
	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			off := img.PixOffset(x, y)
			got := [4]uint8(img.Pix[off : off+4])
			if image.Pt(x, y).In(window) {
				assert.Equal(t, want[(y-window.Min.Y)*window.Dx()+(x-window.Min.X)], kernels.RGBA(got), "inside (%d,%d)", x, y)
			} else {
				assert.Equal(t, [4]uint8(orig[off:off+4]), got, "outside (%d,%d)", x, y)
			}
		}
	}
}

func TestBlurInPlaceFullWidthRows(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	img := noiseGray(rng, 10, 10)
	orig := slices.Clone(img.Pix)

	require.NoError(t, BlurInPlace(img.SubImage(image.Rect(0, 4, 10, 8)), 1.5))

	want := slices.Clone(orig[40:80])
	pixels, err := kernels.FromByteSlice[kernels.Luma](want)
	require.NoError(t, err)
	kernels.GaussianBlur(pixels, 10, 4, 1.5)

	assert.Equal(t, orig[:40], img.Pix[:40])
	assert.Equal(t, want, img.Pix[40:80])
	assert.Equal(t, orig[80:], img.Pix[80:])
}

func TestBlurInPlaceUnsupported(t *testing.T) {
	err := BlurInPlace(image.NewYCbCr(image.Rect(0, 0, 4, 4), image.YCbCrSubsampleRatio444), 2)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
	assert.Contains(t, err.Error(), "*image.YCbCr")
}

func TestBlurLogsPlan(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })

	Blur(image.NewYCbCr(image.Rect(0, 0, 8, 8), image.YCbCrSubsampleRatio420), 2)

	out := buf.String()
	assert.Contains(t, out, "gaussian blur")
	assert.Contains(t, out, "channels=3")
	assert.Contains(t, out, "boxes=\"[5 5 5]\"")
}

func TestLoggerDefaultsSilent(t *testing.T) {
	SetLogger(nil)
	require.NotNil(t, Logger())
	assert.False(t, Logger().Enabled(t.Context(), slog.LevelError))
}

func TestClone(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	gray := noiseGray(rng, 8, 8)
	sub := gray.SubImage(image.Rect(2, 2, 6, 5))

	c, ok := Clone(sub).(*image.Gray)
	require.True(t, ok)
	assert.Equal(t, sub.Bounds(), c.Bounds())
	for y := 2; y < 5; y++ {
		for x := 2; x < 6; x++ {
			assert.Equal(t, gray.GrayAt(x, y), c.GrayAt(x, y))
		}
	}
	c.Pix[0] ^= 0xff
	assert.NotEqual(t, gray.GrayAt(2, 2), c.GrayAt(2, 2), "clone owns its pixels")

	_, ok = Clone(image.NewYCbCr(image.Rect(0, 0, 4, 4), image.YCbCrSubsampleRatio420)).(*image.RGBA)
	assert.True(t, ok, "other types convert to RGBA")
}
