package images

import (
	"bytes"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// opaqueNoise returns an RGBA image with random colours and full alpha.
func opaqueNoise(seed int64, w, h int) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := noiseRGBA(rng, w, h)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img
}

func assertSamePixels(t *testing.T, want, got image.Image) {
	t.Helper()
	require.Equal(t, want.Bounds().Size(), got.Bounds().Size())
	wb, gb := want.Bounds(), got.Bounds()
	for y := 0; y < wb.Dy(); y++ {
		for x := 0; x < wb.Dx(); x++ {
			w := color.RGBAModel.Convert(want.At(wb.Min.X+x, wb.Min.Y+y))
			g := color.RGBAModel.Convert(got.At(gb.Min.X+x, gb.Min.Y+y))
			require.Equal(t, w, g, "pixel (%d,%d)", x, y)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    ImageFormat
		wantErr bool
	}{
		{path: "frame.jpg", want: FormatJPEG},
		{path: "frame.JPEG", want: FormatJPEG},
		{path: "/tmp/out/a.png", want: FormatPNG},
		{path: "a.gif", want: FormatGIF},
		{path: "a.bmp", want: FormatBMP},
		{path: "a.tif", want: FormatTIFF},
		{path: "a.tiff", want: FormatTIFF},
		{path: "a.webp", want: FormatWebP},
		{path: "a.txt", wantErr: true},
		{path: "noext", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JPG")
	require.NoError(t, err)
	assert.Equal(t, FormatJPEG, f)

	f, err = ParseFormat(".webp")
	require.NoError(t, err)
	assert.Equal(t, FormatWebP, f)

	_, err = ParseFormat("heic")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFormatExtension(t *testing.T) {
	assert.Equal(t, ".jpg", FormatJPEG.Extension())
	assert.Equal(t, ".png", FormatPNG.Extension())
	assert.Equal(t, ".tiff", FormatTIFF.Extension())
	assert.Equal(t, ".webp", FormatWebP.Extension())
}

func TestEncodeDecodeLossless(t *testing.T) {
	src := opaqueNoise(1, 23, 17)

	for _, format := range []ImageFormat{FormatPNG, FormatBMP, FormatTIFF, FormatWebP} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Bytes(src, format, EncodeOptions{Lossless: true})
			require.NoError(t, err)

			img, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, format, img.Format)
			assert.Equal(t, 23, img.Width)
			assert.Equal(t, 17, img.Height)
			assertSamePixels(t, src, img.Raster)
		})
	}
}

func TestEncodeDecodeLossy(t *testing.T) {
	src := opaqueNoise(2, 32, 24)

	for _, format := range []ImageFormat{FormatJPEG, FormatGIF, FormatWebP} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Bytes(src, format, EncodeOptions{Quality: 75})
			require.NoError(t, err)
			require.NotEmpty(t, data)

			img, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, format, img.Format)
			assert.Equal(t, 32, img.Width)
			assert.Equal(t, 24, img.Height)
		})
	}
}

func TestEncodeRejectsQuality(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, opaqueNoise(3, 4, 4), FormatJPEG, EncodeOptions{Quality: 101})
	assert.Error(t, err)
	assert.Zero(t, buf.Len())

	err = Encode(&buf, opaqueNoise(3, 4, 4), FormatJPEG, EncodeOptions{Quality: -1})
	assert.Error(t, err)
}

func TestEncodeUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, opaqueNoise(4, 4, 4), ImageFormat("heic"), EncodeOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(nil)
	assert.Error(t, err)

	_, err = Decode([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	png, err := Bytes(opaqueNoise(5, 8, 8), FormatPNG, EncodeOptions{})
	require.NoError(t, err)
	_, err = Decode(png[:len(png)/2])
	assert.Error(t, err, "truncated stream")
	assert.NotErrorIs(t, err, ErrUnsupportedFormat)
}
