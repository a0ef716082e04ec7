// Package images adapts Go image types and encoded image files to the
// Gaussian blur in images/kernels.
package images

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/chai2010/webp"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// DefaultQuality is the lossy quality used when EncodeOptions leaves it unset.
const DefaultQuality = 90

// Image represents a decoded image with its source format and dimensions.
type Image struct {
	// The format the image was decoded from.
	Format ImageFormat `json:"format" yaml:"format"`
	// The width of the image.
	Width int `json:"width" yaml:"width"`
	// The height of the image.
	Height int `json:"height" yaml:"height"`
	// The decoded pixels.
	Raster image.Image `json:"-" yaml:"-"`
}

// EncodeOptions tunes the lossy encoders. PNG, GIF, BMP and TIFF ignore it.
type EncodeOptions struct {
	// Quality in 1..100 for JPEG and lossy WebP. Zero selects DefaultQuality.
	Quality int `json:"quality" yaml:"quality"`
	// Lossless selects lossless WebP.
	Lossless bool `json:"lossless" yaml:"lossless"`
}

// Decode sniffs and decodes an encoded image.
//
// Arguments:
//   - data: the encoded bytes of a JPEG, PNG, GIF, BMP, TIFF or WebP file.
//
// Returns:
//   - *Image: the decoded raster and its source format.
//   - error: ErrUnsupportedFormat for unknown streams, or the codec error.
func Decode(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, errors.New("empty image data")
	}

	var (
		raster image.Image
		format ImageFormat
		err    error
	)
	if isWebP(data) {
		format = FormatWebP
		raster, err = webp.Decode(bytes.NewReader(data))
	} else {
		var name string
		raster, name, err = image.Decode(bytes.NewReader(data))
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupportedFormat
		}
		format = ImageFormat(name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s image", format)
	}

	b := raster.Bounds()
	return &Image{Format: format, Width: b.Dx(), Height: b.Dy(), Raster: raster}, nil
}

// isWebP reports whether data starts with a RIFF WEBP header.
func isWebP(data []byte) bool {
	return len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP"
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format ImageFormat, opts EncodeOptions) error {
	quality := opts.Quality
	if quality == 0 {
		quality = DefaultQuality
	}
	if quality < 1 || quality > 100 {
		return errors.Errorf("quality %d out of range 1..100", opts.Quality)
	}

	var err error
	switch format {
	case FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatGIF:
		err = gif.Encode(w, img, nil)
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatWebP:
		err = webp.Encode(w, img, &webp.Options{Lossless: opts.Lossless, Quality: float32(quality)})
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}
	return errors.Wrapf(err, "failed to encode %s image", format)
}

// Bytes encodes img into a new buffer.
func Bytes(img image.Image, format ImageFormat, opts EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, format, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
