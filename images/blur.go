package images

import (
	"context"
	"image"
	"log/slog"

	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"

	"github.com/nvr-ai/go-blur/images/kernels"
)

// ErrUnsupportedImage is returned by BlurInPlace for image types whose pixels
// are not stored as interleaved 8-bit channels.
var ErrUnsupportedImage = errors.New("image type cannot be blurred in place")

// Blur returns a Gaussian-blurred copy of img; img itself is not modified.
//
// Gray images are blurred as one channel and RGBA/NRGBA images as four.
// Any other opaque image is blurred as packed RGB, which plans one pass fewer,
// and anything else is converted to RGBA first. Non-RGBA inputs come back as
// *image.RGBA.
//
// Arguments:
//   - img: the source image.
//   - sigma: the standard deviation in pixels; sigma <= 0 returns an unblurred copy.
//
// Returns:
//   - image.Image: a new image with the same bounds as img.
func Blur(img image.Image, sigma float32) image.Image {
	dst := Clone(img)
	switch img.(type) {
	case *image.Gray, *image.RGBA, *image.NRGBA:
	default:
		if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
			blurOpaque(dst.(*image.RGBA), sigma)
			return dst
		}
	}
	blurInPlace(dst, sigma)
	return dst
}

// Clone copies img into a *image.Gray, *image.RGBA or *image.NRGBA with the
// same bounds. Gray, RGBA and NRGBA keep their type; everything else is
// converted to RGBA. The result can be passed to BlurInPlace and BlurRegions.
func Clone(img image.Image) image.Image {
	b := img.Bounds()
	switch m := img.(type) {
	case *image.Gray:
		dst := image.NewGray(b)
		copyRows(dst.Pix, dst.Stride, pixFrom(m.Pix, m.PixOffset(b.Min.X, b.Min.Y)), m.Stride, b.Dx(), b.Dy())
		return dst
	case *image.RGBA:
		dst := image.NewRGBA(b)
		copyRows(dst.Pix, dst.Stride, pixFrom(m.Pix, m.PixOffset(b.Min.X, b.Min.Y)), m.Stride, 4*b.Dx(), b.Dy())
		return dst
	case *image.NRGBA:
		dst := image.NewNRGBA(b)
		copyRows(dst.Pix, dst.Stride, pixFrom(m.Pix, m.PixOffset(b.Min.X, b.Min.Y)), m.Stride, 4*b.Dx(), b.Dy())
		return dst
	}
	return toRGBA(img)
}

// BlurInPlace blurs the pixels of a *image.Gray, *image.RGBA or *image.NRGBA
// directly. Sub-images are supported; only the pixels inside the bounds change.
func BlurInPlace(img image.Image, sigma float32) error {
	if !blurInPlace(img, sigma) {
		return errors.Wrapf(ErrUnsupportedImage, "%T", img)
	}
	return nil
}

func blurInPlace(img image.Image, sigma float32) bool {
	b := img.Bounds()
	switch m := img.(type) {
	case *image.Gray:
		blurPix[kernels.Luma](pixFrom(m.Pix, m.PixOffset(b.Min.X, b.Min.Y)), m.Stride, b.Dx(), b.Dy(), sigma)
	case *image.RGBA:
		blurPix[kernels.RGBA](pixFrom(m.Pix, m.PixOffset(b.Min.X, b.Min.Y)), m.Stride, b.Dx(), b.Dy(), sigma)
	case *image.NRGBA:
		blurPix[kernels.RGBA](pixFrom(m.Pix, m.PixOffset(b.Min.X, b.Min.Y)), m.Stride, b.Dx(), b.Dy(), sigma)
	default:
		return false
	}
	return true
}

// blurPix blurs a width x height window of interleaved pixels whose rows are
// stride bytes apart. Tightly packed windows are blurred without copying;
// others go through a packed scratch buffer.
func blurPix[P kernels.Pixel](pix []uint8, stride, width, height int, sigma float32) {
	if width <= 0 || height <= 0 {
		return
	}
	logBlur[P](width, height, sigma)

	rowBytes := width * kernels.Channels[P]()
	if stride == rowBytes {
		pixels, err := kernels.FromByteSlice[P](pix[:rowBytes*height])
		if err != nil {
			panic(errors.Wrap(err, "images: packed window"))
		}
		kernels.GaussianBlur(pixels, width, height, sigma)
		return
	}

	packed := make([]P, width*height)
	raw := kernels.ToByteSlice(packed)
	copyRows(raw, rowBytes, pix, stride, rowBytes, height)
	kernels.GaussianBlur(packed, width, height, sigma)
	copyRows(pix, stride, raw, rowBytes, rowBytes, height)
}

// blurOpaque blurs the colour channels of dst as packed RGB and leaves alpha
// at 255.
func blurOpaque(dst *image.RGBA, sigma float32) {
	width, height := dst.Rect.Dx(), dst.Rect.Dy()
	if width <= 0 || height <= 0 {
		return
	}
	logBlur[kernels.RGB](width, height, sigma)

	rgb := make([]kernels.RGB, width*height)
	for y := 0; y < height; y++ {
		row := dst.Pix[y*dst.Stride:]
		for x := 0; x < width; x++ {
			rgb[y*width+x] = kernels.RGB{row[4*x], row[4*x+1], row[4*x+2]}
		}
	}

	kernels.GaussianBlur(rgb, width, height, sigma)

	for y := 0; y < height; y++ {
		row := dst.Pix[y*dst.Stride:]
		for x := 0; x < width; x++ {
			px := rgb[y*width+x]
			row[4*x], row[4*x+1], row[4*x+2], row[4*x+3] = px[0], px[1], px[2], 0xff
		}
	}
}

func logBlur[P kernels.Pixel](width, height int, sigma float32) {
	l := Logger()
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Debug("gaussian blur",
		slog.Int("width", width),
		slog.Int("height", height),
		slog.Int("channels", kernels.Channels[P]()),
		slog.Float64("sigma", float64(sigma)),
		slog.Any("boxes", kernels.PlanBoxes[P](sigma)),
	)
}

// toRGBA converts img to a new *image.RGBA with the same bounds.
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(b)
	xdraw.Draw(dst, b, img, b.Min, xdraw.Src)
	return dst
}

// copyRows copies height rows of rowBytes bytes between two strided buffers.
func copyRows(dst []uint8, dstStride int, src []uint8, srcStride int, rowBytes, height int) {
	if rowBytes <= 0 {
		return
	}
	for y := 0; y < height; y++ {
		copy(dst[y*dstStride:y*dstStride+rowBytes], src[y*srcStride:y*srcStride+rowBytes])
	}
}

// pixFrom returns pix starting at off, or nil when the window is empty.
func pixFrom(pix []uint8, off int) []uint8 {
	if off < 0 || off >= len(pix) {
		return nil
	}
	return pix[off:]
}
