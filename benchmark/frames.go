package benchmark

import (
	"image"
	"math/rand"

	xdraw "golang.org/x/image/draw"

	"github.com/nvr-ai/go-blur/images"
)

// frame is a packed interleaved raster ready for the kernels package.
type frame struct {
	width, height int
	pix           []uint8
}

// syntheticFrame fills a frame of the scenario's size with seeded noise, so
// runs are repeatable.
func syntheticFrame(res images.Resolution, channels int, seed int64) frame {
	w, h := res.Pixels.Width, res.Pixels.Height
	rng := rand.New(rand.NewSource(seed))
	pix := make([]uint8, w*h*channels)
	for i := range pix {
		pix[i] = uint8(rng.Intn(256))
	}
	return frame{width: w, height: h, pix: pix}
}

// packFrame converts img to a tightly packed frame with the given channel
// count: luma, luma and alpha, RGB or RGBA.
func packFrame(img image.Image, channels int) frame {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	f := frame{width: w, height: h, pix: make([]uint8, w*h*channels)}

	var gray *image.Gray
	if channels <= 2 {
		gray = image.NewGray(image.Rect(0, 0, w, h))
		xdraw.Draw(gray, gray.Bounds(), img, b.Min, xdraw.Src)
	}
	var rgba *image.RGBA
	if channels >= 2 {
		rgba = image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.Draw(rgba, rgba.Bounds(), img, b.Min, xdraw.Src)
	}

	for i := 0; i < w*h; i++ {
		dst := f.pix[i*channels : (i+1)*channels]
		switch channels {
		case 1:
			dst[0] = gray.Pix[i]
		case 2:
			dst[0], dst[1] = gray.Pix[i], rgba.Pix[4*i+3]
		default:
			copy(dst, rgba.Pix[4*i:4*i+channels])
		}
	}
	return f
}
