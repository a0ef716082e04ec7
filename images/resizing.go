package images

import (
	"image"

	"github.com/nfnt/resize"
)

// ResampleFilter defines the resampling algorithm used for image scaling.
type ResampleFilter int

const (
	// LanczosFilter uses Lanczos resampling with a=3 (slowest, best quality).
	LanczosFilter ResampleFilter = iota
	// NearestNeighborFilter uses nearest-neighbor interpolation (fastest, lowest quality).
	NearestNeighborFilter
	// BilinearFilter uses bilinear interpolation (fast, good quality).
	BilinearFilter
	// BicubicFilter uses bicubic interpolation (slower, better quality).
	BicubicFilter
	// MitchellNetravaliFilter uses the Mitchell-Netravali cubic filter (balanced).
	MitchellNetravaliFilter
)

func (f ResampleFilter) interpolation() resize.InterpolationFunction {
	switch f {
	case NearestNeighborFilter:
		return resize.NearestNeighbor
	case BilinearFilter:
		return resize.Bilinear
	case BicubicFilter:
		return resize.Bicubic
	case MitchellNetravaliFilter:
		return resize.MitchellNetravali
	default:
		return resize.Lanczos3
	}
}

// Fit shrinks img to fit within maxWidth x maxHeight, keeping its aspect
// ratio, with a Lanczos filter. Images that already fit, and non-positive
// limits, return img unchanged.
//
// Blur cost grows with the pixel count, so large camera frames are usually
// fitted before blurring.
func Fit(img image.Image, maxWidth, maxHeight int) image.Image {
	return FitWithFilter(img, maxWidth, maxHeight, LanczosFilter)
}

// FitWithFilter is Fit with a chosen resampling filter.
func FitWithFilter(img image.Image, maxWidth, maxHeight int, filter ResampleFilter) image.Image {
	if maxWidth <= 0 || maxHeight <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= maxWidth && b.Dy() <= maxHeight {
		return img
	}
	return resize.Thumbnail(uint(maxWidth), uint(maxHeight), img, filter.interpolation())
}
