package images

import (
	"image"

	"github.com/pkg/errors"
)

// Rect is a lightweight bounding box, such as a detection to redact.
type Rect struct {
	// X2,Y2 are exclusive (like image.Rectangle).
	X1, Y1, X2, Y2 int
}

// Rectangle converts r to a canonical image.Rectangle.
func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// subImager is implemented by *image.Gray, *image.RGBA and *image.NRGBA.
type subImager interface {
	image.Image
	SubImage(r image.Rectangle) image.Image
}

// BlurRegions blurs each region of img in place, leaving the rest of the
// frame untouched. Regions are clipped to the image bounds and blurred in
// order, so overlapping areas are blurred more than once. Pixels outside a
// region do not bleed into it.
//
// Arguments:
//   - img: a *image.Gray, *image.RGBA or *image.NRGBA frame.
//   - regions: boxes in image coordinates.
//   - sigma: the standard deviation in pixels.
//
// Returns:
//   - error: ErrUnsupportedImage for other image types.
func BlurRegions(img image.Image, regions []Rect, sigma float32) error {
	m, ok := img.(subImager)
	if !ok {
		return errors.Wrapf(ErrUnsupportedImage, "%T", img)
	}
	bounds := m.Bounds()
	for _, region := range regions {
		r := region.Rectangle().Intersect(bounds)
		if r.Empty() {
			continue
		}
		if err := BlurInPlace(m.SubImage(r), sigma); err != nil {
			return err
		}
	}
	return nil
}
