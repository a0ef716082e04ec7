package kernels

import "github.com/chewxy/math32"

// MaxSigma caps the sigma accepted by the planner. Larger values (including
// +Inf) are clamped so box radii and running sums stay well inside int range.
const MaxSigma float32 = 1 << 20

// PlanBoxes returns the box diameters whose successive application
// approximates a Gaussian blur of standard deviation sigma.
//
// One diameter is planned per channel of P, so the number of passes grows
// with the channel count. Every diameter is odd and at least 1; a sigma that
// is not positive (or NaN) yields all ones, which makes every pass a copy.
//
// See http://blog.ivank.net/fastest-gaussian-blur.html for the derivation.
func PlanBoxes[P Pixel](sigma float32) []int {
	return planBoxes(sigma, Channels[P]())
}

func planBoxes(sigma float32, passes int) []int {
	sizes := make([]int, passes)
	if !(sigma > 0) {
		for i := range sizes {
			sizes[i] = 1
		}
		return sizes
	}
	if sigma > MaxSigma {
		sigma = MaxSigma
	}

	n := float32(passes)
	wIdeal := math32.Sqrt(12*sigma*sigma/n) + 1
	wl := int(math32.Floor(wIdeal))
	if wl%2 == 0 {
		wl--
	}
	if wl < 1 {
		wl = 1
	}
	wu := wl + 2

	wlf := float32(wl)
	mIdeal := (12*sigma*sigma - n*wlf*wlf - 4*n*wlf - 3*n) / (-4*wlf - 4)
	m := int(math32.Round(mIdeal))

	for i := range sizes {
		if i < m {
			sizes[i] = wl
		} else {
			sizes[i] = wu
		}
	}
	return sizes
}
