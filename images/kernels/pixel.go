package kernels

// Pixel is a fixed-size record of 8-bit channels. The channel count is part of
// the type, so every blur call is specialised for it at compile time.
type Pixel interface {
	~[1]uint8 | ~[2]uint8 | ~[3]uint8 | ~[4]uint8
}

// Common pixel layouts.
type (
	// Luma is a single luminance channel.
	Luma = [1]uint8
	// LumaAlpha is luminance followed by alpha.
	LumaAlpha = [2]uint8
	// RGB is three interleaved color channels.
	RGB = [3]uint8
	// RGBA is three color channels followed by alpha.
	RGBA = [4]uint8
)

// maxChannels bounds the per-channel accumulator arrays.
const maxChannels = 4

// Channels returns the number of channels of the pixel type P.
func Channels[P Pixel]() int {
	var p P
	return len(p)
}
