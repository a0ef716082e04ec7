package kernels

import (
	"fmt"
	"unsafe"
)

// SliceSizeError reports a byte buffer whose length is not a multiple of the
// pixel channel count.
type SliceSizeError struct {
	// Expected is the largest whole-pixel length not above Actual.
	Expected int
	// Actual is the length of the rejected buffer.
	Actual int
	// Channels is the channel count of the requested pixel type.
	Channels int
}

func (e SliceSizeError) Error() string {
	return fmt.Sprintf("incorrect byte slice length %d for %d channel image, expected %d or %d",
		e.Actual, e.Channels, e.Expected, e.Expected+e.Channels)
}

// FromByteSlice reinterprets a packed byte buffer as pixels of type P without
// copying. Writes through the returned slice are visible in data.
//
// Arguments:
//   - data: interleaved channel bytes, len(data) must be a multiple of the channel count.
//
// Returns:
//   - []P: a view of data, len(data)/channels pixels long.
//   - error: a SliceSizeError when the length does not divide evenly.
//
// @example
//
//	pixels, err := kernels.FromByteSlice[kernels.RGB]([]byte{0xff, 0x00, 0xff, 0xff, 0x00, 0xff})
//	// len(pixels) == 2
func FromByteSlice[P Pixel](data []byte) ([]P, error) {
	channels := Channels[P]()
	count := len(data) / channels
	if expected := count * channels; expected != len(data) {
		return nil, SliceSizeError{Expected: expected, Actual: len(data), Channels: channels}
	}
	if count == 0 {
		return []P{}, nil
	}
	// [N]uint8 has alignment 1 and size N, so any byte address is a valid *P.
	return unsafe.Slice((*P)(unsafe.Pointer(unsafe.SliceData(data))), count), nil
}

// ToByteSlice is the inverse of FromByteSlice: it views pixels as their
// interleaved channel bytes without copying.
func ToByteSlice[P Pixel](pixels []P) []byte {
	if len(pixels) == 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(pixels))), len(pixels)*Channels[P]())
}
