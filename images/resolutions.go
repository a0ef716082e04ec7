package images

import (
	"fmt"
	"math"
	"sort"

	"github.com/pkg/errors"
)

// AspectRatio represents a frame aspect ratio by name (e.g., "16:9").
type AspectRatio string

// Common camera aspect ratios.
const (
	AspectRatio169 AspectRatio = "16:9"
	AspectRatio43  AspectRatio = "4:3"
	AspectRatio54  AspectRatio = "5:4"
)

// ResolutionAlias is the short, stable name of a resolution used in configs
// and benchmark scenarios.
type ResolutionAlias string

// Supported resolution aliases.
const (
	ResolutionAliasNHD   ResolutionAlias = "nhd"
	ResolutionAliasVGA   ResolutionAlias = "vga"
	ResolutionAlias720p  ResolutionAlias = "720p"
	ResolutionAlias1MP   ResolutionAlias = "1mp"
	ResolutionAlias1080p ResolutionAlias = "1080p"
	ResolutionAlias1440p ResolutionAlias = "1440p"
	ResolutionAlias4K    ResolutionAlias = "4k"
)

// Pixels describes the exact dimensions of a resolution.
type Pixels struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Resolution is a named frame size.
type Resolution struct {
	Alias       ResolutionAlias `json:"alias" yaml:"alias"`
	Name        string          `json:"name" yaml:"name"`
	AspectRatio AspectRatio     `json:"aspectRatio" yaml:"aspectRatio"`
	Pixels      Pixels          `json:"pixels" yaml:"pixels"`
}

// MegaPixels returns the pixel count in millions, rounded to two decimals
// (2.07 for 1080p). Degenerate sizes return 0.
func (r Resolution) MegaPixels() float64 {
	if r.Pixels.Width <= 0 || r.Pixels.Height <= 0 {
		return 0
	}
	mp := float64(r.Pixels.Width*r.Pixels.Height) / 1_000_000.0
	return math.Round(mp*100) / 100
}

// String returns a human-readable summary of the resolution.
func (r Resolution) String() string {
	return fmt.Sprintf("%s (%dx%d, %.2fMP)", r.Name, r.Pixels.Width, r.Pixels.Height, r.MegaPixels())
}

// Resolutions holds every known resolution keyed by alias.
var Resolutions = map[ResolutionAlias]Resolution{
	ResolutionAliasNHD: {
		Alias: ResolutionAliasNHD, Name: "nHD", AspectRatio: AspectRatio169,
		Pixels: Pixels{Width: 640, Height: 360},
	},
	ResolutionAliasVGA: {
		Alias: ResolutionAliasVGA, Name: "VGA", AspectRatio: AspectRatio43,
		Pixels: Pixels{Width: 640, Height: 480},
	},
	ResolutionAlias720p: {
		Alias: ResolutionAlias720p, Name: "HD 720p", AspectRatio: AspectRatio169,
		Pixels: Pixels{Width: 1280, Height: 720},
	},
	ResolutionAlias1MP: {
		Alias: ResolutionAlias1MP, Name: "1MP (5:4)", AspectRatio: AspectRatio54,
		Pixels: Pixels{Width: 1280, Height: 1024},
	},
	ResolutionAlias1080p: {
		Alias: ResolutionAlias1080p, Name: "Full HD 1080p", AspectRatio: AspectRatio169,
		Pixels: Pixels{Width: 1920, Height: 1080},
	},
	ResolutionAlias1440p: {
		Alias: ResolutionAlias1440p, Name: "QHD 1440p", AspectRatio: AspectRatio169,
		Pixels: Pixels{Width: 2560, Height: 1440},
	},
	ResolutionAlias4K: {
		Alias: ResolutionAlias4K, Name: "4K UHD", AspectRatio: AspectRatio169,
		Pixels: Pixels{Width: 3840, Height: 2160},
	},
}

// GetResolution looks up a resolution by alias.
func GetResolution(alias ResolutionAlias) (Resolution, error) {
	res, ok := Resolutions[alias]
	if !ok {
		return Resolution{}, errors.Errorf("unknown resolution %q", alias)
	}
	return res, nil
}

// GetAllResolutions returns every resolution ordered by pixel count.
func GetAllResolutions() []Resolution {
	all := make([]Resolution, 0, len(Resolutions))
	for _, res := range Resolutions {
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Pixels.Width*all[i].Pixels.Height < all[j].Pixels.Width*all[j].Pixels.Height
	})
	return all
}
