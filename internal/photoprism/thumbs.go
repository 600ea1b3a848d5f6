package photoprism

import "math"

// ThumbSize is a named PhotoPrism thumbnail rendition.
// Tiles are square crops, fit sizes keep the aspect ratio within a bounding box.
type ThumbSize struct {
	Name   string
	Width  int
	Height int
	Crop   bool
}

// Tile sizes, smallest first
var TileSizes = []ThumbSize{
	{Name: "tile_50", Width: 50, Height: 50, Crop: true},
	{Name: "tile_100", Width: 100, Height: 100, Crop: true},
	{Name: "tile_224", Width: 224, Height: 224, Crop: true},
	{Name: "tile_500", Width: 500, Height: 500, Crop: true},
	{Name: "tile_1080", Width: 1080, Height: 1080, Crop: true},
}

// Fit sizes, smallest first
var FitSizes = []ThumbSize{
	{Name: "fit_720", Width: 720, Height: 720},
	{Name: "fit_1280", Width: 1280, Height: 1024},
	{Name: "fit_1600", Width: 1600, Height: 900},
	{Name: "fit_1920", Width: 1920, Height: 1200},
	{Name: "fit_2048", Width: 2048, Height: 2048},
	{Name: "fit_2560", Width: 2560, Height: 1600},
	{Name: "fit_3840", Width: 3840, Height: 2400},
	{Name: "fit_4096", Width: 4096, Height: 4096},
	{Name: "fit_7680", Width: 7680, Height: 4320},
}

// DefaultFitSize is used when the original dimensions are unknown.
const DefaultFitSize = "fit_1280"

// SmallestTile returns the smallest tile whose edge covers both dimensions.
// The largest tile is returned when none is big enough.
func SmallestTile(width, height int) ThumbSize {
	edge := max(width, height)
	for _, s := range TileSizes {
		if s.Width >= edge {
			return s
		}
	}
	return TileSizes[len(TileSizes)-1]
}

// SmallestFit returns the smallest fit size that, for a photo of origW x origH,
// yields a rendition at least width x height. Fit sizes never upscale, so the
// original size caps the result. The largest size is returned when none fits.
func SmallestFit(origW, origH, width, height int) ThumbSize {
	if origW <= 0 || origH <= 0 {
		for _, s := range FitSizes {
			if s.Name == DefaultFitSize {
				return s
			}
		}
	}
	for _, s := range FitSizes {
		w, h := fitWithin(origW, origH, s.Width, s.Height)
		if w >= min(width, origW) && h >= min(height, origH) {
			return s
		}
	}
	return FitSizes[len(FitSizes)-1]
}

// fitWithin scales w x h down to fit inside boxW x boxH keeping the aspect ratio.
func fitWithin(w, h, boxW, boxH int) (int, int) {
	if w <= boxW && h <= boxH {
		return w, h
	}
	rw := float64(boxW) / float64(w)
	rh := float64(boxH) / float64(h)
	r := min(rw, rh)
	return int(math.Round(float64(w) * r)), int(math.Round(float64(h) * r))
}
