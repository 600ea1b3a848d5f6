package collage

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Fill is the aspect-fill geometry of a source image placed into a cell:
// the source is scaled uniformly by Scale to Scaled, which covers the cell,
// and Offset is how much of the scaled image is cropped from the top-left
// so that the visible window is centered.
type Fill struct {
	Scale  float64
	Scaled image.Point
	Offset image.Point
}

// AspectFill computes the scale-to-cover and center-crop geometry for a
// source of size src drawn into a cell of size cell.
func AspectFill(src, cell image.Point) Fill {
	if src.X <= 0 || src.Y <= 0 || cell.X <= 0 || cell.Y <= 0 {
		return Fill{}
	}

	scale := math.Max(float64(cell.X)/float64(src.X), float64(cell.Y)/float64(src.Y))
	// Rounding error must never leave a gap inside the cell.
	scaled := image.Pt(
		max(cell.X, int(math.Round(float64(src.X)*scale))),
		max(cell.Y, int(math.Round(float64(src.Y)*scale))),
	)

	return Fill{
		Scale:  scale,
		Scaled: scaled,
		Offset: image.Pt((scaled.X-cell.X)/2, (scaled.Y-cell.Y)/2),
	}
}

// Target returns where the whole scaled image lands when the cell is placed
// at cell.Min. Only the part inside cell is visible.
func (f Fill) Target(cell image.Rectangle) image.Rectangle {
	origin := cell.Min.Sub(f.Offset)
	return image.Rectangle{Min: origin, Max: origin.Add(f.Scaled)}
}

// DrawFill scales src to cover cell and draws the centered crop into dst,
// overwriting whatever was there. Pixels outside cell are not touched.
func DrawFill(dst draw.Image, cell image.Rectangle, src image.Image, scaler draw.Scaler) {
	if src == nil || cell.Empty() {
		return
	}
	if scaler == nil {
		scaler = draw.CatmullRom
	}

	fill := AspectFill(src.Bounds().Size(), cell.Size())
	if fill.Scale == 0 {
		return
	}

	sr, dr := fill.visible(src.Bounds(), cell)
	if s, ok := dst.(subImager); ok {
		if clipped, ok := s.SubImage(cell).(draw.Image); ok {
			scaler.Scale(clipped, dr, src, sr, draw.Src, nil)
			return
		}
	}

	// Scale into a scratch cell so that nothing spills into neighbouring cells.
	scratch := image.NewRGBA(cell)
	scaler.Scale(scratch, dr, src, sr, draw.Src, nil)
	draw.Draw(dst, cell, scratch, cell.Min, draw.Src)
}

// visible returns the source rectangle that lands inside cell, widened by the
// reach of the resampling kernel, and where that rectangle is drawn. Scaling
// only this part keeps the scaler's buffers close to the cell size even for
// very elongated sources.
func (f Fill) visible(src, cell image.Rectangle) (sr, dr image.Rectangle) {
	target := f.Target(cell)
	sr.Min.X, sr.Max.X, dr.Min.X, dr.Max.X = visibleSpan(src.Min.X, src.Dx(), f.Scaled.X, f.Offset.X, cell.Dx(), target.Min.X)
	sr.Min.Y, sr.Max.Y, dr.Min.Y, dr.Max.Y = visibleSpan(src.Min.Y, src.Dy(), f.Scaled.Y, f.Offset.Y, cell.Dy(), target.Min.Y)
	return sr, dr
}

func visibleSpan(srcMin, srcLen, scaled, offset, cellLen, targetMin int) (s0, s1, d0, d1 int) {
	k := float64(scaled) / float64(srcLen)
	// CatmullRom reaches two pixels on the larger side of the scale.
	margin := max(2, int(math.Ceil(2/k)))

	lo := max(0, int(math.Floor(float64(offset)/k))-margin)
	hi := min(srcLen, int(math.Ceil(float64(offset+cellLen)/k))+margin)

	return srcMin + lo, srcMin + hi,
		targetMin + int(math.Round(float64(lo)*k)),
		targetMin + int(math.Round(float64(hi)*k))
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}
