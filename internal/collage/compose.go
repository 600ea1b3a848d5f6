package collage

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
)

// DefaultBackground fills cells that have no photo.
var DefaultBackground color.Color = color.White

// Collage is a composed canvas.
type Collage struct {
	Image  *image.RGBA
	Grid   GridSpec
	Filled int // number of cells that received a photo
}

// Compositor places images into the cells of a grid.
type Compositor struct {
	Grid       GridSpec
	Background color.Color
	Scaler     draw.Scaler
}

// NewCompositor creates a compositor with a white background and Catmull-Rom scaling.
func NewCompositor(grid GridSpec) *Compositor {
	return &Compositor{
		Grid:       grid,
		Background: DefaultBackground,
		Scaler:     draw.CatmullRom,
	}
}

// Compose places the images on a fresh canvas using DefaultGrid.
func Compose(images []image.Image) (*Collage, error) {
	return NewCompositor(DefaultGrid).Compose(images)
}

// Compose places images[i] into cell i in row-major order. Images beyond
// the grid capacity are ignored. A nil image leaves its cell empty.
func (c *Compositor) Compose(images []image.Image) (*Collage, error) {
	if err := c.Grid.Validate(); err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, ErrEmptySelection
	}
	if len(images) > c.Grid.Capacity() {
		images = images[:c.Grid.Capacity()]
	}

	background := c.Background
	if background == nil {
		background = DefaultBackground
	}

	canvas := image.NewRGBA(c.Grid.Bounds())
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	filled := 0
	for i, img := range images {
		if img == nil || img.Bounds().Empty() {
			continue
		}
		DrawFill(canvas, c.Grid.Cell(i), img, c.Scaler)
		filled++
	}

	if filled == 0 {
		return nil, ErrEmptySelection
	}

	return &Collage{
		Image:  canvas,
		Grid:   c.Grid,
		Filled: filled,
	}, nil
}

// ParseHexColor parses "#rgb" or "#rrggbb" into an opaque color.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
