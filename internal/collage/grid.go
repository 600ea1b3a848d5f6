// Package collage arranges photos into a fixed grid canvas and encodes the
// result as JPEG.
package collage

import (
	"errors"
	"fmt"
	"image"

	"github.com/kozaktomas/sixpicks/internal/constants"
)

var (
	// ErrEmptySelection is returned by Compose when there is nothing to place.
	ErrEmptySelection = errors.New("no images to compose")
	// ErrInvalidGrid is returned for a grid with a zero-sized canvas or cell.
	ErrInvalidGrid = errors.New("invalid grid")
)

// GridSpec describes the canvas and how it is divided into cells.
type GridSpec struct {
	Width    int `json:"width"`
	Height   int `json:"height"`
	Columns  int `json:"columns"`
	Rows     int `json:"rows"`
	MaxCells int `json:"max_cells"`
}

// DefaultGrid is the 600x900 canvas split into 2 columns and 3 rows.
var DefaultGrid = GridSpec{
	Width:    constants.CollageWidth,
	Height:   constants.CollageHeight,
	Columns:  constants.CollageColumns,
	Rows:     constants.CollageRows,
	MaxCells: constants.MaxPicks,
}

// Validate checks the canvas and grid dimensions.
func (g GridSpec) Validate() error {
	switch {
	case g.Width <= 0 || g.Height <= 0:
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalidGrid, g.Width, g.Height)
	case g.Columns <= 0 || g.Rows <= 0:
		return fmt.Errorf("%w: grid %dx%d", ErrInvalidGrid, g.Columns, g.Rows)
	case g.Width < g.Columns || g.Height < g.Rows:
		return fmt.Errorf("%w: canvas %dx%d too small for %dx%d cells", ErrInvalidGrid, g.Width, g.Height, g.Columns, g.Rows)
	case g.MaxCells < 0 || g.MaxCells > g.Columns*g.Rows:
		return fmt.Errorf("%w: %d cells do not fit a %dx%d grid", ErrInvalidGrid, g.MaxCells, g.Columns, g.Rows)
	}
	return nil
}

// Capacity is the number of images a collage holds.
func (g GridSpec) Capacity() int {
	if g.MaxCells > 0 {
		return g.MaxCells
	}
	return g.Columns * g.Rows
}

// CellSize returns the width and height of one cell.
func (g GridSpec) CellSize() image.Point {
	return image.Pt(g.Width/g.Columns, g.Height/g.Rows)
}

// Position returns the row-major row and column of cell i.
func (g GridSpec) Position(i int) (row, col int) {
	return i / g.Columns, i % g.Columns
}

// Cell returns the canvas rectangle of cell i.
func (g GridSpec) Cell(i int) image.Rectangle {
	row, col := g.Position(i)
	size := g.CellSize()
	origin := image.Pt(col*size.X, row*size.Y)
	return image.Rectangle{Min: origin, Max: origin.Add(size)}
}

// Cells returns the rectangles of every usable cell in placement order.
func (g GridSpec) Cells() []image.Rectangle {
	cells := make([]image.Rectangle, g.Capacity())
	for i := range cells {
		cells[i] = g.Cell(i)
	}
	return cells
}

// Bounds returns the canvas rectangle.
func (g GridSpec) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.Width, g.Height)
}
