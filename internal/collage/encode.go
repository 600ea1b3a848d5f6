package collage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"math"
)

// ErrEncodeFailed is returned when a collage cannot be encoded.
var ErrEncodeFailed = errors.New("could not encode collage")

// jpegQuality maps a quality factor in (0, 1] onto the 1-100 JPEG scale.
func jpegQuality(factor float64) (int, error) {
	if math.IsNaN(factor) || factor <= 0 || factor > 1 {
		return 0, fmt.Errorf("%w: quality %v out of range (0, 1]", ErrEncodeFailed, factor)
	}
	return max(1, int(math.Round(factor*100))), nil
}

// Encode writes img as JPEG. A quality factor of 1.0 is maximum quality.
func Encode(w io.Writer, img image.Image, quality float64) error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrEncodeFailed)
	}
	q, err := jpegQuality(quality)
	if err != nil {
		return err
	}
	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: q}); err != nil {
		return fmt.Errorf("%w: %w", ErrEncodeFailed, err)
	}
	return nil
}

// EncodeBytes encodes the collage canvas as JPEG bytes.
func (c *Collage) EncodeBytes(quality float64) ([]byte, error) {
	if c == nil || c.Image == nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeFailed, ErrEmptySelection)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, c.Image, quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
