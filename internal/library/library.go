// Package library abstracts the photo library SixPicks reads from and
// exports collages into.
package library

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"golang.org/x/image/draw"

	"github.com/kozaktomas/sixpicks/internal/collage"
)

var (
	// ErrPermissionDenied is returned when the library refuses access.
	ErrPermissionDenied = errors.New("photo library access denied")
	// ErrLoadFailed is returned when a photo cannot be loaded or decoded.
	ErrLoadFailed = errors.New("could not load photo")
	// ErrTooManyResults is returned when a month holds more photos than can be listed.
	ErrTooManyResults = errors.New("too many photos in month")
)

// AuthorizationStatus mirrors the access levels a photo library can grant.
type AuthorizationStatus int

const (
	NotDetermined AuthorizationStatus = iota
	Restricted
	Denied
	Limited
	Authorized
)

func (s AuthorizationStatus) String() string {
	switch s {
	case NotDetermined:
		return "not determined"
	case Restricted:
		return "restricted"
	case Denied:
		return "denied"
	case Limited:
		return "limited"
	case Authorized:
		return "authorized"
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// Permits reports whether the status allows reading photos.
func (s AuthorizationStatus) Permits() bool {
	return s == Authorized || s == Limited
}

// Photo is a photo record enumerated from a library. It is never mutated.
type Photo struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name,omitempty"`
	Width     int       `json:"width,omitempty"`
	Height    int       `json:"height,omitempty"`

	// Ref is adapter specific data needed to load the photo, e.g. a thumbnail hash.
	Ref string `json:"-"`
}

// Quality is the delivery quality hint for LoadImage.
type Quality int

const (
	QualityHigh Quality = iota
	QualityFast
)

// Scaler returns the interpolator used for this quality.
func (q Quality) Scaler() draw.Scaler {
	if q == QualityFast {
		return draw.ApproxBiLinear
	}
	return draw.CatmullRom
}

// Authorizer is anything that can report its authorization status.
type Authorizer interface {
	RequestAuthorization(ctx context.Context) (AuthorizationStatus, error)
}

// Reader enumerates photos and loads their pixels.
type Reader interface {
	Authorizer
	// PhotosCreatedBetween returns photos with start <= CreatedAt < end,
	// ordered ascending by creation time.
	PhotosCreatedBetween(ctx context.Context, start, end time.Time) ([]Photo, error)
	// LoadImage decodes the photo and scales it for an aspect-fill into size.
	LoadImage(ctx context.Context, photo Photo, size image.Point, quality Quality) (image.Image, error)
}

// Writer stores new assets in the library.
type Writer interface {
	Authorizer
	// CreateAsset imports the file at path with the given creation date and
	// returns the new asset's identifier.
	CreateAsset(ctx context.Context, path string, createdAt time.Time) (string, error)
}

// Library can both read and write.
type Library interface {
	Reader
	Writer
}

// Authorize asks a for access and converts a refusal into ErrPermissionDenied.
func Authorize(ctx context.Context, a Authorizer) error {
	status, err := a.RequestAuthorization(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	if !status.Permits() {
		return fmt.Errorf("%w: status %s", ErrPermissionDenied, status)
	}
	return nil
}

// Thumbnail scales img down so that it just covers size, keeping the aspect
// ratio. Cropping is left to the compositor. Images already small enough are
// returned unchanged.
func Thumbnail(img image.Image, size image.Point, quality Quality) image.Image {
	if img == nil {
		return nil
	}
	src := img.Bounds().Size()
	fill := collage.AspectFill(src, size)
	if fill.Scale == 0 || fill.Scale >= 1 {
		return img
	}

	dst := image.NewRGBA(image.Rectangle{Max: fill.Scaled})
	quality.Scaler().Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
