// Package export writes a composed collage to a temporary JPEG file and
// saves it into the photo library.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/kozaktomas/sixpicks/internal/collage"
	"github.com/kozaktomas/sixpicks/internal/constants"
	"github.com/kozaktomas/sixpicks/internal/library"
)

var (
	// ErrWriteFailed is returned when the temporary file cannot be written.
	ErrWriteFailed = errors.New("could not write collage file")
	// ErrSaveFailed is returned when the library refuses the new asset.
	ErrSaveFailed = errors.New("could not save collage to library")
)

// Result describes a finished export.
type Result struct {
	Path      string    `json:"path"`
	AssetID   string    `json:"asset_id"`
	CreatedAt time.Time `json:"created_at"`
	Size      int       `json:"size"`
}

// Exporter saves collages through a library writer.
type Exporter struct {
	Writer  library.Writer
	TempDir string
	Quality float64
	Now     func() time.Time
}

// New creates an exporter writing temporary files to tempDir
// (os.TempDir when empty) at maximum JPEG quality.
func New(writer library.Writer, tempDir string) *Exporter {
	return &Exporter{
		Writer:  writer,
		TempDir: tempDir,
		Quality: constants.MaxQuality,
		Now:     time.Now,
	}
}

// WriteTemp encodes the collage into <tempdir>/<uuid>.jpg and returns the path.
func (e *Exporter) WriteTemp(c *collage.Collage) (string, int, error) {
	data, err := c.EncodeBytes(e.Quality)
	if err != nil {
		return "", 0, err
	}

	dir := e.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, uuid.New().String()+".jpg")

	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return path, len(data), nil
}

// Export encodes the collage, writes it to a temporary file and hands the
// file to the library. The temporary file is left in place.
func (e *Exporter) Export(ctx context.Context, c *collage.Collage) (*Result, error) {
	path, size, err := e.WriteTemp(c)
	if err != nil {
		return nil, err
	}

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	createdAt := now()

	id, err := e.Writer.CreateAsset(ctx, path, createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	return &Result{Path: path, AssetID: id, CreatedAt: createdAt, Size: size}, nil
}
