package library

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // register webp decoder
)

// DefaultImportDir is where exported collages land inside a folder library.
const DefaultImportDir = "SixPicks"

var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// Folder is a photo library backed by a directory tree of image files.
// Photo IDs are slash separated paths relative to Root.
type Folder struct {
	Root      string
	ImportDir string
}

// NewFolder creates a folder library rooted at root.
func NewFolder(root string) *Folder {
	return &Folder{Root: root, ImportDir: DefaultImportDir}
}

// RequestAuthorization inspects the directory permissions.
func (f *Folder) RequestAuthorization(ctx context.Context) (AuthorizationStatus, error) {
	if err := ctx.Err(); err != nil {
		return NotDetermined, err
	}

	info, err := os.Stat(f.Root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return NotDetermined, nil
	case errors.Is(err, fs.ErrPermission):
		return Denied, nil
	case err != nil:
		return NotDetermined, fmt.Errorf("could not stat library: %w", err)
	case !info.IsDir():
		return Restricted, nil
	}

	if _, err := os.ReadDir(f.Root); err != nil {
		return Denied, nil
	}

	tmp, err := os.CreateTemp(f.Root, ".sixpicks-write-*")
	if err != nil {
		return Limited, nil
	}
	tmp.Close()
	os.Remove(tmp.Name())

	return Authorized, nil
}

// PhotosCreatedBetween walks the tree and returns images created in [start, end).
func (f *Folder) PhotosCreatedBetween(ctx context.Context, start, end time.Time) ([]Photo, error) {
	loc := start.Location()
	var photos []Photo

	err := filepath.WalkDir(f.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// An unreadable subdirectory is skipped, an unreadable root is not.
			if d != nil && d.IsDir() && path != f.Root && errors.Is(err, fs.ErrPermission) {
				log.Printf("Skipping unreadable directory %s: %v", path, err)
				return filepath.SkipDir
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != f.Root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !supportedExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		created, err := f.creationTime(path, d, loc)
		if err != nil {
			return nil // unreadable entries are not photos
		}
		if created.Before(start) || !created.Before(end) {
			return nil
		}

		rel, err := filepath.Rel(f.Root, path)
		if err != nil {
			return nil
		}
		photos = append(photos, Photo{
			ID:        filepath.ToSlash(rel),
			CreatedAt: created,
			Name:      d.Name(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not scan library: %w", err)
	}

	slices.SortStableFunc(photos, func(a, b Photo) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return photos, nil
}

// creationTime prefers the EXIF capture date, read as wall clock time in loc,
// and falls back to the file modification time.
func (f *Folder) creationTime(path string, d fs.DirEntry, loc *time.Location) (time.Time, error) {
	if t, ok := exifDate(path); ok {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
	}
	info, err := d.Info()
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime().In(loc), nil
}

func exifDate(path string) (time.Time, bool) {
	file, err := os.Open(path) //nolint:gosec // path comes from walking the library root
	if err != nil {
		return time.Time{}, false
	}
	defer file.Close()

	x, err := exif.Decode(file)
	if err != nil {
		return time.Time{}, false
	}
	t, err := x.DateTime()
	if err != nil || t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}

// resolve maps a photo ID back to a path inside Root.
func (f *Folder) resolve(id string) (string, error) {
	rel := filepath.FromSlash(id)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("photo id %q escapes library root", id)
	}
	return filepath.Join(f.Root, rel), nil
}

// LoadImage decodes the file honouring EXIF orientation and downscales it.
func (f *Folder) LoadImage(ctx context.Context, photo Photo, size image.Point, quality Quality) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := f.resolve(photo.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadFailed, photo.ID, err)
	}
	return Thumbnail(img, size, quality), nil
}

// CreateAsset copies the file into ImportDir and stamps it with createdAt.
func (f *Folder) CreateAsset(ctx context.Context, path string, createdAt time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	importDir := f.ImportDir
	if importDir == "" {
		importDir = DefaultImportDir
	}
	dir := filepath.Join(f.Root, importDir)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("could not create import directory: %w", err)
	}

	dest := filepath.Join(dir, filepath.Base(path))
	if err := copyFile(path, dest); err != nil {
		return "", err
	}
	if err := os.Chtimes(dest, createdAt, createdAt); err != nil {
		return "", fmt.Errorf("could not set creation date: %w", err)
	}

	rel, err := filepath.Rel(f.Root, dest)
	if err != nil {
		return "", fmt.Errorf("could not resolve asset id: %w", err)
	}
	return filepath.ToSlash(rel), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // exporter-owned temp file
	if err != nil {
		return fmt.Errorf("could not open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0640) //nolint:gosec // inside the library root
	if err != nil {
		return fmt.Errorf("could not create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("could not copy to %s: %w", dst, err)
	}
	return out.Close()
}
