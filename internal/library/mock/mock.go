// Package mock provides an in-memory implementation of library.Library for testing.
package mock

import (
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kozaktomas/sixpicks/internal/library"
)

// Asset is a file imported through CreateAsset.
type Asset struct {
	ID        string
	Path      string
	CreatedAt time.Time
	Data      []byte
}

// MockLibrary is a mock implementation of library.Library
type MockLibrary struct {
	mu        sync.RWMutex
	photos    []library.Photo
	failLoads map[string]bool
	assets    []Asset

	Status library.AuthorizationStatus

	// Error injection
	AuthError   error
	ListError   error
	CreateError error

	// LoadDelay slows every LoadImage call down.
	LoadDelay time.Duration

	listCalls   atomic.Int32
	loadCalls   atomic.Int32
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

// NewMockLibrary creates a new authorized mock library
func NewMockLibrary() *MockLibrary {
	return &MockLibrary{
		Status:    library.Authorized,
		failLoads: make(map[string]bool),
	}
}

// AddPhoto adds a photo to the mock library
func (m *MockLibrary) AddPhoto(photo library.Photo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.photos = append(m.photos, photo)
}

// AddDaily adds one photo per day of the month starting at start, IDs "<prefix>-<day>".
func (m *MockLibrary) AddDaily(prefix string, start time.Time, days int) {
	for d := range days {
		m.AddPhoto(library.Photo{
			ID:        fmt.Sprintf("%s-%02d", prefix, d+1),
			CreatedAt: start.AddDate(0, 0, d).Add(12 * time.Hour),
			Width:     400,
			Height:    300,
		})
	}
}

// FailLoad makes LoadImage fail for the given photo ID
func (m *MockLibrary) FailLoad(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failLoads[id] = true
}

// RequestAuthorization returns the configured status
func (m *MockLibrary) RequestAuthorization(ctx context.Context) (library.AuthorizationStatus, error) {
	if m.AuthError != nil {
		return library.NotDetermined, m.AuthError
	}
	return m.Status, nil
}

// PhotosCreatedBetween returns the stored photos in [start, end), oldest first
func (m *MockLibrary) PhotosCreatedBetween(ctx context.Context, start, end time.Time) ([]library.Photo, error) {
	m.listCalls.Add(1)
	if m.ListError != nil {
		return nil, m.ListError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []library.Photo
	for _, p := range m.photos {
		if !p.CreatedAt.Before(start) && p.CreatedAt.Before(end) {
			result = append(result, p)
		}
	}
	slices.SortStableFunc(result, func(a, b library.Photo) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return result, nil
}

// LoadImage returns a solid image whose color is derived from the photo ID
func (m *MockLibrary) LoadImage(ctx context.Context, photo library.Photo, size image.Point, quality library.Quality) (image.Image, error) {
	m.loadCalls.Add(1)
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		peak := m.maxInFlight.Load()
		if n <= peak || m.maxInFlight.CompareAndSwap(peak, n) {
			break
		}
	}

	if m.LoadDelay > 0 {
		select {
		case <-time.After(m.LoadDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.RLock()
	fail := m.failLoads[photo.ID]
	m.mu.RUnlock()
	if fail {
		return nil, fmt.Errorf("%w: %s", library.ErrLoadFailed, photo.ID)
	}

	w, h := photo.Width, photo.Height
	if w <= 0 || h <= 0 {
		w, h = size.X, size.Y
	}
	return Solid(w, h, ColorFor(photo.ID)), nil
}

// CreateAsset records the file content
func (m *MockLibrary) CreateAsset(ctx context.Context, path string, createdAt time.Time) (string, error) {
	if m.CreateError != nil {
		return "", m.CreateError
	}
	data, err := os.ReadFile(path) //nolint:gosec // test helper
	if err != nil {
		return "", fmt.Errorf("could not read asset: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	id := fmt.Sprintf("asset-%d", len(m.assets)+1)
	m.assets = append(m.assets, Asset{ID: id, Path: path, CreatedAt: createdAt, Data: data})
	return id, nil
}

// Assets returns the imported assets
func (m *MockLibrary) Assets() []Asset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.assets)
}

// ListCalls returns how many times PhotosCreatedBetween was called
func (m *MockLibrary) ListCalls() int { return int(m.listCalls.Load()) }

// LoadCalls returns how many times LoadImage was called
func (m *MockLibrary) LoadCalls() int { return int(m.loadCalls.Load()) }

// MaxInFlight returns the highest number of concurrent LoadImage calls seen
func (m *MockLibrary) MaxInFlight() int { return int(m.maxInFlight.Load()) }

// ColorFor derives a stable opaque color from an ID.
func ColorFor(id string) color.RGBA {
	h := fnv.New32a()
	h.Write([]byte(id))
	sum := h.Sum32()
	return color.RGBA{R: uint8(sum), G: uint8(sum >> 8), B: uint8(sum >> 16), A: 0xff}
}

// Solid returns a w x h image filled with c.
func Solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

var _ library.Library = (*MockLibrary)(nil)
