// Package sampler picks random photos of a month and loads them concurrently.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/kozaktomas/sixpicks/internal/constants"
	"github.com/kozaktomas/sixpicks/internal/library"
	"github.com/kozaktomas/sixpicks/internal/monthrange"
)

var (
	// ErrInvalidSlot is returned for a slot index outside the selection.
	ErrInvalidSlot = errors.New("invalid slot")
	// ErrNoCandidates is returned when every photo of the month is already selected.
	ErrNoCandidates = errors.New("no other photos in this month")
	// ErrAlreadySelected is returned when choosing a photo that is already in the selection.
	ErrAlreadySelected = errors.New("photo is already selected")
	// ErrPhotoNotInMonth is returned when choosing a photo outside the selection's month.
	ErrPhotoNotInMonth = errors.New("photo not found in month")
	// ErrTooManyPhotos is returned when restoring more photos than a collage holds.
	ErrTooManyPhotos = errors.New("too many photos")
)

// Pick is one chosen photo with its loaded pixels.
type Pick struct {
	Slot  int           `json:"slot"`
	Photo library.Photo `json:"photo"`
	Image image.Image   `json:"-"`
}

// ProgressFunc is called after every finished load. It may be called concurrently.
type ProgressFunc func(done, total int)

type progressKey struct{}

// WithProgress attaches a per-call progress callback that takes precedence
// over Sampler.Progress.
func WithProgress(ctx context.Context, fn ProgressFunc) context.Context {
	return context.WithValue(ctx, progressKey{}, fn)
}

// Sampler selects up to MaxPicks random photos of a month.
type Sampler struct {
	Reader      library.Reader
	Concurrency int
	Size        image.Point
	Quality     library.Quality
	Progress    ProgressFunc

	mu  sync.Mutex
	rnd *rand.Rand
}

// New creates a sampler with the default load size and concurrency.
func New(reader library.Reader) *Sampler {
	return &Sampler{
		Reader:      reader,
		Concurrency: constants.DefaultConcurrency,
		Size:        image.Pt(constants.LoadWidth, constants.LoadHeight),
		Quality:     library.QualityHigh,
	}
}

// WithSeed makes the random choices reproducible.
func (s *Sampler) WithSeed(seed uint64) *Sampler {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rnd = rand.New(rand.NewPCG(seed, seed^0x5eed))
	return s
}

func (s *Sampler) perm(n int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rnd == nil {
		return rand.Perm(n)
	}
	return s.rnd.Perm(n)
}

// SelectMonthlyPhotos picks min(MaxPicks, n) distinct photos created in month
// and loads them concurrently. Photos that fail to load are logged and left
// out, so fewer picks than chosen photos may be returned. Picks keep the
// random selection order. No photos in the month is not an error.
func (s *Sampler) SelectMonthlyPhotos(ctx context.Context, month monthrange.MonthRange) ([]Pick, error) {
	photos, err := s.monthPhotos(ctx, month)
	if err != nil {
		return nil, err
	}
	if len(photos) == 0 {
		return []Pick{}, nil
	}

	k := min(constants.MaxPicks, len(photos))
	chosen := make([]library.Photo, 0, k)
	for _, i := range s.perm(len(photos))[:k] {
		chosen = append(chosen, photos[i])
	}

	images, err := s.loadAll(ctx, chosen)
	if err != nil {
		return nil, err
	}

	picks := make([]Pick, 0, k)
	for i, img := range images {
		if img == nil {
			continue
		}
		picks = append(picks, Pick{Slot: len(picks), Photo: chosen[i], Image: img})
	}
	return picks, nil
}

// monthPhotos authorizes and enumerates the month.
func (s *Sampler) monthPhotos(ctx context.Context, month monthrange.MonthRange) ([]library.Photo, error) {
	if err := library.Authorize(ctx, s.Reader); err != nil {
		return nil, err
	}
	photos, err := s.Reader.PhotosCreatedBetween(ctx, month.Start, month.EndExclusive())
	if err != nil {
		return nil, fmt.Errorf("could not list photos for %s: %w", month.Key(), err)
	}
	return photos, nil
}

// loadAll loads every photo concurrently. The result has one entry per photo,
// nil where the load failed. It returns only after every load has finished.
func (s *Sampler) loadAll(ctx context.Context, photos []library.Photo) ([]image.Image, error) {
	images := make([]image.Image, len(photos))
	total := len(photos)
	var done atomic.Int32

	report := s.Progress
	if fn, ok := ctx.Value(progressKey{}).(ProgressFunc); ok && fn != nil {
		report = fn
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.Concurrency))

	for i, photo := range photos {
		g.Go(func() error {
			img, err := s.Reader.LoadImage(gctx, photo, s.Size, s.Quality)
			if err != nil {
				log.Printf("sampler: skipping %s: %v", photo.ID, err)
			} else {
				images[i] = img
			}
			if report != nil {
				report(int(done.Add(1)), total)
			}
			// A failed photo must not cancel its siblings.
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("loading cancelled: %w", err)
	}
	return images, nil
}
