// Package dump wires the sampler, compositor and exporter into the
// generate, re-pick and export flow for one month.
package dump

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/kozaktomas/sixpicks/internal/collage"
	"github.com/kozaktomas/sixpicks/internal/config"
	"github.com/kozaktomas/sixpicks/internal/constants"
	"github.com/kozaktomas/sixpicks/internal/export"
	"github.com/kozaktomas/sixpicks/internal/library"
	"github.com/kozaktomas/sixpicks/internal/monthrange"
	"github.com/kozaktomas/sixpicks/internal/sampler"
)

// ErrNoPhotosFound is returned when a month yields no usable photos.
var ErrNoPhotosFound = errors.New("no photos found for this month")

// Service holds the collaborators of one library. It keeps no per-dump state;
// selections are passed in by the caller.
type Service struct {
	Library    library.Library
	Sampler    *sampler.Sampler
	Compositor *collage.Compositor
	Exporter   *export.Exporter
	Years      int
	Now        func() time.Time
}

// New creates a service with the default grid and sampler settings.
func New(lib library.Library) *Service {
	return &Service{
		Library:    lib,
		Sampler:    sampler.New(lib),
		Compositor: collage.NewCompositor(collage.DefaultGrid),
		Exporter:   export.New(lib, ""),
		Years:      constants.SelectableYears,
		Now:        time.Now,
	}
}

// FromConfig creates a service using the collage template and settings in cfg.
func FromConfig(lib library.Library, cfg *config.Config) (*Service, error) {
	svc := New(lib)

	tmpl := cfg.Collage
	grid := collage.GridSpec{
		Width:    tmpl.Canvas.Width,
		Height:   tmpl.Canvas.Height,
		Columns:  tmpl.Grid.Columns,
		Rows:     tmpl.Grid.Rows,
		MaxCells: tmpl.Grid.MaxCells,
	}
	if err := grid.Validate(); err != nil {
		return nil, fmt.Errorf("invalid collage template: %w", err)
	}
	svc.Compositor.Grid = grid

	if tmpl.Background != "" {
		bg, err := collage.ParseHexColor(tmpl.Background)
		if err != nil {
			return nil, fmt.Errorf("invalid collage template: %w", err)
		}
		svc.Compositor.Background = bg
	}

	if tmpl.Quality > 0 {
		svc.Exporter.Quality = tmpl.Quality
	}
	svc.Exporter.TempDir = cfg.Library.TempDir

	if tmpl.Load.Width > 0 && tmpl.Load.Height > 0 {
		svc.Sampler.Size = image.Pt(tmpl.Load.Width, tmpl.Load.Height)
	}
	if cfg.Sampler.Concurrency > 0 {
		svc.Sampler.Concurrency = cfg.Sampler.Concurrency
	}

	return svc, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Months returns the months that can be picked, oldest first.
func (s *Service) Months() []monthrange.MonthRange {
	return monthrange.Selectable(s.now(), s.Years)
}

// CurrentMonth returns the month containing now.
func (s *Service) CurrentMonth() monthrange.MonthRange {
	return monthrange.ForDate(s.now())
}

// ParseMonth parses a "2006-01" key in the local time zone and checks that
// it can be picked.
func (s *Service) ParseMonth(key string) (monthrange.MonthRange, error) {
	now := s.now()
	m, err := monthrange.Parse(key, now.Location())
	if err != nil {
		return monthrange.MonthRange{}, err
	}
	if err := monthrange.Validate(m, now, s.Years); err != nil {
		return monthrange.MonthRange{}, err
	}
	return m, nil
}

// Photos lists every photo of the month, oldest first.
func (s *Service) Photos(ctx context.Context, month monthrange.MonthRange) ([]library.Photo, error) {
	if err := library.Authorize(ctx, s.Library); err != nil {
		return nil, err
	}
	photos, err := s.Library.PhotosCreatedBetween(ctx, month.Start, month.EndExclusive())
	if err != nil {
		return nil, fmt.Errorf("could not list photos for %s: %w", month.Key(), err)
	}
	return photos, nil
}

// Generate samples the month containing date.
func (s *Service) Generate(ctx context.Context, date time.Time) (*sampler.Selection, error) {
	return s.GenerateMonth(ctx, monthrange.ForDate(date))
}

// GenerateMonth samples up to six photos of month.
func (s *Service) GenerateMonth(ctx context.Context, month monthrange.MonthRange) (*sampler.Selection, error) {
	sel, err := s.Sampler.Select(ctx, month)
	if err != nil {
		return nil, err
	}
	if len(sel.Picks) == 0 {
		return nil, fmt.Errorf("%s: %w", month.Label(), ErrNoPhotosFound)
	}
	log.Printf("dump: picked %d photos for %s", len(sel.Picks), month.Key())
	return sel, nil
}

// Restore rebuilds a previously generated selection from its photo IDs.
func (s *Service) Restore(ctx context.Context, month monthrange.MonthRange, ids []string) (*sampler.Selection, error) {
	sel, err := s.Sampler.Restore(ctx, month, ids)
	if err != nil {
		return nil, err
	}
	if len(sel.Picks) == 0 {
		return nil, fmt.Errorf("%s: %w", month.Label(), ErrNoPhotosFound)
	}
	return sel, nil
}

// Replace swaps the photo in slot for another random photo of the month.
func (s *Service) Replace(ctx context.Context, sel *sampler.Selection, slot int) (*sampler.Pick, error) {
	return s.Sampler.Reroll(ctx, sel, slot)
}

// Choose puts a specific photo of the month into slot.
func (s *Service) Choose(ctx context.Context, sel *sampler.Selection, slot int, photoID string) (*sampler.Pick, error) {
	return s.Sampler.Choose(ctx, sel, slot, photoID)
}

// Compose renders the selection without exporting it.
func (s *Service) Compose(sel *sampler.Selection) (*collage.Collage, error) {
	if sel == nil {
		return nil, collage.ErrEmptySelection
	}
	return s.Compositor.Compose(sel.Images())
}

// Export checks write access, composes the selection and saves the collage
// into the library.
func (s *Service) Export(ctx context.Context, sel *sampler.Selection) (*export.Result, error) {
	if err := library.Authorize(ctx, s.Library); err != nil {
		return nil, err
	}

	c, err := s.Compose(sel)
	if err != nil {
		return nil, err
	}

	result, err := s.Exporter.Export(ctx, c)
	if err != nil {
		return nil, err
	}
	log.Printf("dump: exported %s collage as %s", sel.Month.Key(), result.AssetID)
	return result, nil
}
