package sampler

import (
	"context"
	"fmt"
	"image"
	"log"

	"github.com/kozaktomas/sixpicks/internal/constants"
	"github.com/kozaktomas/sixpicks/internal/library"
	"github.com/kozaktomas/sixpicks/internal/monthrange"
)

// Selection is the ordered set of picks for one month. The index of a pick
// is its grid slot.
type Selection struct {
	Month monthrange.MonthRange `json:"-"`
	Picks []Pick                `json:"picks"`
}

// Images returns the loaded images in slot order.
func (sel *Selection) Images() []image.Image {
	images := make([]image.Image, len(sel.Picks))
	for i, p := range sel.Picks {
		images[i] = p.Image
	}
	return images
}

// Photos returns the selected photo records in slot order.
func (sel *Selection) Photos() []library.Photo {
	photos := make([]library.Photo, len(sel.Picks))
	for i, p := range sel.Picks {
		photos[i] = p.Photo
	}
	return photos
}

// Contains reports whether the photo is already selected.
func (sel *Selection) Contains(id string) bool {
	for _, p := range sel.Picks {
		if p.Photo.ID == id {
			return true
		}
	}
	return false
}

// Replace puts pick into slot.
func (sel *Selection) Replace(slot int, pick Pick) error {
	if slot < 0 || slot >= len(sel.Picks) {
		return fmt.Errorf("%w: %d of %d", ErrInvalidSlot, slot, len(sel.Picks))
	}
	pick.Slot = slot
	sel.Picks[slot] = pick
	return nil
}

// Select runs SelectMonthlyPhotos and wraps the result in a Selection.
func (s *Sampler) Select(ctx context.Context, month monthrange.MonthRange) (*Selection, error) {
	picks, err := s.SelectMonthlyPhotos(ctx, month)
	if err != nil {
		return nil, err
	}
	return &Selection{Month: month, Picks: picks}, nil
}

// Restore rebuilds a selection from photo IDs of the month. The slot of each
// pick is its index in ids, so a photo that fails to load fails the whole
// restore with library.ErrLoadFailed instead of shifting later slots.
func (s *Sampler) Restore(ctx context.Context, month monthrange.MonthRange, ids []string) (*Selection, error) {
	if len(ids) > constants.MaxPicks {
		return nil, fmt.Errorf("%w: %d photos, at most %d", ErrTooManyPhotos, len(ids), constants.MaxPicks)
	}

	photos, err := s.monthPhotos(ctx, month)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]library.Photo, len(photos))
	for _, p := range photos {
		byID[p.ID] = p
	}

	chosen := make([]library.Photo, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, fmt.Errorf("%w: %s", ErrAlreadySelected, id)
		}
		seen[id] = true
		photo, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s in %s", ErrPhotoNotInMonth, id, month.Key())
		}
		chosen = append(chosen, photo)
	}

	images, err := s.loadAll(ctx, chosen)
	if err != nil {
		return nil, err
	}

	sel := &Selection{Month: month, Picks: make([]Pick, 0, len(chosen))}
	for i, img := range images {
		if img == nil {
			return nil, fmt.Errorf("%w: %s in slot %d", library.ErrLoadFailed, chosen[i].ID, i)
		}
		sel.Picks = append(sel.Picks, Pick{Slot: i, Photo: chosen[i], Image: img})
	}
	return sel, nil
}

// Reroll replaces slot with a random photo of the month that is not selected yet.
// Candidates that fail to load are skipped.
func (s *Sampler) Reroll(ctx context.Context, sel *Selection, slot int) (*Pick, error) {
	if slot < 0 || slot >= len(sel.Picks) {
		return nil, fmt.Errorf("%w: %d of %d", ErrInvalidSlot, slot, len(sel.Picks))
	}

	photos, err := s.monthPhotos(ctx, sel.Month)
	if err != nil {
		return nil, err
	}

	var candidates []library.Photo
	for _, p := range photos {
		if !sel.Contains(p.ID) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	for _, i := range s.perm(len(candidates)) {
		photo := candidates[i]
		img, err := s.Reader.LoadImage(ctx, photo, s.Size, s.Quality)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("sampler: skipping %s: %v", photo.ID, err)
			continue
		}
		pick := Pick{Photo: photo, Image: img}
		if err := sel.Replace(slot, pick); err != nil {
			return nil, err
		}
		return &sel.Picks[slot], nil
	}

	return nil, fmt.Errorf("%w: no candidate could be loaded", library.ErrLoadFailed)
}

// Choose replaces slot with a specific photo of the month.
func (s *Sampler) Choose(ctx context.Context, sel *Selection, slot int, photoID string) (*Pick, error) {
	if slot < 0 || slot >= len(sel.Picks) {
		return nil, fmt.Errorf("%w: %d of %d", ErrInvalidSlot, slot, len(sel.Picks))
	}
	if sel.Picks[slot].Photo.ID == photoID {
		return &sel.Picks[slot], nil
	}
	if sel.Contains(photoID) {
		return nil, fmt.Errorf("%w: %s", ErrAlreadySelected, photoID)
	}

	photos, err := s.monthPhotos(ctx, sel.Month)
	if err != nil {
		return nil, err
	}

	for _, photo := range photos {
		if photo.ID != photoID {
			continue
		}
		img, err := s.Reader.LoadImage(ctx, photo, s.Size, s.Quality)
		if err != nil {
			return nil, err
		}
		if err := sel.Replace(slot, Pick{Photo: photo, Image: img}); err != nil {
			return nil, err
		}
		return &sel.Picks[slot], nil
	}

	return nil, fmt.Errorf("%w: %s in %s", ErrPhotoNotInMonth, photoID, sel.Month.Key())
}
