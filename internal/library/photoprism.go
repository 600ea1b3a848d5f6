package library

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"

	"github.com/kozaktomas/sixpicks/internal/collage"
	"github.com/kozaktomas/sixpicks/internal/constants"
	"github.com/kozaktomas/sixpicks/internal/photoprism"
)

// PhotoPrism is a photo library backed by a PhotoPrism server.
// Photo IDs are PhotoPrism photo UIDs.
type PhotoPrism struct {
	client *photoprism.PhotoPrism

	// Album is the title of the album exported collages are added to.
	// Empty means no album.
	Album     string
	PageSize  int
	MaxPhotos int

	mu       sync.Mutex
	albumUID string
}

// NewPhotoPrism wraps an authenticated client.
func NewPhotoPrism(client *photoprism.PhotoPrism, album string) *PhotoPrism {
	return &PhotoPrism{
		client:    client,
		Album:     album,
		PageSize:  constants.DefaultPageSize,
		MaxPhotos: constants.MaxPhotosPerMonth,
	}
}

// RequestAuthorization checks that the session is still accepted.
func (p *PhotoPrism) RequestAuthorization(ctx context.Context) (AuthorizationStatus, error) {
	if p.client == nil || !p.client.HasToken() {
		return NotDetermined, nil
	}

	err := p.client.CheckSession(ctx)
	switch {
	case err == nil:
		return Authorized, nil
	case photoprism.IsUnauthorizedError(err):
		return Denied, nil
	case photoprism.IsForbiddenError(err):
		return Restricted, nil
	}
	return NotDetermined, fmt.Errorf("could not check session: %w", err)
}

// PhotosCreatedBetween searches PhotoPrism for photos taken in [start, end).
// The server filters by whole days, so the query is widened by a day on both
// sides and the exact bounds are applied to each photo's local capture time.
// A month holding more than MaxPhotos photos fails with ErrTooManyResults
// rather than returning a truncated list.
func (p *PhotoPrism) PhotosCreatedBetween(ctx context.Context, start, end time.Time) ([]Photo, error) {
	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}
	maxPhotos := p.MaxPhotos
	if maxPhotos <= 0 {
		maxPhotos = constants.MaxPhotosPerMonth
	}

	loc := start.Location()
	var photos []Photo

	for offset := 0; ; offset += pageSize {
		page, err := p.client.GetPhotos(ctx, photoprism.PhotoQuery{
			Count:  pageSize,
			Offset: offset,
			Order:  "oldest",
			After:  start.AddDate(0, 0, -1),
			Before: end.AddDate(0, 0, 1),
		})
		if err != nil {
			return nil, fmt.Errorf("could not search photos: %w", err)
		}

		for _, pp := range page {
			if pp.Type == "video" {
				continue
			}
			taken, ok := pp.TakenIn(loc)
			if !ok || taken.Before(start) || !taken.Before(end) {
				continue
			}
			photos = append(photos, Photo{
				ID:        pp.UID,
				CreatedAt: taken,
				Name:      pp.DisplayName(),
				Width:     pp.Width,
				Height:    pp.Height,
				Ref:       pp.Hash,
			})
		}
		if len(photos) > maxPhotos {
			return nil, fmt.Errorf("%w: more than %d photos between %s and %s",
				ErrTooManyResults, maxPhotos, start.Format(time.DateOnly), end.Format(time.DateOnly))
		}

		if len(page) < pageSize {
			break
		}
	}

	slices.SortStableFunc(photos, func(a, b Photo) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return photos, nil
}

// thumbSize picks the smallest rendition that still covers size after an aspect-fill.
func thumbSize(photo Photo, size image.Point, quality Quality) string {
	if quality == QualityFast {
		return photoprism.SmallestTile(size.X, size.Y).Name
	}
	fill := collage.AspectFill(image.Pt(photo.Width, photo.Height), size)
	if fill.Scale == 0 {
		return photoprism.DefaultFitSize
	}
	return photoprism.SmallestFit(photo.Width, photo.Height, fill.Scaled.X, fill.Scaled.Y).Name
}

// LoadImage downloads a thumbnail of the photo and downscales it.
func (p *PhotoPrism) LoadImage(ctx context.Context, photo Photo, size image.Point, quality Quality) (image.Image, error) {
	if photo.Ref == "" {
		return nil, fmt.Errorf("%w: %s has no file hash", ErrLoadFailed, photo.ID)
	}

	data, _, err := p.client.GetPhotoThumbnail(ctx, photo.Ref, thumbSize(photo, size, quality))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadFailed, photo.ID, err)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadFailed, photo.ID, err)
	}
	return Thumbnail(img, size, quality), nil
}

// CreateAsset uploads the file and imports it, optionally into Album.
// PhotoPrism takes the capture date from the file itself, so createdAt is
// only used for logging by callers. The returned ID is the upload token.
func (p *PhotoPrism) CreateAsset(ctx context.Context, path string, createdAt time.Time) (string, error) {
	token, err := p.client.UploadFile(ctx, path)
	if err != nil {
		return "", fmt.Errorf("could not upload %s: %w", path, err)
	}

	var albums []string
	if p.Album != "" {
		uid, err := p.albumForExport(ctx)
		if err != nil {
			return "", err
		}
		albums = []string{uid}
	}

	if err := p.client.ProcessUpload(ctx, token, albums); err != nil {
		return "", fmt.Errorf("could not process upload: %w", err)
	}
	return token, nil
}

// albumForExport finds the album by normalized title or creates it.
func (p *PhotoPrism) albumForExport(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.albumUID != "" {
		return p.albumUID, nil
	}

	want := NormalizeAlbumTitle(p.Album)
	albums, err := p.client.GetAlbums(ctx, constants.DefaultPageSize, 0, "", "album")
	if err != nil {
		return "", fmt.Errorf("could not list albums: %w", err)
	}
	for _, a := range albums {
		if NormalizeAlbumTitle(a.Title) == want {
			p.albumUID = a.UID
			return a.UID, nil
		}
	}

	created, err := p.client.CreateAlbum(ctx, strings.TrimSpace(p.Album))
	if err != nil {
		return "", fmt.Errorf("could not create album %q: %w", p.Album, err)
	}
	p.albumUID = created.UID
	return created.UID, nil
}

// Close ends the PhotoPrism session.
func (p *PhotoPrism) Close(ctx context.Context) error {
	if p.client == nil {
		return nil
	}
	return p.client.Logout(ctx)
}
