package photoprism

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// dateLayout is the format PhotoPrism expects for before/after filters.
const dateLayout = "2006-01-02"

// PhotoQuery holds the search parameters for GetPhotos.
// Zero values are omitted from the request.
type PhotoQuery struct {
	Count   int
	Offset  int
	Query   string    // e.g. "year:2024", "label:cat"
	Order   string    // "newest", "oldest", "added", "edited", "name", "title", "size", "random"
	After   time.Time // taken on or after this day
	Before  time.Time // taken before this day
	Quality int       // minimum quality score (1-7), PhotoPrism UI defaults to 3
	Album   string    // album UID
}

func (q PhotoQuery) values() url.Values {
	v := url.Values{}
	v.Set("count", strconv.Itoa(q.Count))
	v.Set("offset", strconv.Itoa(q.Offset))
	if q.Query != "" {
		v.Set("q", q.Query)
	}
	if q.Order != "" {
		v.Set("order", q.Order)
	}
	if !q.After.IsZero() {
		v.Set("after", q.After.Format(dateLayout))
	}
	if !q.Before.IsZero() {
		v.Set("before", q.Before.Format(dateLayout))
	}
	if q.Quality > 0 {
		v.Set("quality", strconv.Itoa(q.Quality))
	}
	if q.Album != "" {
		v.Set("s", q.Album)
	}
	return v
}

// GetPhotos retrieves one page of photos matching the query
func (pp *PhotoPrism) GetPhotos(ctx context.Context, query PhotoQuery) ([]Photo, error) {
	result, err := doGetJSON[[]Photo](ctx, pp, "photos?"+query.values().Encode())
	if err != nil {
		return nil, err
	}
	return *result, nil
}

// GetPhotoThumbnail downloads a thumbnail for a photo
// size can be one of the ThumbSizes names, e.g. "tile_500" or "fit_1280"
//
// Example usage:
//
//	// Get the hash from a Photo object's Hash field
//	data, contentType, err := pp.GetPhotoThumbnail(ctx, photo.Hash, "fit_1280")
func (pp *PhotoPrism) GetPhotoThumbnail(ctx context.Context, thumbHash string, size string) ([]byte, string, error) {
	thumbURL := fmt.Sprintf("%s/t/%s/%s/%s", pp.Url, thumbHash, pp.downloadToken, size)
	return doDownload(ctx, pp, thumbURL)
}
