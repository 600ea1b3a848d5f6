package photoprism

import (
	"context"
	"net/url"
	"strconv"
)

// GetAlbum retrieves a single album by UID
func (pp *PhotoPrism) GetAlbum(ctx context.Context, albumUID string) (*Album, error) {
	return doGetJSON[Album](ctx, pp, "albums/"+albumUID)
}

// GetAlbums retrieves albums from PhotoPrism
// albumType can be: "album" (manual albums), "folder", "moment", "month", "state", or "" for all
func (pp *PhotoPrism) GetAlbums(ctx context.Context, count int, offset int, query string, albumType string) ([]Album, error) {
	v := url.Values{}
	v.Set("count", strconv.Itoa(count))
	v.Set("offset", strconv.Itoa(offset))
	if albumType != "" {
		v.Set("type", albumType)
	}
	if query != "" {
		v.Set("q", query)
	}

	result, err := doGetJSON[[]Album](ctx, pp, "albums?"+v.Encode())
	if err != nil {
		return nil, err
	}
	return *result, nil
}

// CreateAlbum creates a new album with the given title
func (pp *PhotoPrism) CreateAlbum(ctx context.Context, title string) (*Album, error) {
	input := struct {
		Title string `json:"Title"`
	}{
		Title: title,
	}

	return doPostJSONCreated[Album](ctx, pp, "albums", input)
}
