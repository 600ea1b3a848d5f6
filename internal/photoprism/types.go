package photoprism

import "time"

// Album represents a PhotoPrism album
type Album struct {
	UID         string `json:"UID"`
	Title       string `json:"Title"`
	Description string `json:"Description"`
	Favorite    bool   `json:"Favorite"`
	PhotoCount  int    `json:"PhotoCount"`
	Thumb       string `json:"Thumb"`
	Type        string `json:"Type"`
	CreatedAt   string `json:"CreatedAt"`
	UpdatedAt   string `json:"UpdatedAt"`
}

// Photo represents a PhotoPrism photo
type Photo struct {
	UID          string `json:"UID"`
	Title        string `json:"Title"`
	TakenAt      string `json:"TakenAt"`
	TakenAtLocal string `json:"TakenAtLocal"`
	TakenSrc     string `json:"TakenSrc"`
	TimeZone     string `json:"TimeZone"`
	Type         string `json:"Type"`
	Year         int    `json:"Year"`
	Month        int    `json:"Month"`
	Day          int    `json:"Day"`
	Hash         string `json:"Hash"`
	Width        int    `json:"Width"`
	Height       int    `json:"Height"`
	OriginalName string `json:"OriginalName"` // Original filename when uploaded
	FileName     string `json:"FileName"`     // Current filename
	Name         string `json:"Name"`         // Internal name
}

// localLayouts are the formats PhotoPrism uses for TakenAtLocal.
var localLayouts = []string{
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// TakenIn returns the capture time as a wall clock reading in loc.
// TakenAtLocal carries the local wall time with a fake UTC marker, so it is
// reinterpreted in loc. TakenAt (real UTC) is used when the local value is missing.
func (p Photo) TakenIn(loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	if p.TakenAtLocal != "" {
		for _, layout := range localLayouts {
			if t, err := time.Parse(layout, p.TakenAtLocal); err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc), true
			}
		}
	}
	if p.TakenAt != "" {
		if t, err := time.Parse(time.RFC3339, p.TakenAt); err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

// DisplayName returns the best human readable name for the photo.
func (p Photo) DisplayName() string {
	switch {
	case p.OriginalName != "":
		return p.OriginalName
	case p.FileName != "":
		return p.FileName
	case p.Title != "":
		return p.Title
	}
	return p.UID
}
