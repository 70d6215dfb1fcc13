package data

import (
	"encoding/json"
	"strings"
)

// MediaType is the catalog type segment used in TMDB and backend paths.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// ImageBaseURL is the TMDB CDN prefix for poster and backdrop paths.
const ImageBaseURL = "https://image.tmdb.org/t/p/original/"

// ParseMediaType returns the MediaType for s, or false if s is not a known type.
func ParseMediaType(s string) (MediaType, bool) {
	switch MediaType(s) {
	case MediaTypeMovie, MediaTypeTV:
		return MediaType(s), true
	default:
		return "", false
	}
}

// MediaID is the opaque catalog identifier. The backend may encode it as a
// JSON number or a string; both decode to the same value.
type MediaID string

func (id *MediaID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = MediaID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = MediaID(n.String())
	return nil
}

// MediaDetail is a TMDB detail object kept as raw fields, so that hydration
// can splice in a fallback overview without disturbing any other field.
type MediaDetail map[string]json.RawMessage

func (d MediaDetail) stringField(key string) string {
	raw, ok := d[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Overview returns the description, or "" when it is absent, null or not a string.
func (d MediaDetail) Overview() string {
	return d.stringField("overview")
}

// SetOverview overwrites the overview field only.
func (d MediaDetail) SetOverview(overview string) {
	raw, _ := json.Marshal(overview)
	d["overview"] = raw
}

// Clone returns a shallow copy; the raw values are never mutated in place.
func (d MediaDetail) Clone() MediaDetail {
	c := make(MediaDetail, len(d))
	for k, v := range d {
		c[k] = v
	}
	return c
}

// MediaItem is the typed projection of a catalog entry used by pages.
type MediaItem struct {
	MediaType    MediaType `json:"media_type"`
	MediaID      MediaID   `json:"media_id"`
	Title        string    `json:"title"`
	Overview     string    `json:"overview"`
	PosterPath   string    `json:"poster_path"`
	BackdropPath string    `json:"backdrop_path"`
	PosterURL    string    `json:"poster_url,omitempty"`
	BackdropURL  string    `json:"backdrop_url,omitempty"`
	ReleaseDate  string    `json:"release_date"`
}

// Item projects the detail onto a MediaItem. Movies carry title/release_date,
// TV entries carry name/first_air_date.
func (d MediaDetail) Item(mediaType MediaType, mediaID MediaID) MediaItem {
	item := MediaItem{
		MediaType:    mediaType,
		MediaID:      mediaID,
		Title:        d.stringField("title"),
		Overview:     d.Overview(),
		PosterPath:   d.stringField("poster_path"),
		BackdropPath: d.stringField("backdrop_path"),
		ReleaseDate:  d.stringField("release_date"),
	}
	if item.Title == "" {
		item.Title = d.stringField("name")
	}
	if item.ReleaseDate == "" {
		item.ReleaseDate = d.stringField("first_air_date")
	}
	if item.PosterPath != "" {
		item.PosterURL = ImageBaseURL + strings.TrimPrefix(item.PosterPath, "/")
	}
	if item.BackdropPath != "" {
		item.BackdropURL = ImageBaseURL + strings.TrimPrefix(item.BackdropPath, "/")
	}
	return item
}
