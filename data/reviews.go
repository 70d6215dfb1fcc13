package data

import (
	"strconv"
	"strings"
	"time"

	"github.com/emzola/cinereview/internal/validator"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review defines a media review as returned by the backend.
type Review struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	User      User      `json:"user"`
	MediaType MediaType `json:"media_type"`
	MediaID   MediaID   `json:"media_id"`
	Rating    int       `json:"rating"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Comments  []Comment `json:"comments,omitempty"`
}

// AuthorID returns the id of the user who wrote the review.
func (r *Review) AuthorID() int64 {
	if r.User.ID != 0 {
		return r.User.ID
	}
	return r.UserID
}

// ReviewDraft holds the editable fields of a review.
type ReviewDraft struct {
	Rating  int    `json:"rating"`
	Content string `json:"content"`
}

// ValidateReview checks the rating and content of a draft.
func ValidateReview(v *validator.Validator, draft ReviewDraft) {
	v.Check(draft.Rating != 0, "rating", "must be provided")
	v.Check(draft.Rating >= MinRating && draft.Rating <= MaxRating, "rating", "must be between one and five")
	v.Check(validator.NotBlank(draft.Content), "content", "must be provided")
}

// Ready reports whether the draft may be submitted.
func (d ReviewDraft) Ready() bool {
	v := validator.New()
	ValidateReview(v, d)
	return v.Valid()
}

// Trimmed returns a copy of the draft with surrounding whitespace removed from Content.
func (d ReviewDraft) Trimmed() ReviewDraft {
	d.Content = strings.TrimSpace(d.Content)
	return d
}

// AverageRating is the mean rating of a review list. Valid is false when
// there are no reviews, which is distinct from an average of zero.
type AverageRating struct {
	// Tenths is the average multiplied by ten, already rounded.
	Tenths int64
	Valid  bool
}

// Value returns the average as a float with one decimal place.
func (a AverageRating) Value() float64 {
	return float64(a.Tenths) / 10
}

// String renders the average with exactly one decimal, or "" when there is none.
func (a AverageRating) String() string {
	if !a.Valid {
		return ""
	}
	return strconv.FormatFloat(a.Value(), 'f', 1, 64)
}

// MarshalJSON encodes the average as a number with one decimal, or null.
func (a AverageRating) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return []byte(a.String()), nil
}

// AverageOf computes the average rating of reviews rounded half-up to one
// decimal place. Integer arithmetic keeps ties such as 1.15 exact.
func AverageOf(reviews []*Review) AverageRating {
	var sum, count int64
	for _, r := range reviews {
		if r == nil {
			continue
		}
		sum += int64(r.Rating)
		count++
	}
	if count == 0 {
		return AverageRating{}
	}
	return AverageRating{
		Tenths: roundHalfUp(sum*10, count),
		Valid:  true,
	}
}

// roundHalfUp returns num/den rounded to the nearest integer, ties away from zero.
func roundHalfUp(num, den int64) int64 {
	if num < 0 {
		return -roundHalfUp(-num, den)
	}
	return (2*num + den) / (2 * den)
}
