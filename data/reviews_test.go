package data

import (
	"encoding/json"
	"testing"
)

func reviewsWithRatings(ratings ...int) []*Review {
	reviews := make([]*Review, 0, len(ratings))
	for i, r := range ratings {
		reviews = append(reviews, &Review{ID: int64(i + 1), Rating: r})
	}
	return reviews
}

func TestAverageOf(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    string
	}{
		{"single", []int{4}, "4.0"},
		{"half", []int{2, 5}, "3.5"},
		{"repeating", []int{1, 2, 2}, "1.7"},
		{"tie rounds up", []int{1, 1, 1, 2, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 2, 2}, "1.2"},
		{"all fives", []int{5, 5, 5}, "5.0"},
		{"three quarters", []int{3, 4, 4, 4}, "3.8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avg := AverageOf(reviewsWithRatings(tt.ratings...))
			if !avg.Valid {
				t.Fatal("expected a valid average")
			}
			if got := avg.String(); got != tt.want {
				t.Errorf("AverageOf(%v) = %s; want %s", tt.ratings, got, tt.want)
			}
		})
	}
}

func TestAverageOfSkipsNil(t *testing.T) {
	reviews := append(reviewsWithRatings(2, 5), nil)
	if got := AverageOf(reviews).String(); got != "3.5" {
		t.Errorf("expected 3.5; got %s", got)
	}
	if AverageOf([]*Review{nil}).Valid {
		t.Error("a list of nils has no average")
	}
}

func TestAverageOfEmpty(t *testing.T) {
	avg := AverageOf(nil)
	if avg.Valid {
		t.Fatal("expected the no-rating value for an empty list")
	}
	js, err := json.Marshal(avg)
	if err != nil {
		t.Fatal(err)
	}
	if string(js) != "null" {
		t.Errorf("expected null; got %s", js)
	}
	if avg.String() != "" {
		t.Errorf("expected empty string; got %q", avg.String())
	}
}

func TestAverageOfIsPure(t *testing.T) {
	reviews := reviewsWithRatings(2, 4, 5)
	first := AverageOf(reviews)
	second := AverageOf(reviews)
	if first != second {
		t.Errorf("expected identical results; got %v and %v", first, second)
	}
	if first.Value() != 3.7 {
		t.Errorf("expected 3.7; got %v", first.Value())
	}
}

func TestAverageRatingMarshal(t *testing.T) {
	js, err := json.Marshal(struct {
		Average AverageRating `json:"average_rating"`
	}{AverageOf(reviewsWithRatings(4, 4))})
	if err != nil {
		t.Fatal(err)
	}
	if string(js) != `{"average_rating":4.0}` {
		t.Errorf("unexpected encoding %s", js)
	}
}

func TestReviewDraftReady(t *testing.T) {
	tests := []struct {
		draft ReviewDraft
		want  bool
	}{
		{ReviewDraft{Rating: 4, Content: "great"}, true},
		{ReviewDraft{Rating: 0, Content: "great"}, false},
		{ReviewDraft{Rating: 6, Content: "great"}, false},
		{ReviewDraft{Rating: 3, Content: "   \n"}, false},
	}
	for _, tt := range tests {
		if got := tt.draft.Ready(); got != tt.want {
			t.Errorf("%+v.Ready() = %v; want %v", tt.draft, got, tt.want)
		}
	}
}

func TestReviewDecodesNumericMediaID(t *testing.T) {
	var r Review
	err := json.Unmarshal([]byte(`{"id":1,"media_type":"movie","media_id":550,"rating":5,"content":"x","user":{"id":9,"name":"kai"}}`), &r)
	if err != nil {
		t.Fatal(err)
	}
	if r.MediaID != "550" || r.AuthorID() != 9 {
		t.Errorf("unexpected review %+v", r)
	}
}
