package data

import (
	"time"

	"github.com/emzola/cinereview/internal/validator"
)

// MaxCommentLength is the character limit of a comment.
const MaxCommentLength = 200

// Comment defines a reply to a review.
type Comment struct {
	ID        int64     `json:"id"`
	ReviewID  int64     `json:"review_id"`
	UserID    int64     `json:"user_id"`
	User      User      `json:"user"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func ValidateComment(v *validator.Validator, content string) {
	v.Check(validator.NotBlank(content), "content", "must be provided")
	v.Check(validator.MaxChars(content, MaxCommentLength), "content", "must not be more than 200 characters")
}
