package dto

// CreateCommentRequestBody defines the request body for AddComment.
// Length is checked by the review page so the limit counts characters.
type CreateCommentRequestBody struct {
	Content string `json:"content" validate:"required"`
}
