package dto

// CreateReviewRequestBody defines a request body for SubmitReview.
type CreateReviewRequestBody struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Content string `json:"content" validate:"required"`
}

// UpdateReviewRequestBody defines a request body for ConfirmEdit.
type UpdateReviewRequestBody struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Content string `json:"content" validate:"required"`
}
