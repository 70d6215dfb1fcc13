package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/emzola/cinereview/data/dto"
	"github.com/emzola/cinereview/page"
)

// CreateComment godoc
// @Summary Add a comment to a review
// @Description This endpoint posts a comment of at most 200 characters. Whitespace-only content is ignored.
// @Tags comments
// @Accept  json
// @Produce json
// @Param token header string true "Bearer token"
// @Param reviewId path int true "ID of review to comment on"
// @Param body body dto.CreateCommentRequestBody true "JSON payload required to create a comment"
// @Success 201 {object} data.Comment
// @Success 200
// @Failure 400
// @Failure 401
// @Failure 404
// @Failure 409
// @Failure 422
// @Failure 502
// @Router /v1/reviews/{reviewId}/comments [post]
func (h *Handler) createCommentHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.CreateCommentRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if errs := h.validateBody(requestBody); errs != nil {
		h.failedValidationResponse(w, r, errs)
		return
	}
	reviewID, err := h.readIDParam(r, "reviewId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	release, ok := h.acquireAction(r, page.ActionAddComment, strconv.FormatInt(reviewID, 10))
	if !ok {
		h.actionInFlightResponse(w, r)
		return
	}
	defer release()
	p := page.NewReview(h.service, h.logger, h.contextGetSession(r), reviewID)
	defer p.Close()
	p.SetInput(requestBody.Content)
	comment, err := p.AddComment(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, page.ErrInvalidInput):
			h.failedValidationResponse(w, r, map[string]string{"content": page.CommentTooLongMessage})
		default:
			h.pageErrorResponse(w, r, err)
		}
		return
	}
	status := http.StatusCreated
	if comment == nil {
		status = http.StatusOK
	}
	err = h.encodeJSON(w, status, envelope{"comment": comment}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
