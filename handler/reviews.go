package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/emzola/cinereview/data"
	"github.com/emzola/cinereview/data/dto"
	"github.com/emzola/cinereview/page"
)

// CreateReview godoc
// @Summary Create a new review
// @Description This endpoint posts a review for a movie or TV show and returns it with the refreshed page
// @Tags reviews
// @Accept  json
// @Produce json
// @Param token header string true "Bearer token"
// @Param mediaType path string true "movie or tv"
// @Param mediaId path int true "TMDB id"
// @Param body body dto.CreateReviewRequestBody true "JSON payload required to create a review"
// @Success 201 {object} data.Review
// @Failure 400
// @Failure 401
// @Failure 404
// @Failure 409
// @Failure 422
// @Failure 502
// @Router /v1/detail/{mediaType}/{mediaId}/reviews [post]
func (h *Handler) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.CreateReviewRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if errs := h.validateBody(requestBody); errs != nil {
		h.failedValidationResponse(w, r, errs)
		return
	}
	release, ok := h.acquireAction(r, page.ActionSubmitReview, h.mediaEntity(r))
	if !ok {
		h.actionInFlightResponse(w, r)
		return
	}
	defer release()
	p := h.loadDetailPage(w, r)
	if p == nil {
		return
	}
	defer p.Close()
	p.OpenComposer()
	p.SetDraft(data.ReviewDraft{Rating: requestBody.Rating, Content: requestBody.Content})
	review, err := p.SubmitReview(r.Context())
	if err != nil {
		h.pageErrorResponse(w, r, err)
		return
	}
	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/reviews/%d", review.ID))
	h.detailResponse(w, r, http.StatusCreated, review, p, headers)
}

// UpdateReview godoc
// @Summary Update a review
// @Description This endpoint replaces the rating and content of a review owned by the user
// @Tags reviews
// @Accept  json
// @Produce json
// @Param token header string true "Bearer token"
// @Param mediaType path string true "movie or tv"
// @Param mediaId path int true "TMDB id"
// @Param reviewId path int true "ID of review to update"
// @Param body body dto.UpdateReviewRequestBody true "JSON payload required to update a review"
// @Success 200 {object} data.Review
// @Failure 400
// @Failure 401
// @Failure 403
// @Failure 404
// @Failure 409
// @Failure 422
// @Failure 502
// @Router /v1/detail/{mediaType}/{mediaId}/reviews/{reviewId} [put]
func (h *Handler) updateReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := h.readIDParam(r, "reviewId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	var requestBody dto.UpdateReviewRequestBody
	err = h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if errs := h.validateBody(requestBody); errs != nil {
		h.failedValidationResponse(w, r, errs)
		return
	}
	release, ok := h.acquireAction(r, page.ActionConfirmEdit, strconv.FormatInt(reviewID, 10))
	if !ok {
		h.actionInFlightResponse(w, r)
		return
	}
	defer release()
	p := h.loadDetailPage(w, r)
	if p == nil {
		return
	}
	defer p.Close()
	if err := p.BeginEdit(reviewID); err != nil {
		h.pageErrorResponse(w, r, err)
		return
	}
	if err := p.SetEditBuffers(data.ReviewDraft{Rating: requestBody.Rating, Content: requestBody.Content}); err != nil {
		h.pageErrorResponse(w, r, err)
		return
	}
	review, err := p.ConfirmEdit(r.Context())
	if err != nil {
		h.pageErrorResponse(w, r, err)
		return
	}
	h.detailResponse(w, r, http.StatusOK, review, p, nil)
}

// DeleteReview godoc
// @Summary Delete a review
// @Description This endpoint deletes a review owned by the user and returns the refreshed page
// @Tags reviews
// @Produce json
// @Param token header string true "Bearer token"
// @Param mediaType path string true "movie or tv"
// @Param mediaId path int true "TMDB id"
// @Param reviewId path int true "ID of review to delete"
// @Success 200
// @Failure 401
// @Failure 403
// @Failure 404
// @Failure 409
// @Failure 502
// @Router /v1/detail/{mediaType}/{mediaId}/reviews/{reviewId} [delete]
func (h *Handler) deleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := h.readIDParam(r, "reviewId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	release, ok := h.acquireAction(r, page.ActionDelete, strconv.FormatInt(reviewID, 10))
	if !ok {
		h.actionInFlightResponse(w, r)
		return
	}
	defer release()
	p := h.loadDetailPage(w, r)
	if p == nil {
		return
	}
	defer p.Close()
	if err := p.RequestDelete(reviewID); err != nil {
		h.pageErrorResponse(w, r, err)
		return
	}
	if err := p.ConfirmDelete(r.Context()); err != nil {
		h.pageErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "review successfully deleted", "page": p.State()}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ShowReview godoc
// @Summary Show a review with its comments
// @Description This endpoint shows a single review and its comment thread
// @Tags reviews
// @Produce json
// @Param token header string true "Bearer token"
// @Param reviewId path int true "ID of review to show"
// @Success 200 {object} page.ReviewState
// @Failure 401
// @Failure 404
// @Failure 502
// @Router /v1/reviews/{reviewId} [get]
func (h *Handler) showReviewHandler(w http.ResponseWriter, r *http.Request) {
	p := h.loadReviewPage(w, r)
	if p == nil {
		return
	}
	defer p.Close()
	err := h.encodeJSON(w, http.StatusOK, envelope{"page": p.State()}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// loadReviewPage builds and loads the review page named by the url. On
// failure it writes the response itself and returns nil.
func (h *Handler) loadReviewPage(w http.ResponseWriter, r *http.Request) *page.Review {
	reviewID, err := h.readIDParam(r, "reviewId")
	if err != nil {
		h.notFoundResponse(w, r)
		return nil
	}
	p := page.NewReview(h.service, h.logger, h.contextGetSession(r), reviewID)
	if err := p.Load(r.Context()); err != nil {
		p.Close()
		h.pageErrorResponse(w, r, err)
		return nil
	}
	return p
}
