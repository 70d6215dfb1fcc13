package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func (h *Handler) Routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(h.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(h.methodNotAllowed)

	router.HandlerFunc(http.MethodGet, "/api/searchMedia", h.searchMediaHandler)

	router.HandlerFunc(http.MethodGet, "/v1/detail/:mediaType/:mediaId", h.protected(h.showDetailHandler))
	router.HandlerFunc(http.MethodPost, "/v1/detail/:mediaType/:mediaId/favorite", h.protected(h.toggleFavoriteHandler))
	router.HandlerFunc(http.MethodPost, "/v1/detail/:mediaType/:mediaId/reviews", h.protected(h.createReviewHandler))
	router.HandlerFunc(http.MethodPut, "/v1/detail/:mediaType/:mediaId/reviews/:reviewId", h.protected(h.updateReviewHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/detail/:mediaType/:mediaId/reviews/:reviewId", h.protected(h.deleteReviewHandler))

	router.HandlerFunc(http.MethodGet, "/v1/reviews/:reviewId", h.protected(h.showReviewHandler))
	router.HandlerFunc(http.MethodPost, "/v1/reviews/:reviewId/comments", h.protected(h.createCommentHandler))

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", h.healthcheckHandler)

	// Swagger routes
	router.HandlerFunc(http.MethodGet, "/spec", h.handleSwaggerFile())
	router.HandlerFunc(http.MethodGet, "/docs/*any", httpSwagger.Handler(httpSwagger.URL("/spec")))

	return h.recoverPanic(h.logRequest(h.enableCORS(router)))
}
