package handler

import (
	"errors"
	"net/http"

	"github.com/emzola/cinereview/service"
)

// SearchMedia godoc
// @Summary Search movies and TV shows
// @Description This endpoint forwards a title search to TMDB and returns its response as is
// @Tags search
// @Produce json
// @Param searchQuery query string true "Search text"
// @Success 200 {object} object
// @Failure 400 {object} object
// @Failure 500 {object} object
// @Router /api/searchMedia [get]
func (h *Handler) searchMediaHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("searchQuery")
	body, err := h.service.SearchMedia(r.Context(), query)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingQuery):
			h.messageResponse(w, r, http.StatusBadRequest, searchMissingQueryMessage)
		default:
			h.logError(r, err)
			h.messageResponse(w, r, http.StatusInternalServerError, searchFailedMessage)
		}
		return
	}
	h.writeRaw(w, http.StatusOK, body)
}
