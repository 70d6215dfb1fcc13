package handler

import (
	"errors"
	"net/http"

	"github.com/emzola/cinereview/data"
	"github.com/emzola/cinereview/page"
	"github.com/emzola/cinereview/service"
)

// loadDetailPage builds and loads the detail page named by the url. On
// failure it writes the response itself and returns nil; otherwise the
// caller must Close the page.
func (h *Handler) loadDetailPage(w http.ResponseWriter, r *http.Request) *page.Detail {
	mediaType, mediaID, err := h.readMediaParams(r)
	if err != nil {
		h.notFoundResponse(w, r)
		return nil
	}
	p := page.NewDetail(h.service, h.logger, h.contextGetSession(r), mediaType, mediaID)
	if err := p.Load(r.Context()); err != nil {
		p.Close()
		h.pageErrorResponse(w, r, err)
		return nil
	}
	return p
}

// mediaEntity is the guard key segment for actions on a media item.
func (h *Handler) mediaEntity(r *http.Request) string {
	mediaType, mediaID, _ := h.readMediaParams(r)
	return string(mediaType) + "/" + string(mediaID)
}

// ShowDetail godoc
// @Summary Show a movie or TV show with its reviews
// @Description This endpoint returns the catalog entry (with an English overview when the Japanese one is empty), its reviews, their average rating and whether the user favourited it
// @Tags detail
// @Produce json
// @Param token header string true "Bearer token"
// @Param mediaType path string true "movie or tv"
// @Param mediaId path int true "TMDB id"
// @Success 200 {object} page.DetailState
// @Failure 401
// @Failure 404
// @Failure 502
// @Router /v1/detail/{mediaType}/{mediaId} [get]
func (h *Handler) showDetailHandler(w http.ResponseWriter, r *http.Request) {
	mediaType, mediaID, err := h.readMediaParams(r)
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	detail, err := h.service.GetMediaDetail(r.Context(), mediaType, mediaID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	p := page.NewDetail(h.service, h.logger, h.contextGetSession(r), mediaType, mediaID)
	defer p.Close()
	// A failed join is logged by the page, which stays unloaded; the media is still served.
	p.Load(r.Context())
	err = h.encodeJSON(w, http.StatusOK, envelope{"media": detail.Item(mediaType, mediaID), "page": p.State()}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ToggleFavorite godoc
// @Summary Toggle the favourite mark of a movie or TV show
// @Description This endpoint flips the favourite mark and returns the state reported by the backend
// @Tags favorites
// @Produce json
// @Param token header string true "Bearer token"
// @Param mediaType path string true "movie or tv"
// @Param mediaId path int true "TMDB id"
// @Success 200
// @Failure 401
// @Failure 404
// @Failure 409
// @Failure 502
// @Router /v1/detail/{mediaType}/{mediaId}/favorite [post]
func (h *Handler) toggleFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	mediaType, mediaID, err := h.readMediaParams(r)
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	release, ok := h.acquireAction(r, page.ActionToggleFavorite, h.mediaEntity(r))
	if !ok {
		h.actionInFlightResponse(w, r)
		return
	}
	defer release()
	p := page.NewDetail(h.service, h.logger, h.contextGetSession(r), mediaType, mediaID)
	defer p.Close()
	favorited, err := p.ToggleFavorite(r.Context())
	if err != nil {
		h.pageErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"is_favorited": favorited}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// detailResponse writes the review and the refreshed page after a review mutation.
func (h *Handler) detailResponse(w http.ResponseWriter, r *http.Request, status int, review *data.Review, p *page.Detail, headers http.Header) {
	env := envelope{"page": p.State()}
	if review != nil {
		env["review"] = review
	}
	err := h.encodeJSON(w, status, env, headers)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
