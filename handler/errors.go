package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/emzola/cinereview/page"
	"github.com/emzola/cinereview/service"
)

const (
	searchMissingQueryMessage = "検索文字がありません"
	searchFailedMessage       = "エラーが発生しました"
)

func (h *Handler) logError(r *http.Request, err error) {
	h.logger.PrintError(err, map[string]string{
		"request_method": r.Method,
		"request_url":    r.URL.String(),
		"request_id":     contextGetRequestID(r),
	})
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := envelope{"error": message}
	err := h.encodeJSON(w, status, env, nil)
	if err != nil {
		h.logError(r, err)
		w.WriteHeader(500)
	}
}

// messageResponse writes the {"message": …} body used by the search endpoint.
func (h *Handler) messageResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	err := h.encodeJSON(w, status, envelope{"message": message}, nil)
	if err != nil {
		h.logError(r, err)
		w.WriteHeader(500)
	}
}

func (h *Handler) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	h.logError(r, err)
	message := "the server encountered a problem and could not process your request"
	h.errorResponse(w, r, http.StatusInternalServerError, message)
}

func (h *Handler) upstreamErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	h.logError(r, err)
	message := "an upstream service failed to process your request"
	h.errorResponse(w, r, http.StatusBadGateway, message)
}

func (h *Handler) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	h.errorResponse(w, r, http.StatusNotFound, message)
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("the %s method is not supported for this resource", r.Method)
	h.errorResponse(w, r, http.StatusMethodNotAllowed, message)
}

func (h *Handler) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	h.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

// failedValidationResponse accepts either a field map or an error whose
// message follows the service's "failed validation: …" form.
func (h *Handler) failedValidationResponse(w http.ResponseWriter, r *http.Request, errs interface{}) {
	if err, ok := errs.(error); ok {
		errs = strings.TrimPrefix(err.Error(), service.ErrFailedValidation.Error()+": ")
	}
	h.errorResponse(w, r, http.StatusUnprocessableEntity, errs)
}

func (h *Handler) actionInFlightResponse(w http.ResponseWriter, r *http.Request) {
	message := "the same request is already being processed, please wait for it to finish"
	h.errorResponse(w, r, http.StatusConflict, message)
}

func (h *Handler) invalidAuthenticationTokenResponse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	message := "invalid or missing authentication token"
	h.errorResponse(w, r, http.StatusUnauthorized, message)
}

func (h *Handler) authenticationRequiredResponse(w http.ResponseWriter, r *http.Request) {
	message := "you must be authenticated to access this resource"
	h.errorResponse(w, r, http.StatusUnauthorized, message)
}

func (h *Handler) notPermittedResponse(w http.ResponseWriter, r *http.Request) {
	message := "your user account doesn't have the necessary permissions to access this resource"
	h.errorResponse(w, r, http.StatusForbidden, message)
}

// pageErrorResponse maps an error from a page action onto a response.
func (h *Handler) pageErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, page.ErrMissingInput), errors.Is(err, page.ErrInvalidInput):
		h.failedValidationResponse(w, r, map[string]string{"body": err.Error()})
	case errors.Is(err, service.ErrFailedValidation):
		h.failedValidationResponse(w, r, err)
	case errors.Is(err, page.ErrActionInFlight):
		h.actionInFlightResponse(w, r)
	case errors.Is(err, page.ErrReviewNotFound), errors.Is(err, service.ErrRecordNotFound):
		h.notFoundResponse(w, r)
	case errors.Is(err, page.ErrNotPermitted), errors.Is(err, service.ErrNotPermitted):
		h.notPermittedResponse(w, r)
	case errors.Is(err, service.ErrUnauthenticated):
		h.invalidAuthenticationTokenResponse(w, r)
	case errors.Is(err, service.ErrUpstream):
		h.upstreamErrorResponse(w, r, err)
	default:
		h.serverErrorResponse(w, r, err)
	}
}
