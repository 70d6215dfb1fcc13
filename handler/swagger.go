package handler

import "net/http"

const swaggerFile = "./docs/swagger.json"

func (h *Handler) handleSwaggerFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, swaggerFile)
	}
}
