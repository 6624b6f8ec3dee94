package handler

import (
	"net/http"

	"notelock-server/internal/service"
	"notelock-server/pkg/response"

	"github.com/gorilla/mux"
)

// ShareHandler serves the public, unauthenticated short-link surface.
type ShareHandler struct {
	service *service.NoteService
}

func NewShareHandler(service *service.NoteService) *ShareHandler {
	return &ShareHandler{service: service}
}

// Resolve returns the redacted projection for a share token. It is
// deliberately identity-blind: owners and strangers see the same view, and
// protected content stays blank until the password gate is passed.
func (h *ShareHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	shareToken := mux.Vars(r)["shortUrl"]
	if shareToken == "" {
		response.BadRequest(w, "Short link is required")
		return
	}

	note, err := h.service.ResolveShort(shareToken)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, note)
}
