package handler

import (
	"encoding/json"
	"net/http"

	"notelock-server/internal/domain"
	"notelock-server/internal/middleware"
	"notelock-server/internal/service"
	"notelock-server/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// NotePasswordHeader carries a note password on a fetch, letting a caller
// who already passed the verify gate read a protected note. The unlock
// applies to that single request; nothing is remembered between fetches.
const NotePasswordHeader = "X-Note-Password"

type NoteHandler struct {
	service  *service.NoteService
	validate *validator.Validate
}

func NewNoteHandler(service *service.NoteService) *NoteHandler {
	return &NoteHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	userID := middleware.GetUserID(r)

	note, err := h.service.Create(userID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, note)
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	notes, err := h.service.List(userID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, notes)
}

// Get serves owners and anonymous callers alike; the access evaluation
// decides what the response contains.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	noteID := mux.Vars(r)["id"]
	if noteID == "" {
		response.BadRequest(w, "Note ID is required")
		return
	}

	identity := middleware.GetIdentity(r)
	suppliedPassword := r.Header.Get(NotePasswordHeader)

	note, err := h.service.Get(noteID, identity, suppliedPassword)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, note)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	noteID := mux.Vars(r)["id"]
	if noteID == "" {
		response.BadRequest(w, "Note ID is required")
		return
	}

	var req domain.UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	userID := middleware.GetUserID(r)

	note, err := h.service.Update(userID, noteID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, note)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	noteID := mux.Vars(r)["id"]
	if noteID == "" {
		response.BadRequest(w, "Note ID is required")
		return
	}

	userID := middleware.GetUserID(r)

	if err := h.service.Delete(userID, noteID); err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, map[string]string{"message": "Note deleted successfully"})
}

func (h *NoteHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	noteID := mux.Vars(r)["id"]
	if noteID == "" {
		response.BadRequest(w, "Note ID is required")
		return
	}

	var req domain.SetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	userID := middleware.GetUserID(r)

	note, err := h.service.SetPassword(userID, noteID, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, note)
}

func (h *NoteHandler) RemovePassword(w http.ResponseWriter, r *http.Request) {
	noteID := mux.Vars(r)["id"]
	if noteID == "" {
		response.BadRequest(w, "Note ID is required")
		return
	}

	userID := middleware.GetUserID(r)

	note, err := h.service.RemovePassword(userID, noteID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, note)
}

// Verify is the password gate. "Password required" is a success state the
// client legitimately needs for its prompt; only a wrong password is a 401.
func (h *NoteHandler) Verify(w http.ResponseWriter, r *http.Request) {
	noteID := mux.Vars(r)["id"]
	if noteID == "" {
		response.BadRequest(w, "Note ID is required")
		return
	}

	var req domain.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	access, err := h.service.VerifyAccess(noteID, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	if !access.HasAccess {
		response.JSONMessage(w, http.StatusOK, access, "Password required")
		return
	}

	response.Success(w, access)
}
