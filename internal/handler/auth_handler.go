package handler

import (
	"encoding/json"
	"net/http"

	"notelock-server/internal/domain"
	"notelock-server/internal/middleware"
	"notelock-server/internal/service"
	"notelock-server/pkg/response"

	"github.com/go-playground/validator/v10"
)

type AuthHandler struct {
	authService *service.AuthService
	validate    *validator.Validate
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	authResp, err := h.authService.Register(&req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, authResp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	authResp, err := h.authService.Login(&req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, authResp)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	user, err := h.authService.Me(userID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, user)
}
