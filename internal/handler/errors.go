package handler

import (
	"errors"
	"net/http"

	"notelock-server/internal/repository"
	"notelock-server/internal/service"
	"notelock-server/pkg/response"
)

// writeError maps service and repository failures onto the HTTP taxonomy.
// Anything unrecognized is a 500 with a generic message; internal detail
// never crosses the boundary.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		response.BadRequest(w, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(w, "Invalid username or password")
	case errors.Is(err, service.ErrWrongPassword):
		response.Unauthorized(w, "Wrong password")
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(w, "You do not have permission to perform this action")
	case errors.Is(err, repository.ErrNotFound):
		response.NotFound(w, "Not found")
	case errors.Is(err, repository.ErrConflict):
		response.Conflict(w, "Username already taken")
	default:
		response.InternalError(w, "Something went wrong, please try again")
	}
}
