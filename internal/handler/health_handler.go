package handler

import (
	"net/http"
	"time"

	"notelock-server/pkg/response"

	"github.com/go-kivik/kivik/v4"
)

type HealthHandler struct {
	client *kivik.Client
}

func NewHealthHandler(client *kivik.Client) *HealthHandler {
	return &HealthHandler{client: client}
}

type healthStatus struct {
	Status    string    `json:"status"`
	Store     bool      `json:"store"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	alive, err := h.client.Ping(r.Context())

	status := healthStatus{
		Status:    "healthy",
		Store:     alive && err == nil,
		Timestamp: time.Now(),
	}

	if !status.Store {
		status.Status = "unhealthy"
		response.JSON(w, http.StatusServiceUnavailable, status)
		return
	}

	response.Success(w, status)
}
