package dto

import "github.com/ahmetcoskunkizilkaya/community-admin/internal/models"

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Account   models.Identity `json:"account"`
	ExpiresAt string          `json:"expires_at"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
