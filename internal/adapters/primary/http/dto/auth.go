package dto

import "github.com/google/uuid"

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type AdminResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email,omitempty"`
}

type LoginResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Admin   AdminResponse `json:"admin"`
}

type SessionInfo struct {
	LoginTime      string  `json:"loginTime"`
	ExpiresAt      string  `json:"expiresAt"`
	RemainingHours float64 `json:"remainingHours"`
}

type CheckSessionResponse struct {
	Success       bool           `json:"success"`
	Authenticated bool           `json:"authenticated"`
	Admin         *AdminResponse `json:"admin,omitempty"`
	Session       *SessionInfo   `json:"session,omitempty"`
	Message       string         `json:"message,omitempty"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
