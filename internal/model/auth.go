package model

import "time"

// LoginRequest is the DTO for POST /api/admin/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,notblank,max=255"`
	Password string `json:"password" validate:"required,max=255"`
}

// LoginResponse carries the admin session token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
