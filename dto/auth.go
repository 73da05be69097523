package dto

import "time"

// ==================== AUTHENTICATION REQUEST DTOs ====================

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email" example:"maker@example.com"`
	Username string `json:"username" validate:"required,min=3,max=30,alphanum" example:"maker42"`
	Name     string `json:"name" validate:"omitempty,max=100" example:"Ada Maker"`
	Password string `json:"password" validate:"required,strong_password" example:"SecurePass123!"`
}

func (r RegisterRequest) Validate() error {
	return GetValidator().Struct(r)
}

type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername" validate:"required,email_or_username" example:"maker@example.com"`
	Password        string `json:"password" validate:"required" example:"SecurePass123!"`
}

func (l LoginRequest) Validate() error {
	return GetValidator().Struct(l)
}

// ==================== AUTHENTICATION RESPONSE DTOs ====================

type AuthResponse struct {
	Token     string      `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresIn int64       `json:"expiresIn" example:"86400"`
	User      UserProfile `json:"user"`
}

type SessionResponse struct {
	User      UserProfile `json:"user"`
	ExpiresAt *time.Time  `json:"expiresAt,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field" example:"email"`
	Message string `json:"message" example:"invalid email format"`
}
