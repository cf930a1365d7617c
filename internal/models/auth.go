package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role represents the authenticated identity kind.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMentor Role = "MENTOR"
)

// JWTClaims is the access token payload.
type JWTClaims struct {
	SubjectID string `json:"sub_id"`
	Role      Role   `json:"role"`
	Name      string `json:"name"`
	jwt.RegisteredClaims
}

// LoginRequest is the mentor login payload.
type LoginRequest struct {
	NIP      string `json:"nip" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AdminLoginRequest is the shared-credential admin login payload.
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token plus the authenticated identity.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	Role        Role      `json:"role"`
	Mentor      *Mentor   `json:"mentor,omitempty"`
}
