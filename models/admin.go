package models

import "time"

// Admin represents a department administrator account.
type Admin struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	Role       string    `json:"role"`
	CreatedBy  string    `json:"created_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateAdminRequest represents the request to create a department admin
type CreateAdminRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	Name       string `json:"name" binding:"required,max=256"`
	Department string `json:"department" binding:"required"`
	Role       string `json:"role" binding:"required"`
	CreatedBy  string `json:"createdBy"`
}

// UpdateAdminRequest represents the request to update a department admin
type UpdateAdminRequest struct {
	ID         string  `json:"id" binding:"required"`
	Email      *string `json:"email,omitempty" binding:"omitempty,email"`
	Password   *string `json:"password,omitempty" binding:"omitempty,min=8"`
	Name       *string `json:"name,omitempty" binding:"omitempty,max=256"`
	Department *string `json:"department,omitempty"`
	Role       *string `json:"role,omitempty"`
}

// LoginRequest represents an admin authentication request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents the authentication response
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type,omitempty"`
	ExpiresIn int    `json:"expires_in,omitempty"`
	Admin     *Admin `json:"admin,omitempty"`
}
