package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User é um operador do gateway com acesso à API HTTP
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	RoleID       int       `json:"role_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UpdateUserRequest carrega a atualização parcial de um operador; campos
// nulos são preservados
type UpdateUserRequest struct {
	ID     int     `json:"id"`
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Active *bool   `json:"active,omitempty"`
	RoleID *int    `json:"role_id,omitempty"`
}

// Claims são as claims JWT emitidas no login do operador
type Claims struct {
	UserID     int
	UserName   string
	UserEmail  string
	UserActive bool
	UserRoleID int
	jwt.RegisteredClaims
}
