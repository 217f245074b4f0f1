// Package users is the demo domain served by resultd: registration, login,
// lookup and listing of user accounts. Every operation returns a
// result.Result so handlers only map it onto the response envelope.
package users

import (
	"time"
)

// Roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Permissions checked by Handler.
const (
	PermRead    = "user:read"
	PermSummary = "user:summary"
)

// Permissions grants each role its permission patterns.
var Permissions = map[string][]string{
	RoleAdmin: {"*:*"},
	RoleUser:  {PermRead},
}

// Event names published by Service.
const (
	EventCreated = "user.created"
	EventLogin   = "user.login"
)

// User is a stored account.
type User struct {
	ID           string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email"      gorm:"type:varchar(255);not null;uniqueIndex"`
	Name         string    `json:"name"       gorm:"type:varchar(100);not null"`
	Role         string    `json:"role"       gorm:"type:varchar(16);not null;default:'user'"`
	PasswordHash string    `json:"-"          gorm:"type:varchar(72);not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// CreateRequest registers a new account.
type CreateRequest struct {
	Email    string `json:"email"    binding:"required" validate:"required,email,max=255"`
	Name     string `json:"name"     binding:"required" validate:"required,min=2,max=100"`
	Password string `json:"password" binding:"required" validate:"required"`
	Role     string `json:"role"     validate:"omitempty,oneof=user admin"`
}

// LoginRequest exchanges credentials for an access token.
type LoginRequest struct {
	Email    string `json:"email"    binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

// Token is the login response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id"`
}

// Summary counts accounts by role.
type Summary struct {
	Total  int64 `json:"total"`
	Admins int64 `json:"admins"`
}
