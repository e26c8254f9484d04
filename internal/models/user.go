package models

import "time"

// User owns todos. The password hash never leaves the API.
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// PasswordReset is a single-use token row backing the forgot/reset flow.
type PasswordReset struct {
	Email     string
	Token     string
	CreatedAt time.Time
}
