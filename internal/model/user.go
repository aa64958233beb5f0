// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account.
// The password hash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
