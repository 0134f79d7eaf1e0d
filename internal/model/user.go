// Package model defines the domain entities for the finance book.
package model

import "time"

// User represents a registered account.
type User struct {
	CreatedAt    time.Time
	LastLogin    *time.Time
	Username     string
	PasswordHash string
	Email        string
	ID           int64
}
