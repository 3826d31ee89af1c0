package domain

import "time"

// Admin is a back-office operator. Admins approve vendors and manage account activation.
type Admin struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
