package domain

import "time"

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	APIKey       string
	CreatedAt    time.Time
}
