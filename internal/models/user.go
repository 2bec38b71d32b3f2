package models

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	Tier         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
