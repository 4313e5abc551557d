package domain

import "time"

type Project struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type Admin struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
