package models

import "time"

// User is a registered wallet holder. HashedPassword is a bcrypt digest and
// never leaves the server.
type User struct {
	ID             int64
	Email          string
	HashedPassword string
	FullName       *string
	IsActive       bool
	IsSuperuser    bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
