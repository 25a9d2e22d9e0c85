package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a local account. Only used when the service answers the account API itself.
type User struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email          string    `gorm:"uniqueIndex;not null"`
	HashedPassword string    `gorm:"not null"`
	Name           string    `gorm:"not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

// Principal is the signed-in account behind a session.
type Principal struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Principal returns the session view of the user.
func (u *User) Principal() *Principal {
	return &Principal{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
	}
}
