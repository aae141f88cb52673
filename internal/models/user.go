package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is an account identity. Users are never deleted by application
// logic; an external admin delete cascades to all dependent rows.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:30;uniqueIndex"`
	Email        string    `json:"email,omitempty" gorm:"size:254"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// SessionClaims are custom claims extending standard jwt.RegisteredClaims,
// carried in the session cookie.
type SessionClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
