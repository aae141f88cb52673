package models

import "time"

// Profile is a one-to-one extension of User with a short bio and an
// optional avatar object path. Created alongside the User at signup.
type Profile struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex"`
	User      User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Bio       string    `json:"bio" gorm:"size:160"`
	Avatar    string    `json:"avatar,omitempty"` // object path like avatars/{username}/{filename}
	CreatedAt time.Time `json:"created_at"`
}
