package models

import "time"

// Post is a short update authored by exactly one user. Default ordering
// is newest-first.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AuthorID  uint      `json:"author_id" gorm:"index"`
	Author    User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Body      string    `json:"body" gorm:"size:500"`
	Image     string    `json:"image,omitempty"` // object path like posts/{username}/{filename}
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}
