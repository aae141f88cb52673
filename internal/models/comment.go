package models

import "time"

// Comment is authored by a user on a post. Default ordering is
// oldest-first, opposite of posts.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	User      User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	PostID    uint      `json:"post_id" gorm:"index"`
	Post      Post      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Body      string    `json:"body" gorm:"size:300"`
	CreatedAt time.Time `json:"created_at"`
}
