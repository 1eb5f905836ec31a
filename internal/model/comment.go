package model

import "time"

// Comment is a note left on a todo by a user.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Contents  string    `json:"contents" gorm:"type:text;not null"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	TodoID    uint      `json:"todo_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `json:"user" gorm:"foreignKey:UserID"`
}
