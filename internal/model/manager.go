package model

import "time"

// Manager assigns a user as co-owner of a todo.
type Manager struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TodoID    uint      `json:"todo_id" gorm:"not null;index"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `json:"user" gorm:"foreignKey:UserID"`
}
