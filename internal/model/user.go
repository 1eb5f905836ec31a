package model

import "time"

// UserRole is the authorization role carried in access tokens.
type UserRole string

const (
	UserRoleUser  UserRole = "USER"
	UserRoleAdmin UserRole = "ADMIN"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	return r == UserRoleUser || r == UserRoleAdmin
}

// User represents a registered account.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         UserRole  `json:"role" gorm:"type:varchar(20);not null;default:'USER'"`
	Nickname     *string   `json:"nickname,omitempty" gorm:"uniqueIndex;size:50"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasNickname reports whether the nickname has already been set.
func (u *User) HasNickname() bool {
	return u.Nickname != nil && *u.Nickname != ""
}

// UserSummary is the owner projection embedded in todo listings.
type UserSummary struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

// UserNickname is the minimal projection returned by nickname lookups.
type UserNickname struct {
	Nickname string `json:"nickname"`
}
