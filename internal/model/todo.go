package model

import "time"

// Todo is a task owned by exactly one user.
type Todo struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"size:255;not null;index"`
	Contents  string    `json:"contents" gorm:"type:text"`
	Weather   string    `json:"weather" gorm:"size:100;index"`
	OwnerID   uint      `json:"owner_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index"`

	// Relations
	Owner    User      `json:"owner" gorm:"foreignKey:OwnerID"`
	Managers []Manager `json:"-" gorm:"foreignKey:TodoID;constraint:OnDelete:CASCADE"`
	Comments []Comment `json:"-" gorm:"foreignKey:TodoID;constraint:OnDelete:CASCADE"`
}

// IsOwnedBy reports whether userID owns the todo.
func (t *Todo) IsOwnedBy(userID uint) bool {
	return t.OwnerID != 0 && t.OwnerID == userID
}

// TodoSummary is a listing row with a nested owner summary.
type TodoSummary struct {
	ID        uint        `json:"id"`
	Title     string      `json:"title"`
	Contents  string      `json:"contents"`
	Weather   string      `json:"weather"`
	Owner     UserSummary `json:"owner"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewTodoSummary projects a todo whose owner has been loaded.
func NewTodoSummary(t Todo) TodoSummary {
	return TodoSummary{
		ID:        t.ID,
		Title:     t.Title,
		Contents:  t.Contents,
		Weather:   t.Weather,
		Owner:     UserSummary{ID: t.Owner.ID, Email: t.Owner.Email},
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// TodoSearchSummary is one aggregated search result row.
// Counts are distinct child rows, unaffected by join fan-out.
type TodoSearchSummary struct {
	ID           uint   `json:"id"`
	Title        string `json:"title"`
	ManagerCount int64  `json:"manager_count"`
	CommentCount int64  `json:"comment_count"`
}

// TodoListFilter holds the optional filters for weather/period listings.
// A nil field places no constraint.
type TodoListFilter struct {
	Weather   *string
	StartTime *time.Time
	EndTime   *time.Time
}

// TodoSearchFilter holds the optional filters for todo search.
// StartTime and EndTime bound the creation time.
type TodoSearchFilter struct {
	Title           *string
	StartTime       *time.Time
	EndTime         *time.Time
	ManagerNickname *string
}
