package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog records one manager assignment attempt.
// Rows are append-only and carry no foreign keys so that attempts against
// missing todos or users can still be recorded.
type AuditLog struct {
	ID            uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	RequestUserID uint      `json:"request_user_id" gorm:"not null;index"`
	TargetTodoID  uint      `json:"target_todo_id" gorm:"not null;index"`
	TargetUserID  uint      `json:"target_user_id" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName keeps the table name stable across naming strategies.
func (AuditLog) TableName() string {
	return "audit_logs"
}

// BeforeCreate sets UUID before creating the record.
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
