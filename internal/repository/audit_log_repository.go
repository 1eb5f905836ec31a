package repository

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"taskhub/internal/model"
	"taskhub/internal/telemetry"
)

const auditWriteTimeout = 5 * time.Second

// ErrAuditWriterInTransaction is returned when the writer was built on a
// transaction handle; its writes would then roll back with that transaction.
var ErrAuditWriterInTransaction = errors.New("audit log writer must use the root database handle")

// AuditLogRepository appends manager assignment attempts.
// There is deliberately no update or delete.
type AuditLogRepository interface {
	// Record inserts one entry in its own transaction and commits it before
	// returning, independent of any transaction the caller holds.
	Record(ctx context.Context, requestUserID, targetTodoID, targetUserID uint) (*model.AuditLog, error)
	ListByRequester(ctx context.Context, requestUserID uint) ([]model.AuditLog, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates the audit writer. db must be the root
// handle, never one returned inside a Transaction callback.
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Record(ctx context.Context, requestUserID, targetTodoID, targetUserID uint) (_ *model.AuditLog, err error) {
	ctx, span := telemetry.Tracer("taskhub/repository").Start(ctx, "AuditLog.Record",
		trace.WithAttributes(attribute.Int64("taskhub.todo_id", int64(targetTodoID))))
	defer func() { telemetry.EndSpan(span, err) }()

	if inTransaction(r.db) {
		return nil, ErrAuditWriterInTransaction
	}

	// The attempt is recorded even when the request that triggered it has
	// been cancelled.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditWriteTimeout)
	defer cancel()

	entry := &model.AuditLog{
		RequestUserID: requestUserID,
		TargetTodoID:  targetTodoID,
		TargetUserID:  targetUserID,
	}
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(entry).Error
	}); err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *auditLogRepository) ListByRequester(ctx context.Context, requestUserID uint) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	if err := r.db.WithContext(ctx).
		Where("request_user_id = ?", requestUserID).
		Order("created_at ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
