package repository

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Store groups the repositories that take part in one unit of work.
type Store interface {
	Users() UserRepository
	Todos() TodoRepository
	Managers() ManagerRepository
	Comments() CommentRepository
	// WithTransaction runs fn with a Store bound to a single database
	// transaction. fn returning an error rolls the transaction back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

type gormStore struct {
	db     *gorm.DB
	txOpts *sql.TxOptions
}

// NewStore creates a GORM-backed store. txOpts may be nil for the driver's
// default isolation level.
func NewStore(db *gorm.DB, txOpts *sql.TxOptions) Store {
	return &gormStore{db: db, txOpts: txOpts}
}

func (s *gormStore) Users() UserRepository       { return &userRepository{db: s.db} }
func (s *gormStore) Todos() TodoRepository       { return &todoRepository{db: s.db} }
func (s *gormStore) Managers() ManagerRepository { return &managerRepository{db: s.db} }
func (s *gormStore) Comments() CommentRepository { return &commentRepository{db: s.db} }

// WithTransaction executes a function within a database transaction.
func (s *gormStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	var opts []*sql.TxOptions
	if s.txOpts != nil && !inTransaction(s.db) {
		opts = append(opts, s.txOpts)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &gormStore{db: tx, txOpts: s.txOpts})
	}, opts...)
}

// inTransaction reports whether db is already bound to an open transaction.
func inTransaction(db *gorm.DB) bool {
	_, ok := db.Statement.ConnPool.(gorm.TxCommitter)
	return ok
}
