package service

import (
	"context"
	"fmt"

	"taskhub/internal/auth"
	apperrors "taskhub/internal/errors"
	"taskhub/internal/model"
	"taskhub/internal/repository"
)

// CommentService handles comments on todos.
type CommentService interface {
	CreateComment(ctx context.Context, requester auth.AuthUser, todoID uint, contents string) (*model.Comment, error)
	ListComments(ctx context.Context, todoID uint) ([]model.Comment, error)
}

type commentService struct {
	store repository.Store
}

// NewCommentService creates a new comment service.
func NewCommentService(store repository.Store) CommentService {
	return &commentService{store: store}
}

func (s *commentService) CreateComment(ctx context.Context, requester auth.AuthUser, todoID uint, contents string) (*model.Comment, error) {
	author, err := findUser(ctx, s.store.Users(), requester.UserID)
	if err != nil {
		return nil, err
	}
	if _, err := findTodo(ctx, s.store, todoID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		Contents: contents,
		UserID:   author.ID,
		TodoID:   todoID,
	}
	if err := s.store.Comments().Create(ctx, comment); err != nil {
		return nil, apperrors.Storage(fmt.Errorf("create comment: %w", err))
	}
	comment.User = *author
	return comment, nil
}

func (s *commentService) ListComments(ctx context.Context, todoID uint) ([]model.Comment, error) {
	if _, err := findTodo(ctx, s.store, todoID); err != nil {
		return nil, err
	}
	comments, err := s.store.Comments().ListByTodoID(ctx, todoID)
	if err != nil {
		return nil, apperrors.Storage(fmt.Errorf("list comments: %w", err))
	}
	return comments, nil
}
