package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	dbErr := errors.New("connection reset")

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
		expectedMsg    string
	}{
		{
			name:           "not found",
			err:            ErrTodoNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   "NOT_FOUND",
			expectedMsg:    "todo not found",
		},
		{
			name:           "forbidden",
			err:            ErrNotTodoOwner,
			expectedStatus: http.StatusForbidden,
			expectedCode:   "FORBIDDEN",
			expectedMsg:    ErrNotTodoOwner.Error(),
		},
		{
			name:           "invalid operation",
			err:            fmt.Errorf("assign: %w", ErrAlreadyManager),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_OPERATION",
			expectedMsg:    "assign: " + ErrAlreadyManager.Error(),
		},
		{
			name:           "unauthorized",
			err:            ErrInvalidCredentials,
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
			expectedMsg:    ErrInvalidCredentials.Error(),
		},
		{
			name:           "conflict",
			err:            ErrNicknameTaken,
			expectedStatus: http.StatusConflict,
			expectedCode:   "CONFLICT",
			expectedMsg:    ErrNicknameTaken.Error(),
		},
		{
			name:           "storage failure hides details",
			err:            Storage(dbErr),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "INTERNAL_ERROR",
			expectedMsg:    "internal server error",
		},
		{
			name:           "unclassified error",
			err:            dbErr,
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "INTERNAL_ERROR",
			expectedMsg:    "internal server error",
		},
		{
			name:           "joined audit failure keeps the validation error",
			err:            errors.Join(ErrSelfAssignment, Storage(fmt.Errorf("record audit log: %w", dbErr))),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_OPERATION",
			expectedMsg:    ErrSelfAssignment.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.expectedStatus, httpErr.StatusCode)
			assert.Equal(t, tt.expectedCode, httpErr.Code)
			assert.Equal(t, tt.expectedMsg, httpErr.Message)
		})
	}
}

func TestStorage(t *testing.T) {
	assert.Nil(t, Storage(nil))

	dbErr := errors.New("deadlock")
	wrapped := Storage(dbErr)
	assert.ErrorIs(t, wrapped, ErrStorage)
	assert.ErrorIs(t, wrapped, dbErr)
	assert.Same(t, wrapped, Storage(wrapped))
}
