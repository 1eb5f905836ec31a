package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error categories. Every domain error wraps exactly one of these.
var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the requester may not act on an entity.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidOperation is returned when a business rule is violated.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrUnauthorized is returned when credentials are missing or wrong.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict is returned when a unique value is already taken.
	ErrConflict = errors.New("conflict")
	// ErrStorage wraps persistence failures that are not otherwise classified.
	ErrStorage = errors.New("storage failure")
)

var (
	ErrTodoNotFound    = fmt.Errorf("todo %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrManagerNotFound = fmt.Errorf("manager %w", ErrNotFound)

	ErrNotTodoOwner = fmt.Errorf("%w: requester is not the owner of the todo", ErrForbidden)

	ErrSelfAssignment     = fmt.Errorf("%w: todo owner cannot assign themselves as manager", ErrInvalidOperation)
	ErrAlreadyManager     = fmt.Errorf("%w: user is already a manager of the todo", ErrInvalidOperation)
	ErrNicknameAlreadySet = fmt.Errorf("%w: nickname can only be set once", ErrInvalidOperation)
	ErrSamePassword       = fmt.Errorf("%w: new password must differ from the current one", ErrInvalidOperation)
	ErrInvalidRole        = fmt.Errorf("%w: unknown user role", ErrInvalidOperation)

	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	ErrWrongPassword      = fmt.Errorf("%w: current password does not match", ErrUnauthorized)

	ErrUserAlreadyExists = fmt.Errorf("%w: user already exists", ErrConflict)
	ErrNicknameTaken     = fmt.Errorf("%w: nickname is already in use", ErrConflict)
)

// Storage classifies err as a StorageFailure while keeping it unwrappable.
func Storage(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
// Categories are checked before ErrStorage, so a validation failure joined
// with an audit storage failure still reports the validation failure.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, userMessage(err), "NOT_FOUND")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, userMessage(err), "FORBIDDEN")
	case errors.Is(err, ErrInvalidOperation):
		return NewHTTPError(http.StatusBadRequest, userMessage(err), "INVALID_OPERATION")
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, userMessage(err), "UNAUTHORIZED")
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, userMessage(err), "CONFLICT")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

// userMessage drops the storage half of a joined error.
func userMessage(err error) string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			if !errors.Is(e, ErrStorage) {
				return e.Error()
			}
		}
	}
	return err.Error()
}
