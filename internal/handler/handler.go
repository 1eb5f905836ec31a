package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"taskhub/internal/auth"
	"taskhub/internal/errors"
	"taskhub/internal/model"
)

const dateLayout = "2006-01-02"

// respondError converts a service error into an echo HTTP error.
func respondError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func badRequest(message, code string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// bindAndValidate binds the request body into req and runs validation.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequest("invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(err.Error(), "VALIDATION_ERROR")
	}
	return nil
}

// requester returns the authenticated user placed in the context by echo-jwt.
func requester(c echo.Context) (auth.AuthUser, error) {
	user, err := auth.FromContext(c)
	if err != nil {
		return auth.AuthUser{}, echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "missing or invalid token",
			Code:  "UNAUTHORIZED",
		})
	}
	return user, nil
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest("invalid "+name, "INVALID_ID")
	}
	return uint(id), nil
}

// pageRequest reads page and size query parameters.
func pageRequest(c echo.Context) (model.PageRequest, error) {
	var page, size int
	if err := echo.QueryParamsBinder(c).
		Int("page", &page).
		Int("size", &size).
		BindError(); err != nil {
		return model.PageRequest{}, badRequest("page and size must be integers", "INVALID_PAGE")
	}
	return model.NewPageRequest(page, size), nil
}

// optionalString returns nil for an absent or blank query parameter.
func optionalString(c echo.Context, name string) *string {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return nil
	}
	return &v
}

// optionalTime parses RFC3339 or a bare date. A bare date used as an upper
// bound covers the whole day.
func optionalTime(c echo.Context, name string, upper bool) (*time.Time, error) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, badRequest("invalid "+name+": use RFC3339 or YYYY-MM-DD", "INVALID_TIME")
	}
	if upper {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// timeRange reads the start and end query parameters.
func timeRange(c echo.Context) (start, end *time.Time, err error) {
	if start, err = optionalTime(c, "start", false); err != nil {
		return nil, nil, err
	}
	if end, err = optionalTime(c, "end", true); err != nil {
		return nil, nil, err
	}
	return start, end, nil
}
