package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"taskhub/internal/auth"
	"taskhub/internal/errors"
	"taskhub/internal/handler"
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Todo    *handler.TodoHandler
	Manager *handler.ManagerHandler
	Comment *handler.CommentHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, jwtSecret []byte, h Handlers) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/signup", h.Auth.Signup)
	api.POST("/auth/signin", h.Auth.Signin)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:    jwtSecret,
		ContextKey:    auth.ContextKey,
		NewClaimsFunc: auth.NewClaims,
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: "missing or invalid token",
				Code:  "UNAUTHORIZED",
			})
		},
	}))

	// Todo routes
	secured.GET("/todos", h.Todo.ListTodos)
	secured.GET("/todos/search", h.Todo.SearchTodos)
	secured.POST("/todos", h.Todo.CreateTodo)
	secured.GET("/todos/:id", h.Todo.GetTodo)
	secured.DELETE("/todos/:id", h.Todo.DeleteTodo)

	// Manager routes
	secured.POST("/todos/:id/managers", h.Manager.AssignManager)
	secured.GET("/todos/:id/managers", h.Manager.ListManagers)
	secured.DELETE("/todos/:id/managers/:managerId", h.Manager.DeleteManager)

	// Comment routes
	secured.POST("/todos/:id/comments", h.Comment.CreateComment)
	secured.GET("/todos/:id/comments", h.Comment.ListComments)

	// User routes
	secured.GET("/users", h.User.SearchByNickname)
	secured.GET("/users/:id", h.User.GetUser)
	secured.PUT("/users/password", h.User.ChangePassword)
	secured.PATCH("/users/nickname", h.User.UpdateNickname)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
