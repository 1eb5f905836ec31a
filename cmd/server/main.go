package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	glog "github.com/labstack/gommon/log"

	"taskhub/docs" // swagger docs
	"taskhub/internal/auth"
	"taskhub/internal/cache"
	"taskhub/internal/config"
	"taskhub/internal/db"
	"taskhub/internal/handler"
	"taskhub/internal/repository"
	"taskhub/internal/router"
	"taskhub/internal/service"
	"taskhub/internal/telemetry"
)

// @title taskhub API
// @version 1.0
// @description Todo API with filtered search, manager assignment and an audit log of failed assignments.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.JWTSecret == config.DevJWTSecret {
		log.Println("WARNING: signing tokens with the development JWT secret; set JWT_SECRET outside local development")
	}

	shutdownTracing, err := telemetry.Setup(context.Background(), "taskhub", cfg.OTelEndpoint)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, db.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLife,
		LogLevel:        cfg.DBLogLevel,
	})
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if cfg.ResetDB {
		log.Println("RESET_DB=true detected, dropping all tables...")
		if err := db.Reset(gormDB); err != nil {
			log.Fatalf("reset database: %v", err)
		}
		log.Println("Tables dropped")
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	txOpts, err := db.TxOptions(cfg.DBTxIsolation)
	if err != nil {
		log.Fatalf("transaction options: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	serviceLogger := glog.New("taskhub")

	// Initialize repositories
	store := repository.NewStore(gormDB, txOpts)
	auditLogRepo := repository.NewAuditLogRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	// Initialize services
	authService := service.NewAuthService(store.Users(), jwtService)
	userService := service.NewUserService(store.Users(), cacheClient, cfg.NicknameCacheTTL)
	todoService := service.NewTodoService(store)
	managerService := service.NewManagerService(store, auditLogRepo, serviceLogger)
	commentService := service.NewCommentService(store)

	// Register routes
	router.Register(e, jwtService.Secret(), router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		User:    handler.NewUserHandler(userService),
		Todo:    handler.NewTodoHandler(todoService),
		Manager: handler.NewManagerHandler(managerService),
		Comment: handler.NewCommentHandler(commentService),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}
	log.Printf("Swagger documentation available at: http://%s/swagger/index.html", docs.SwaggerInfo.Host)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("flush traces: %v", err)
	}
}
