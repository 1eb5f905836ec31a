package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskhub/internal/config"
	"taskhub/internal/db"
	"taskhub/internal/model"
	"taskhub/internal/repository"
)

var weathers = []string{"Sunny", "Cloudy", "Rainy", "Snowy", "Windy"}

func main() {
	users := flag.Int("users", 1000, "number of users to create")
	todos := flag.Int("todos", 200, "number of todos to create")
	maxComments := flag.Int("max-comments", 5, "maximum comments per todo")
	flag.Parse()

	log.Println("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, db.Options{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
		LogLevel:     cfg.DBLogLevel,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	store := repository.NewStore(gormDB, nil)

	created, err := seedUsers(ctx, store.Users(), *users)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	log.Printf("  - Users created: %d", len(created))

	todoCount, managerCount, commentCount, err := seedTodos(ctx, store, created, *todos, *maxComments)
	if err != nil {
		log.Fatalf("Failed to seed todos: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Todos created: %d", todoCount)
	log.Printf("  - Managers assigned: %d", managerCount)
	log.Printf("  - Comments written: %d", commentCount)
}

// seedUsers bulk-inserts users with unique random nicknames. They share one
// password hash ("password123") to keep bcrypt out of the loop.
func seedUsers(ctx context.Context, repo repository.UserRepository, n int) ([]model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	batch := uuid.NewString()[:8]
	users := make([]model.User, 0, n)
	for i := 0; i < n; i++ {
		nickname := "user-" + uuid.NewString()[:12]
		users = append(users, model.User{
			Email:        fmt.Sprintf("seed-%s-%d@example.com", batch, i),
			PasswordHash: string(hash),
			Role:         model.UserRoleUser,
			Nickname:     &nickname,
		})
	}
	if err := repo.CreateBatch(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

// seedTodos creates todos owned by random users. Each owner is its todo's
// first manager and up to two more users are assigned.
func seedTodos(ctx context.Context, store repository.Store, users []model.User, n, maxComments int) (todos, managers, comments int, err error) {
	if len(users) == 0 {
		return 0, 0, 0, nil
	}

	for i := 0; i < n; i++ {
		owner := users[rand.IntN(len(users))]
		err = store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
			todo := &model.Todo{
				Title:    fmt.Sprintf("Seeded task #%d", i+1),
				Contents: "generated by the seed script",
				Weather:  weathers[rand.IntN(len(weathers))],
				OwnerID:  owner.ID,
			}
			if err := tx.Todos().Create(ctx, todo); err != nil {
				return fmt.Errorf("create todo: %w", err)
			}

			assigned := map[uint]bool{owner.ID: true}
			if err := tx.Managers().Create(ctx, &model.Manager{TodoID: todo.ID, UserID: owner.ID}); err != nil {
				return fmt.Errorf("create manager: %w", err)
			}
			managers++
			for extra := rand.IntN(3); extra > 0; extra-- {
				candidate := users[rand.IntN(len(users))]
				if assigned[candidate.ID] {
					continue
				}
				assigned[candidate.ID] = true
				if err := tx.Managers().Create(ctx, &model.Manager{TodoID: todo.ID, UserID: candidate.ID}); err != nil {
					return fmt.Errorf("create manager: %w", err)
				}
				managers++
			}

			for c := rand.IntN(maxComments + 1); c > 0; c-- {
				author := users[rand.IntN(len(users))]
				if err := tx.Comments().Create(ctx, &model.Comment{
					Contents: fmt.Sprintf("comment from %s", *author.Nickname),
					UserID:   author.ID,
					TodoID:   todo.ID,
				}); err != nil {
					return fmt.Errorf("create comment: %w", err)
				}
				comments++
			}
			return nil
		})
		if err != nil {
			return todos, managers, comments, err
		}
		todos++
	}
	return todos, managers, comments, nil
}
