package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"

	rediscache "github.com/pollbox/api/internal/adapters/cache/redis"
	"github.com/pollbox/api/internal/adapters/handler/http"
	"github.com/pollbox/api/internal/adapters/repository/postgres"
	"github.com/pollbox/api/internal/core/services"
)

const pollCreationDailyLimit = 20

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db, err := sql.Open("postgres", dbConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     os.Getenv("REDIS_ADDRESS"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	pageCache := rediscache.NewPageCache(redisClient)

	pollRepo := postgres.NewPollRepository(db)
	voteRepo := postgres.NewVoteRepository(db)
	userRepo := postgres.NewUserRepository(db)
	authRepo := postgres.NewAuthRepository(db)

	pollSvc := services.NewPollService(pollRepo, pageCache)
	voteSvc := services.NewVoteService(pollRepo, voteRepo, pageCache)
	authSvc := services.NewAuthService(userRepo, authRepo)
	userSvc := services.NewUserService(userRepo)

	pollHandler := http.NewPollHandler(pollSvc)
	voteHandler := http.NewVoteHandler(voteSvc)
	authHandler := http.NewAuthHandler(authSvc, os.Getenv("COOKIE_DOMAIN"), stdhttp.SameSiteLaxMode)
	userHandler := http.NewUserHandler(userSvc)

	handler := http.NewHandler(pollHandler, voteHandler, authHandler, userHandler, http.RouterConfig{
		JWTSecret:      []byte(os.Getenv("JWT_SECRET")),
		AllowedOrigins: allowedOrigins(),
		Cache:          pageCache,
		Limiter:        http.NewRateLimiter(redisClient, pollCreationDailyLimit, 24*time.Hour),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	server := &stdhttp.Server{Addr: "0.0.0.0:" + port, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	fmt.Println("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}

func allowedOrigins() []string {
	raw := os.Getenv("CORS_ALLOWED_ORIGINS")
	if raw == "" {
		return []string{"*"}
	}
	return strings.Split(raw, ",")
}

func dbConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_PORT"),
		os.Getenv("POSTGRES_DB"),
	)
}
