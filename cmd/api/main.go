package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/postdeck/postdeck-go/internal/config"
	"github.com/postdeck/postdeck-go/internal/handler"
	"github.com/postdeck/postdeck-go/internal/middleware"
	"github.com/postdeck/postdeck-go/internal/repository"
	"github.com/postdeck/postdeck-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	var (
		users service.UserStore
		posts service.PostStore
		db    *sql.DB
	)

	switch cfg.StoreDriver {
	case config.StoreMySQL:
		var err error
		db, err = repository.NewDB(cfg.DatabaseDSN)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = repository.Migrate(ctx, db)
		cancel()
		if err != nil {
			slog.Error("database migration failed", "error", err)
			os.Exit(1)
		}

		users = repository.NewUserRepository(db)
		posts = repository.NewPostRepository(db)
	default:
		users = repository.NewJSONUserStore(cfg.UsersFile)
		posts = repository.NewJSONPostStore(cfg.PostsFile)
	}

	authHandler := handler.NewAuthHandler(service.NewAuthService(users))
	postService := service.NewPostService(posts, repository.NewImageStore(cfg.UploadDir))
	postHandler := handler.NewPostHandler(postService, cfg.MaxUploadBytes)

	rateLimit, stopRateLimit := middleware.RateLimit(cfg.AuthRateRPS, cfg.AuthRateBurst)
	defer stopRateLimit()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(rateLimit)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/signup", authHandler.HandleSignup)
	})

	r.Get("/api/posts", postHandler.HandleList)
	r.Post("/api/posts", postHandler.HandleCreate)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
