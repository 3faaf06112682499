// cmd/api/main.go
// Application entry point

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/vibelyhq/vibely-backend/internal/auth"
	"github.com/vibelyhq/vibely-backend/internal/chat"
	"github.com/vibelyhq/vibely-backend/internal/comments"
	"github.com/vibelyhq/vibely-backend/internal/common/database"
	"github.com/vibelyhq/vibely-backend/internal/common/middleware"
	"github.com/vibelyhq/vibely-backend/internal/common/storage"
	"github.com/vibelyhq/vibely-backend/internal/common/utils"
	"github.com/vibelyhq/vibely-backend/internal/config"
	"github.com/vibelyhq/vibely-backend/internal/feed"
	"github.com/vibelyhq/vibely-backend/internal/metrics"
	"github.com/vibelyhq/vibely-backend/internal/notifications"
	"github.com/vibelyhq/vibely-backend/internal/posts"
	"github.com/vibelyhq/vibely-backend/internal/realtime"
	"github.com/vibelyhq/vibely-backend/internal/reels"
	"github.com/vibelyhq/vibely-backend/internal/stories"
	"github.com/vibelyhq/vibely-backend/internal/users"
)

const sessionCleanupInterval = 1 * time.Hour

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	// Postgres
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("✅ Connected to PostgreSQL")

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// Redis is optional: rate limiting and caching fail open, presence
	// falls back to in-process tracking
	var redisClient *redis.Client
	if client, err := database.NewRedisClient(cfg.RedisURL); err != nil {
		log.Printf("⚠️  Redis unavailable, degraded mode: %v", err)
	} else {
		redisClient = client
		defer redisClient.Close()
		log.Println("✅ Connected to Redis")
	}

	// Media storage
	var uploader storage.Uploader
	if cfg.UseS3 {
		uploader, err = storage.NewS3Uploader(cfg.AWSRegion, cfg.S3Bucket, "media")
		if err != nil {
			log.Fatalf("❌ Failed to initialize S3 storage: %v", err)
		}
		log.Printf("✅ Media storage: S3 bucket %s", cfg.S3Bucket)
	} else {
		uploader, err = storage.NewLocalUploader(cfg.LocalUploadDir, cfg.BaseURL)
		if err != nil {
			log.Fatalf("❌ Failed to initialize local storage: %v", err)
		}
		log.Printf("✅ Media storage: local directory %s", cfg.LocalUploadDir)
	}

	// Email
	var emailProvider auth.EmailProvider
	switch cfg.EmailProvider {
	case "sendgrid":
		emailProvider = auth.NewSendGridEmailProvider(cfg.SendGridAPIKey, cfg.EmailFrom)
	case "smtp":
		emailProvider = auth.NewSMTPEmailProvider(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom)
	default:
		emailProvider = auth.NewMockEmailProvider()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Realtime hub
	var presence realtime.Presence
	if redisClient != nil {
		presence = realtime.NewRedisPresence(redisClient)
	} else {
		presence = realtime.NewLocalPresence()
	}
	hub := realtime.NewHub(presence)

	// Services
	notificationService := notifications.NewService(notifications.NewPostgresRepository(db), hub)

	authService := auth.NewService(auth.NewPostgresRepository(db), emailProvider, &auth.Config{
		JWTSecret:          cfg.JWTSecret,
		AccessTokenExpiry:  cfg.AccessTokenExpiry,
		RefreshTokenExpiry: cfg.RefreshTokenExpiry,
		BCryptCost:         cfg.BCryptCost,
		BaseURL:            cfg.BaseURL,
	})
	usersRepo := users.NewPostgresRepository(db)
	userService := users.NewService(usersRepo, notificationService)
	postsRepo := posts.NewPostgresRepository(db)
	postService := posts.NewService(postsRepo, notificationService)
	reelService := reels.NewService(reels.NewPostgresRepository(db), notificationService)
	storyService := stories.NewService(stories.NewPostgresRepository(db), notificationService, cfg.StoryTTL)
	commentService := comments.NewService(comments.NewPostgresRepository(db), notificationService)
	feedService := feed.NewService(feed.NewPostgresRepository(db, postsRepo, usersRepo))
	chatService := chat.NewService(chat.NewPostgresRepository(db), notificationService, hub)

	hub.SetInboundHandler(chat.NewWSHandler(chatService))
	go hub.Run(ctx)

	// Background jobs
	stories.StartCleanupJob(ctx, storyService, cfg.StoryCleanupInterval)
	go sessionCleanupJob(ctx, authService)

	// Router
	router := mux.NewRouter()
	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)
	router.Use(metrics.Middleware)

	if redisClient != nil {
		limiter := middleware.NewRateLimiter(redisClient, cfg.RateLimitMax, cfg.RateLimitWindow)
		router.Use(limiter.Limit)
	}

	router.HandleFunc("/health", healthHandler).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	authMiddleware := auth.NewMiddleware(authService)

	auth.RegisterRoutes(router, auth.NewHandler(authService), authMiddleware)
	users.RegisterRoutes(router, users.NewHandler(userService, cfg.DefaultPageSize, cfg.MaxPageSize), authMiddleware)
	posts.RegisterRoutes(router, posts.NewHandler(postService, uploader, cfg.DefaultPageSize, cfg.MaxPageSize), authMiddleware)
	reels.RegisterRoutes(router, reels.NewHandler(reelService, uploader, cfg.DefaultPageSize, cfg.MaxPageSize), authMiddleware)
	stories.RegisterRoutes(router, stories.NewHandler(storyService, uploader), authMiddleware)
	comments.RegisterRoutes(router, comments.NewHandler(commentService, cfg.DefaultPageSize, cfg.MaxPageSize), authMiddleware)
	notifications.RegisterRoutes(router, notifications.NewHandler(notificationService, cfg.DefaultPageSize, cfg.MaxPageSize), authMiddleware)
	chat.RegisterRoutes(router, chat.NewHandler(chatService, cfg.DefaultPageSize, cfg.MaxPageSize), authMiddleware)
	realtime.RegisterRoutes(router, realtime.NewHandler(hub, cfg.JWTSecret))

	var feedCache func(http.Handler) http.Handler
	if redisClient != nil {
		feedCache = middleware.NewResponseCache(redisClient, cfg.FeedCacheTTL).Cache
	}
	feed.RegisterRoutes(router, feed.NewHandler(feedService, cfg.DefaultPageSize, cfg.MaxPageSize), authMiddleware, feedCache)

	if !cfg.UseS3 {
		router.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.LocalUploadDir))))
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server listening on port %s (%s)", cfg.Port, cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("⏳ Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}
	log.Println("✅ Server exited cleanly")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	utils.SuccessResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// sessionCleanupJob prunes expired refresh sessions on an interval
func sessionCleanupJob(ctx context.Context, authService auth.Service) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := authService.CleanupExpiredSessions(ctx); err != nil {
				log.Printf("session cleanup failed: %v", err)
			}
		}
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.RequestURI, time.Since(start))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
