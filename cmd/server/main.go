package main

import (
	"os"

	"moim/internal/cache"
	"moim/internal/db"
	"moim/internal/handlers"
	"moim/internal/logger"
	"moim/internal/router"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file, fall back to system env vars
	_ = godotenv.Load()

	logger.Init()
	defer logger.L.Sync()

	// Initialize Database and Cache
	db.Init()
	cache.Init()

	// OAuth provider config
	handlers.InitSocialAuth()

	// Initialize Gin
	r := gin.Default()

	// Cookie session, used for per-client view dedup (auth is bearer tokens)
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("moim_session", store))

	router.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	logger.L.Infof("Server listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		logger.L.Fatalf("Server stopped: %v", err)
	}
}
