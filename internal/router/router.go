package router

import (
	"moim/internal/handlers"
	"moim/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	authHandler := handlers.NewAuthHandler()
	postHandler := handlers.NewPostHandler()
	commentHandler := handlers.NewCommentHandler()
	voteHandler := handlers.NewVoteHandler()
	userHandler := handlers.NewUserHandler()
	uploadHandler := handlers.NewUploadHandler()

	api := r.Group("/api")

	// Public routes
	api.POST("/auth/signup", authHandler.Signup) // local signup
	api.POST("/auth/login", authHandler.Login)   // local login
	api.POST("/auth/google", authHandler.GoogleLogin)
	api.POST("/auth/naver", authHandler.NaverLogin)
	api.POST("/auth/kakao", authHandler.KakaoLogin)

	api.GET("/posts", postHandler.List)        // post list with search
	api.GET("/posts/:id", postHandler.Detail)  // post + path-sorted comment thread

	// Protected routes
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/posts", postHandler.Create)
		authorized.PUT("/posts/:id", postHandler.Update)
		authorized.DELETE("/posts/:id", postHandler.Delete) // cascades over comments

		authorized.PUT("/posts/:id/like", voteHandler.Like)
		authorized.PUT("/posts/:id/dislike", voteHandler.Dislike)

		authorized.POST("/comments", commentHandler.Create)
		authorized.DELETE("/comments/:id", commentHandler.Delete) // soft delete

		authorized.PUT("/users/profile", userHandler.UpdateProfile)
		authorized.POST("/upload", uploadHandler.Upload)
	}
}
