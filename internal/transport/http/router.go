package handlers

import (
	"net/http"
	"time"

	"lifequest/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Auth      *AuthHandler
	Habits    *HabitHandler
	Tasks     *TaskHandler
	Journals  *JournalHandler
	Analytics *AnalyticsHandler

	Tokens         middleware.TokenValidator
	Limiter        *middleware.RateLimiter
	AllowedOrigins []string
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	if len(d.AllowedOrigins) > 0 {
		config := cors.DefaultConfig()
		config.AllowOrigins = d.AllowedOrigins
		config.AllowCredentials = true
		config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
		config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}
		r.Use(cors.New(config))
	}

	r.GET("/api/health", health)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", d.Auth.Register)
			auth.POST("/login", d.Limiter.Limit("login", 5, 1*time.Minute), d.Auth.Login)
			auth.POST("/refresh", d.Auth.Refresh)
			auth.POST("/logout", d.Auth.Logout)
			auth.GET("/me", middleware.AuthMiddleware(d.Tokens), d.Auth.Me)
		}

		habits := api.Group("/habits")
		habits.Use(middleware.AuthMiddleware(d.Tokens))
		{
			habits.GET("", d.Habits.List)
			habits.POST("", d.Habits.Create)
			habits.GET("/:id", d.Habits.Get)
			habits.PUT("/:id", d.Habits.Update)
			habits.DELETE("/:id", d.Habits.Delete)
			habits.POST("/:id/complete", d.Habits.Complete)
			habits.DELETE("/:id/complete", d.Habits.Uncomplete)
		}

		tasks := api.Group("/tasks")
		tasks.Use(middleware.AuthMiddleware(d.Tokens))
		{
			tasks.GET("", d.Tasks.List)
			tasks.POST("", d.Tasks.Create)
			tasks.GET("/categories", d.Tasks.Categories)
			tasks.GET("/:id", d.Tasks.Get)
			tasks.PUT("/:id", d.Tasks.Update)
			tasks.DELETE("/:id", d.Tasks.Delete)
		}

		journals := api.Group("/journals")
		journals.Use(middleware.AuthMiddleware(d.Tokens))
		{
			journals.GET("", d.Journals.List)
			journals.POST("", d.Journals.Create)
			journals.GET("/mood-stats", d.Journals.MoodStats)
			journals.GET("/:id", d.Journals.Get)
			journals.PUT("/:id", d.Journals.Update)
			journals.DELETE("/:id", d.Journals.Delete)
		}

		analytics := api.Group("/analytics")
		analytics.Use(middleware.AuthMiddleware(d.Tokens))
		{
			analytics.GET("/dashboard", d.Analytics.Dashboard)
			analytics.GET("/habits", d.Analytics.Habits)
			analytics.GET("/tasks", d.Analytics.Tasks)
			analytics.GET("/journals", d.Analytics.Journals)
		}
	}

	return r
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "LifeQuest API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
