package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/elkozlova/blogline/internal/cache"
	"github.com/elkozlova/blogline/internal/database"
	"github.com/elkozlova/blogline/internal/handlers"
	"github.com/elkozlova/blogline/internal/middleware"
	"github.com/elkozlova/blogline/web"
)

type Server struct {
	handler *handlers.Handler
	pages   *cache.PageCache
	health  func() map[string]string
}

// New builds a server around an existing gorm connection. Tests use
// this directly; production goes through NewHTTPServer.
func New(db *gorm.DB) *Server {
	return &Server{
		handler: handlers.NewHandler(db),
		pages:   cache.New(cache.DefaultTTL),
	}
}

// Pages exposes the feed's page cache so operators and tests can
// clear it.
func (s *Server) Pages() *cache.PageCache {
	return s.pages
}

// NewHTTPServer creates and configures the production server.
func NewHTTPServer() *http.Server {
	db := database.New()

	newServer := New(db.GetDB())
	newServer.health = db.Health

	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	r.SetHTMLTemplate(web.Templates())

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Every request carries its identity (or none) from here on.
	r.Use(middleware.Authenticate())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		if s.health != nil {
			c.JSON(http.StatusOK, s.health())
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Uploaded post images
	r.Static("/media", handlers.MediaRoot())

	// Auth pages
	r.GET("/auth/signup/", s.handler.Auth.SignupPage)
	r.POST("/auth/signup/", s.handler.Auth.Signup)
	r.GET("/auth/login/", s.handler.Auth.LoginPage)
	r.POST("/auth/login/", s.handler.Auth.Login)
	r.GET("/auth/logout/", s.handler.Auth.Logout)

	// Public pages
	r.GET("/", s.pages.Middleware(), s.handler.Post.Index)
	r.GET("/group/:slug/", s.handler.Post.GroupPosts)
	r.GET("/profile/:username/", s.handler.Post.Profile)
	r.GET("/posts/:id/", s.handler.Post.Detail)

	// Protected pages
	authed := r.Group("", middleware.LoginRequired())
	{
		authed.GET("/create/", s.handler.Post.CreatePage)
		authed.POST("/create/", s.handler.Post.Create)
		authed.GET("/posts/:id/edit/", s.handler.Post.EditPage)
		authed.POST("/posts/:id/edit/", s.handler.Post.Edit)
		authed.POST("/posts/:id/comment/", s.handler.Comment.Create)
		authed.GET("/follow/", s.handler.Follow.Feed)
		authed.POST("/profile/:username/follow/", s.handler.Follow.Follow)
		authed.POST("/profile/:username/unfollow/", s.handler.Follow.Unfollow)
	}

	r.NoRoute(func(c *gin.Context) {
		name, _ := middleware.CurrentUsername(c)
		c.HTML(http.StatusNotFound, "not_found.html", gin.H{"user": name})
	})

	return r
}
