package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/elkozlova/blogline/internal/middleware"
	"github.com/elkozlova/blogline/internal/models"
)

type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

const sessionLifetime = 72 * time.Hour

// SignupPage renders the registration form.
func (h *AuthHandler) SignupPage(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{})
}

// Signup handles user registration and logs the new user in.
func (h *AuthHandler) Signup(c *gin.Context) {
	var input models.SignupRequest
	if err := c.ShouldBind(&input); err != nil {
		c.HTML(http.StatusOK, "signup.html", gin.H{
			"error":    "All fields are required; passwords need at least 6 characters",
			"username": c.PostForm("username"),
			"email":    c.PostForm("email"),
		})
		return
	}

	// Check if username or email already exists
	var existingUser models.User
	if err := h.db.Where("username = ? OR email = ?", input.Username, input.Email).First(&existingUser).Error; err == nil {
		c.HTML(http.StatusOK, "signup.html", gin.H{
			"error":    "Username or email already exists",
			"username": input.Username,
			"email":    input.Email,
		})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: string(hashedPassword),
	}

	if err := h.db.Create(&user).Error; err != nil {
		c.HTML(http.StatusOK, "signup.html", gin.H{
			"error":    "Username or email already exists",
			"username": input.Username,
			"email":    input.Email,
		})
		return
	}

	if err := h.startSession(c, user); err != nil {
		c.String(http.StatusInternalServerError, "Failed to generate token")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// LoginPage renders the login form, keeping the return path from
// ?next= so a successful login lands back where the user started.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"next": c.Query("next"),
	})
}

// Login verifies credentials and starts a session.
func (h *AuthHandler) Login(c *gin.Context) {
	next := c.PostForm("next")

	var input models.LoginRequest
	if err := c.ShouldBind(&input); err != nil {
		c.HTML(http.StatusOK, "login.html", gin.H{
			"error": "Username and password are required",
			"next":  next,
		})
		return
	}

	var user models.User
	if err := h.db.Where("username = ?", input.Username).First(&user).Error; err != nil {
		c.HTML(http.StatusOK, "login.html", gin.H{
			"error": "Invalid credentials",
			"next":  next,
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.HTML(http.StatusOK, "login.html", gin.H{
			"error": "Invalid credentials",
			"next":  next,
		})
		return
	}

	if err := h.startSession(c, user); err != nil {
		c.String(http.StatusInternalServerError, "Failed to generate token")
		return
	}

	if next == "" {
		next = "/"
	}
	c.Redirect(http.StatusFound, next)
}

// Logout ends the session and returns to the feed.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) startSession(c *gin.Context, user models.User) error {
	token, err := middleware.IssueToken(user.ID, user.Username)
	if err != nil {
		return err
	}

	c.SetCookie(middleware.SessionCookie, token, int(sessionLifetime.Seconds()), "/", "", false, true)
	return nil
}
