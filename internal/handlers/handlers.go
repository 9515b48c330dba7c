package handlers

import (
	"os"

	"gorm.io/gorm"
)

// Handler combines all handler types
type Handler struct {
	Auth    *AuthHandler
	Post    *PostHandler
	Comment *CommentHandler
	Follow  *FollowHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(db),
		Post:    NewPostHandler(db),
		Comment: NewCommentHandler(db),
		Follow:  NewFollowHandler(db),
	}
}

// MediaRoot is the directory uploaded images are stored in and served
// from under /media/.
func MediaRoot() string {
	if root := os.Getenv("MEDIA_ROOT"); root != "" {
		return root
	}
	return "./media"
}
