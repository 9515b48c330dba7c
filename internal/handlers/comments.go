package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/elkozlova/blogline/internal/forms"
	"github.com/elkozlova/blogline/internal/middleware"
	"github.com/elkozlova/blogline/internal/models"
)

type CommentHandler struct {
	db *gorm.DB
}

func NewCommentHandler(db *gorm.DB) *CommentHandler {
	return &CommentHandler{db: db}
}

// Create attaches a comment to the post and redirects back to its
// detail page. An invalid submission takes the same redirect without
// persisting anything; no error is surfaced.
func (h *CommentHandler) Create(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		notFound(c)
		return
	}

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		notFound(c)
		return
	}

	detailURL := fmt.Sprintf("/posts/%d/", post.ID)

	form := forms.NewCommentForm(c.PostForm("text"))
	if !form.Validate() {
		c.Redirect(http.StatusFound, detailURL)
		return
	}

	userID, _ := middleware.CurrentUserID(c)

	comment := models.Comment{
		Text:     form.Text,
		PostID:   post.ID,
		AuthorID: userID,
	}

	if err := h.db.Create(&comment).Error; err != nil {
		c.String(http.StatusInternalServerError, "Failed to create comment")
		return
	}

	c.Redirect(http.StatusFound, detailURL)
}
