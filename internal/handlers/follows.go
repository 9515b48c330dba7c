package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/elkozlova/blogline/internal/middleware"
	"github.com/elkozlova/blogline/internal/models"
	"github.com/elkozlova/blogline/internal/pagination"
)

type FollowHandler struct {
	db *gorm.DB
}

func NewFollowHandler(db *gorm.DB) *FollowHandler {
	return &FollowHandler{db: db}
}

// Feed renders the posts of every author the current identity follows,
// newest first.
func (h *FollowHandler) Feed(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var follows []models.Follow
	if err := h.db.Where("user_id = ?", userID).Find(&follows).Error; err != nil {
		c.String(http.StatusInternalServerError, "Failed to fetch follows")
		return
	}

	var posts []models.Post
	if len(follows) > 0 {
		authorIDs := lo.Map(follows, func(f models.Follow, _ int) int {
			return f.AuthorID
		})

		if err := h.db.Preload("Author").Preload("Group").
			Where("author_id IN ?", authorIDs).
			Order("created_at desc").Find(&posts).Error; err != nil {
			c.String(http.StatusInternalServerError, "Failed to fetch posts")
			return
		}
	}

	page := pagination.Paginate(posts, c.Query("page"), pagination.DefaultPerPage)

	c.HTML(http.StatusOK, "follow.html", gin.H{
		"page": page,
		"user": currentUsername(c),
	})
}

// Follow subscribes the current identity to the author, then sends
// them to the author's profile. Repeat calls are a no-op, as is an
// attempt to follow yourself.
func (h *FollowHandler) Follow(c *gin.Context) {
	username := c.Param("username")
	userID, _ := middleware.CurrentUserID(c)

	var author models.User
	if err := h.db.Where("username = ?", username).First(&author).Error; err != nil {
		notFound(c)
		return
	}

	if author.ID != userID {
		follow := models.Follow{UserID: userID, AuthorID: author.ID}
		if err := h.db.Where(models.Follow{UserID: userID, AuthorID: author.ID}).
			FirstOrCreate(&follow).Error; err != nil {
			c.String(http.StatusInternalServerError, "Failed to follow")
			return
		}
	}

	c.Redirect(http.StatusFound, "/profile/"+author.Username+"/")
}

// Unfollow removes the subscription and sends the caller back to the
// author's profile. Not being subscribed is a 404.
func (h *FollowHandler) Unfollow(c *gin.Context) {
	username := c.Param("username")
	userID, _ := middleware.CurrentUserID(c)

	var author models.User
	if err := h.db.Where("username = ?", username).First(&author).Error; err != nil {
		notFound(c)
		return
	}

	var follow models.Follow
	if err := h.db.Where("user_id = ? AND author_id = ?", userID, author.ID).
		First(&follow).Error; err != nil {
		notFound(c)
		return
	}

	if err := h.db.Delete(&follow).Error; err != nil {
		c.String(http.StatusInternalServerError, "Failed to unfollow")
		return
	}

	c.Redirect(http.StatusFound, "/profile/"+author.Username+"/")
}
