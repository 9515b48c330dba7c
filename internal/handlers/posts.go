package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/elkozlova/blogline/internal/forms"
	"github.com/elkozlova/blogline/internal/middleware"
	"github.com/elkozlova/blogline/internal/models"
	"github.com/elkozlova/blogline/internal/pagination"
)

type PostHandler struct {
	db *gorm.DB
}

func NewPostHandler(db *gorm.DB) *PostHandler {
	return &PostHandler{db: db}
}

func notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "not_found.html", gin.H{
		"user": currentUsername(c),
	})
	c.Abort()
}

func currentUsername(c *gin.Context) string {
	name, _ := middleware.CurrentUsername(c)
	return name
}

// Index renders the latest posts across all authors and groups. The
// route is wrapped by the page cache, so output may lag writes by up
// to the cache TTL.
func (h *PostHandler) Index(c *gin.Context) {
	var posts []models.Post
	if err := h.db.Preload("Author").Preload("Group").Order("created_at desc").Find(&posts).Error; err != nil {
		c.String(http.StatusInternalServerError, "Failed to fetch posts")
		return
	}

	page := pagination.Paginate(posts, c.Query("page"), pagination.DefaultPerPage)

	c.HTML(http.StatusOK, "index.html", gin.H{
		"page": page,
		"user": currentUsername(c),
	})
}

// GroupPosts renders one group's posts, newest first.
func (h *PostHandler) GroupPosts(c *gin.Context) {
	slug := c.Param("slug")

	var group models.Group
	if err := h.db.Where("slug = ?", slug).First(&group).Error; err != nil {
		notFound(c)
		return
	}

	var posts []models.Post
	if err := h.db.Preload("Author").Preload("Group").
		Where("group_id = ?", group.ID).
		Order("created_at desc").Find(&posts).Error; err != nil {
		c.String(http.StatusInternalServerError, "Failed to fetch posts")
		return
	}

	page := pagination.Paginate(posts, c.Query("page"), pagination.DefaultPerPage)

	c.HTML(http.StatusOK, "group_list.html", gin.H{
		"group": group,
		"page":  page,
		"user":  currentUsername(c),
	})
}

// Profile renders an author's page with their posts and whether the
// current viewer already follows them.
func (h *PostHandler) Profile(c *gin.Context) {
	username := c.Param("username")

	var author models.User
	if err := h.db.Where("username = ?", username).First(&author).Error; err != nil {
		notFound(c)
		return
	}

	var posts []models.Post
	if err := h.db.Preload("Author").Preload("Group").
		Where("author_id = ?", author.ID).
		Order("created_at desc").Find(&posts).Error; err != nil {
		c.String(http.StatusInternalServerError, "Failed to fetch posts")
		return
	}

	following := false
	if viewerID, ok := middleware.CurrentUserID(c); ok {
		var follow models.Follow
		err := h.db.Where("user_id = ? AND author_id = ?", viewerID, author.ID).First(&follow).Error
		following = err == nil
	}

	var followerCount int64
	h.db.Model(&models.Follow{}).Where("author_id = ?", author.ID).Count(&followerCount)

	page := pagination.Paginate(posts, c.Query("page"), pagination.DefaultPerPage)

	c.HTML(http.StatusOK, "profile.html", gin.H{
		"author":         author,
		"following":      following,
		"follower_count": followerCount,
		"page":           page,
		"user":           currentUsername(c),
	})
}

// Detail renders a single post with its comments, newest first, and
// an empty comment form.
func (h *PostHandler) Detail(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		notFound(c)
		return
	}

	var post models.Post
	if err := h.db.Preload("Author").Preload("Group").First(&post, postID).Error; err != nil {
		notFound(c)
		return
	}

	var comments []models.Comment
	if err := h.db.Preload("Author").
		Where("post_id = ?", post.ID).
		Order("created_at desc").Find(&comments).Error; err != nil {
		c.String(http.StatusInternalServerError, "Failed to fetch comments")
		return
	}

	c.HTML(http.StatusOK, "post_detail.html", gin.H{
		"post":     post,
		"comments": comments,
		"form":     forms.NewCommentForm(""),
		"user":     currentUsername(c),
	})
}

// CreatePage renders the empty post form.
func (h *PostHandler) CreatePage(c *gin.Context) {
	c.HTML(http.StatusOK, "create_post.html", gin.H{
		"form":   forms.NewPostForm("", "", ""),
		"groups": h.groups(),
		"user":   currentUsername(c),
	})
}

// Create validates the submission and persists a post authored by the
// current identity, then redirects to their profile. On validation
// failure the form is re-rendered with field errors and the submitted
// values intact.
func (h *PostHandler) Create(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	username, _ := middleware.CurrentUsername(c)

	file, _ := c.FormFile("image")
	form := forms.NewPostForm(c.PostForm("text"), c.PostForm("group"), fileName(file))

	if !form.Validate() {
		c.HTML(http.StatusOK, "create_post.html", gin.H{
			"form":   form,
			"groups": h.groups(),
			"user":   username,
		})
		return
	}

	post := models.Post{
		Text:     form.Text,
		AuthorID: userID,
		GroupID:  form.GroupID,
	}

	if file != nil {
		image, err := h.saveImage(c, file)
		if err != nil {
			form.Errors["image"] = "Failed to store the image"
			c.HTML(http.StatusOK, "create_post.html", gin.H{
				"form":   form,
				"groups": h.groups(),
				"user":   username,
			})
			return
		}
		post.Image = image
	}

	if err := h.db.Create(&post).Error; err != nil {
		c.String(http.StatusInternalServerError, "Failed to create post")
		return
	}

	c.Redirect(http.StatusFound, "/profile/"+username+"/")
}

// EditPage renders the form bound to an existing post. A non-owner is
// silently sent back to the post's detail page.
func (h *PostHandler) EditPage(c *gin.Context) {
	post, ok := h.ownedPost(c)
	if !ok {
		return
	}

	group := ""
	if post.GroupID != nil {
		group = fmt.Sprintf("%d", *post.GroupID)
	}

	c.HTML(http.StatusOK, "create_post.html", gin.H{
		"form":      forms.NewPostForm(post.Text, group, ""),
		"groups":    h.groups(),
		"edit_post": post,
		"user":      currentUsername(c),
	})
}

// Edit applies a validated submission to the caller's own post and
// redirects to the detail page.
func (h *PostHandler) Edit(c *gin.Context) {
	post, ok := h.ownedPost(c)
	if !ok {
		return
	}

	file, _ := c.FormFile("image")
	form := forms.NewPostForm(c.PostForm("text"), c.PostForm("group"), fileName(file))

	if !form.Validate() {
		c.HTML(http.StatusOK, "create_post.html", gin.H{
			"form":      form,
			"groups":    h.groups(),
			"edit_post": post,
			"user":      currentUsername(c),
		})
		return
	}

	post.Text = form.Text
	post.GroupID = form.GroupID
	if file != nil {
		image, err := h.saveImage(c, file)
		if err == nil {
			post.Image = image
		}
	}

	if err := h.db.Save(&post).Error; err != nil {
		c.String(http.StatusInternalServerError, "Failed to update post")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", post.ID))
}

// ownedPost loads the post from the path and checks ownership.
// Missing post renders 404; someone else's post redirects to its
// detail page with no error shown.
func (h *PostHandler) ownedPost(c *gin.Context) (models.Post, bool) {
	var post models.Post

	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		notFound(c)
		return post, false
	}

	if err := h.db.First(&post, postID).Error; err != nil {
		notFound(c)
		return post, false
	}

	userID, _ := middleware.CurrentUserID(c)
	if post.AuthorID != userID {
		c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", post.ID))
		c.Abort()
		return post, false
	}

	return post, true
}

func (h *PostHandler) groups() []models.Group {
	var groups []models.Group
	h.db.Order("title").Find(&groups)
	return groups
}

func fileName(file *multipart.FileHeader) string {
	if file == nil {
		return ""
	}
	return file.Filename
}

// saveImage stores the upload under MEDIA_ROOT/posts and returns the
// path relative to the media root.
func (h *PostHandler) saveImage(c *gin.Context, file *multipart.FileHeader) (string, error) {
	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(file.Filename))
	rel := filepath.Join("posts", name)
	dst := filepath.Join(MediaRoot(), rel)

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", err
	}

	return rel, nil
}
