// Package forms holds explicit validation structs for user-submitted
// content. Each form is built from already-parsed request parameters,
// validates its fields, and keeps the submitted values around so a
// failed submission can be re-rendered with errors.
package forms

import (
	"path/filepath"
	"strconv"
	"strings"
)

// allowed extensions for uploaded post images
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// PostForm validates a post submission: text is required, group and
// image are optional.
type PostForm struct {
	Text  string
	Group string // raw group id as submitted
	Image string // uploaded filename, empty if none

	GroupID *int // set by Validate when Group is a valid id

	Errors map[string]string
}

func NewPostForm(text, group, image string) *PostForm {
	return &PostForm{
		Text:   strings.TrimSpace(text),
		Group:  strings.TrimSpace(group),
		Image:  image,
		Errors: map[string]string{},
	}
}

func (f *PostForm) Validate() bool {
	if f.Text == "" {
		f.Errors["text"] = "Text is required"
	}

	if f.Group != "" {
		id, err := strconv.Atoi(f.Group)
		if err != nil || id < 1 {
			f.Errors["group"] = "Select a valid group"
		} else {
			f.GroupID = &id
		}
	}

	if f.Image != "" {
		ext := strings.ToLower(filepath.Ext(f.Image))
		if !imageExtensions[ext] {
			f.Errors["image"] = "Upload a valid image (jpg, jpeg, png or gif)"
		}
	}

	return len(f.Errors) == 0
}

// CommentForm validates a comment submission: text is required.
type CommentForm struct {
	Text string

	Errors map[string]string
}

func NewCommentForm(text string) *CommentForm {
	return &CommentForm{
		Text:   strings.TrimSpace(text),
		Errors: map[string]string{},
	}
}

func (f *CommentForm) Validate() bool {
	if f.Text == "" {
		f.Errors["text"] = "Text is required"
	}
	return len(f.Errors) == 0
}
