package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"microfeed/internal/forms"
	"microfeed/internal/models"
	"microfeed/internal/repositories"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// CommentHandler handles adding comments to posts.
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/post/:id/comment/", h.AddComment)
}

// AddComment creates a comment on a post when the form is valid. Control
// always returns to the feed; validation failures ride a flash message.
func (h *CommentHandler) AddComment(c echo.Context) error {
	userID := currentUserID(c)

	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if _, err := h.postRepository.GetPostByID(uint(postID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var form forms.CommentForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if fieldErrs := forms.Validate(form); fieldErrs.Any() {
		setFlash(c, fieldErrs.First())
		return c.Redirect(http.StatusSeeOther, "/")
	}

	comment := &models.Comment{
		UserID: userID,
		PostID: uint(postID),
		Body:   form.Body,
	}
	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.Redirect(http.StatusSeeOther, "/")
}
