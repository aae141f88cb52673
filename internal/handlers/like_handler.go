package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"microfeed/internal/models"
	"microfeed/internal/repositories"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// LikeHandler toggles the like edge between the current user and a post.
type LikeHandler struct {
	likeRepository repositories.LikeRepository
	postRepository repositories.PostRepository
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeRepo repositories.LikeRepository, postRepo repositories.PostRepository) *LikeHandler {
	return &LikeHandler{
		likeRepository: likeRepo,
		postRepository: postRepo,
	}
}

// RegisterLikeRoutes registers the like toggle. Registered for any
// method so that non-POST requests get a 403, not a routing 405.
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.Any("/post/:id/like/", h.ToggleLike)
}

// ToggleLike creates the like if absent, else deletes it, then sends the
// browser back to the referring page.
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	if c.Request().Method != http.MethodPost {
		return echo.NewHTTPError(http.StatusForbidden, "Method not allowed for this action")
	}
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

	liked, err := h.likeRepository.HasUserLikedPost(uint(postID), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if liked {
		// Deleting an already-deleted edge is a no-op in the repository,
		// so a concurrent unlike cannot fail this request.
		if err := h.likeRepository.DeleteLike(uint(postID), userID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	} else {
		like := &models.Like{PostID: uint(postID), UserID: userID}
		if err := h.likeRepository.CreateLike(like); err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return redirectBack(c)
}
