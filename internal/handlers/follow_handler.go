package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"microfeed/internal/models"
	"microfeed/internal/repositories"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// FollowHandler toggles the follow edge from the current user to a
// target user.
type FollowHandler struct {
	followRepository repositories.FollowRepository
	userRepository   repositories.UserRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository) *FollowHandler {
	return &FollowHandler{
		followRepository: followRepo,
		userRepository:   userRepo,
	}
}

// RegisterFollowRoutes registers the follow toggle. Registered for any
// method so that non-POST requests get a 403, not a routing 405.
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.Any("/u/:username/follow/", h.ToggleFollow)
}

// ToggleFollow creates the follow edge if absent and the target is not
// the current user, else deletes it, then redirects to the target
// profile. Self-follow attempts never mutate anything.
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	if c.Request().Method != http.MethodPost {
		return echo.NewHTTPError(http.StatusForbidden, "Method not allowed for this action")
	}
	userID := currentUserID(c)

	username := c.Param("username")
	target, err := h.userRepository.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	profileURL := fmt.Sprintf("/u/%s/", target.Username)

	if target.ID == userID {
		setFlash(c, "You cannot follow yourself.")
		return c.Redirect(http.StatusSeeOther, profileURL)
	}

	following, err := h.followRepository.IsFollowing(userID, target.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if following {
		// Deleting an already-deleted edge is a no-op in the repository,
		// so a concurrent unfollow cannot fail this request.
		if err := h.followRepository.DeleteFollow(userID, target.ID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	} else {
		follow := &models.Follow{FollowerID: userID, FollowingID: target.ID}
		if err := h.followRepository.CreateFollow(follow); err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Redirect(http.StatusSeeOther, profileURL)
}
