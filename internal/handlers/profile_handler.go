package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"microfeed/internal/forms"
	"microfeed/internal/models"
	"microfeed/internal/repositories"
	"microfeed/internal/storage"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ProfileHandler renders user profiles and updates the current user's
// own profile.
type ProfileHandler struct {
	userRepository    repositories.UserRepository
	profileRepository repositories.ProfileRepository
	postRepository    repositories.PostRepository
	followRepository  repositories.FollowRepository
	likeRepository    repositories.LikeRepository
	media             storage.MediaStorage
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	postRepo repositories.PostRepository,
	followRepo repositories.FollowRepository,
	likeRepo repositories.LikeRepository,
	media storage.MediaStorage,
) *ProfileHandler {
	return &ProfileHandler{
		userRepository:    userRepo,
		profileRepository: profileRepo,
		postRepository:    postRepo,
		followRepository:  followRepo,
		likeRepository:    likeRepo,
		media:             media,
	}
}

// RegisterProfileRoutes registers profile-related routes
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/u/:username/", h.GetProfile)
	g.POST("/profile/update/", h.UpdateProfile)
}

// ProfilePost is a post on the profile page with its like count.
type ProfilePost struct {
	Post     models.Post
	NumLikes int64
}

type profilePage struct {
	ProfileUser    models.User
	Profile        models.Profile
	Posts          []ProfilePost
	IsOwn          bool
	IsFollowing    bool
	FollowersCount int64
	FollowingCount int64
	Flash          string
}

// GetProfile renders a user's posts, bio and avatar, plus whether the
// viewer follows them. The edit form shows only on one's own profile.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	viewerID := currentUserID(c)

	user, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	profile, err := h.profileRepository.GetProfileByUserID(user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	posts, err := h.postRepository.ListPostsByAuthor(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	items := make([]ProfilePost, 0, len(posts))
	for _, post := range posts {
		likes, err := h.likeRepository.GetLikesCountByPostID(post.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		items = append(items, ProfilePost{Post: post, NumLikes: likes})
	}

	isFollowing := false
	if viewerID != user.ID {
		isFollowing, err = h.followRepository.IsFollowing(viewerID, user.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	followers, err := h.followRepository.GetFollowersCount(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	following, err := h.followRepository.GetFollowingCount(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.Render(http.StatusOK, "profile.html", profilePage{
		ProfileUser:    *user,
		Profile:        *profile,
		Posts:          items,
		IsOwn:          viewerID == user.ID,
		IsFollowing:    isFollowing,
		FollowersCount: followers,
		FollowingCount: following,
		Flash:          takeFlash(c),
	})
}

// UpdateProfile updates the current user's bio and avatar, then
// redirects to their own profile.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	userID := currentUserID(c)

	// Resolve the username from the database rather than the token
	// claims, since the avatar path is namespaced by username.
	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	profileURL := fmt.Sprintf("/u/%s/", user.Username)

	var form forms.ProfileForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if fieldErrs := forms.Validate(form); fieldErrs.Any() {
		setFlash(c, fieldErrs.First())
		return c.Redirect(http.StatusSeeOther, profileURL)
	}

	profile, err := h.profileRepository.GetProfileByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	profile.Bio = form.Bio

	if file, err := c.FormFile("avatar"); err == nil && file != nil {
		src, err := file.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		defer src.Close()

		path, err := h.media.SaveAvatar(c.Request().Context(), user.Username, file.Filename, src, file.Size)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		profile.Avatar = path
	}

	if err := h.profileRepository.UpdateProfile(profile); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	setFlash(c, "Profile updated!")
	return c.Redirect(http.StatusSeeOther, profileURL)
}
