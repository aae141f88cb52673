package handlers

import (
	"net/http"

	"microfeed/internal/forms"
	"microfeed/internal/models"
	"microfeed/internal/repositories"
	"microfeed/internal/storage"

	"github.com/labstack/echo/v4"
)

// PostHandler handles post creation.
type PostHandler struct {
	postRepository repositories.PostRepository
	media          storage.MediaStorage
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, media storage.MediaStorage) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		media:          media,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/post/create/", h.CreatePost)
}

// CreatePost validates the post form, stores the optional image and
// creates a post owned by the current user. Control always returns to
// the feed; validation failures are reported via flash message.
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID := currentUserID(c)

	var form forms.PostForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if fieldErrs := forms.Validate(form); fieldErrs.Any() {
		setFlash(c, fieldErrs.First())
		return c.Redirect(http.StatusSeeOther, "/")
	}

	post := &models.Post{
		AuthorID: userID,
		Body:     form.Body,
	}

	if file, err := c.FormFile("image"); err == nil && file != nil {
		src, err := file.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		defer src.Close()

		path, err := h.media.SavePostImage(c.Request().Context(), currentUsername(c), file.Filename, src, file.Size)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		post.Image = path
	}

	if err := h.postRepository.CreatePost(post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	setFlash(c, "Post published!")
	return c.Redirect(http.StatusSeeOther, "/")
}
