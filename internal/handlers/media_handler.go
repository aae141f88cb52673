package handlers

import (
	"errors"
	"net/http"

	"microfeed/internal/storage"

	"github.com/labstack/echo/v4"
)

// MediaHandler serves uploaded images back from object storage.
type MediaHandler struct {
	media storage.MediaStorage
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(media storage.MediaStorage) *MediaHandler {
	return &MediaHandler{media: media}
}

// RegisterMediaRoutes registers the media serving route
func (h *MediaHandler) RegisterMediaRoutes(g *echo.Group) {
	g.GET("/media/*", h.GetMedia)
}

// GetMedia streams the stored object at the requested path.
func (h *MediaHandler) GetMedia(c echo.Context) error {
	objectName := c.Param("*")
	if objectName == "" {
		return echo.NewHTTPError(http.StatusNotFound, "Media not found")
	}

	object, contentType, err := h.media.Load(c.Request().Context(), objectName)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Media not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer object.Close()

	return c.Stream(http.StatusOK, contentType, object)
}
