package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"microfeed/internal/storage"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func mediaContext(e *echo.Echo, objectName string) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := newContext(e, http.MethodGet, "/media/"+objectName, "")
	c.SetPath("/media/*")
	c.SetParamNames("*")
	c.SetParamValues(objectName)
	return c, rec
}

func TestGetMediaStreamsStoredObject(t *testing.T) {
	e, _ := newTestEcho()
	media := new(MockMediaStorage)
	media.On("Load", mock.Anything, "posts/alice/abc.png").
		Return(io.NopCloser(strings.NewReader("png bytes")), "image/png", nil)
	h := NewMediaHandler(media)

	c, rec := mediaContext(e, "posts/alice/abc.png")
	asUser(c, 1, "alice")
	require.NoError(t, h.GetMedia(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "png bytes", rec.Body.String())
	media.AssertExpectations(t)
}

func TestGetMediaMissingObjectIsNotFound(t *testing.T) {
	e, _ := newTestEcho()
	media := new(MockMediaStorage)
	media.On("Load", mock.Anything, "posts/alice/gone.jpg").
		Return(nil, "", storage.ErrObjectNotFound)
	h := NewMediaHandler(media)

	c, _ := mediaContext(e, "posts/alice/gone.jpg")
	asUser(c, 1, "alice")
	err := h.GetMedia(c)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestGetMediaEmptyPathIsNotFound(t *testing.T) {
	e, _ := newTestEcho()
	media := new(MockMediaStorage)
	h := NewMediaHandler(media)

	c, _ := mediaContext(e, "")
	asUser(c, 1, "alice")
	err := h.GetMedia(c)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
	media.AssertNotCalled(t, "Load")
}
