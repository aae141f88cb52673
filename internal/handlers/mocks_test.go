package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"microfeed/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
)

// stubRenderer captures the template name and data a handler rendered.
type stubRenderer struct {
	Name string
	Data interface{}
}

func (r *stubRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	r.Name = name
	r.Data = data
	return nil
}

func newTestEcho() (*echo.Echo, *stubRenderer) {
	e := echo.New()
	r := &stubRenderer{}
	e.Renderer = r
	return e, r
}

// newContext builds an echo context for a handler-level test. A non-empty
// form body is sent urlencoded, as a browser would.
func newContext(e *echo.Echo, method, target, form string) (echo.Context, *httptest.ResponseRecorder) {
	var body io.Reader
	if form != "" {
		body = strings.NewReader(form)
	}
	req := httptest.NewRequest(method, target, body)
	if form != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func asUser(c echo.Context, id uint, username string) {
	c.Set("userID", id)
	c.Set("username", username)
}

// hasFlashCookie reports whether the response set a non-empty flash
// message cookie.
func hasFlashCookie(cookies []*http.Cookie) bool {
	for _, ck := range cookies {
		if ck.Name == flashCookie && ck.Value != "" && ck.MaxAge >= 0 {
			return true
		}
	}
	return false
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateWithProfile(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ListUsersByIDs(ids []uint) ([]models.User, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) UsernameExists(username string) (bool, error) {
	args := m.Called(username)
	return args.Bool(0), args.Error(1)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetProfileByUserID(userID uint) (*models.Profile, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) UpdateProfile(profile *models.Profile) error {
	args := m.Called(profile)
	return args.Error(0)
}

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) CreatePost(post *models.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockPostRepository) GetPostByID(id uint) (*models.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) ListFeedPosts(authorIDs []uint, offset, limit int) ([]models.Post, error) {
	args := m.Called(authorIDs, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) CountFeedPosts(authorIDs []uint) (int64, error) {
	args := m.Called(authorIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) ListPostsByAuthor(authorID uint) ([]models.Post, error) {
	args := m.Called(authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) CreateFollow(follow *models.Follow) error {
	args := m.Called(follow)
	return args.Error(0)
}

func (m *MockFollowRepository) DeleteFollow(followerID, followingID uint) error {
	args := m.Called(followerID, followingID)
	return args.Error(0)
}

func (m *MockFollowRepository) IsFollowing(followerID, followingID uint) (bool, error) {
	args := m.Called(followerID, followingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) GetFollowingIDs(userID uint) ([]uint, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockFollowRepository) GetFollowersCount(userID uint) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFollowRepository) GetFollowingCount(userID uint) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockLikeRepository struct {
	mock.Mock
}

func (m *MockLikeRepository) CreateLike(like *models.Like) error {
	args := m.Called(like)
	return args.Error(0)
}

func (m *MockLikeRepository) DeleteLike(postID, userID uint) error {
	args := m.Called(postID, userID)
	return args.Error(0)
}

func (m *MockLikeRepository) HasUserLikedPost(postID, userID uint) (bool, error) {
	args := m.Called(postID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikeRepository) GetLikesCountByPostID(postID uint) (int64, error) {
	args := m.Called(postID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLikeRepository) GetLikesCountByPostIDs(postIDs []uint) (map[uint]int64, error) {
	args := m.Called(postIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]int64), args.Error(1)
}

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) CreateComment(comment *models.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockCommentRepository) ListCommentsByPostID(postID uint) ([]models.Comment, error) {
	args := m.Called(postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

type MockMediaStorage struct {
	mock.Mock
}

func (m *MockMediaStorage) SavePostImage(ctx context.Context, username, fileName string, file io.Reader, size int64) (string, error) {
	args := m.Called(ctx, username, fileName, file, size)
	return args.String(0), args.Error(1)
}

func (m *MockMediaStorage) SaveAvatar(ctx context.Context, username, fileName string, file io.Reader, size int64) (string, error) {
	args := m.Called(ctx, username, fileName, file, size)
	return args.String(0), args.Error(1)
}

func (m *MockMediaStorage) Load(ctx context.Context, objectName string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, objectName)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.String(1), args.Error(2)
}
