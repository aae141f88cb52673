package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"microfeed/internal/models"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, expires time.Time) string {
	t.Helper()
	claims := &models.SessionClaims{
		UserID:   1,
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func runMiddleware(cookie *http.Cookie) (*httptest.ResponseRecorder, echo.Context, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := SessionAuth(testSecret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return rec, c, err
}

func TestSessionAuthMissingCookieRedirectsToLogin(t *testing.T) {
	rec, _, err := runMiddleware(nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login/", rec.Header().Get(echo.HeaderLocation))
}

func TestSessionAuthValidTokenSetsIdentity(t *testing.T) {
	cookie := &http.Cookie{Name: SessionCookie, Value: signToken(t, testSecret, time.Now().Add(time.Hour))}
	rec, c, err := runMiddleware(cookie)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(1), c.Get("userID"))
	assert.Equal(t, "alice", c.Get("username"))
}

func TestSessionAuthExpiredTokenRedirectsToLogin(t *testing.T) {
	cookie := &http.Cookie{Name: SessionCookie, Value: signToken(t, testSecret, time.Now().Add(-time.Hour))}
	rec, _, err := runMiddleware(cookie)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login/", rec.Header().Get(echo.HeaderLocation))
}

func TestSessionAuthForgedTokenRedirectsToLogin(t *testing.T) {
	cookie := &http.Cookie{Name: SessionCookie, Value: signToken(t, "wrong-secret", time.Now().Add(time.Hour))}
	rec, _, err := runMiddleware(cookie)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func runGuestMiddleware(cookie *http.Cookie) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/login/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequireGuest(testSecret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return rec, err
}

func TestRequireGuestRedirectsActiveSessionToFeed(t *testing.T) {
	cookie := &http.Cookie{Name: SessionCookie, Value: signToken(t, testSecret, time.Now().Add(time.Hour))}
	rec, err := runGuestMiddleware(cookie)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
}

func TestRequireGuestAllowsAnonymousThrough(t *testing.T) {
	rec, err := runGuestMiddleware(nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireGuestIgnoresExpiredSession(t *testing.T) {
	cookie := &http.Cookie{Name: SessionCookie, Value: signToken(t, testSecret, time.Now().Add(-time.Hour))}
	rec, err := runGuestMiddleware(cookie)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}
