package middleware

import (
	"net/http"

	"microfeed/internal/models"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// SessionCookie is the name of the HTTP-only cookie carrying the signed
// session token.
const SessionCookie = "microfeed_session"

// SessionAuth checks the session cookie for a valid JWT and puts the
// user identity into the echo context. Requests without a valid session
// are redirected to the login page.
func SessionAuth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := sessionClaims(c, jwtSecret)
			if err != nil {
				return c.Redirect(http.StatusSeeOther, "/auth/login/")
			}

			c.Set("userID", claims.UserID)
			c.Set("username", claims.Username)

			return next(c)
		}
	}
}

// RequireGuest sends requests that already carry a valid session to the
// feed, so logged-in users never see the signup or login forms.
func RequireGuest(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := sessionClaims(c, jwtSecret); err == nil {
				return c.Redirect(http.StatusSeeOther, "/")
			}
			return next(c)
		}
	}
}

// sessionClaims parses and verifies the session cookie.
func sessionClaims(c echo.Context, jwtSecret string) (*models.SessionClaims, error) {
	cookie, err := c.Cookie(SessionCookie)
	if err != nil {
		return nil, err
	}
	if cookie.Value == "" {
		return nil, http.ErrNoCookie
	}

	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}
