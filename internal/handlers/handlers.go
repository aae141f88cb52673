package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
)

const flashCookie = "microfeed_flash"

// currentUserID returns the authenticated user's ID from the context, or
// 0 when the request carries no session.
func currentUserID(c echo.Context) uint {
	if id, ok := c.Get("userID").(uint); ok {
		return id
	}
	return 0
}

// currentUsername returns the authenticated user's username, or "".
func currentUsername(c echo.Context) string {
	if name, ok := c.Get("username").(string); ok {
		return name
	}
	return ""
}

// setFlash stores a one-shot user message for the next rendered page.
func setFlash(c echo.Context, msg string) {
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
	})
}

// takeFlash reads and clears the pending flash message, if any.
func takeFlash(c echo.Context) string {
	cookie, err := c.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return ""
	}
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	msg, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return msg
}

// redirectBack sends the browser to the referring page, falling back to
// the feed when the Referer header is absent.
func redirectBack(c echo.Context) error {
	target := c.Request().Referer()
	if target == "" {
		target = "/"
	}
	return c.Redirect(http.StatusSeeOther, target)
}
