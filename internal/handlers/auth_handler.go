package handlers

import (
	"errors"
	"net/http"
	"time"

	"microfeed/internal/forms"
	"microfeed/internal/middleware"
	"microfeed/internal/models"
	"microfeed/internal/repositories"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler handles signup, login and logout.
type AuthHandler struct {
	userRepository repositories.UserRepository
	jwtSecret      string
	sessionTTL     time.Duration
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, jwtSecret string, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		jwtSecret:      jwtSecret,
		sessionTTL:     sessionTTL,
	}
}

// RegisterAuthRoutes registers the public authentication routes.
// Signup and login are guest-only: a request carrying a valid session
// is sent back to the feed instead.
func (h *AuthHandler) RegisterAuthRoutes(e *echo.Echo) {
	guest := middleware.RequireGuest(h.jwtSecret)
	e.GET("/auth/signup/", h.Signup, guest)
	e.POST("/auth/signup/", h.Signup, guest)
	e.GET("/auth/login/", h.Login, guest)
	e.POST("/auth/login/", h.Login, guest)
	e.Any("/auth/logout/", h.Logout)
}

type signupPage struct {
	Flash  string
	Form   forms.SignUpForm
	Errors forms.FieldErrors
}

// Signup renders the signup form on GET and creates a User with its
// Profile on a valid POST, then redirects to login. No session is
// established here.
func (h *AuthHandler) Signup(c echo.Context) error {
	if c.Request().Method != http.MethodPost {
		return c.Render(http.StatusOK, "signup.html", signupPage{Flash: takeFlash(c)})
	}

	var form forms.SignUpForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	fieldErrs := forms.Validate(form)
	if !fieldErrs.Any() {
		taken, err := h.userRepository.UsernameExists(form.Username)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if taken {
			fieldErrs["username"] = "This username is already taken."
		}
	}
	if fieldErrs.Any() {
		form.Password = ""
		form.PasswordConfirm = ""
		return c.Render(http.StatusOK, "signup.html", signupPage{Form: form, Errors: fieldErrs})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Username:     form.Username,
		Email:        form.Email,
		PasswordHash: string(hash),
	}
	if err := h.userRepository.CreateWithProfile(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race on the username unique index.
			fieldErrs["username"] = "This username is already taken."
			form.Password = ""
			form.PasswordConfirm = ""
			return c.Render(http.StatusOK, "signup.html", signupPage{Form: form, Errors: fieldErrs})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	setFlash(c, "Account created! Log in to continue.")
	return c.Redirect(http.StatusSeeOther, "/auth/login/")
}

type loginPage struct {
	Flash    string
	Username string
	Error    string
}

// Login renders the login form on GET and establishes a session cookie
// on valid credentials. Failures re-render the form with no session.
func (h *AuthHandler) Login(c echo.Context) error {
	if c.Request().Method != http.MethodPost {
		return c.Render(http.StatusOK, "login.html", loginPage{Flash: takeFlash(c)})
	}

	var form forms.LoginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	user, err := h.userRepository.GetUserByUsername(form.Username)
	if err == nil {
		err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password))
	}
	if err != nil {
		return c.Render(http.StatusOK, "login.html", loginPage{
			Username: form.Username,
			Error:    "Invalid username or password.",
		})
	}

	token, err := h.generateSessionToken(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate session token")
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.sessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.Redirect(http.StatusSeeOther, "/")
}

// Logout destroys the session cookie and redirects to login.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.Redirect(http.StatusSeeOther, "/auth/login/")
}

// generateSessionToken signs a JWT for the given user.
func (h *AuthHandler) generateSessionToken(user *models.User) (string, error) {
	claims := &models.SessionClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(h.sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
