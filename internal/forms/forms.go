// Package forms maps untrusted request fields onto validated entity
// mutations. Each form either passes validation or produces a
// FieldErrors map; nothing in between.
package forms

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports errors under the form field name, not the Go
// struct field name, so messages line up with the submitted fields.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// FieldErrors maps a lowercased field name to a user-facing message.
type FieldErrors map[string]string

// Any reports whether at least one field failed validation.
func (e FieldErrors) Any() bool { return len(e) > 0 }

// First returns an arbitrary single message, for flash-style reporting.
func (e FieldErrors) First() string {
	for _, msg := range e {
		return msg
	}
	return ""
}

// SignUpForm creates exactly one User (plus its Profile) on success.
type SignUpForm struct {
	Username        string `form:"username" validate:"required,min=3,max=30,alphanum"`
	Email           string `form:"email" validate:"omitempty,email,max=254"`
	Password        string `form:"password" validate:"required,min=8,max=128"`
	PasswordConfirm string `form:"password_confirm" validate:"required,eqfield=Password"`
}

// LoginForm carries credentials only; it never mutates anything.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// PostForm holds the body of a new post. The optional image arrives as a
// multipart file and is handled by the post handler.
type PostForm struct {
	Body string `form:"body" validate:"required,max=500"`
}

// CommentForm holds the body of a new comment; the handler stamps the
// commenter and target post.
type CommentForm struct {
	Body string `form:"body" validate:"required,max=300"`
}

// ProfileForm updates the current user's profile. The optional avatar
// arrives as a multipart file.
type ProfileForm struct {
	Bio string `form:"bio" validate:"omitempty,max=160"`
}

// Validate runs the struct tags of form and converts validator errors
// into user-facing field messages.
func Validate(form interface{}) FieldErrors {
	errs := FieldErrors{}
	err := validate.Struct(form)
	if err == nil {
		return errs
	}
	for _, fe := range err.(validator.ValidationErrors) {
		errs[strings.ToLower(fe.Field())] = message(fe)
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		return fmt.Sprintf("Must be at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	case "eqfield":
		return "Passwords do not match."
	case "email":
		return "Enter a valid email address."
	case "alphanum":
		return "Use letters and digits only."
	default:
		return "Invalid value."
	}
}
