package validate

import (
	"strings"

	"github.com/postdeck/postdeck-go/internal/model"
)

// Login checks a sign-in form.
func Login(in model.Credentials) Result[model.Credentials] {
	return check(in)
}

// Signup checks a signup form, including the password confirmation.
func Signup(in model.SignupRequest) Result[model.SignupRequest] {
	return check(in)
}

// Post checks a post draft before it is submitted.
func Post(in model.PostDraft) Result[model.PostDraft] {
	return check(in)
}

// Registration re-checks a signup payload on the server.
func Registration(in model.User) Result[model.User] {
	return check(in)
}

// IsImageType reports whether a declared media type is an image type.
func IsImageType(mediaType string) bool {
	return strings.HasPrefix(mediaType, "image/")
}
