package model

// User represents a stored user record. Passwords are kept as submitted.
type User struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

// Credentials is a login attempt. It is never persisted.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest is the signup form as entered by the user.
type SignupRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Username        string `json:"username" validate:"required"`
	Password        string `json:"password" validate:"min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"min=8,eqfield=Password"`
}

// RegisterRequest is the signup payload sent to the server.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// AuthResponse is the body of every /login and /signup response.
type AuthResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	User    *UserResponse `json:"user,omitempty"`
}

// UserResponse represents user data safe for API responses (no password).
type UserResponse struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Session is the client's view of who is signed in.
type Session struct {
	LoggedIn bool
	Username string
}
