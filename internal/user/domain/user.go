package domain

import (
	"errors"
	"strings"
)

// User is a worker account. Role is assigned by the backend.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

var (
	ErrNameRequired     = errors.New("name is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrInvalidEmail     = errors.New("email is not valid")
	ErrPasswordRequired = errors.New("password is required")
)

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims the request the way it is sent.
func (r CreateUserRequest) Normalize() CreateUserRequest {
	return CreateUserRequest{
		Name:     strings.TrimSpace(r.Name),
		Email:    strings.TrimSpace(strings.ToLower(r.Email)),
		Password: r.Password,
	}
}

func (r CreateUserRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return ErrNameRequired
	case strings.TrimSpace(r.Email) == "":
		return ErrEmailRequired
	case !strings.Contains(r.Email, "@"):
		return ErrInvalidEmail
	case r.Password == "":
		return ErrPasswordRequired
	}
	return nil
}
