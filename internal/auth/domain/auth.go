package domain

import (
	"errors"
	"strings"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

var (
	ErrCredentialsRequired = errors.New("email and password are required")
	ErrEmailRequired       = errors.New("email is required")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrPasswordTooShort    = errors.New("password must be at least 6 characters")
	ErrInvalidResetLink    = errors.New("invalid or incomplete reset link")
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// RegisterRequest creates a store together with its owner account.
type RegisterRequest struct {
	Name                 string `json:"name"`
	StoreName            string `json:"store_name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (r RegisterRequest) Validate() error {
	if r.Password != r.PasswordConfirmation {
		return ErrPasswordMismatch
	}
	if len(r.Password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

type ResetLinkRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest carries the token and email taken from the reset link.
type ResetPasswordRequest struct {
	Token                string `json:"token"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (r ResetPasswordRequest) Validate() error {
	if strings.TrimSpace(r.Token) == "" || strings.TrimSpace(r.Email) == "" {
		return ErrInvalidResetLink
	}
	if r.Password != r.PasswordConfirmation {
		return ErrPasswordMismatch
	}
	return nil
}
