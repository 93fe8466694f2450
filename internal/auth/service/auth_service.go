package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ridloal/retail-admin-console/internal/auth/domain"
	"github.com/ridloal/retail-admin-console/internal/auth/repository"
	"github.com/ridloal/retail-admin-console/internal/notify"
	"github.com/ridloal/retail-admin-console/internal/platform/backend"
	"github.com/ridloal/retail-admin-console/internal/platform/logger"
	"github.com/ridloal/retail-admin-console/internal/platform/session"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService interface {
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	Register(ctx context.Context, req domain.RegisterRequest) error
	SendResetLink(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
}

type authService struct {
	repo     repository.AuthRepository
	session  *session.Session
	notifier notify.Notifier
}

// NewAuthService binds authentication to the session it writes. The session
// is only set here on login and cleared here on logout.
func NewAuthService(repo repository.AuthRepository, sess *session.Session, n notify.Notifier) AuthService {
	if n == nil {
		n = notify.LogNotifier{}
	}
	return &authService{repo: repo, session: sess, notifier: n}
}

func (s *authService) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		s.notifier.Notify(notify.LevelError, "Error", domain.ErrCredentialsRequired.Error())
		return domain.ErrCredentialsRequired
	}

	resp, err := s.repo.Login(ctx, domain.LoginRequest{Email: email, Password: password})
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			s.notifier.Notify(notify.LevelError, "Error", backend.Message(err, "Invalid credentials"))
			return fmt.Errorf("%w: %s", ErrInvalidCredentials, apiErr.Message)
		}
		s.notifier.Notify(notify.LevelError, "Error", "Could not connect to the server")
		return fmt.Errorf("login failed: %w", err)
	}

	s.session.Set(resp.Token)
	logger.Info("Login: session opened for " + email)
	s.notifier.Notify(notify.LevelSuccess, "Welcome back!", "")
	return nil
}

// Logout tells the backend best effort; the local session is cleared either way.
func (s *authService) Logout(ctx context.Context) error {
	err := s.repo.Logout(ctx)
	s.session.Clear()
	if err != nil {
		logger.Warn("Logout: backend call failed, session cleared locally: " + err.Error())
	}
	return nil
}

func (s *authService) Register(ctx context.Context, req domain.RegisterRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	if err := req.Validate(); err != nil {
		s.notifier.Notify(notify.LevelError, "Error", err.Error())
		return err
	}

	if err := s.repo.Register(ctx, req); err != nil {
		s.notifier.Notify(notify.LevelError, "Error", backend.Message(err, "Check the submitted data"))
		return fmt.Errorf("registration failed: %w", err)
	}
	s.notifier.Notify(notify.LevelSuccess, "Welcome!", "Registration successful")
	return nil
}

func (s *authService) SendResetLink(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		s.notifier.Notify(notify.LevelError, "Error", domain.ErrEmailRequired.Error())
		return domain.ErrEmailRequired
	}

	if err := s.repo.SendResetLink(ctx, domain.ResetLinkRequest{Email: email}); err != nil {
		s.notifier.Notify(notify.LevelError, "Error", backend.Message(err, "Could not send the reset link"))
		return fmt.Errorf("reset link failed: %w", err)
	}
	s.notifier.Notify(notify.LevelSuccess, "Link sent!", "Check your email inbox")
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		s.notifier.Notify(notify.LevelError, "Error", err.Error())
		return err
	}

	if err := s.repo.ResetPassword(ctx, req); err != nil {
		s.notifier.Notify(notify.LevelError, "Error", backend.Message(err, "The link is invalid or has expired"))
		return fmt.Errorf("password reset failed: %w", err)
	}
	s.notifier.Notify(notify.LevelSuccess, "Password updated", "You can now log in with your new password")
	return nil
}
