package repository

import (
	"context"
	"errors"
	"net/http"

	"github.com/ridloal/retail-admin-console/internal/auth/domain"
	"github.com/ridloal/retail-admin-console/internal/platform/backend"
	"github.com/ridloal/retail-admin-console/internal/platform/logger"
)

var ErrMissingToken = errors.New("login response carried no token")

type AuthRepository interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, req domain.RegisterRequest) error
	SendResetLink(ctx context.Context, req domain.ResetLinkRequest) error
	ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
}

type httpAuthRepository struct {
	client *backend.Client
}

func NewHTTPAuthRepository(client *backend.Client) AuthRepository {
	return &httpAuthRepository{client: client}
}

func (r *httpAuthRepository) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	var resp domain.LoginResponse
	if err := r.client.Do(ctx, http.MethodPost, "/login", req, &resp); err != nil {
		logger.Warn("Login: rejected for " + req.Email)
		return nil, err
	}
	if resp.Token == "" {
		return nil, ErrMissingToken
	}
	return &resp, nil
}

func (r *httpAuthRepository) Logout(ctx context.Context) error {
	return r.client.Do(ctx, http.MethodPost, "/logout", nil, nil)
}

func (r *httpAuthRepository) Register(ctx context.Context, req domain.RegisterRequest) error {
	return r.client.Do(ctx, http.MethodPost, "/register", req, nil)
}

func (r *httpAuthRepository) SendResetLink(ctx context.Context, req domain.ResetLinkRequest) error {
	return r.client.Do(ctx, http.MethodPost, "/password/email", req, nil)
}

func (r *httpAuthRepository) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	return r.client.Do(ctx, http.MethodPost, "/password/reset", req, nil)
}
