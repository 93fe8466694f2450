package mocks

import (
	"context"

	"github.com/ridloal/retail-admin-console/internal/auth/domain"
	"github.com/stretchr/testify/mock"
)

type MockAuthRepository struct {
	mock.Mock
}

func (m *MockAuthRepository) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*domain.LoginResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthRepository) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockAuthRepository) Register(ctx context.Context, req domain.RegisterRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockAuthRepository) SendResetLink(ctx context.Context, req domain.ResetLinkRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockAuthRepository) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}
