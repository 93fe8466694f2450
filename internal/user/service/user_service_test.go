package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ridloal/retail-admin-console/internal/notify"
	"github.com/ridloal/retail-admin-console/internal/platform/backend"
	"github.com/ridloal/retail-admin-console/internal/user/domain"
	"github.com/ridloal/retail-admin-console/internal/user/repository"
	"github.com/ridloal/retail-admin-console/internal/user/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_Create(t *testing.T) {
	ctx := context.TODO()
	createReq := domain.CreateUserRequest{Name: " Ana ", Email: "Ana@Shop.com", Password: "secret1"}
	normalized := domain.CreateUserRequest{Name: "Ana", Email: "ana@shop.com", Password: "secret1"}

	t.Run("Successful creation refreshes the list", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		rec := notify.NewRecorder()
		svc := NewUserService(mockRepo, rec)

		created := &domain.User{ID: 9, Name: "Ana", Email: "ana@shop.com"}
		mockRepo.On("CreateUser", ctx, normalized).Return(created, nil).Once()
		mockRepo.On("ListUsers", ctx).Return([]domain.User{*created}, nil).Once()

		user, err := svc.Create(ctx, createReq)

		assert.NoError(t, err)
		assert.Equal(t, created, user)
		assert.Len(t, svc.Users(), 1)
		assert.Equal(t, notify.LevelSuccess, rec.Drain()[0].Level)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Constraint violations never reach the backend", func(t *testing.T) {
		testCases := []struct {
			name string
			req  domain.CreateUserRequest
			want error
		}{
			{"Missing name", domain.CreateUserRequest{Email: "a@b.c", Password: "x"}, domain.ErrNameRequired},
			{"Missing email", domain.CreateUserRequest{Name: "A", Password: "x"}, domain.ErrEmailRequired},
			{"Email without at", domain.CreateUserRequest{Name: "A", Email: "ab.c", Password: "x"}, domain.ErrInvalidEmail},
			{"Missing password", domain.CreateUserRequest{Name: "A", Email: "a@b.c"}, domain.ErrPasswordRequired},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				mockRepo := new(mocks.MockUserRepository)
				svc := NewUserService(mockRepo, notify.NewRecorder())

				_, err := svc.Create(ctx, tc.req)

				assert.ErrorIs(t, err, tc.want)
				mockRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("User already exists", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		svc := NewUserService(mockRepo, notify.NewRecorder())
		mockRepo.On("CreateUser", ctx, normalized).Return(nil, repository.ErrUserConflict).Once()

		user, err := svc.Create(ctx, createReq)

		assert.Nil(t, user)
		assert.EqualError(t, err, ErrUserAlreadyExists.Error())
	})

	t.Run("Backend validation message is surfaced", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		rec := notify.NewRecorder()
		svc := NewUserService(mockRepo, rec)
		apiErr := &backend.APIError{Status: 422, Message: "invalid", Errors: map[string][]string{"email": {"The email has already been taken."}}}
		mockRepo.On("CreateUser", ctx, normalized).Return(nil, apiErr).Once()

		_, err := svc.Create(ctx, createReq)

		assert.ErrorIs(t, err, apiErr)
		assert.Contains(t, err.Error(), "could not save user")
		assert.Equal(t, "The email has already been taken.", rec.Drain()[0].Text)
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.TODO()

	t.Run("Declined confirmation", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		svc := NewUserService(mockRepo, notify.NewRecorder())

		err := svc.Delete(ctx, 3, notify.StaticConfirmer{Answer: false})

		assert.ErrorIs(t, err, ErrDeleteCancelled)
		mockRepo.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
	})

	t.Run("Confirmed delete alerts and refreshes", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		rec := notify.NewRecorder()
		svc := NewUserService(mockRepo, rec)
		mockRepo.On("DeleteUser", ctx, int64(3)).Return(nil).Once()
		mockRepo.On("ListUsers", ctx).Return([]domain.User{}, nil).Once()

		err := svc.Delete(ctx, 3, notify.StaticConfirmer{Answer: true, Notifier: rec})

		require.NoError(t, err)
		notes := rec.Drain()
		require.Len(t, notes, 1)
		assert.Equal(t, "Deleted", notes[0].Title)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Backend failure", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		rec := notify.NewRecorder()
		svc := NewUserService(mockRepo, rec)
		mockRepo.On("DeleteUser", ctx, int64(3)).Return(errors.New("boom")).Once()

		err := svc.Delete(ctx, 3, notify.StaticConfirmer{Answer: true, Notifier: rec})

		assert.Error(t, err)
		assert.Equal(t, notify.LevelError, rec.Drain()[0].Level)
	})
}

func TestUserService_List_KeepsCacheOnFailure(t *testing.T) {
	ctx := context.TODO()
	mockRepo := new(mocks.MockUserRepository)
	svc := NewUserService(mockRepo, nil)
	mockRepo.On("ListUsers", ctx).Return([]domain.User{{ID: 1, Name: "Ana"}}, nil).Once()
	mockRepo.On("ListUsers", ctx).Return(nil, errors.New("down")).Once()

	_, err := svc.List(ctx)
	require.NoError(t, err)
	_, err = svc.List(ctx)

	assert.Error(t, err)
	assert.Len(t, svc.Users(), 1)
}
