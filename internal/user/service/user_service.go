package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ridloal/retail-admin-console/internal/notify"
	"github.com/ridloal/retail-admin-console/internal/platform/backend"
	"github.com/ridloal/retail-admin-console/internal/platform/logger"
	"github.com/ridloal/retail-admin-console/internal/user/domain"
	"github.com/ridloal/retail-admin-console/internal/user/repository"
)

var (
	ErrUserAlreadyExists = errors.New("a worker with this email already exists")
	ErrDeleteCancelled   = errors.New("deletion cancelled by operator")
)

type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Users() []domain.User
	Create(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, id int64, confirm notify.Confirmer) error
}

type userService struct {
	repo     repository.UserRepository
	notifier notify.Notifier

	mu    sync.RWMutex
	users []domain.User
}

func NewUserService(repo repository.UserRepository, n notify.Notifier) UserService {
	if n == nil {
		n = notify.LogNotifier{}
	}
	return &userService{repo: repo, notifier: n, users: []domain.User{}}
}

// List fetches the worker accounts and caches them. On failure the cached
// list is left alone.
func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list users: %w", err)
	}
	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	return s.Users(), nil
}

func (s *userService) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, len(s.users))
	copy(out, s.users)
	return out
}

func (s *userService) Create(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		s.notifier.Notify(notify.LevelError, "Error", err.Error())
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, req)
	if err != nil {
		s.notifier.Notify(notify.LevelError, "Error", backend.Message(err, "The user could not be created"))
		if errors.Is(err, repository.ErrUserConflict) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("could not save user: %w", err)
	}

	s.notifier.Notify(notify.LevelSuccess, "Created!", "The worker was registered (role: employee).")
	s.refresh(ctx)
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id int64, confirm notify.Confirmer) error {
	if !confirm.Confirm(ctx, "Delete worker?", "This action cannot be undone and the user will lose access.") {
		return ErrDeleteCancelled
	}

	if err := s.repo.DeleteUser(ctx, id); err != nil {
		s.notifier.Notify(notify.LevelError, "Error", "An error occurred while deleting.")
		return fmt.Errorf("could not delete user %d: %w", id, err)
	}

	confirm.Alert(ctx, "Deleted", "The worker has been removed from the system.")
	s.refresh(ctx)
	return nil
}

func (s *userService) refresh(ctx context.Context) {
	if _, err := s.List(ctx); err != nil {
		logger.Warn("UserService: list refresh after write failed: " + err.Error())
	}
}
