package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ridloal/retail-admin-console/internal/platform/backend"
	"github.com/ridloal/retail-admin-console/internal/platform/logger"
	"github.com/ridloal/retail-admin-console/internal/user/domain"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserConflict = errors.New("user with this email already exists")
)

type UserRepository interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type httpUserRepository struct {
	client *backend.Client
}

func NewHTTPUserRepository(client *backend.Client) UserRepository {
	return &httpUserRepository{client: client}
}

func (r *httpUserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := backend.GetList[domain.User](ctx, r.client, "/users")
	if err != nil {
		logger.Error("ListUsers: request failed", err)
		return nil, err
	}
	return users, nil
}

// CreateUser returns the created account when the backend echoes it; some
// deployments answer with only a message, in which case the request data is
// returned without an id.
func (r *httpUserRepository) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	var resp struct {
		domain.User
		Data *domain.User `json:"data"`
	}
	if err := r.client.Do(ctx, http.MethodPost, "/users", req, &resp); err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
			return nil, fmt.Errorf("%w: %s", ErrUserConflict, apiErr.Message)
		}
		logger.Error("CreateUser: request failed for "+req.Email, err)
		return nil, err
	}
	if resp.Data != nil {
		return resp.Data, nil
	}
	user := resp.User
	if user.Email == "" {
		user = domain.User{Name: req.Name, Email: req.Email}
	}
	return &user, nil
}

func (r *httpUserRepository) DeleteUser(ctx context.Context, id int64) error {
	err := r.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil)
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return ErrUserNotFound
		}
		logger.Error("DeleteUser: request failed for user %d", err, id)
		return err
	}
	return nil
}
