package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/retail-admin-console/internal/console"
	"github.com/ridloal/retail-admin-console/internal/notify"
	"github.com/ridloal/retail-admin-console/internal/platform/logger"
	"github.com/ridloal/retail-admin-console/internal/user/domain"
	"github.com/ridloal/retail-admin-console/internal/user/repository"
	"github.com/ridloal/retail-admin-console/internal/user/service"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	userRoutes := router.Group("/users")
	{
		userRoutes.GET("", h.ListUsers)
		userRoutes.POST("", h.CreateUser)
		userRoutes.DELETE("/:id", h.DeleteUser)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	ws := console.FromContext(c)
	users, err := ws.Users.List(c.Request.Context())
	if err != nil {
		logger.Error("ListUsers: service error", err)
		console.FailBackend(c, err, "Failed to retrieve users")
		return
	}
	console.Respond(c, http.StatusOK, users)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	ws := console.FromContext(c)
	var req domain.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("CreateUser: bad request", err)
		console.Fail(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	user, err := ws.Users.Create(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserAlreadyExists):
			console.Fail(c, http.StatusConflict, err.Error())
		case errors.Is(err, domain.ErrNameRequired), errors.Is(err, domain.ErrEmailRequired),
			errors.Is(err, domain.ErrInvalidEmail), errors.Is(err, domain.ErrPasswordRequired):
			console.Fail(c, http.StatusUnprocessableEntity, err.Error())
		default:
			console.FailBackend(c, err, "The user could not be created")
		}
		return
	}
	console.Respond(c, http.StatusCreated, user)
}

// DeleteUser needs ?confirm=true; without it the deletion is declined.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	ws := console.FromContext(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		console.Fail(c, http.StatusBadRequest, "Invalid user id")
		return
	}
	confirm := notify.StaticConfirmer{Answer: c.Query("confirm") == "true", Notifier: ws.Notes}

	if err := ws.Users.Delete(c.Request.Context(), id, confirm); err != nil {
		switch {
		case errors.Is(err, service.ErrDeleteCancelled):
			console.Fail(c, http.StatusConflict, err.Error())
		case errors.Is(err, repository.ErrUserNotFound):
			console.Fail(c, http.StatusNotFound, repository.ErrUserNotFound.Error())
		default:
			console.FailBackend(c, err, "An error occurred while deleting.")
		}
		return
	}
	console.Respond(c, http.StatusOK, gin.H{"deleted": id})
}
