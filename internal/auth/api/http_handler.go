package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/retail-admin-console/internal/auth/domain"
	"github.com/ridloal/retail-admin-console/internal/auth/service"
	"github.com/ridloal/retail-admin-console/internal/console"
	"github.com/ridloal/retail-admin-console/internal/platform/logger"
)

type AuthHandler struct {
	registry *console.Registry
}

func NewAuthHandler(reg *console.Registry) *AuthHandler {
	return &AuthHandler{registry: reg}
}

// RegisterRoutes mounts the public auth routes on public and logout on the
// session-protected group.
func (h *AuthHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	authRoutes := public.Group("/auth")
	{
		authRoutes.POST("/login", h.Login)
		authRoutes.POST("/register", h.Register)
		authRoutes.POST("/password/email", h.SendResetLink)
		authRoutes.POST("/password/reset", h.ResetPassword)
	}
	protected.POST("/auth/logout", h.Logout)
}

// Login opens a workspace and returns its id as session_id; clients send it
// back in the X-Console-Session header.
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Login: bad request", err)
		console.Fail(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	ws := h.registry.Open()
	console.WithWorkspace(c, ws)
	if err := ws.Auth.Login(c.Request.Context(), req.Email, req.Password); err != nil {
		notes := ws.Notes.Drain()
		h.registry.Close(ws.ID)
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			status = http.StatusUnauthorized
		case errors.Is(err, domain.ErrCredentialsRequired):
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error(), "notifications": notes})
		return
	}

	h.registry.Activate(c.Request.Context(), ws)
	console.Respond(c, http.StatusOK, gin.H{"session_id": ws.ID})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	ws := console.FromContext(c)
	_ = ws.Auth.Logout(c.Request.Context())
	h.registry.Close(ws.ID)
	console.Respond(c, http.StatusOK, gin.H{"logged_out": true})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Register: bad request", err)
		console.Fail(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	ws := h.registry.Anonymous()
	console.WithWorkspace(c, ws)

	if err := ws.Auth.Register(c.Request.Context(), req); err != nil {
		h.fail(c, err, "Check the submitted data")
		return
	}
	console.Respond(c, http.StatusCreated, gin.H{"registered": true})
}

func (h *AuthHandler) SendResetLink(c *gin.Context) {
	var req domain.ResetLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		console.Fail(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	ws := h.registry.Anonymous()
	console.WithWorkspace(c, ws)

	if err := ws.Auth.SendResetLink(c.Request.Context(), req.Email); err != nil {
		h.fail(c, err, "Could not send the reset link")
		return
	}
	console.Respond(c, http.StatusOK, gin.H{"sent": true})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req domain.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		console.Fail(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	ws := h.registry.Anonymous()
	console.WithWorkspace(c, ws)

	if err := ws.Auth.ResetPassword(c.Request.Context(), req); err != nil {
		h.fail(c, err, "The link is invalid or has expired")
		return
	}
	console.Respond(c, http.StatusOK, gin.H{"reset": true})
}

func (h *AuthHandler) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrPasswordMismatch), errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrInvalidResetLink), errors.Is(err, domain.ErrEmailRequired):
		console.Fail(c, http.StatusUnprocessableEntity, err.Error())
	default:
		console.FailBackend(c, err, fallback)
	}
}
