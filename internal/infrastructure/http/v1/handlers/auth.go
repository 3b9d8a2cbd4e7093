package handlers

import (
	"github.com/gin-gonic/gin"

	"leafbook/internal/core/appctx"
	"leafbook/internal/core/apperror"
	"leafbook/internal/core/id"
	"leafbook/internal/domain/auth"
	"leafbook/internal/infrastructure/http/v1/dto"
)

// AuthHandler serves login and account endpoints.
type AuthHandler struct {
	BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login exchanges credentials for a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// Register creates a new user account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	u, err := h.service.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, u.ID)
}

// Me returns the authenticated caller's identity.
func (h *AuthHandler) Me(c *gin.Context) {
	user := appctx.GetUser(c.Request.Context())
	if user == nil {
		h.Error(c, apperror.NewUnauthorized("not authenticated"))
		return
	}

	userID, err := id.Parse(user.UserID)
	if err != nil {
		h.Error(c, apperror.NewUnauthorized("invalid token subject"))
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, u)
}
