package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/station/internal/service/auth"
)

// Authenticator issues session tokens.
type Authenticator interface {
	Login(username, password string) (auth.Token, error)
}

// AuthHandler serves the login endpoint.
type AuthHandler struct {
	auth   Authenticator
	logger *zap.Logger
}

// NewAuthHandler builds an AuthHandler.
func NewAuthHandler(a Authenticator, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: a, logger: nopIfNil(logger)}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	token, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		h.logger.Warn("login rejected", zap.String("username", req.Username), zap.String("client_ip", c.ClientIP()))
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, token)
}
