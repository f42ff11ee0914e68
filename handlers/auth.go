package handlers

import (
	"net/http"

	"restaurant-api/middleware"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges the admin credentials for a bearer token.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, expires, err := h.Auth.Login(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": expires,
		"username":   req.Username,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	if token, ok := middleware.BearerToken(c); ok {
		h.Auth.Logout(token)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
