package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pixvault/api/internal/service"
)

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	Tier        string `json:"tier"`
}

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and password required"})
		return
	}

	result, err := h.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"message": "Email already registered"})
			return
		}
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse{
		AccessToken: result.AccessToken,
		UserID:      result.User.ID,
		Tier:        result.User.Tier,
	})
}

func (h HandlerSet) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and password required"})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse{
		AccessToken: result.AccessToken,
		UserID:      result.User.ID,
		Tier:        result.User.Tier,
	})
}
