package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"ads_platform_backend/mapper"
	"ads_platform_backend/models"
	"ads_platform_backend/services"
)

type UserHandler struct {
	users *services.UserService
	log   logrus.FieldLogger
}

func NewUserHandler(users *services.UserService, log logrus.FieldLogger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// GetMe returns the profile of the authenticated user
func (h *UserHandler) GetMe(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	user, err := h.users.Me(c.Request.Context(), caller)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, mapper.UserToDto(user))
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.UpdateMe(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, mapper.UserToDto(user))
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	var req models.NewPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.users.SetPassword(c.Request.Context(), caller, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
