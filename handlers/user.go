package handlers

import (
	"net/http"
	"time"

	userRepo "finbook/database/repository/user"
	"finbook/models"
	"finbook/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler serves profile and device endpoints.
type UserHandler struct {
	Users userRepo.UserRepository
}

func NewUserHandler(users userRepo.UserRepository) *UserHandler {
	return &UserHandler{Users: users}
}

// GetProfileHandler returns the authenticated user's profile.
func (h *UserHandler) GetProfileHandler(c *gin.Context) {
	userID := c.GetString("userID")

	user, err := h.Users.GetByID(userID)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "User not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, user)
}

type registerDeviceRequest struct {
	DeviceID   string `json:"deviceId" binding:"required"`
	DeviceName string `json:"deviceName"`
	FCMToken   string `json:"fcmToken" binding:"required"`
}

// RegisterDeviceHandler stores or refreshes a device's push token.
func (h *UserHandler) RegisterDeviceHandler(c *gin.Context) {
	userID := c.GetString("userID")

	var req registerDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid device payload", err.Error())
		return
	}

	device := models.Device{
		DeviceID:   req.DeviceID,
		DeviceName: req.DeviceName,
		FCMToken:   req.FCMToken,
		LastSeen:   time.Now(),
	}
	if err := h.Users.UpsertDevice(userID, device); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to register device", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "registered"})
}
