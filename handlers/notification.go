package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	notificationRepo "finbook/database/repository/notification"
	"finbook/services/notification"
	"finbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// unreadCacheTTL bounds how stale a cached unread count can get when the
// scan worker writes new entries behind the API's back.
const unreadCacheTTL = 30 * time.Second

func unreadCacheKey(userID string) string {
	return "notifications:unread:" + userID
}

// NotificationHandler serves the notification log and the on-demand
// test-send endpoints. NewEngine builds a fresh engine per request so the
// per-run caches never outlive one call. Cache may be nil; the unread count
// is then always served from the repository.
type NotificationHandler struct {
	NewEngine func() notification.Engine
	Repo      notificationRepo.NotificationRepository
	Cache     *redis.Client
}

func NewNotificationHandler(newEngine func() notification.Engine, repo notificationRepo.NotificationRepository, cache *redis.Client) *NotificationHandler {
	return &NotificationHandler{NewEngine: newEngine, Repo: repo, Cache: cache}
}

// invalidateUnread drops the cached unread count after a write that changes
// it. Best effort; the TTL catches anything missed.
func (h *NotificationHandler) invalidateUnread(c *gin.Context, userID string) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.Del(c.Request.Context(), unreadCacheKey(userID)).Err(); err != nil {
		utils.GetLogger().Sugar().Debugw("failed to invalidate unread cache",
			"userId", userID, "error", err)
	}
}

// TestPushHandler sends a test push to the authenticated user's devices.
func (h *NotificationHandler) TestPushHandler(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.NewEngine().SendTestPush(c.Request.Context(), userID); err != nil {
		respondSendError(c, err)
		return
	}
	h.invalidateUnread(c, userID)
	c.JSON(http.StatusOK, gin.H{"status": "sent", "channel": "push"})
}

// TestEmailHandler sends a test email to the authenticated user's address.
func (h *NotificationHandler) TestEmailHandler(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.NewEngine().SendTestEmail(c.Request.Context(), userID); err != nil {
		respondSendError(c, err)
		return
	}
	h.invalidateUnread(c, userID)
	c.JSON(http.StatusOK, gin.H{"status": "sent", "channel": "email"})
}

// respondSendError maps the engine's sentinel errors onto HTTP statuses.
func respondSendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, notification.ErrNoRecipient):
		utils.JSONError(c, http.StatusBadRequest, "No recipient configured", err.Error())
	case errors.Is(err, notification.ErrEmailDisabled):
		utils.JSONError(c, http.StatusServiceUnavailable, "Email transport not configured", err.Error())
	case errors.Is(err, notification.ErrTransportFailed):
		utils.JSONError(c, http.StatusBadGateway, "Transport failed", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Failed to send test notification", err.Error())
	}
}

// ListNotificationsHandler returns the user's notification log, newest first.
func (h *NotificationHandler) ListNotificationsHandler(c *gin.Context) {
	userID := c.GetString("userID")

	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}

	entries, err := h.Repo.ListByUser(userID, limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list notifications", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": entries})
}

// UnreadCountHandler returns the user's unread notification count, served
// from the cache when a fresh value is there.
func (h *NotificationHandler) UnreadCountHandler(c *gin.Context) {
	userID := c.GetString("userID")

	if h.Cache != nil {
		if count, err := h.Cache.Get(c.Request.Context(), unreadCacheKey(userID)).Int64(); err == nil {
			c.JSON(http.StatusOK, gin.H{"unread": count})
			return
		}
	}

	count, err := h.Repo.CountUnread(userID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to count notifications", err.Error())
		return
	}
	if h.Cache != nil {
		if err := h.Cache.Set(c.Request.Context(), unreadCacheKey(userID), count, unreadCacheTTL).Err(); err != nil {
			utils.GetLogger().Sugar().Debugw("failed to cache unread count",
				"userId", userID, "error", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// MarkReadHandler flips one notification to read.
func (h *NotificationHandler) MarkReadHandler(c *gin.Context) {
	userID := c.GetString("userID")
	id := c.Param("id")

	if err := h.Repo.MarkRead(userID, id); err != nil {
		utils.JSONError(c, http.StatusNotFound, "Notification not found", err.Error())
		return
	}
	h.invalidateUnread(c, userID)
	c.JSON(http.StatusOK, gin.H{"status": "read"})
}
