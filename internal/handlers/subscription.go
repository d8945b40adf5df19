package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nutripraxis/nutripraxis-api/internal/logger"
	"github.com/nutripraxis/nutripraxis-api/internal/service"
	"github.com/nutripraxis/nutripraxis-api/internal/util"
	"go.uber.org/zap"
)

// SubscriptionHandler handles subscription-related requests.
type SubscriptionHandler struct {
	Service *service.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{Service: subService}
}

// GetSubscription handles GET /api/subscription
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sub, err := h.Service.GetSubscription(userID)
	if err != nil {
		logger.Get().Error("failed to get subscription", zap.Uint("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

// UpgradeSubscription handles POST /api/subscription/upgrade
func (h *SubscriptionHandler) UpgradeSubscription(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sub, err := h.Service.Upgrade(userID)
	if err != nil {
		logger.Get().Error("failed to upgrade subscription", zap.Uint("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": sub, "message": "Subscription upgraded successfully"})
}

// DowngradeSubscription handles POST /api/subscription/downgrade
func (h *SubscriptionHandler) DowngradeSubscription(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sub, err := h.Service.Downgrade(userID)
	if err != nil {
		logger.Get().Error("failed to downgrade subscription", zap.Uint("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to downgrade subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}
