package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nutripraxis/nutripraxis-api/internal/logger"
	"github.com/nutripraxis/nutripraxis-api/internal/models"
	"github.com/nutripraxis/nutripraxis-api/internal/repository"
	"github.com/nutripraxis/nutripraxis-api/internal/service"
	"github.com/nutripraxis/nutripraxis-api/internal/util"
	"go.uber.org/zap"
)

// MessageHandler is the handler for client message threads.
type MessageHandler struct {
	Service *service.MessageService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{Service: messageService}
}

// sendMessageRequest is the body for POST /api/clients/:client_id/messages.
type sendMessageRequest struct {
	Body string `json:"body"`
}

// SendMessage handles POST /api/clients/:client_id/messages.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	clientID, err := parseUintParam(c.Param("client_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	msg, err := h.Service.SendMessage(userID, clientID, models.SenderCoach, req.Body)
	if err != nil {
		respondMessageError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// GetThread handles GET /api/clients/:client_id/messages.
func (h *MessageHandler) GetThread(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	clientID, err := parseUintParam(c.Param("client_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	page, pageSize := pagination(c)
	messages, total, err := h.Service.GetThread(userID, clientID, page, pageSize)
	if err != nil {
		respondMessageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "total": total, "page": page, "pageSize": pageSize})
}

func respondMessageError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	var notFound repository.NotFoundError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Get().Error("message request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
