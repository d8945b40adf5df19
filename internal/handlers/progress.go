package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nutripraxis/nutripraxis-api/internal/service"
	"github.com/nutripraxis/nutripraxis-api/internal/util"
)

// ProgressHandler is the handler for client progress tracking.
type ProgressHandler struct {
	Service *service.ClientService
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(clientService *service.ClientService) *ProgressHandler {
	return &ProgressHandler{Service: clientService}
}

// addWeightRequest is the body for POST /api/clients/:client_id/weights.
type addWeightRequest struct {
	Weight     float64   `json:"weight"`
	RecordedAt time.Time `json:"recorded_at"`
	Note       string    `json:"note"`
}

// AddWeightEntry handles POST /api/clients/:client_id/weights.
func (h *ProgressHandler) AddWeightEntry(c *gin.Context) {
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

	var req addWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	entry, err := h.Service.AddWeightEntry(userID, clientID, req.Weight, req.RecordedAt, req.Note)
	if err != nil {
		respondClientError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// GetWeightHistory handles GET /api/clients/:client_id/weights.
func (h *ProgressHandler) GetWeightHistory(c *gin.Context) {
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

	entries, err := h.Service.GetWeightHistory(userID, clientID)
	if err != nil {
		respondClientError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
