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

// ClientHandler is the handler for client-record requests.
type ClientHandler struct {
	Service *service.ClientService
	Plans   repository.PlanRepo
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService *service.ClientService, plans repository.PlanRepo) *ClientHandler {
	return &ClientHandler{Service: clientService, Plans: plans}
}

// respondClientError maps client-service errors onto HTTP statuses.
func respondClientError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	var notFound repository.NotFoundError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Get().Error("client request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// CreateClient handles POST /api/clients.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var client models.ClientRecord
	if err := c.ShouldBindJSON(&client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.Service.CreateClient(userID, &client); err != nil {
		respondClientError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"client": client})
}

// ListClients handles GET /api/clients.
func (h *ClientHandler) ListClients(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, pageSize := pagination(c)
	clients, total, err := h.Service.ListClients(userID, page, pageSize)
	if err != nil {
		respondClientError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clients":  clients,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// GetClient handles GET /api/clients/:client_id.
func (h *ClientHandler) GetClient(c *gin.Context) {
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

	client, err := h.Service.GetClient(userID, clientID)
	if err != nil {
		respondClientError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"client": client})
}

// UpdateClient handles PUT /api/clients/:client_id.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
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

	var client models.ClientRecord
	if err := c.ShouldBindJSON(&client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	client.ID = clientID

	if err := h.Service.UpdateClient(userID, &client); err != nil {
		respondClientError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"client": client})
}

// DeleteClient handles DELETE /api/clients/:client_id.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
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

	if err := h.Service.DeleteClient(userID, clientID); err != nil {
		respondClientError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// IssuePortalPasscode handles POST /api/clients/:client_id/portal-passcode.
// The plaintext passcode is returned exactly once.
func (h *ClientHandler) IssuePortalPasscode(c *gin.Context) {
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

	passcode, err := h.Service.IssuePortalPasscode(userID, clientID)
	if err != nil {
		respondClientError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"passcode": passcode})
}

// ListClientPlans handles GET /api/clients/:client_id/plans.
func (h *ClientHandler) ListClientPlans(c *gin.Context) {
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

	// Ownership check before touching the plans table.
	if _, err := h.Service.GetClient(userID, clientID); err != nil {
		respondClientError(c, err)
		return
	}

	page, pageSize := pagination(c)
	plans, total, err := h.Plans.GetClientPlans(clientID, page, pageSize)
	if err != nil {
		respondClientError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plans": plans, "total": total, "page": page, "pageSize": pageSize})
}

// DeletePlan handles DELETE /api/plans/:plan_id.
func (h *ClientHandler) DeletePlan(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	planID, err := parseUintParam(c.Param("plan_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan ID"})
		return
	}

	plan, err := h.Plans.GetPlanByID(planID)
	if err != nil {
		respondClientError(c, err)
		return
	}
	if _, err := h.Service.GetClient(userID, plan.ClientID); err != nil {
		respondClientError(c, err)
		return
	}

	if err := h.Plans.DeletePlan(planID); err != nil {
		respondClientError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
