package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nutripraxis/nutripraxis-api/internal/config"
	"github.com/nutripraxis/nutripraxis-api/internal/logger"
	"github.com/nutripraxis/nutripraxis-api/internal/s3"
	"github.com/nutripraxis/nutripraxis-api/internal/service"
	"github.com/nutripraxis/nutripraxis-api/internal/util"
	"go.uber.org/zap"
)

// UploadHandler handles client document and photo uploads.
type UploadHandler struct {
	Cfg     *config.Config
	Clients *service.ClientService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(cfg *config.Config, clients *service.ClientService) *UploadHandler {
	return &UploadHandler{Cfg: cfg, Clients: clients}
}

// allowedUploadTypes is the set of accepted document and photo extensions.
var allowedUploadTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
}

// UploadClientDocument handles POST /api/clients/:client_id/documents.
func (h *UploadHandler) UploadClientDocument(c *gin.Context) {
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

	if _, err := h.Clients.GetClient(userID, clientID); err != nil {
		respondClientError(c, err)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType, ok := allowedUploadTypes[ext]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type. Allowed: jpg, png, webp, pdf, docx, txt"})
		return
	}

	const maxSize = 15 << 20
	if header.Size > maxSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 15MB limit"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxSize))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	key := s3.GenerateDocumentKey(clientID, ext)
	location, err := s3.UploadClientDocument(c.Request.Context(), h.Cfg, data, key, contentType)
	if err != nil {
		logger.Get().Error("failed to upload client document",
			zap.Uint("client_id", clientID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": location, "key": key})
}
