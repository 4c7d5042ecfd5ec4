package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"issue-analyze-service/database"
	"issue-analyze-service/models"
	"issue-analyze-service/service"
)

// Handlers represents the HTTP handlers
type Handlers struct {
	analyzer *service.Analyzer
	admins   *database.AdminService
}

// NewHandlers creates new HTTP handlers
func NewHandlers(analyzer *service.Analyzer, admins *database.AdminService) *Handlers {
	return &Handlers{analyzer: analyzer, admins: admins}
}

// AnalyzeRequest is the analyze endpoint body.
type AnalyzeRequest struct {
	ImageURL string `json:"image_url"`
}

// Analyze runs the analysis pipeline for an image URL. The analysis result
// is always delivered with status 200; error outcomes are carried in the
// body as {error, message} rather than surfaced as HTTP failures.
func (h *Handlers) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ImageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'image_url' in request body"})
		return
	}

	result := h.analyzer.AnalyzeSource(req.ImageURL)
	switch result.Kind {
	case service.KindNoIssue:
		c.JSON(http.StatusOK, models.MessageResponse{Message: result.Message})
	case service.KindError:
		c.JSON(http.StatusOK, result.Err)
	default:
		c.JSON(http.StatusOK, result.Report)
	}
}

// HealthCheck handles health check requests
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"service":    "issue-analyze-service",
		"publishing": h.analyzer.PublisherConnected(),
	})
}

// CreateAdmin handles department admin registration
func (h *Handlers) CreateAdmin(c *gin.Context) {
	var req models.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	admin, err := h.admins.CreateAdmin(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrAdminExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, database.ErrUnknownDepartment):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create admin"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Department Admin Created Successfully",
		"admin":   admin,
	})
}

// UpdateAdmin handles department admin updates
func (h *Handlers) UpdateAdmin(c *gin.Context) {
	var req models.UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	admin, err := h.admins.UpdateAdmin(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrAdminNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, database.ErrUnknownDepartment):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update admin"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Department Admin Updated Successfully",
		"admin":   admin,
	})
}

// DeleteAdmin handles department admin deletion
func (h *Handlers) DeleteAdmin(c *gin.Context) {
	adminID := c.Param("id")
	if adminID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing admin id"})
		return
	}

	if err := h.admins.DeleteAdmin(c.Request.Context(), adminID); err != nil {
		if errors.Is(err, database.ErrAdminNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete admin"})
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Department Admin Deleted Successfully"})
}

// ListAdmins returns all department admins
func (h *Handlers) ListAdmins(c *gin.Context) {
	admins, err := h.admins.ListAdmins(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list admins"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"admins": admins})
}

// Login authenticates an admin and returns a JWT
func (h *Handlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.admins.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, database.ErrBadCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to login"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
