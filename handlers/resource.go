package handlers

import (
	"errors"
	"net/http"

	resourceRepo "deskhive/database/repository/resource"
	"deskhive/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ResourceHandler exposes space management. Resources are owned by the
// space-management flow; the booking engine only reads them, so these
// endpoints stay thin CRUD.
type ResourceHandler struct {
	Repo   resourceRepo.ResourceRepository
	Logger *zap.Logger
}

func NewResourceHandler(repo resourceRepo.ResourceRepository, logger *zap.Logger) *ResourceHandler {
	return &ResourceHandler{Repo: repo, Logger: logger}
}

type createResourceRequest struct {
	Name             string `json:"name" binding:"required"`
	Capacity         int    `json:"capacity" binding:"required,gt=0"`
	IsBookable       *bool  `json:"isBookable"`
	RequiresApproval bool   `json:"requiresApproval"`
}

// CreateResource registers a new bookable space.
func (h *ResourceHandler) CreateResource(c *gin.Context) {
	var req createResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	bookable := true
	if req.IsBookable != nil {
		bookable = *req.IsBookable
	}
	resource := models.Resource{
		ID:               uuid.New().String(),
		Name:             req.Name,
		Capacity:         req.Capacity,
		IsActive:         true,
		IsBookable:       bookable,
		RequiresApproval: req.RequiresApproval,
	}

	if err := h.Repo.Create(c.Request.Context(), &resource); err != nil {
		h.Logger.Error("failed to create resource", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create resource"})
		return
	}
	c.JSON(http.StatusCreated, resource)
}

// GetResource returns a space by id.
func (h *ResourceHandler) GetResource(c *gin.Context) {
	resource, err := h.Repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
			return
		}
		h.Logger.Error("failed to fetch resource", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch resource"})
		return
	}
	c.JSON(http.StatusOK, resource)
}

// ListResources returns all spaces.
func (h *ResourceHandler) ListResources(c *gin.Context) {
	resources, err := h.Repo.GetAll(c.Request.Context())
	if err != nil {
		h.Logger.Error("failed to list resources", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list resources"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"resources": resources})
}

// UpdateResource replaces a space's attributes.
func (h *ResourceHandler) UpdateResource(c *gin.Context) {
	var resource models.Resource
	if err := c.ShouldBindJSON(&resource); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	resource.ID = c.Param("id")

	if err := h.Repo.Update(c.Request.Context(), &resource); err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
			return
		}
		h.Logger.Error("failed to update resource", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update resource"})
		return
	}
	c.JSON(http.StatusOK, resource)
}

// DeactivateResource soft-deletes a space; history is retained.
func (h *ResourceHandler) DeactivateResource(c *gin.Context) {
	if err := h.Repo.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
			return
		}
		h.Logger.Error("failed to deactivate resource", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deactivate resource"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deactivated"})
}
