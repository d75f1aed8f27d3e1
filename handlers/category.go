package handlers

import (
	"net/http"

	categoryRepo "doerhub/database/repository/category"
	"doerhub/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var CategoryRepo categoryRepo.CategoryRepository

// ListCategoriesHandler returns service categories, optionally filtered by
// type (?type=immediate|scheduled).
func ListCategoriesHandler(c *gin.Context) {
	logger := getLogger(c)
	categories, err := CategoryRepo.List(c.Query("type"))
	if err != nil {
		logger.Error("Failed to list categories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

// CreateCategoryHandler adds a service category and announces it to all
// connected users.
func CreateCategoryHandler(c *gin.Context) {
	logger := getLogger(c)

	var input struct {
		Name         string `json:"name" binding:"required"`
		CategoryType string `json:"categoryType" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if input.CategoryType != models.CategoryTypeImmediate && input.CategoryType != models.CategoryTypeScheduled {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category type"})
		return
	}

	category := &models.ServiceCategory{
		ID:           uuid.New().String(),
		Name:         input.Name,
		CategoryType: input.CategoryType,
	}
	if err := CategoryRepo.Create(category); err != nil {
		logger.Error("Failed to create category", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create category"})
		return
	}

	if _, err := NotificationService.Broadcast(
		"New service category available: "+category.Name,
		map[string]any{"category_id": category.ID},
	); err != nil {
		logger.Warn("Failed to broadcast category announcement", zap.Error(err))
	}

	c.JSON(http.StatusCreated, category)
}
