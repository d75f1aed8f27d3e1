package handlers

import (
	"errors"
	"net/http"

	"doerhub/services/mailer"
	"doerhub/services/matching"
	"doerhub/services/provider"
	"doerhub/services/request"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	ProviderService provider.ProviderService
	MatchingService matching.MatchingService
)

// RegisterProviderHandler creates a provider profile for the authenticated
// user.
func RegisterProviderHandler(c *gin.Context) {
	logger := getLogger(c)
	principal := currentPrincipal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input provider.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	created, err := ProviderService.Register(principal.UserID, input)
	if err != nil {
		switch {
		case errors.Is(err, provider.ErrAlreadyRegistered):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, provider.ErrUnknownCategory):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to register provider", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register provider"})
		}
		return
	}

	if err := Mailer.Enqueue(mailer.TemplateWelcome, created.Email, map[string]string{
		"username": created.Username,
	}); err != nil {
		logger.Warn("Failed to enqueue provider welcome email", zap.Error(err))
	}

	c.JSON(http.StatusCreated, created)
}

// GetProviderHandler returns a provider profile by id.
func GetProviderHandler(c *gin.Context) {
	result, err := ProviderService.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "provider not found"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// NearbyProvidersHandler returns online, verified providers within the
// matching radius of the given coordinates, nearest first.
func NearbyProvidersHandler(c *gin.Context) {
	logger := getLogger(c)

	var input struct {
		Latitude   float64 `json:"latitude" binding:"required"`
		Longitude  float64 `json:"longitude" binding:"required"`
		CategoryID string  `json:"categoryId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	matches, err := MatchingService.NearbyProviders(input.Latitude, input.Longitude, input.CategoryID)
	if err != nil {
		logger.Error("Failed to match nearby providers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to match providers"})
		return
	}

	c.JSON(http.StatusOK, matches)
}

// ListProvidersByCategoryHandler returns verified providers in a category.
func ListProvidersByCategoryHandler(c *gin.Context) {
	logger := getLogger(c)
	providers, err := ProviderService.ListByCategory(c.Param("categoryID"))
	if err != nil {
		logger.Error("Failed to list providers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list providers"})
		return
	}
	c.JSON(http.StatusOK, providers)
}

// UpdateLocationHandler records the authenticated provider's coordinates and
// flips the profile online.
func UpdateLocationHandler(c *gin.Context) {
	logger := getLogger(c)
	principal := currentPrincipal(c)
	if principal == nil || !principal.IsProvider() {
		c.JSON(http.StatusForbidden, gin.H{"error": "provider profile required"})
		return
	}

	var input struct {
		Latitude  float64 `json:"latitude" binding:"required"`
		Longitude float64 `json:"longitude" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := ProviderService.UpdateLocation(principal.ProviderID, input.Latitude, input.Longitude); err != nil {
		logger.Error("Failed to update provider location", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update location"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "location updated"})
}

// StopTrackingHandler clears the authenticated provider's coordinates and
// takes the profile offline.
func StopTrackingHandler(c *gin.Context) {
	logger := getLogger(c)
	principal := currentPrincipal(c)
	if principal == nil || !principal.IsProvider() {
		c.JSON(http.StatusForbidden, gin.H{"error": "provider profile required"})
		return
	}

	if err := ProviderService.StopTracking(principal.ProviderID); err != nil {
		logger.Error("Failed to stop tracking provider", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to stop tracking"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "tracking stopped"})
}

// IncomingRequestsHandler returns pending, unassigned requests within the
// matching radius of the authenticated provider.
func IncomingRequestsHandler(c *gin.Context) {
	logger := getLogger(c)
	principal := currentPrincipal(c)
	if principal == nil || !principal.IsProvider() {
		c.JSON(http.StatusForbidden, gin.H{"error": "provider profile required"})
		return
	}

	matches, err := RequestService.IncomingForProvider(principal.ProviderID)
	if err != nil {
		if errors.Is(err, request.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "provider not found"})
			return
		}
		logger.Error("Failed to match incoming requests", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list incoming requests"})
		return
	}

	c.JSON(http.StatusOK, matches)
}

// ProviderHistoryHandler returns the authenticated provider's accepted and
// completed requests.
func ProviderHistoryHandler(c *gin.Context) {
	logger := getLogger(c)
	principal := currentPrincipal(c)
	if principal == nil || !principal.IsProvider() {
		c.JSON(http.StatusForbidden, gin.H{"error": "provider profile required"})
		return
	}

	history, err := RequestService.HistoryForProvider(principal.ProviderID, c.Query("status"))
	if err != nil {
		logger.Error("Failed to load provider history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	c.JSON(http.StatusOK, history)
}
