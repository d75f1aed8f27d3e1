package handlers

import (
	"errors"
	"net/http"

	"doerhub/services/request"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var RequestService request.RequestService

// CreateRequestHandler opens a new service request and broadcasts it to
// nearby providers.
func CreateRequestHandler(c *gin.Context) {
	logger := getLogger(c)
	principal := currentPrincipal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input request.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	created, err := RequestService.Create(principal.UserID, input)
	if err != nil {
		logger.Error("Failed to create service request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create request"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListRequestsHandler returns the authenticated user's service requests.
func ListRequestsHandler(c *gin.Context) {
	logger := getLogger(c)
	principal := currentPrincipal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	requests, err := RequestService.ListForUser(principal.UserID)
	if err != nil {
		logger.Error("Failed to list service requests", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list requests"})
		return
	}

	c.JSON(http.StatusOK, requests)
}

// RequestStatusHandler returns a request's current status, assigned provider
// and chat room for polling clients.
func RequestStatusHandler(c *gin.Context) {
	principal := currentPrincipal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	status, err := RequestService.StatusQuery(c.Param("id"), principal.UserID)
	if err != nil {
		respondRequestError(c, err, "failed to query request status")
		return
	}

	c.JSON(http.StatusOK, status)
}

// AcceptRequestHandler atomically claims a pending request for the
// authenticated provider.
func AcceptRequestHandler(c *gin.Context) {
	principal := currentPrincipal(c)
	if principal == nil || !principal.IsProvider() {
		c.JSON(http.StatusForbidden, gin.H{"error": "provider profile required"})
		return
	}

	result, err := RequestService.Accept(c.Param("id"), principal.ProviderID)
	if err != nil {
		respondRequestError(c, err, "failed to accept request")
		return
	}

	c.JSON(http.StatusOK, result)
}

// RejectRequestHandler marks a pending request rejected.
func RejectRequestHandler(c *gin.Context) {
	principal := currentPrincipal(c)
	if principal == nil || !principal.IsProvider() {
		c.JSON(http.StatusForbidden, gin.H{"error": "provider profile required"})
		return
	}

	if err := RequestService.Reject(c.Param("id"), principal.ProviderID); err != nil {
		respondRequestError(c, err, "failed to reject request")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "rejected"})
}

// CancelRequestHandler cancels the authenticated user's own request.
func CancelRequestHandler(c *gin.Context) {
	principal := currentPrincipal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := RequestService.Cancel(c.Param("id"), principal.UserID); err != nil {
		respondRequestError(c, err, "failed to cancel request")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// CompleteRequestHandler marks an accepted request completed by its assigned
// provider.
func CompleteRequestHandler(c *gin.Context) {
	principal := currentPrincipal(c)
	if principal == nil || !principal.IsProvider() {
		c.JSON(http.StatusForbidden, gin.H{"error": "provider profile required"})
		return
	}

	if err := RequestService.Complete(c.Param("id"), principal.ProviderID); err != nil {
		respondRequestError(c, err, "failed to complete request")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}

// respondRequestError maps request service errors onto HTTP statuses.
func respondRequestError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, request.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
	case errors.Is(err, request.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed"})
	case errors.Is(err, request.ErrAlreadyAssigned), errors.Is(err, request.ErrProviderBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, request.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		getLogger(c).Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
