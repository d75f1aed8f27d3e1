package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"doerhub/services/review"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var ReviewService review.ReviewService

// SubmitReviewHandler stores a rating for a provider, keyed either by a
// completed service request or directly by provider id.
func SubmitReviewHandler(c *gin.Context) {
	logger := getLogger(c)
	principal := currentPrincipal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input review.SubmitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	created, err := ReviewService.Submit(principal.UserID, input)
	if err != nil {
		switch {
		case errors.Is(err, review.ErrInvalidRating):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, review.ErrNotReviewable):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, review.ErrAlreadyReviewed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to submit review", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit review"})
		}
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ProviderReviewsHandler returns a provider's reviews, newest first.
func ProviderReviewsHandler(c *gin.Context) {
	logger := getLogger(c)
	reviews, err := ReviewService.ListByProvider(c.Param("id"))
	if err != nil {
		logger.Error("Failed to list provider reviews", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reviews"})
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// LatestReviewsHandler returns the most recent reviews across all providers.
func LatestReviewsHandler(c *gin.Context) {
	logger := getLogger(c)
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)
	reviews, err := ReviewService.ListLatest(limit)
	if err != nil {
		logger.Error("Failed to list latest reviews", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reviews"})
		return
	}
	c.JSON(http.StatusOK, reviews)
}
