package handlers

import (
	"net/http"
	"time"

	contactRepo "doerhub/database/repository/contact"
	"doerhub/models"
	"doerhub/services/mailer"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ContactRepo contactRepo.ContactRepository
	Mailer      mailer.Mailer
)

// ContactHandler stores a contact form submission and queues the
// acknowledgement email.
func ContactHandler(c *gin.Context) {
	logger := getLogger(c)

	var input struct {
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required,email"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	msg := &models.ContactMessage{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Email:     input.Email,
		Message:   input.Message,
		CreatedAt: time.Now().UTC(),
	}
	if err := ContactRepo.Create(msg); err != nil {
		logger.Error("Failed to store contact message", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit message"})
		return
	}

	// The acknowledgement is queued; a mail outage must not fail the submit.
	if err := Mailer.Enqueue(mailer.TemplateContactReceived, msg.Email, map[string]string{
		"name": msg.Name,
	}); err != nil {
		logger.Warn("Failed to enqueue contact acknowledgement", zap.Error(err))
	}

	c.JSON(http.StatusCreated, gin.H{"status": "received"})
}
