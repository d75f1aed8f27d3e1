package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"doerhub/services/chat"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var ChatService chat.ChatService

// StartChatHandler returns the chat room for an accepted request or a direct
// provider conversation, creating it if needed.
func StartChatHandler(c *gin.Context) {
	logger := getLogger(c)
	principal := currentPrincipal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input struct {
		ServiceRequestID string `json:"serviceRequestId"`
		ProviderID       string `json:"providerId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	var (
		result *chat.StartResult
		err    error
	)
	switch {
	case input.ServiceRequestID != "":
		result, err = ChatService.StartOrGetRoomForRequest(input.ServiceRequestID, principal.UserID)
	case input.ProviderID != "":
		result, err = ChatService.StartOrGetDirectRoom(principal.UserID, input.ProviderID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "serviceRequestId or providerId required"})
		return
	}
	if err != nil {
		if errors.Is(err, chat.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat room not available"})
			return
		}
		logger.Error("Failed to start chat room", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start chat"})
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

// ChatHistoryHandler returns a room's recent messages in chronological order.
func ChatHistoryHandler(c *gin.Context) {
	logger := getLogger(c)
	principal := currentPrincipal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	roomID := c.Param("id")
	if _, err := ChatService.GetRoom(roomID, principal.UserID); err != nil {
		respondChatError(c, err)
		return
	}

	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)
	messages, err := ChatService.GetHistory(roomID, limit)
	if err != nil {
		logger.Error("Failed to load chat history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// SendMessageHandler posts a message into a room over REST. The websocket
// endpoint is the primary path; this exists for clients without a socket.
func SendMessageHandler(c *gin.Context) {
	principal := currentPrincipal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	msg, err := ChatService.SendMessage(c.Param("id"), principal.UserID, input.Message)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message is empty"})
			return
		}
		respondChatError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

func respondChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "chat room not found"})
	case errors.Is(err, chat.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant"})
	default:
		getLogger(c).Error("Chat operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "chat operation failed"})
	}
}
