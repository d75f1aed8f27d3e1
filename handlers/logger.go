package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"doerhub/middleware"
	"doerhub/models"
	"doerhub/utils"
)

// getLogger retrieves a Zap logger from the Gin context or falls back to the
// global one.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}

// currentPrincipal returns the authenticated principal set by AuthMiddleware,
// or nil when the request is unauthenticated.
func currentPrincipal(c *gin.Context) *models.Principal {
	if p, exists := c.Get(middleware.ContextPrincipal); exists {
		if principal, ok := p.(*models.Principal); ok {
			return principal
		}
	}
	return nil
}
