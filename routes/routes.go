package routes

import (
	"net/http"
	"time"

	"doerhub/handlers"
	"doerhub/middleware"
	"doerhub/services/auth"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers account endpoints.
func RegisterUserRoutes(r *gin.Engine, gate auth.Gate) {
	api := r.Group("/api/users")
	{
		api.POST("/register", handlers.RegisterHandler)
		api.POST("/login", handlers.LoginHandler)

		// Protected routes (require authentication).
		api.Use(middleware.AuthMiddleware(gate))
		api.GET("/me", handlers.GetProfileHandler)
		api.PUT("/me", handlers.UpdateProfileHandler)
	}
}

// RegisterProviderRoutes registers provider lifecycle endpoints.
func RegisterProviderRoutes(r *gin.Engine, gate auth.Gate) {
	api := r.Group("/api/providers")
	{
		// Public browse endpoints.
		api.GET("/id/:id", handlers.GetProviderHandler)
		api.GET("/category/:categoryID", handlers.ListProvidersByCategoryHandler)
		api.GET("/id/:id/reviews", handlers.ProviderReviewsHandler)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(gate))
		protected.POST("/register", handlers.RegisterProviderHandler)
		protected.POST("/nearby", handlers.NearbyProvidersHandler)
		protected.PUT("/location", handlers.UpdateLocationHandler)
		protected.DELETE("/location", handlers.StopTrackingHandler)
		protected.GET("/requests/incoming", handlers.IncomingRequestsHandler)
		protected.GET("/requests/history", handlers.ProviderHistoryHandler)
	}
}

// RegisterRequestRoutes registers the service-request lifecycle endpoints.
func RegisterRequestRoutes(r *gin.Engine, gate auth.Gate) {
	api := r.Group("/api/requests")
	{
		api.Use(middleware.AuthMiddleware(gate))
		api.POST("", handlers.CreateRequestHandler)
		api.GET("", handlers.ListRequestsHandler)
		api.GET("/:id/status", handlers.RequestStatusHandler)
		api.POST("/:id/accept", handlers.AcceptRequestHandler)
		api.POST("/:id/reject", handlers.RejectRequestHandler)
		api.POST("/:id/cancel", handlers.CancelRequestHandler)
		api.POST("/:id/complete", handlers.CompleteRequestHandler)
	}
}

// RegisterChatRoutes registers chat room REST endpoints.
func RegisterChatRoutes(r *gin.Engine, gate auth.Gate) {
	api := r.Group("/api/chat")
	{
		api.Use(middleware.AuthMiddleware(gate))
		api.POST("/rooms", handlers.StartChatHandler)
		api.GET("/rooms/:id/messages", handlers.ChatHistoryHandler)
		api.POST("/rooms/:id/messages", handlers.SendMessageHandler)
	}
}

// RegisterNotificationRoutes registers notification feed endpoints.
func RegisterNotificationRoutes(r *gin.Engine, gate auth.Gate) {
	api := r.Group("/api/notifications")
	{
		api.Use(middleware.AuthMiddleware(gate))
		api.GET("", handlers.ListNotificationsHandler)
		api.POST("/:id/read", handlers.MarkNotificationReadHandler)
		api.POST("/read-all", handlers.MarkAllNotificationsReadHandler)
	}
}

// RegisterCategoryRoutes registers category browse and admin endpoints.
func RegisterCategoryRoutes(r *gin.Engine, gate auth.Gate) {
	api := r.Group("/api/categories")
	{
		api.GET("", handlers.ListCategoriesHandler)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(gate))
		protected.POST("", handlers.CreateCategoryHandler)
	}
}

// RegisterReviewRoutes registers review endpoints.
func RegisterReviewRoutes(r *gin.Engine, gate auth.Gate) {
	api := r.Group("/api/reviews")
	{
		api.GET("/latest", handlers.LatestReviewsHandler)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(gate))
		protected.POST("", handlers.SubmitReviewHandler)
	}
}

// RegisterContactRoute registers the public contact form endpoint.
func RegisterContactRoute(r *gin.Engine) {
	r.POST("/api/contact", handlers.ContactHandler)
}

// RegisterRealtimeRoutes registers the websocket endpoints. These
// authenticate after the upgrade, so no HTTP auth middleware applies.
func RegisterRealtimeRoutes(r *gin.Engine) {
	ws := r.Group("/ws")
	{
		ws.GET("/requests/provider/:providerID", handlers.ProviderRequestsSocketHandler)
		ws.GET("/requests/user/:userID", handlers.UserUpdatesSocketHandler)
		ws.GET("/service-request/:requestID", handlers.ServiceRequestSocketHandler)
		ws.GET("/chat/:chatRoomID", handlers.ChatSocketHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm DoerHub"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, gate auth.Gate) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterUserRoutes(r, gate)
	RegisterProviderRoutes(r, gate)
	RegisterRequestRoutes(r, gate)
	RegisterChatRoutes(r, gate)
	RegisterNotificationRoutes(r, gate)
	RegisterCategoryRoutes(r, gate)
	RegisterReviewRoutes(r, gate)
	RegisterContactRoute(r)
	RegisterRealtimeRoutes(r)
}
