// File: doerhub/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"doerhub/config"
	"doerhub/database"
	categoryRepoPkg "doerhub/database/repository/category"
	chatRepoPkg "doerhub/database/repository/chat"
	contactRepoPkg "doerhub/database/repository/contact"
	notificationRepoPkg "doerhub/database/repository/notification"
	providerRepoPkg "doerhub/database/repository/provider"
	requestRepoPkg "doerhub/database/repository/request"
	reviewRepoPkg "doerhub/database/repository/review"
	userRepoPkg "doerhub/database/repository/user"
	"doerhub/handlers"
	"doerhub/realtime"
	"doerhub/routes"
	"doerhub/services/auth"
	"doerhub/services/chat"
	"doerhub/services/mailer"
	"doerhub/services/matching"
	"doerhub/services/notification"
	"doerhub/services/provider"
	"doerhub/services/request"
	"doerhub/services/review"
	"doerhub/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// Realtime layer.
	hub := realtime.NewHub(logger)
	pool := realtime.NewPool(config.AppConfig.WorkerPoolSize)

	// Repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	provRepo := providerRepoPkg.NewMongoProviderRepo()
	catRepo := categoryRepoPkg.NewCachedCategoryRepo(
		categoryRepoPkg.NewMongoCategoryRepo(),
		&categoryRepoPkg.RedisListCache{Client: utils.GetCacheClient()},
	)
	reqRepo := requestRepoPkg.NewMongoRequestRepo()
	chatRepo := chatRepoPkg.NewMongoChatRepo()
	notifRepo := notificationRepoPkg.NewMongoNotificationRepo()
	revRepo := reviewRepoPkg.NewMongoReviewRepo()
	contRepo := contactRepoPkg.NewMongoContactRepo()

	// Services.
	gate := &auth.DefaultGate{
		Users:     userRepo,
		Providers: provRepo,
		Cache:     &auth.RedisTokenCache{Client: utils.GetAuthCacheClient()},
	}
	accountService := &auth.DefaultAccountService{
		Users:     userRepo,
		Providers: provRepo,
	}
	providerService := &provider.DefaultProviderService{
		Providers:  provRepo,
		Users:      userRepo,
		Categories: catRepo,
	}
	matchingService := &matching.DefaultMatchingService{
		ProviderRepo: provRepo,
		RequestRepo:  reqRepo,
		RadiusKm:     config.AppConfig.MatchRadiusKm,
	}
	chatService := &chat.DefaultChatService{
		Chats:         chatRepo,
		Users:         userRepo,
		Providers:     provRepo,
		Requests:      reqRepo,
		Notifications: notifRepo,
		Events:        hub,
	}
	requestService := &request.DefaultRequestService{
		Requests:  reqRepo,
		Providers: provRepo,
		Chats:     chatRepo,
		Matcher:   matchingService,
		Events:    hub,
	}
	notificationService := &notification.DefaultNotificationService{
		Notifications: notifRepo,
		Events:        hub,
	}
	reviewService := &review.DefaultReviewService{
		Reviews:   revRepo,
		Requests:  reqRepo,
		Providers: provRepo,
	}

	// Background email delivery.
	mailQueue := mailer.NewAsynqMailer()
	mailWorker := mailer.StartWorker()

	// Wire handlers.
	handlers.AccountService = accountService
	handlers.ProviderService = providerService
	handlers.MatchingService = matchingService
	handlers.RequestService = requestService
	handlers.ChatService = chatService
	handlers.NotificationService = notificationService
	handlers.ReviewService = reviewService
	handlers.CategoryRepo = catRepo
	handlers.ContactRepo = contRepo
	handlers.Mailer = mailQueue
	handlers.Hub = hub
	handlers.WorkerPool = pool
	handlers.AuthGate = gate

	routes.RegisterRoutes(router, gate)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	mailWorker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
