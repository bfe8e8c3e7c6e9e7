// server/internal/api/routes/routes.go
package routes

import (
	"foodbridge-api-server/config"
	"foodbridge-api-server/internal/api/handlers"
	"foodbridge-api-server/internal/api/middleware"
	"foodbridge-api-server/internal/models"
	"foodbridge-api-server/internal/service"
	"foodbridge-api-server/internal/socket"
	"foodbridge-api-server/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter wires handlers, middleware and route groups.
func SetupRouter(
	cfg config.Config,
	store service.Store,
	notifier service.Notifier,
	analyzer service.Analyzer,
	uploader storage.Uploader,
	wsHub *socket.Hub,
) *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	userService := &service.UserService{Store: store}
	donationService := &service.DonationService{Store: store, Notifier: notifier, Analyzer: analyzer}
	claimService := &service.ClaimService{Store: store, Notifier: notifier}
	scheduleService := &service.ScheduleService{Store: store, Notifier: notifier}
	ratingService := &service.RatingService{Store: store}
	analyticsService := &service.AnalyticsService{Store: store}

	authHandler := &handlers.AuthHandler{Users: userService}
	userHandler := &handlers.UserHandler{Users: userService}
	donationHandler := &handlers.DonationHandler{Donations: donationService, Uploader: uploader}
	claimHandler := &handlers.ClaimHandler{Claims: claimService, Uploader: uploader}
	scheduleHandler := &handlers.ScheduleHandler{Schedules: scheduleService}
	ratingHandler := &handlers.RatingHandler{Ratings: ratingService}
	notificationHandler := &handlers.NotificationHandler{Store: store}
	analyticsHandler := &handlers.AnalyticsHandler{Analytics: analyticsService}
	webSocketHandler := &handlers.WebSocketHandler{Hub: wsHub}

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/ws", webSocketHandler.ServeWs)

		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Routes below require a valid JWT.
		protected := apiV1.Group("/")
		protected.Use(middleware.Authenticate())
		{
			protected.GET("/me", userHandler.Me)
			protected.GET("/notifications", notificationHandler.ListMine)
			protected.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
			protected.GET("/ngos/:id/rating", ratingHandler.NgoSummary)

			restaurant := protected.Group("/")
			restaurant.Use(middleware.Authorize(models.RoleRestaurant))
			{
				donations := restaurant.Group("/donations")
				{
					donations.POST("/", donationHandler.Create)
					donations.GET("/my", donationHandler.ListMine)
				}
				schedules := restaurant.Group("/schedules")
				{
					schedules.POST("/:id/review", scheduleHandler.Review)
				}
				ratings := restaurant.Group("/ratings")
				{
					ratings.POST("/", ratingHandler.Submit)
					ratings.GET("/my", ratingHandler.ListMine)
				}
			}

			ngo := protected.Group("/")
			ngo.Use(middleware.Authorize(models.RoleNgo))
			{
				ngo.GET("/donations/available", donationHandler.ListAvailable)
				ngo.POST("/donations/:id/claim", claimHandler.Claim)
				ngo.PATCH("/me/availability", userHandler.SetAvailability)

				claims := ngo.Group("/claims")
				{
					claims.GET("/my", claimHandler.ListMine)
					claims.POST("/:id/start", claimHandler.StartPickup)
					claims.POST("/:id/complete", claimHandler.CompletePickup)
				}
				ngo.POST("/schedules", scheduleHandler.Request)
			}

			// Both parties list their own schedules through one endpoint.
			protected.GET("/schedules/my", middleware.Authorize(models.RoleNgo, models.RoleRestaurant), scheduleHandler.ListMine)

			// Deletion is owner-or-admin; the service checks ownership.
			protected.DELETE("/donations/:id", middleware.Authorize(models.RoleRestaurant, models.RoleAdmin), donationHandler.Delete)

			admin := protected.Group("/admin")
			admin.Use(middleware.Authorize(models.RoleAdmin))
			{
				admin.GET("/users", userHandler.List)
				admin.PATCH("/users/:id/role", userHandler.SetRole)
				admin.PATCH("/users/:id/verification", userHandler.SetVerification)
				admin.DELETE("/users/:id", userHandler.Delete)

				admin.GET("/donations", donationHandler.ListAll)
				admin.PATCH("/donations/:id/status", donationHandler.SetStatus)

				admin.GET("/analytics", analyticsHandler.Summary)
			}
		}
	}

	return router
}
