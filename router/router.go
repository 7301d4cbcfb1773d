package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/controllers"
	"github.com/yeremiapane/reservation-app/middlewares"
	"github.com/yeremiapane/reservation-app/services"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, policies *services.PolicyStore) *gin.Engine {
	r := gin.Default()

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi services + controller
	availability := services.NewAvailabilityService(db)
	booking := services.NewBookingService(db, availability, policies)
	lifecycle := services.NewLifecycleService(db)

	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db, availability)
	reservationCtrl := controllers.NewReservationController(db, booking, lifecycle)
	policyCtrl := controllers.NewPolicyController(policies)
	notificationCtrl := controllers.NewNotificationController(db)
	adminCtrl := controllers.NewAdminController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Lihat meja + ketersediaan tanpa login
	r.GET("/tables", tableCtrl.GetAllTables)
	r.GET("/tables/:table_id", tableCtrl.GetTableByID)
	r.GET("/tables/:table_id/availability", tableCtrl.CheckAvailability)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES (client)
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.EnhancedAuthMiddleware())
	{
		auth.GET("/profile", userCtrl.GetProfile)
		auth.POST("/logout", userCtrl.Logout)

		// RESERVATIONS
		auth.POST("/reservations", reservationCtrl.CreateReservation)
		auth.GET("/reservations", reservationCtrl.GetMyReservations)
		auth.PATCH("/reservations/:reservation_id", reservationCtrl.UpdateReservation)
		auth.PATCH("/reservations/:reservation_id/cancel", reservationCtrl.CancelReservation)
		auth.PATCH("/reservations/:reservation_id/confirm", reservationCtrl.ConfirmReservation)
	}

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := r.Group("/admin")
	admin.Use(middlewares.EnhancedAuthMiddleware(), middlewares.RequireAdmin())
	{
		admin.GET("/users", userCtrl.GetAllUsers)

		// TABLE + AVAILABILITY
		admin.GET("/tables", tableCtrl.GetAllTables)
		admin.POST("/tables", tableCtrl.CreateTable)
		admin.GET("/tables/:table_id", tableCtrl.GetTableByID)
		admin.PATCH("/tables/:table_id", tableCtrl.UpdateTableStatus)
		admin.DELETE("/tables/:table_id", tableCtrl.DeleteTable)
		admin.PUT("/tables/:table_id/availability", tableCtrl.UpdateAvailability)

		// POLICY
		admin.GET("/policy", policyCtrl.GetPolicy)
		admin.PUT("/policy", policyCtrl.UpdatePolicy)

		// RESERVATIONS (semua, termasuk hidden)
		admin.GET("/reservations", reservationCtrl.GetAllReservations)
		admin.PATCH("/reservations/:reservation_id/confirm", reservationCtrl.ConfirmReservation)
		admin.PATCH("/reservations/:reservation_id/cancel", reservationCtrl.CancelReservation)

		// NOTIFICATIONS
		admin.GET("/notifications", notificationCtrl.GetAllNotifications)
		admin.GET("/notifications/:notif_id", notificationCtrl.GetNotificationByID)
		admin.DELETE("/notifications/:notif_id", notificationCtrl.DeleteNotification)

		// DASHBOARD
		admin.GET("/dashboard/stats", adminCtrl.GetDashboardStats)
	}

	// WebSocket endpoint dengan middleware khusus
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/:role", controllers.EventsHandler)
	}

	return r
}
