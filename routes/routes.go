package routes

import (
	"attendqr_go/controllers"
	"attendqr_go/middleware"
	"attendqr_go/services"
	"attendqr_go/services/websocket"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, wsHub *websocket.Hub, healthService *services.HealthService) {
	authController := &controllers.AuthController{}
	userController := &controllers.UserController{}
	groupController := &controllers.GroupController{}
	locationController := &controllers.LocationController{}
	attendanceController := controllers.NewAttendanceController()
	vacationController := controllers.NewVacationController()
	workSettingsController := controllers.NewWorkSettingsController()
	notificationController := &controllers.NotificationController{}
	reportController := controllers.NewReportController()
	logController := &controllers.LogController{}
	healthController := controllers.NewHealthController(healthService)
	wsController := controllers.NewWebSocketController(wsHub)

	api := app.Group("/api")

	// Health probe (no auth)
	api.Get("/health", healthController.GetHealthStatus)

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)
	auth.Get("/profile", middleware.JWTMiddleware(), authController.GetProfile)

	// WebSocket endpoint authenticates via ?token=JWT inside the handler
	app.Get("/ws", wsController.WebSocketHandler())

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware())

	// Profile routes (authenticated users)
	protected.Get("/profile", authController.GetProfile)
	protected.Put("/profile/password", authController.ChangePassword)
	protected.Post("/profile/line-link-token", authController.GenerateLineLinkToken)
	protected.Post("/auth/logout", authController.Logout)

	// User management routes
	users := protected.Group("/users")
	users.Get("/", middleware.RequireFacultyOrAdmin(), userController.GetUsers)
	users.Get("/:id", middleware.RequireFacultyOrAdmin(), userController.GetUser)
	users.Post("/", middleware.RequireAdmin(), authController.Register)
	users.Put("/:id", middleware.RequireAdmin(), userController.UpdateUser)
	users.Delete("/:id", middleware.RequireAdmin(), userController.DeleteUser)
	users.Post("/:id/avatar", userController.UploadAvatar)

	// Group management routes
	groups := protected.Group("/groups")
	groups.Get("/", groupController.GetGroups)
	groups.Get("/:id", groupController.GetGroup)
	groups.Post("/", middleware.RequireAdmin(), groupController.CreateGroup)
	groups.Put("/:id", middleware.RequireFacultyOrAdmin(), groupController.UpdateGroup)
	groups.Delete("/:id", middleware.RequireAdmin(), groupController.DeleteGroup)
	groups.Post("/:id/members", middleware.RequireFacultyOrAdmin(), groupController.AddMember)
	groups.Delete("/:id/members/:userId", middleware.RequireFacultyOrAdmin(), groupController.RemoveMember)

	// Per-group work settings and dashboards
	groups.Get("/:id/work-settings", workSettingsController.GetWorkSettings)
	groups.Put("/:id/work-settings", middleware.RequireFacultyOrAdmin(), workSettingsController.UpdateWorkSettings)
	groups.Get("/:id/today", middleware.RequireFacultyOrAdmin(), attendanceController.GroupToday)
	groups.Get("/:id/report", middleware.RequireFacultyOrAdmin(), reportController.GetGroupWeekReport)
	groups.Get("/:id/report/export", middleware.RequireFacultyOrAdmin(), reportController.ExportGroupWeekExcel)

	// Location management routes
	locations := protected.Group("/locations")
	locations.Get("/", locationController.GetLocations)
	locations.Get("/:id", locationController.GetLocation)
	locations.Post("/", middleware.RequireAdmin(), locationController.CreateLocation)
	locations.Put("/:id", middleware.RequireAdmin(), locationController.UpdateLocation)
	locations.Delete("/:id", middleware.RequireAdmin(), locationController.DeleteLocation)
	locations.Get("/:id/qr", middleware.RequireFacultyOrAdmin(), locationController.GetLocationQR)
	locations.Post("/:id/poster", middleware.RequireFacultyOrAdmin(), locationController.UploadPoster)

	// Attendance routes
	att := protected.Group("/attendance")
	att.Post("/scan", attendanceController.Scan)
	att.Get("/today", attendanceController.Today)
	att.Get("/day", attendanceController.Day)
	att.Get("/range", attendanceController.Range)
	att.Get("/weeks", attendanceController.Weeks)

	// Vacation routes
	vacations := protected.Group("/vacations")
	vacations.Get("/", vacationController.GetVacations)
	vacations.Post("/", vacationController.CreateVacation)
	vacations.Put("/:id/review", middleware.RequireFacultyOrAdmin(), vacationController.ReviewVacation)

	// Notification routes
	notifications := protected.Group("/notifications")
	notifications.Get("/", notificationController.GetNotifications)
	notifications.Get("/unread-count", notificationController.GetUnreadCount)
	notifications.Put("/:id/read", notificationController.MarkAsRead)
	notifications.Put("/read-all", notificationController.MarkAllAsRead)
	notifications.Delete("/:id", notificationController.DeleteNotification)
	notifications.Post("/send", middleware.RequireAdmin(), notificationController.SendNotification)

	// Activity log routes (admin only)
	logs := protected.Group("/logs", middleware.RequireAdmin())
	logs.Get("/", logController.GetLogs)
	logs.Get("/stats", logController.GetLogStats)
	logs.Get("/archives", logController.GetArchives)
	logs.Get("/archives/:id/download", logController.DownloadArchive)
	logs.Post("/flush", logController.FlushCachedLogs)

	// WebSocket stats (admin only)
	protected.Get("/ws/stats", middleware.RequireAdmin(), wsController.GetWebSocketStats)
}
