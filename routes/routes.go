package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	controller "taskhive/controllers"
	"taskhive/middleware"
)

func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/api/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public auth endpoints (no authentication required)
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)

	// Protected auth endpoints (require valid JWT)
	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Post("/logout", controller.Logout)
	protectedAuth.Get("/me", controller.GetCurrentUser)
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB, log *logrus.Logger) {
	taskController := controller.NewTaskController(db, log.WithField("component", "tasks"))
	teamController := controller.NewTeamController(db, log.WithField("component", "teams"))
	adminController := controller.NewAdminController(db, log.WithField("component", "admin"))

	// Personal task routes (any authenticated user)
	user := app.Group("/api/user", middleware.Protected())
	user.Get("/tasks", taskController.GetUserTasks)
	user.Post("/task", taskController.CreateTask)
	user.Patch("/task/:taskId/update", taskController.UpdateTask)
	user.Delete("/task/:taskId", taskController.DeleteTask)
	user.Patch("/task/:taskId/status", taskController.UpdateTaskStatus)
	user.Patch("/task/:taskId/priority", taskController.SetTaskPriority)
	user.Get("/graph/task-status", taskController.GetTaskStatusGraph)
	user.Get("/graph/task-priority", taskController.GetTaskPriorityGraph)

	// Team management (admins only)
	team := app.Group("/api/team", middleware.Protected(), middleware.AdminOnly())
	team.Get("/", teamController.GetTeams)
	team.Get("/view-teams", teamController.GetTeams)
	team.Post("/create-team", teamController.CreateTeam)
	team.Get("/details/:teamId", teamController.GetTeamDetails)
	team.Put("/edit/:teamId", teamController.UpdateTeam)
	team.Post("/:teamId/add-member", teamController.AddMember)
	team.Post("/:teamId/remove-member", teamController.RemoveMember)

	// Trash lifecycle
	team.Get("/trashed-teams", teamController.GetTrashedTeams)
	team.Put("/trash/:teamId", teamController.TrashTeam)
	team.Put("/restore/:teamId", teamController.RestoreTeam)
	team.Delete("/delete-permanently/:teamId", teamController.PermanentlyDeleteTeam)

	// Member management and insights
	team.Get("/all-members", teamController.GetAllMembers)
	team.Post("/update-role", teamController.UpdateRole)
	team.Get("/member-details/:memberId", teamController.GetMemberDetails)
	team.Get("/team-progress/:teamId", teamController.GetTeamProgress)
	team.Get("/member-insights", teamController.GetMemberInsights)
	team.Get("/recent-activity", teamController.GetRecentActivity)
	team.Get("/tasks-overview", teamController.GetTaskOverview)
	team.Get("/overview", teamController.GetTeamOverview)

	// Admin charts
	admin := app.Group("/api/admin", middleware.Protected(), middleware.AdminOnly())
	admin.Get("/task-assignment-graph", adminController.GetTaskAssignmentGraph)
	admin.Get("/task-progress-graph", adminController.GetTaskProgressGraph)
}

func SetupRoutes(app *fiber.App, db *gorm.DB, log *logrus.Logger) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupAuthRoutes(app)
	SetupAPIRoutes(app, db, log)

	// Setup 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
