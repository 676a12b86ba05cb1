package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"aiacademy/backend/auth"
	"aiacademy/backend/config"
	"aiacademy/backend/controllers"
	"aiacademy/backend/mail"
	"aiacademy/backend/middleware"
	"aiacademy/backend/services"
	"aiacademy/backend/store"
)

func SetupRoutes(app *fiber.App, st store.Store, verifier auth.Verifier, mailer mail.Mailer, cfg *config.Config, logger *log.Logger) {
	// Health check
	app.Get("/status", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth routes (self-issued token variant)
	authController := controllers.NewAuthController(services.NewAccountService(st, cfg.JWTSecret))
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(verifier)

	// Settings routes (profile + family)
	userController := controllers.NewUserController(services.NewProfileService(st), logger)
	familyController := controllers.NewFamilyController(
		services.NewFamilyService(st, mailer, cfg.FrontendOrigin), logger)

	settings := app.Group("/api/settings")
	settings.Get("/", authMiddleware, userController.GetProfile)
	settings.Put("/", authMiddleware, userController.UpdateProfile)
	settings.Post("/family-request", authMiddleware, familyController.SendFamilyRequest)
	settings.Get("/family-members", authMiddleware, familyController.GetFamilyMembers)
	// The invitation token is the capability to accept; no auth required.
	settings.Post("/accept-invitation", familyController.AcceptInvitation)

	// Courses and enrollments
	coursesController := controllers.NewCoursesController(services.NewCourseService(st), logger)
	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/", coursesController.GetAllCourses)
	courses.Post("/", coursesController.CreateCourse)
	courses.Get("/:id", coursesController.GetCourse)
	courses.Put("/:id", coursesController.UpdateCourse)
	courses.Delete("/:id", coursesController.DeleteCourse)
	courses.Post("/:id/enroll", coursesController.Enroll)
	courses.Put("/:id/progress", coursesController.UpdateProgress)
	app.Get("/api/enrollments", authMiddleware, coursesController.GetEnrollments)

	// Static assets for the client build
	app.Static("/static", cfg.StaticPath)
}
