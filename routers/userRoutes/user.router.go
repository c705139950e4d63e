package userRoutes

import (
	courseControllers "lms/controllers/course"
	userController "lms/controllers/userControllers"
	"lms/middleware"
	validators "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up profile and enrollment listing routes
func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Get("/profile", middleware.JWTMiddleware, userController.GetProfile)
	userGroup.Put("/password", middleware.JWTMiddleware, validators.ChangePassword(), userController.ChangePassword)
	userGroup.Get("/enrollments", middleware.JWTMiddleware, courseControllers.GetEnrollments)
}
