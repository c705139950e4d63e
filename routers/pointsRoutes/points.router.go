package pointsRoutes

import (
	pointsController "lms/controllers/points"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupPointsRoutes sets up points balance and history routes
func SetupPointsRoutes(app *fiber.App) {
	pointsGroup := app.Group("/points")

	pointsGroup.Get("/balance", middleware.JWTMiddleware, pointsController.GetPointsBalance)
	pointsGroup.Get("/history", middleware.JWTMiddleware, pointsController.GetPointsHistory)
}
