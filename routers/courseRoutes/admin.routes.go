package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	// Payment review
	enrollGroup := app.Group("/admin/enrollments")
	enrollGroup.Get("/pending", middleware.JWTMiddleware, middleware.AdminOnly(), controllers.GetPendingEnrollments)
	enrollGroup.Post("/:id/approve", middleware.JWTMiddleware, middleware.AdminOnly(), validators.ApproveEnrollment(), controllers.ApproveEnrollment)

	// Course CRUD
	adminGroup := app.Group("/admin/course")
	adminGroup.Post("/create", middleware.JWTMiddleware, middleware.AdminOnly(), validators.CreateCourseAdmin(), controllers.AdminCreateCourse)
	adminGroup.Put("/:id", middleware.JWTMiddleware, middleware.AdminOnly(), validators.CourseID(), validators.UpdateCourseAdmin(), controllers.AdminUpdateCourse)
	adminGroup.Delete("/:id", middleware.JWTMiddleware, middleware.AdminOnly(), validators.CourseID(), controllers.AdminDeleteCourse)
	adminGroup.Get("/list", middleware.JWTMiddleware, middleware.AdminOnly(), controllers.AdminGetAllCourses)

	// Module Management
	adminGroup.Post("/:id/module", middleware.JWTMiddleware, middleware.AdminOnly(), validators.CourseID(), validators.CreateModule(), controllers.AdminCreateModule)

	moduleGroup := app.Group("/admin/module")
	moduleGroup.Put("/:module_id", middleware.JWTMiddleware, middleware.AdminOnly(), validators.ModuleID(), validators.UpdateModule(), controllers.AdminUpdateModule)
	moduleGroup.Delete("/:module_id", middleware.JWTMiddleware, middleware.AdminOnly(), validators.ModuleID(), controllers.AdminDeleteModule)
	moduleGroup.Post("/:module_id/video", middleware.JWTMiddleware, middleware.AdminOnly(), validators.ModuleID(), validators.CreateVideo(), controllers.AdminAddVideo)

	// Video Management
	videoGroup := app.Group("/admin/video")
	videoGroup.Put("/:id", middleware.JWTMiddleware, middleware.AdminOnly(), validators.VideoID(), validators.UpdateVideo(), controllers.AdminUpdateVideo)
	videoGroup.Delete("/:id", middleware.JWTMiddleware, middleware.AdminOnly(), validators.VideoID(), controllers.AdminDeleteVideo)
}
