package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"log"

	"github.com/gofiber/fiber/v2"
)

// VideoWithProgress is a video enriched with the caller's completion flag
type VideoWithProgress struct {
	courseModels.Video
	IsCompleted bool `json:"is_completed"`
}

// ModuleWithVideos is a module with its ordered videos
type ModuleWithVideos struct {
	courseModels.Module
	Videos []VideoWithProgress `json:"videos"`
}

// GetAllCourses lists approved courses for the public catalog
func GetAllCourses(c *fiber.Ctx) error {
	var courses []courseModels.Course
	if err := database.Database.Db.Where("is_approved = ? AND is_deleted = ?", true, false).
		Order("created_at desc").Find(&courses).Error; err != nil {
		log.Printf("Error fetching courses: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

// GetCourseDetails returns a course with the caller's enrollment flag. The
// module/video tree (with per-video completion) is only included for enrolled
// users and admins.
func GetCourseDetails(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Check if user exists
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var crs courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Check if user is enrolled (pending does not grant access)
	var enrollment courseModels.Enrollment
	isEnrolled := database.Database.Db.Where("user_id = ? AND course_id = ? AND status IN ? AND is_deleted = ?",
		userID, courseID, []string{courseModels.StatusEnrolled, courseModels.StatusCompleted}, false).First(&enrollment).Error == nil

	modules := []ModuleWithVideos{}
	if isEnrolled || user.Role == "ADMIN" {
		var moduleRows []courseModels.Module
		if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
			Order("order_index asc").Find(&moduleRows).Error; err != nil {
			log.Printf("Error fetching modules for course %d: %v", courseID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course modules!", nil)
		}

		// Collect the caller's progress in one query
		var progressRows []courseModels.VideoProgress
		if err := database.Database.Db.
			Joins("JOIN videos ON videos.id = video_progresses.video_id").
			Joins("JOIN modules ON modules.id = videos.module_id").
			Where("modules.course_id = ? AND video_progresses.user_id = ? AND video_progresses.is_completed = ?", courseID, userID, true).
			Find(&progressRows).Error; err != nil {
			log.Printf("Error fetching progress for course %d: %v", courseID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course modules!", nil)
		}

		completedByVideo := make(map[uint]bool, len(progressRows))
		for _, p := range progressRows {
			completedByVideo[p.VideoID] = true
		}

		for _, m := range moduleRows {
			var videos []courseModels.Video
			if err := database.Database.Db.Where("module_id = ? AND is_deleted = ?", m.ID, false).
				Order("order_index asc").Find(&videos).Error; err != nil {
				log.Printf("Error fetching videos for module %d: %v", m.ID, err)
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course modules!", nil)
			}

			withProgress := make([]VideoWithProgress, len(videos))
			for i, v := range videos {
				withProgress[i] = VideoWithProgress{
					Video:       v,
					IsCompleted: completedByVideo[v.ID],
				}
			}

			modules = append(modules, ModuleWithVideos{
				Module: m,
				Videos: withProgress,
			})
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", fiber.Map{
		"course":      crs,
		"is_enrolled": isEnrolled,
		"enrollment":  enrollment,
		"modules":     modules,
	})
}
