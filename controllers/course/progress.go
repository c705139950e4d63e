package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MarkVideoComplete records a watched video and, when that makes the course
// fully watched, completes the enrollment and credits the course reward.
// The whole sequence runs in one transaction; the reward is credited only
// when this request is the one that flips the enrollment to completed.
func MarkVideoComplete(c *fiber.Ctx) error {
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

	// Retrieve validated video ID
	videoID := c.Locals("videoID").(int)

	tx := database.Database.Db.Begin()

	// Resolve the owning course via video -> module -> course
	var video courseModels.Video
	if err := tx.Where("id = ? AND is_deleted = ?", videoID, false).First(&video).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found!", nil)
	}

	var module courseModels.Module
	if err := tx.Where("id = ? AND is_deleted = ?", video.ModuleID, false).First(&module).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	var crs courseModels.Course
	if err := tx.Where("id = ? AND is_deleted = ?", module.CourseID, false).First(&crs).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Check if user is enrolled in the course
	var enrollment courseModels.Enrollment
	if err := tx.Where("user_id = ? AND course_id = ? AND status IN ? AND is_deleted = ?",
		userID, crs.ID, []string{courseModels.StatusEnrolled, courseModels.StatusCompleted}, false).First(&enrollment).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	// Idempotent mark: the unique (user, video) index absorbs duplicates
	progress := courseModels.VideoProgress{
		UserID:      userID,
		VideoID:     uint(videoID),
		IsCompleted: true,
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&progress).Error; err != nil {
		tx.Rollback()
		log.Printf("Error marking video %d for user %d: %v", videoID, userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark video as completed!", nil)
	}

	// Count total vs completed videos for this course
	var totalVideos int64
	if err := tx.Model(&courseModels.Video{}).
		Joins("JOIN modules ON modules.id = videos.module_id").
		Where("modules.course_id = ? AND videos.is_deleted = ? AND modules.is_deleted = ?", crs.ID, false, false).
		Count(&totalVideos).Error; err != nil {
		tx.Rollback()
		log.Printf("Error counting course videos: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	var completedVideos int64
	if err := tx.Model(&courseModels.VideoProgress{}).
		Joins("JOIN videos ON videos.id = video_progresses.video_id").
		Joins("JOIN modules ON modules.id = videos.module_id").
		Where("modules.course_id = ? AND video_progresses.user_id = ? AND video_progresses.is_completed = ? AND videos.is_deleted = ? AND modules.is_deleted = ?", crs.ID, userID, true, false, false).
		Count(&completedVideos).Error; err != nil {
		tx.Rollback()
		log.Printf("Error counting completed videos: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	if totalVideos == 0 || completedVideos < totalVideos {
		tx.Commit()
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Video marked as completed!", fiber.Map{
			"completed": false,
			"total":     totalVideos,
			"watched":   completedVideos,
		})
	}

	// Course fully watched: complete the enrollment, but only once. The
	// guarded UPDATE decides which request gets to credit the reward.
	now := time.Now()
	res := tx.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND status <> ? AND is_deleted = ?", userID, crs.ID, courseModels.StatusCompleted, false).
		Updates(map[string]interface{}{"status": courseModels.StatusCompleted, "completed_at": now})
	if res.Error != nil {
		tx.Rollback()
		log.Printf("Error completing enrollment: %v", res.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	if res.RowsAffected == 0 {
		// Already completed earlier, never credit twice
		tx.Commit()
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Course already completed.", fiber.Map{
			"completed": true,
			"reward":    0,
		})
	}

	// Credit the course reward as an atomic increment
	if err := tx.Model(&models.User{}).
		Where("id = ?", userID).
		Update("points", gorm.Expr("points + ?", crs.PointsReward)).Error; err != nil {
		tx.Rollback()
		log.Printf("Error crediting reward to user %d: %v", userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	var credited models.User
	if err := tx.Where("id = ?", userID).First(&credited).Error; err != nil {
		tx.Rollback()
		log.Printf("Error reading balance for user %d: %v", userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	txn := models.PointsTransaction{
		UserID:          userID,
		TransactionType: models.TransactionTypeReward,
		Amount:          crs.PointsReward,
		BalanceBefore:   credited.Points - crs.PointsReward,
		BalanceAfter:    credited.Points,
		Description:     "Course completion reward: " + crs.Title,
		ReferenceType:   "course",
		ReferenceID:     crs.ID,
		ReferenceName:   crs.Title,
		ReferenceCode:   uuid.NewString(),
		TransactionDate: now,
	}
	if err := tx.Create(&txn).Error; err != nil {
		tx.Rollback()
		log.Printf("Error recording reward transaction: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	tx.Commit()

	go utils.SendCourseCompletedEmail(user.Email, user.Name, crs.Title, crs.PointsReward)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course completed, points credited!", fiber.Map{
		"completed": true,
		"reward":    crs.PointsReward,
	})
}
