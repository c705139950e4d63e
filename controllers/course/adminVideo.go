package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"log"

	"github.com/gofiber/fiber/v2"
)

// AdminAddVideo adds a video to a module
func AdminAddVideo(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleID").(int)

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	reqData, ok := c.Locals("validatedVideo").(*struct {
		Title      string `json:"title"`
		VideoURL   string `json:"video_url"`
		OrderIndex int    `json:"order"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	order := reqData.OrderIndex
	if order < 1 {
		order = 1
	}

	video := courseModels.Video{
		ModuleID:   uint(moduleID),
		Title:      reqData.Title,
		VideoURL:   reqData.VideoURL,
		OrderIndex: order,
	}

	if err := database.Database.Db.Create(&video).Error; err != nil {
		log.Printf("Error creating video: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add video!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Video added successfully!", video)
}

// AdminUpdateVideo updates a video's title or URL
func AdminUpdateVideo(c *fiber.Ctx) error {
	videoID := c.Locals("videoID").(int)

	var video courseModels.Video
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", videoID, false).First(&video).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found!", nil)
	}

	reqData, ok := c.Locals("validatedVideoUpdate").(*struct {
		Title      string `json:"title"`
		VideoURL   string `json:"video_url"`
		OrderIndex *int   `json:"order"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		video.Title = reqData.Title
	}
	if reqData.VideoURL != "" {
		video.VideoURL = reqData.VideoURL
	}
	if reqData.OrderIndex != nil && *reqData.OrderIndex > 0 {
		video.OrderIndex = *reqData.OrderIndex
	}

	if err := database.Database.Db.Save(&video).Error; err != nil {
		log.Printf("Error updating video %d: %v", videoID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update video!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video updated successfully!", video)
}

// AdminDeleteVideo removes a video and its progress rows
func AdminDeleteVideo(c *fiber.Ctx) error {
	videoID := c.Locals("videoID").(int)

	var video courseModels.Video
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", videoID, false).First(&video).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found!", nil)
	}

	tx := database.Database.Db.Begin()
	video.IsDeleted = true
	if err := tx.Save(&video).Error; err != nil {
		tx.Rollback()
		log.Printf("Error deleting video %d: %v", videoID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete video!", nil)
	}

	// Progress rows follow their video out
	if err := tx.Where("video_id = ?", videoID).Delete(&courseModels.VideoProgress{}).Error; err != nil {
		tx.Rollback()
		log.Printf("Error deleting progress for video %d: %v", videoID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete video!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video deleted successfully!", nil)
}
