package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"log"

	"github.com/gofiber/fiber/v2"
)

// AdminCreateCourse creates a new course with a default first module
func AdminCreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title        string  `json:"title"`
		Description  string  `json:"description"`
		Price        float64 `json:"price"`
		PointsCost   uint    `json:"points_cost"`
		PointsReward *uint   `json:"points_reward"`
		IsPaid       bool    `json:"is_paid"`
		ImageURL     string  `json:"image_url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	price := reqData.Price
	if !reqData.IsPaid {
		price = 0
	}

	reward := uint(10)
	if reqData.PointsReward != nil {
		reward = *reqData.PointsReward
	}

	crs := courseModels.Course{
		Title:        reqData.Title,
		Description:  reqData.Description,
		Price:        price,
		PointsCost:   reqData.PointsCost,
		PointsReward: reward,
		IsPaid:       reqData.IsPaid,
		ImageURL:     reqData.ImageURL,
		IsApproved:   true,
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&crs).Error; err != nil {
		tx.Rollback()
		log.Printf("Error creating course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	// Every course starts with an introduction module
	module := courseModels.Module{
		CourseID:   crs.ID,
		Title:      "Module 1: Introduction",
		OrderIndex: 1,
	}
	if err := tx.Create(&module).Error; err != nil {
		tx.Rollback()
		log.Printf("Error creating default module: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", crs)
}

// AdminUpdateCourse updates an existing course
func AdminUpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var crs courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedCourseUpdate").(*struct {
		Title        string   `json:"title"`
		Description  string   `json:"description"`
		Price        *float64 `json:"price"`
		PointsCost   *uint    `json:"points_cost"`
		PointsReward *uint    `json:"points_reward"`
		IsPaid       *bool    `json:"is_paid"`
		ImageURL     string   `json:"image_url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Update only provided fields
	if reqData.Title != "" {
		crs.Title = reqData.Title
	}
	if reqData.Description != "" {
		crs.Description = reqData.Description
	}
	if reqData.Price != nil {
		crs.Price = *reqData.Price
	}
	if reqData.PointsCost != nil {
		crs.PointsCost = *reqData.PointsCost
	}
	if reqData.PointsReward != nil {
		crs.PointsReward = *reqData.PointsReward
	}
	if reqData.IsPaid != nil {
		crs.IsPaid = *reqData.IsPaid
	}
	if reqData.ImageURL != "" {
		crs.ImageURL = reqData.ImageURL
	}
	if !crs.IsPaid {
		crs.Price = 0
	}

	if err := database.Database.Db.Save(&crs).Error; err != nil {
		log.Printf("Error updating course %d: %v", courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", crs)
}

// AdminDeleteCourse soft-deletes a course
func AdminDeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var crs courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	crs.IsDeleted = true
	if err := database.Database.Db.Save(&crs).Error; err != nil {
		log.Printf("Error deleting course %d: %v", courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// AdminGetAllCourses lists every course including unapproved ones
func AdminGetAllCourses(c *fiber.Ctx) error {
	var courses []courseModels.Course
	if err := database.Database.Db.Where("is_deleted = ?", false).
		Order("created_at desc").Find(&courses).Error; err != nil {
		log.Printf("Error fetching courses: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}
