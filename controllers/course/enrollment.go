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
)

// EnrollInCourse initiates an enrollment purchase. Points purchases debit the
// balance and enroll immediately; monetary methods on paid courses stay
// pending until an admin approves; free courses enroll directly.
func EnrollInCourse(c *fiber.Ctx) error {
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

	// Retrieve validated course ID and payment data
	courseID := c.Locals("courseID").(int)
	reqData, ok := c.Locals("validatedEnrollment").(*struct {
		PaymentMethod string `json:"paymentMethod"`
		ProofURL      string `json:"paymentProofUrl"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Check if course exists and is approved
	var crs courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_approved = ?", courseID, false, true).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Check if user is already enrolled
	var existing courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&existing).Error; err == nil {
		if existing.Status == courseModels.StatusPending {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Enrollment request already pending approval!", fiber.Map{"status": existing.Status})
		}
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", fiber.Map{"status": existing.Status})
	}

	status := courseModels.StatusPending

	tx := database.Database.Db.Begin()

	if reqData.PaymentMethod == courseModels.PaymentMethodPoints {
		if user.Points < crs.PointsCost {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Insufficient points!", fiber.Map{
				"balance": user.Points,
				"cost":    crs.PointsCost,
			})
		}

		// Guarded atomic decrement so a concurrent purchase can never push
		// the balance negative
		res := tx.Model(&models.User{}).
			Where("id = ? AND points >= ?", userID, crs.PointsCost).
			Update("points", gorm.Expr("points - ?", crs.PointsCost))
		if res.Error != nil {
			tx.Rollback()
			log.Printf("Error debiting points for user %d: %v", userID, res.Error)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
		}
		if res.RowsAffected == 0 {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Insufficient points!", nil)
		}

		var debited models.User
		if err := tx.Where("id = ?", userID).First(&debited).Error; err != nil {
			tx.Rollback()
			log.Printf("Error reading balance for user %d: %v", userID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
		}

		txn := models.PointsTransaction{
			UserID:          userID,
			TransactionType: models.TransactionTypePurchase,
			Amount:          crs.PointsCost,
			BalanceBefore:   debited.Points + crs.PointsCost,
			BalanceAfter:    debited.Points,
			Description:     "Course purchase: " + crs.Title,
			ReferenceType:   "course",
			ReferenceID:     crs.ID,
			ReferenceName:   crs.Title,
			ReferenceCode:   uuid.NewString(),
			TransactionDate: time.Now(),
		}
		if err := tx.Create(&txn).Error; err != nil {
			tx.Rollback()
			log.Printf("Error recording points transaction: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
		}

		status = courseModels.StatusEnrolled
	} else if !crs.IsPaid {
		// Free course, no payment required
		status = courseModels.StatusEnrolled
	}

	enrollment := courseModels.Enrollment{
		UserID:        userID,
		CourseID:      uint(courseID),
		Status:        status,
		PaymentMethod: reqData.PaymentMethod,
		ProofURL:      reqData.ProofURL,
	}

	if err := tx.Create(&enrollment).Error; err != nil {
		tx.Rollback()
		// A concurrent request may have taken the unique (user, course) slot
		if err2 := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error; err2 == nil {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", fiber.Map{"status": existing.Status})
		}
		log.Printf("Error creating enrollment: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}
	tx.Commit()

	message := "Enrollment request sent, awaiting approval."
	if status == courseModels.StatusEnrolled {
		message = "Enrolled in course successfully!"
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, message, enrollment)
}

// ApproveEnrollment transitions a pending enrollment to enrolled. Approving
// an enrollment that already moved on is a no-op, not an error, and never
// repeats side effects.
func ApproveEnrollment(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", enrollmentID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	if enrollment.Status != courseModels.StatusPending {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment already approved.", fiber.Map{"status": enrollment.Status})
	}

	tx := database.Database.Db.Begin()
	if err := tx.Model(&courseModels.Enrollment{}).
		Where("id = ? AND status = ?", enrollmentID, courseModels.StatusPending).
		Update("status", courseModels.StatusEnrolled).Error; err != nil {
		tx.Rollback()
		log.Printf("Error approving enrollment %d: %v", enrollmentID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to approve enrollment!", nil)
	}
	tx.Commit()

	// Notify the learner
	var user models.User
	var crs courseModels.Course
	if err := database.Database.Db.Where("id = ?", enrollment.UserID).First(&user).Error; err == nil {
		if err := database.Database.Db.Where("id = ?", enrollment.CourseID).First(&crs).Error; err == nil {
			go utils.SendEnrollmentApprovedEmail(user.Email, user.Name, crs.Title)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment approved successfully!", fiber.Map{"status": courseModels.StatusEnrolled})
}

// PendingEnrollment is a pending payment row joined with its user and course
type PendingEnrollment struct {
	ID            uint      `json:"id"`
	PaymentMethod string    `json:"payment_method"`
	ProofURL      string    `json:"proof_url"`
	CreatedAt     time.Time `json:"created_at"`
	Status        string    `json:"status"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	CourseTitle   string    `json:"course_title"`
	Price         float64   `json:"price"`
}

// GetPendingEnrollments lists monetary enrollments awaiting approval,
// oldest-first so review happens in FIFO order.
func GetPendingEnrollments(c *fiber.Ctx) error {
	var pending []PendingEnrollment
	if err := database.Database.Db.Table("enrollments").
		Select("enrollments.id, enrollments.payment_method, enrollments.proof_url, enrollments.created_at, enrollments.status, users.name as username, users.email, courses.title as course_title, courses.price").
		Joins("JOIN users ON users.id = enrollments.user_id AND users.is_deleted = false").
		Joins("JOIN courses ON courses.id = enrollments.course_id AND courses.is_deleted = false").
		Where("enrollments.status = ? AND enrollments.is_deleted = ?", courseModels.StatusPending, false).
		Order("enrollments.created_at asc").
		Scan(&pending).Error; err != nil {
		log.Printf("Error fetching pending enrollments: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch pending enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending enrollments fetched successfully!", pending)
}

// EnrolledCourse is a course row joined with the caller's enrollment state
type EnrolledCourse struct {
	ID               uint       `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Price            float64    `json:"price"`
	PointsCost       uint       `json:"points_cost"`
	PointsReward     uint       `json:"points_reward"`
	IsPaid           bool       `json:"is_paid"`
	ImageURL         string     `json:"image_url"`
	EnrollmentStatus string     `json:"enrollment_status"`
	CompletedAt      *time.Time `json:"completed_at"`
}

// GetEnrollments lists the courses the caller is enrolled in or has completed
func GetEnrollments(c *fiber.Ctx) error {
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

	var courses []EnrolledCourse
	if err := database.Database.Db.Table("courses").
		Select("courses.id, courses.title, courses.description, courses.price, courses.points_cost, courses.points_reward, courses.is_paid, courses.image_url, enrollments.status as enrollment_status, enrollments.completed_at").
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.user_id = ? AND enrollments.status IN ? AND enrollments.is_deleted = ?", userID, []string{courseModels.StatusEnrolled, courseModels.StatusCompleted}, false).
		Order("enrollments.created_at desc").
		Scan(&courses).Error; err != nil {
		log.Printf("Error fetching enrolled courses for user %d: %v", userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrolled courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled courses fetched successfully!", courses)
}
