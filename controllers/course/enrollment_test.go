package controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollFreeCourse(t *testing.T) {
	app := setupTestApp(t)
	user := createUser(t, "Learner", "learner@example.com", "USER", 0)
	crs := createCourse(t, "Free Go Course", false, 0, 0, 10)
	token := authToken(t, user)

	resp := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/enroll", crs.ID), token, fiber.Map{
		"paymentMethod": "card",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	envelope := parseEnvelope(t, resp)
	data := dataField(t, envelope)
	assert.Equal(t, courseModels.StatusEnrolled, data["status"])

	var enrollment courseModels.Enrollment
	require.NoError(t, database.Database.Db.Where("user_id = ? AND course_id = ?", user.ID, crs.ID).First(&enrollment).Error)
	assert.Equal(t, courseModels.StatusEnrolled, enrollment.Status)

	// Enrolled course shows up in the user's list
	resp = doRequest(t, app, "GET", "/user/enrollments", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	envelope = parseEnvelope(t, resp)
	courses, ok := envelope["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, courses, 1)
}

func TestEnrollDuplicateReturnsConflict(t *testing.T) {
	app := setupTestApp(t)
	user := createUser(t, "Learner", "learner@example.com", "USER", 0)
	crs := createCourse(t, "Free Go Course", false, 0, 0, 10)
	token := authToken(t, user)

	resp := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/enroll", crs.ID), token, fiber.Map{
		"paymentMethod": "card",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doRequest(t, app, "POST", fmt.Sprintf("/course/%d/enroll", crs.ID), token, fiber.Map{
		"paymentMethod": "card",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var count int64
	database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ?", user.ID, crs.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestEnrollWithPointsInsufficientBalance(t *testing.T) {
	app := setupTestApp(t)
	user := createUser(t, "Learner", "learner@example.com", "USER", 30)
	crs := createCourse(t, "Points Course", false, 0, 50, 10)
	token := authToken(t, user)

	resp := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/enroll", crs.ID), token, fiber.Map{
		"paymentMethod": "points",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Balance untouched, no enrollment created
	var fresh models.User
	require.NoError(t, database.Database.Db.First(&fresh, user.ID).Error)
	assert.Equal(t, uint(30), fresh.Points)

	var count int64
	database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ?", user.ID, crs.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestEnrollWithPointsDebitsBalance(t *testing.T) {
	app := setupTestApp(t)
	user := createUser(t, "Learner", "learner@example.com", "USER", 100)
	crs := createCourse(t, "Points Course", false, 0, 50, 10)
	token := authToken(t, user)

	resp := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/enroll", crs.ID), token, fiber.Map{
		"paymentMethod": "points",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	envelope := parseEnvelope(t, resp)
	data := dataField(t, envelope)
	assert.Equal(t, courseModels.StatusEnrolled, data["status"])

	var fresh models.User
	require.NoError(t, database.Database.Db.First(&fresh, user.ID).Error)
	assert.Equal(t, uint(50), fresh.Points)

	// Debit is recorded in the points ledger
	var txn models.PointsTransaction
	require.NoError(t, database.Database.Db.Where("user_id = ? AND transaction_type = ?", user.ID, models.TransactionTypePurchase).First(&txn).Error)
	assert.Equal(t, uint(50), txn.Amount)
	assert.Equal(t, uint(100), txn.BalanceBefore)
	assert.Equal(t, uint(50), txn.BalanceAfter)
	assert.Equal(t, crs.ID, txn.ReferenceID)
	assert.NotEmpty(t, txn.ReferenceCode)
}

func TestEnrollPaidCourseStaysPendingUntilApproved(t *testing.T) {
	app := setupTestApp(t)
	user := createUser(t, "Learner", "learner@example.com", "USER", 0)
	admin := createUser(t, "Admin", "admin@example.com", "ADMIN", 0)
	crs := createCourse(t, "Paid Course", true, 49.90, 200, 25)
	token := authToken(t, user)
	adminToken := authToken(t, admin)

	resp := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/enroll", crs.ID), token, fiber.Map{
		"paymentMethod":   "card",
		"paymentProofUrl": "https://proofs.example.com/receipt-1.png",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	envelope := parseEnvelope(t, resp)
	data := dataField(t, envelope)
	assert.Equal(t, courseModels.StatusPending, data["status"])

	var enrollment courseModels.Enrollment
	require.NoError(t, database.Database.Db.Where("user_id = ? AND course_id = ?", user.ID, crs.ID).First(&enrollment).Error)
	assert.Equal(t, courseModels.StatusPending, enrollment.Status)
	assert.Equal(t, "card", enrollment.PaymentMethod)

	// Admin approves
	resp = doRequest(t, app, "POST", fmt.Sprintf("/admin/enrollments/%d/approve", enrollment.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, database.Database.Db.First(&enrollment, enrollment.ID).Error)
	assert.Equal(t, courseModels.StatusEnrolled, enrollment.Status)

	// Re-approval is a no-op, not an error
	resp = doRequest(t, app, "POST", fmt.Sprintf("/admin/enrollments/%d/approve", enrollment.ID), adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, database.Database.Db.First(&enrollment, enrollment.ID).Error)
	assert.Equal(t, courseModels.StatusEnrolled, enrollment.Status)
}

func TestApproveEnrollmentRequiresAdmin(t *testing.T) {
	app := setupTestApp(t)
	user := createUser(t, "Learner", "learner@example.com", "USER", 0)
	token := authToken(t, user)

	resp := doRequest(t, app, "POST", "/admin/enrollments/1/approve", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestApproveEnrollmentNotFound(t *testing.T) {
	app := setupTestApp(t)
	admin := createUser(t, "Admin", "admin@example.com", "ADMIN", 0)
	adminToken := authToken(t, admin)

	resp := doRequest(t, app, "POST", "/admin/enrollments/999/approve", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEnrollCourseNotFound(t *testing.T) {
	app := setupTestApp(t)
	user := createUser(t, "Learner", "learner@example.com", "USER", 0)
	token := authToken(t, user)

	resp := doRequest(t, app, "POST", "/course/999/enroll", token, fiber.Map{
		"paymentMethod": "card",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEnrollInvalidPaymentMethod(t *testing.T) {
	app := setupTestApp(t)
	user := createUser(t, "Learner", "learner@example.com", "USER", 0)
	crs := createCourse(t, "Free Course", false, 0, 0, 10)
	token := authToken(t, user)

	resp := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/enroll", crs.ID), token, fiber.Map{
		"paymentMethod": "bitcoin",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestPendingEnrollmentsListedOldestFirst(t *testing.T) {
	app := setupTestApp(t)
	admin := createUser(t, "Admin", "admin@example.com", "ADMIN", 0)
	first := createUser(t, "First", "first@example.com", "USER", 0)
	second := createUser(t, "Second", "second@example.com", "USER", 0)
	crs := createCourse(t, "Paid Course", true, 49.90, 200, 25)
	adminToken := authToken(t, admin)

	older := courseModels.Enrollment{
		UserID:        first.ID,
		CourseID:      crs.ID,
		Status:        courseModels.StatusPending,
		PaymentMethod: "yape",
	}
	require.NoError(t, database.Database.Db.Create(&older).Error)
	require.NoError(t, database.Database.Db.Model(&older).
		Update("created_at", time.Now().Add(-2*time.Hour)).Error)

	newer := courseModels.Enrollment{
		UserID:        second.ID,
		CourseID:      crs.ID,
		Status:        courseModels.StatusPending,
		PaymentMethod: "plin",
	}
	require.NoError(t, database.Database.Db.Create(&newer).Error)

	resp := doRequest(t, app, "GET", "/admin/enrollments/pending", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := parseEnvelope(t, resp)
	rows, ok := envelope["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, rows, 2)

	firstRow := rows[0].(map[string]interface{})
	secondRow := rows[1].(map[string]interface{})
	assert.Equal(t, "first@example.com", firstRow["email"])
	assert.Equal(t, "second@example.com", secondRow["email"])
	assert.Equal(t, "Paid Course", firstRow["course_title"])
}

func TestPendingEnrollmentsSkipDeletedCoursesAndUsers(t *testing.T) {
	app := setupTestApp(t)
	admin := createUser(t, "Admin", "admin@example.com", "ADMIN", 0)
	user := createUser(t, "Learner", "learner@example.com", "USER", 0)
	gone := createUser(t, "Gone", "gone@example.com", "USER", 0)
	crs := createCourse(t, "Paid Course", true, 49.90, 200, 25)
	removed := createCourse(t, "Removed Course", true, 19.90, 100, 10)
	adminToken := authToken(t, admin)

	for _, e := range []courseModels.Enrollment{
		{UserID: user.ID, CourseID: crs.ID, Status: courseModels.StatusPending, PaymentMethod: "yape"},
		{UserID: user.ID, CourseID: removed.ID, Status: courseModels.StatusPending, PaymentMethod: "card"},
		{UserID: gone.ID, CourseID: crs.ID, Status: courseModels.StatusPending, PaymentMethod: "plin"},
	} {
		enrollment := e
		require.NoError(t, database.Database.Db.Create(&enrollment).Error)
	}

	require.NoError(t, database.Database.Db.Model(&removed).Update("is_deleted", true).Error)
	require.NoError(t, database.Database.Db.Model(&gone).Update("is_deleted", true).Error)

	resp := doRequest(t, app, "GET", "/admin/enrollments/pending", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := parseEnvelope(t, resp)
	rows, ok := envelope["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, rows, 1)

	row := rows[0].(map[string]interface{})
	assert.Equal(t, "learner@example.com", row["email"])
	assert.Equal(t, "Paid Course", row["course_title"])
}
