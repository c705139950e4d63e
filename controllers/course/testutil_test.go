package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	courseRoutes "lms/routers/courseRoutes"
	userRoutes "lms/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestApp wires the routes against a fresh in-memory database
func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{
		Port:      "3000",
		JWTKey:    "test-secret",
		SaltRound: 4,
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	userRoutes.SetupUserRoutes(app)
	return app
}

func createUser(t *testing.T, name, email, role string, points uint) models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), 4)
	require.NoError(t, err)

	user := models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     role,
		Points:   points,
	}
	require.NoError(t, database.Database.Db.Create(&user).Error)
	return user
}

func createCourse(t *testing.T, title string, isPaid bool, price float64, pointsCost, pointsReward uint) courseModels.Course {
	t.Helper()

	crs := courseModels.Course{
		Title:        title,
		Description:  "test course",
		Price:        price,
		PointsCost:   pointsCost,
		PointsReward: pointsReward,
		IsPaid:       isPaid,
		IsApproved:   true,
	}
	require.NoError(t, database.Database.Db.Create(&crs).Error)
	return crs
}

func createModuleWithVideos(t *testing.T, courseID uint, videoCount int) (courseModels.Module, []courseModels.Video) {
	t.Helper()

	module := courseModels.Module{
		CourseID:   courseID,
		Title:      "Module 1",
		OrderIndex: 1,
	}
	require.NoError(t, database.Database.Db.Create(&module).Error)

	videos := make([]courseModels.Video, videoCount)
	for i := 0; i < videoCount; i++ {
		videos[i] = courseModels.Video{
			ModuleID:   module.ID,
			Title:      fmt.Sprintf("Video %d", i+1),
			VideoURL:   fmt.Sprintf("https://videos.example.com/v%d.mp4", i+1),
			OrderIndex: i + 1,
		}
		require.NoError(t, database.Database.Db.Create(&videos[i]).Error)
	}
	return module, videos
}

func authToken(t *testing.T, user models.User) string {
	t.Helper()

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, method, url, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func parseEnvelope(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	return envelope
}

func dataField(t *testing.T, envelope map[string]interface{}) map[string]interface{} {
	t.Helper()

	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok, "expected data object in response envelope")
	return data
}
