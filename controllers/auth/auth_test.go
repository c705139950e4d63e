package authController_test

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
	authRoutes "lms/routers/authRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthApp(t *testing.T) *fiber.App {
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
	authRoutes.SetupAuthRoutes(app)
	return app
}

func postJSON(t *testing.T, app *fiber.App, url string, body interface{}) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	return envelope
}

// fetchCaptcha grabs a challenge and recovers the expected answer from the
// signed token, the same way the signup handler does
func fetchCaptcha(t *testing.T, app *fiber.App) (string, string) {
	t.Helper()

	req := httptest.NewRequest("GET", "/auth/captcha", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	data := envelope["data"].(map[string]interface{})
	tokenString := data["token"].(string)

	token, err := jwt.Parse(tokenString, func(tk *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTKey), nil
	})
	require.NoError(t, err)

	claims := token.Claims.(jwt.MapClaims)
	answer := claims["answer"].(string)
	return tokenString, answer
}

func TestSignupAndLoginFlow(t *testing.T) {
	app := setupAuthApp(t)
	captchaToken, answer := fetchCaptcha(t, app)

	resp := postJSON(t, app, "/auth/signup", fiber.Map{
		"name":          "New Learner",
		"email":         "newlearner@example.com",
		"password":      "supersecret1",
		"captchaAnswer": answer,
		"captchaToken":  captchaToken,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	data := envelope["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])

	user := data["user"].(map[string]interface{})
	assert.Equal(t, "newlearner@example.com", user["email"])
	assert.Equal(t, "USER", user["role"])
	assert.Equal(t, float64(0), user["points"])

	resp = postJSON(t, app, "/auth/login", fiber.Map{
		"email":    "newlearner@example.com",
		"password": "supersecret1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	envelope = decodeEnvelope(t, resp)
	data = envelope["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
}

func TestSignupRejectsWrongCaptcha(t *testing.T) {
	app := setupAuthApp(t)
	captchaToken, _ := fetchCaptcha(t, app)

	resp := postJSON(t, app, "/auth/signup", fiber.Map{
		"name":          "New Learner",
		"email":         "newlearner@example.com",
		"password":      "supersecret1",
		"captchaAnswer": "not-a-number",
		"captchaToken":  captchaToken,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	app := setupAuthApp(t)

	captchaToken, answer := fetchCaptcha(t, app)
	resp := postJSON(t, app, "/auth/signup", fiber.Map{
		"name":          "New Learner",
		"email":         "dup@example.com",
		"password":      "supersecret1",
		"captchaAnswer": answer,
		"captchaToken":  captchaToken,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	captchaToken, answer = fetchCaptcha(t, app)
	resp = postJSON(t, app, "/auth/signup", fiber.Map{
		"name":          "Other Learner",
		"email":         "dup@example.com",
		"password":      "supersecret1",
		"captchaAnswer": answer,
		"captchaToken":  captchaToken,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	app := setupAuthApp(t)

	captchaToken, answer := fetchCaptcha(t, app)
	resp := postJSON(t, app, "/auth/signup", fiber.Map{
		"name":          "New Learner",
		"email":         "learner@example.com",
		"password":      "supersecret1",
		"captchaAnswer": answer,
		"captchaToken":  captchaToken,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/auth/login", fiber.Map{
		"email":    "learner@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
