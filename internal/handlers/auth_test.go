package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hkawano/student-task-api/internal/middleware"
	"github.com/hkawano/student-task-api/internal/models"
	"github.com/hkawano/student-task-api/internal/repository"
	"github.com/hkawano/student-task-api/internal/services"
	"github.com/hkawano/student-task-api/internal/token"
)

type authTestEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	authService *services.AuthService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Task{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	userRepo := repository.NewUserRepository(db)
	tokenService := token.NewService("test-secret", time.Hour)
	authService := services.NewAuthService(userRepo, tokenService)
	handler := NewAuthHandler(authService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := r.Group("/auth")
	{
		auth.POST("/signup", handler.Signup)
		auth.POST("/login", handler.Login)
		auth.GET("/me", middleware.RequireAuth(tokenService, userRepo), handler.Me)
	}

	return authTestEnv{
		db:          db,
		router:      r,
		authService: authService,
	}
}

func (env authTestEnv) postJSON(t *testing.T, url string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthHandler_Signup(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.postJSON(t, "/auth/signup", map[string]interface{}{
		"email":    "t@x.com",
		"password": "pw123456",
		"role":     "teacher",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, true, body["success"])
}

func TestAuthHandler_SignupDuplicateEmail(t *testing.T) {
	env := setupAuthTestEnv(t)

	payload := map[string]interface{}{"email": "t@x.com", "password": "pw123456", "role": "teacher"}
	require.Equal(t, http.StatusCreated, env.postJSON(t, "/auth/signup", payload).Code)

	w := env.postJSON(t, "/auth/signup", payload)
	require.Equal(t, http.StatusConflict, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Email already registered", body["message"])
}

func TestAuthHandler_SignupValidation(t *testing.T) {
	env := setupAuthTestEnv(t)

	cases := []map[string]interface{}{
		{"email": "not-an-email", "password": "pw123456", "role": "teacher"},
		{"email": "t@x.com", "role": "teacher"},
		{"email": "t@x.com", "password": "pw123456", "role": "admin"},
		// Student without a teacher reference.
		{"email": "s@x.com", "password": "pw123456", "role": "student"},
	}
	for _, payload := range cases {
		w := env.postJSON(t, "/auth/signup", payload)
		require.Equal(t, http.StatusBadRequest, w.Code, "payload %v", payload)
	}
}

func TestAuthHandler_SignupStudentWithBadTeacher(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.postJSON(t, "/auth/signup", map[string]interface{}{
		"email":     "s@x.com",
		"password":  "pw123456",
		"role":      "student",
		"teacherId": 9999,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Invalid teacherId", decodeBody(t, w)["message"])
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)

	require.Equal(t, http.StatusCreated, env.postJSON(t, "/auth/signup", map[string]interface{}{
		"email": "t@x.com", "password": "pw123456", "role": "teacher",
	}).Code)

	w := env.postJSON(t, "/auth/login", map[string]interface{}{"email": "t@x.com", "password": "pw123456"})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, true, body["success"])
	require.NotEmpty(t, body["token"])
}

func TestAuthHandler_LoginNoEnumerationLeak(t *testing.T) {
	env := setupAuthTestEnv(t)

	require.Equal(t, http.StatusCreated, env.postJSON(t, "/auth/signup", map[string]interface{}{
		"email": "t@x.com", "password": "pw123456", "role": "teacher",
	}).Code)

	wrongPassword := env.postJSON(t, "/auth/login", map[string]interface{}{"email": "t@x.com", "password": "wrongpass"})
	unknownEmail := env.postJSON(t, "/auth/login", map[string]interface{}{"email": "nobody@x.com", "password": "pw123456"})

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	require.Equal(t, decodeBody(t, wrongPassword)["message"], decodeBody(t, unknownEmail)["message"])
}

func TestAuthHandler_Me(t *testing.T) {
	env := setupAuthTestEnv(t)

	require.Equal(t, http.StatusCreated, env.postJSON(t, "/auth/signup", map[string]interface{}{
		"email": "t@x.com", "password": "pw123456", "role": "teacher",
	}).Code)

	var teacher models.User
	require.NoError(t, env.db.Where("email = ?", "t@x.com").First(&teacher).Error)

	require.Equal(t, http.StatusCreated, env.postJSON(t, "/auth/signup", map[string]interface{}{
		"email": "s@x.com", "password": "pw123456", "role": "student", "teacherId": teacher.ID,
	}).Code)

	login := env.postJSON(t, "/auth/login", map[string]interface{}{"email": "s@x.com", "password": "pw123456"})
	require.Equal(t, http.StatusOK, login.Code)
	tokenStr := decodeBody(t, login)["token"].(string)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokenStr)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	user := body["user"].(map[string]interface{})
	require.Equal(t, "s@x.com", user["email"])
	require.Equal(t, "student", user["role"])

	embedded := user["teacher"].(map[string]interface{})
	require.Equal(t, "t@x.com", embedded["email"])
}

func TestAuthHandler_MeWithoutToken(t *testing.T) {
	env := setupAuthTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
