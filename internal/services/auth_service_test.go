package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hkawano/student-task-api/internal/models"
	"github.com/hkawano/student-task-api/internal/repository"
	"github.com/hkawano/student-task-api/internal/token"
)

type authServiceEnv struct {
	db      *gorm.DB
	tokens  *token.Service
	service *AuthService
}

func setupAuthServiceEnv(t *testing.T) authServiceEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	tokens := token.NewService("test-secret", time.Hour)
	return authServiceEnv{
		db:      db,
		tokens:  tokens,
		service: NewAuthService(repository.NewUserRepository(db), tokens),
	}
}

func (env authServiceEnv) signupTeacher(t *testing.T, email string) *models.User {
	t.Helper()
	user, err := env.service.Signup(SignupInput{Email: email, Password: "password123", Role: models.RoleTeacher})
	require.NoError(t, err)
	return user
}

func TestAuthService_SignupTeacher(t *testing.T) {
	env := setupAuthServiceEnv(t)

	user := env.signupTeacher(t, "t@example.com")
	require.Equal(t, models.RoleTeacher, user.Role)
	require.Nil(t, user.TeacherID)
	require.NotEqual(t, "password123", user.PasswordHash)
}

func TestAuthService_SignupTeacherIgnoresTeacherID(t *testing.T) {
	env := setupAuthServiceEnv(t)

	other := env.signupTeacher(t, "other@example.com")

	user, err := env.service.Signup(SignupInput{
		Email:     "t2@example.com",
		Password:  "password123",
		Role:      models.RoleTeacher,
		TeacherID: &other.ID,
	})
	require.NoError(t, err)
	require.Nil(t, user.TeacherID)

	var stored models.User
	require.NoError(t, env.db.First(&stored, user.ID).Error)
	require.Nil(t, stored.TeacherID)
}

func TestAuthService_SignupStudentRequiresTeacher(t *testing.T) {
	env := setupAuthServiceEnv(t)

	_, err := env.service.Signup(SignupInput{Email: "s@example.com", Password: "password123", Role: models.RoleStudent})
	require.ErrorIs(t, err, ErrTeacherRequired)
}

func TestAuthService_SignupStudentRejectsBadTeacher(t *testing.T) {
	env := setupAuthServiceEnv(t)

	missing := uint64(9999)
	_, err := env.service.Signup(SignupInput{Email: "s@example.com", Password: "password123", Role: models.RoleStudent, TeacherID: &missing})
	require.ErrorIs(t, err, ErrInvalidTeacher)

	teacher := env.signupTeacher(t, "t@example.com")
	student, err := env.service.Signup(SignupInput{Email: "s1@example.com", Password: "password123", Role: models.RoleStudent, TeacherID: &teacher.ID})
	require.NoError(t, err)

	// A student cannot stand in as another student's teacher.
	_, err = env.service.Signup(SignupInput{Email: "s2@example.com", Password: "password123", Role: models.RoleStudent, TeacherID: &student.ID})
	require.ErrorIs(t, err, ErrInvalidTeacher)
}

func TestAuthService_SignupDuplicateEmail(t *testing.T) {
	env := setupAuthServiceEnv(t)

	env.signupTeacher(t, "dup@example.com")
	_, err := env.service.Signup(SignupInput{Email: "dup@example.com", Password: "password123", Role: models.RoleTeacher})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_SignupShortPassword(t *testing.T) {
	env := setupAuthServiceEnv(t)

	_, err := env.service.Signup(SignupInput{Email: "t@example.com", Password: "pw123", Role: models.RoleTeacher})
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestAuthService_Login(t *testing.T) {
	env := setupAuthServiceEnv(t)

	teacher := env.signupTeacher(t, "t@example.com")

	signed, err := env.service.Login(LoginInput{Email: "t@example.com", Password: "password123"})
	require.NoError(t, err)

	claims, err := env.tokens.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, models.RoleTeacher, claims.Role)
	id, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, teacher.ID, id)
}

func TestAuthService_LoginNoEnumeration(t *testing.T) {
	env := setupAuthServiceEnv(t)

	env.signupTeacher(t, "t@example.com")

	_, errWrongPassword := env.service.Login(LoginInput{Email: "t@example.com", Password: "wrongpass"})
	_, errUnknownEmail := env.service.Login(LoginInput{Email: "nobody@example.com", Password: "password123"})

	require.ErrorIs(t, errWrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, errUnknownEmail, ErrInvalidCredentials)
	// Identical failure either way, so callers cannot probe for emails.
	require.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
}

func TestAuthService_CurrentUserResolvesTeacher(t *testing.T) {
	env := setupAuthServiceEnv(t)

	teacher := env.signupTeacher(t, "t@example.com")
	student, err := env.service.Signup(SignupInput{Email: "s@example.com", Password: "password123", Role: models.RoleStudent, TeacherID: &teacher.ID})
	require.NoError(t, err)

	user, resolved, err := env.service.CurrentUser(models.Identity{ID: student.ID, Role: models.RoleStudent, TeacherID: student.TeacherID})
	require.NoError(t, err)
	require.Equal(t, student.Email, user.Email)
	require.NotNil(t, resolved)
	require.Equal(t, teacher.Email, resolved.Email)

	// Teachers never carry a teacher embed.
	user, resolved, err = env.service.CurrentUser(models.Identity{ID: teacher.ID, Role: models.RoleTeacher})
	require.NoError(t, err)
	require.Equal(t, teacher.Email, user.Email)
	require.Nil(t, resolved)
}
