package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hkawano/student-task-api/internal/constants"
	"github.com/hkawano/student-task-api/internal/models"
	"github.com/hkawano/student-task-api/internal/repository"
	"github.com/hkawano/student-task-api/internal/token"
)

var (
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned for both an unknown email and a
	// password mismatch so callers cannot enumerate registered emails.
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrTeacherRequired      = errors.New("students must include teacherId")
	ErrInvalidTeacher       = errors.New("invalid teacherId")
	ErrInvalidRole          = errors.New("role must be student or teacher")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles signup, login and identity lookup.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *token.Service
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *token.Service) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Email     string
	Password  string
	Role      models.UserRole
	TeacherID *uint64
}

// Signup creates a new user. Students must reference an existing teacher;
// a teacherId supplied for a teacher signup is ignored and stored as absent.
func (s *AuthService) Signup(input SignupInput) (*models.User, error) {
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	var teacherID *uint64
	switch input.Role {
	case models.RoleStudent:
		if input.TeacherID == nil {
			return nil, ErrTeacherRequired
		}
		teacher, err := s.userRepo.FindByID(*input.TeacherID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidTeacher
			}
			return nil, fmt.Errorf("failed to check teacher: %w", err)
		}
		if teacher.Role != models.RoleTeacher {
			return nil, ErrInvalidTeacher
		}
		teacherID = input.TeacherID
	case models.RoleTeacher:
		teacherID = nil
	default:
		return nil, ErrInvalidRole
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         input.Role,
		TeacherID:    teacherID,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and issues a signed token.
func (s *AuthService) Login(input LoginInput) (string, error) {
	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	return signed, nil
}

// CurrentUser re-reads the authenticated user and, for students, resolves
// their teacher for display.
func (s *AuthService) CurrentUser(identity models.Identity) (*models.User, *models.User, error) {
	user, err := s.userRepo.FindByID(identity.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	var teacher *models.User
	if user.Role == models.RoleStudent && user.TeacherID != nil {
		teacher, err = s.userRepo.FindByID(*user.TeacherID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("failed to find teacher: %w", err)
		}
	}

	return user, teacher, nil
}
