package dto

import "github.com/hkawano/student-task-api/internal/models"

// TeacherRefDTO is the minimal teacher embed shown to students on /auth/me.
type TeacherRefDTO struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID      uint64          `json:"id"`
	Email   string          `json:"email"`
	Role    models.UserRole `json:"role"`
	Teacher *TeacherRefDTO  `json:"teacher"`
}

// ToUserDTO converts a User model (and its optionally resolved teacher) to
// a UserDTO. Teacher stays null for teachers and for unresolved students.
func ToUserDTO(user models.User, teacher *models.User) UserDTO {
	dto := UserDTO{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	}
	if teacher != nil {
		dto.Teacher = &TeacherRefDTO{
			ID:    teacher.ID,
			Email: teacher.Email,
		}
	}
	return dto
}
