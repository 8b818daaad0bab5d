// Command seed wipes the database and loads a demo teacher, two assigned
// students, and a handful of tasks for local development.
package main

import (
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hkawano/student-task-api/internal/config"
	"github.com/hkawano/student-task-api/internal/database"
	"github.com/hkawano/student-task-api/internal/models"
)

func main() {
	cfg := config.Load()

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	wipe := db.Session(&gorm.Session{AllowGlobalUpdate: true})
	if err := wipe.Delete(&models.Task{}).Error; err != nil {
		log.Fatalf("Failed to clear tasks: %v", err)
	}
	if err := wipe.Delete(&models.User{}).Error; err != nil {
		log.Fatalf("Failed to clear users: %v", err)
	}

	const password = "password123"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	teacher := &models.User{Email: "demo.teacher@example.com", PasswordHash: string(hash), Role: models.RoleTeacher}
	mustCreate(db, teacher)

	studentA := &models.User{Email: "demo.student.a@example.com", PasswordHash: string(hash), Role: models.RoleStudent, TeacherID: &teacher.ID}
	mustCreate(db, studentA)

	studentB := &models.User{Email: "demo.student.b@example.com", PasswordHash: string(hash), Role: models.RoleStudent, TeacherID: &teacher.ID}
	mustCreate(db, studentB)

	inThreeDays := time.Now().Add(3 * 24 * time.Hour)
	yesterday := time.Now().Add(-24 * time.Hour)

	mustCreate(db, &models.Task{UserID: studentA.ID, Title: "Read Chapter 1", Description: "Intro to topic", DueDate: &inThreeDays, Progress: models.ProgressNotStarted})
	mustCreate(db, &models.Task{UserID: studentA.ID, Title: "Complete Exercise 1", DueDate: &yesterday, Progress: models.ProgressInProgress})
	mustCreate(db, &models.Task{UserID: studentB.ID, Title: "Watch Lecture", Description: "Lecture 2", Progress: models.ProgressNotStarted})
	mustCreate(db, &models.Task{UserID: teacher.ID, Title: "Prepare Assignment", Description: "Create assignment for students", Progress: models.ProgressNotStarted})

	log.Println("Seed complete:")
	log.Printf("Teacher:   id=%d email=%s password=%s", teacher.ID, teacher.Email, password)
	log.Printf("Student A: id=%d email=%s password=%s", studentA.ID, studentA.Email, password)
	log.Printf("Student B: id=%d email=%s password=%s", studentB.ID, studentB.Email, password)
}

func mustCreate(db *gorm.DB, value interface{}) {
	if err := db.Create(value).Error; err != nil {
		log.Fatalf("Failed to seed record: %v", err)
	}
}
