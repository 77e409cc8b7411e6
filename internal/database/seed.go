package database

import (
	"log"
	"time"

	"classhub/internal/domain"
	"classhub/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const demoPassword = "classhub-demo"

// SeedDemo inserts a small demo dataset (one admin, one teacher, two
// students, three classrooms, two sessions) when the users table is empty.
func SeedDemo(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now().UnixMilli()
	const (
		minute = int64(60 * 1000)
		hour   = 60 * minute
		day    = 24 * hour
	)
	return db.Transaction(func(tx *gorm.DB) error {
		admin := &models.User{Name: "Platform Admin", Email: "admin@classhub.local", PasswordHash: string(hash), Role: domain.RoleAdmin, IsActive: true}
		teacher := &models.User{Name: "Dr. Sarah Johnson", Email: "sarah.johnson@classhub.local", PasswordHash: string(hash), Role: domain.RoleTeacher, IsActive: true,
			Institution: "Global University", Subject: "Mathematics", PreferredLanguage: "English", Timezone: "UTC-5"}
		alex := &models.User{Name: "Alex Chen", Email: "alex.chen@classhub.local", PasswordHash: string(hash), Role: domain.RoleStudent, IsActive: true,
			Institution: "Global University", Grade: "Grade 10", PreferredLanguage: "English", Timezone: "UTC-8"}
		maria := &models.User{Name: "Maria Rodriguez", Email: "maria.rodriguez@classhub.local", PasswordHash: string(hash), Role: domain.RoleStudent, IsActive: true,
			Institution: "Global University", Grade: "Grade 10", PreferredLanguage: "Spanish", Timezone: "UTC-6"}
		for _, u := range []*models.User{admin, teacher, alex, maria} {
			if err := tx.Create(u).Error; err != nil {
				return err
			}
		}

		max30, max25, max20 := 30, 25, 20
		algebra := &models.Classroom{Name: "Advanced Algebra", Description: "Learn advanced algebraic concepts with real-world applications",
			TeacherID: teacher.ID, Subject: "Mathematics", Grade: "Grade 10-12", IsActive: true, MaxStudents: &max30, Language: "English", AllowTranslation: true}
		calculus := &models.Classroom{Name: "Calculus Fundamentals", Description: "Introduction to differential and integral calculus",
			TeacherID: teacher.ID, Subject: "Mathematics", Grade: "Grade 11-12", IsActive: true, MaxStudents: &max25, Language: "English", AllowTranslation: true}
		literature := &models.Classroom{Name: "Spanish Literature", Description: "Explore classic and contemporary Spanish literature",
			TeacherID: teacher.ID, Subject: "Literature", Grade: "Grade 9-12", IsActive: true, MaxStudents: &max20, Language: "Spanish", AllowTranslation: true}
		for _, c := range []*models.Classroom{algebra, calculus, literature} {
			if err := tx.Create(c).Error; err != nil {
				return err
			}
		}

		enrollments := []models.Enrollment{
			{ClassroomID: algebra.ID, StudentID: alex.ID, EnrolledAtMs: now - 7*day, Status: domain.EnrollmentActive},
			{ClassroomID: algebra.ID, StudentID: maria.ID, EnrolledAtMs: now - 5*day, Status: domain.EnrollmentActive},
			{ClassroomID: calculus.ID, StudentID: alex.ID, EnrolledAtMs: now - 3*day, Status: domain.EnrollmentActive},
		}
		if err := tx.Create(&enrollments).Error; err != nil {
			return err
		}

		ended := now - hour
		past := &models.Session{ClassroomID: algebra.ID, TeacherID: teacher.ID, Title: "Quadratic Equations Deep Dive",
			StartTimeMs: now - 2*hour, EndTimeMs: &ended}
		live := &models.Session{ClassroomID: algebra.ID, TeacherID: teacher.ID, Title: "Live Q&A Session",
			StartTimeMs: now - 30*minute, IsLive: true, AttendeeCount: 1}
		for _, s := range []*models.Session{past, live} {
			if err := tx.Create(s).Error; err != nil {
				return err
			}
		}

		leftA, leftM := now-hour, now-90*minute
		durA, durM := int64(60), int64(30)
		attendance := []models.Attendance{
			{SessionID: past.ID, StudentID: alex.ID, JoinTimeMs: now - 2*hour, LeaveTimeMs: &leftA, DurationMinutes: &durA},
			{SessionID: past.ID, StudentID: maria.ID, JoinTimeMs: now - 2*hour, LeaveTimeMs: &leftM, DurationMinutes: &durM},
			{SessionID: live.ID, StudentID: alex.ID, JoinTimeMs: now - 30*minute},
		}
		if err := tx.Create(&attendance).Error; err != nil {
			return err
		}

		conf := 0.92
		notes := []models.Note{
			{SessionID: past.ID, UserID: alex.ID, Title: "Quadratic Formula Notes",
				Content:       "The quadratic formula is x = (-b ± √(b²-4ac)) / 2a. The discriminant determines the number of solutions; vertex form is useful for graphing.",
				Summary:       "Quadratic formula derivation and applications for solving second-degree equations",
				KeyPoints:     models.StringList{"Quadratic formula: x = (-b ± √(b²-4ac)) / 2a", "Discriminant b²-4ac determines solution types", "Vertex form useful for graphing parabolas"},
				Language:      "English", IsAIGenerated: true, Confidence: &conf, CreatedAtMs: now - 90*minute},
			{SessionID: past.ID, UserID: maria.ID, Title: "Mis Notas de Ecuaciones Cuadráticas",
				Content:  "La fórmula cuadrática es muy importante para resolver ecuaciones de segundo grado.",
				Language: "Spanish", CreatedAtMs: now - 80*minute},
		}
		if err := tx.Create(&notes).Error; err != nil {
			return err
		}
		log.Printf("[seed] demo data created (password %q)", demoPassword)
		return nil
	})
}
