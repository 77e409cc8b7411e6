package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"classhub/internal/domain"
	"classhub/internal/models"
	"classhub/internal/repository"

	"gorm.io/gorm"
)

type ClassroomService struct {
	repo     *repository.ClassroomRepository
	userRepo *repository.UserRepository
	now      func() time.Time
}

func NewClassroomService(repo *repository.ClassroomRepository, userRepo *repository.UserRepository) *ClassroomService {
	return &ClassroomService{repo: repo, userRepo: userRepo, now: time.Now}
}

type CreateClassroomInput struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	Subject          string `json:"subject"`
	Grade            string `json:"grade"`
	MaxStudents      *int   `json:"max_students"`
	MeetingURL       string `json:"meeting_url"`
	ScheduledTime    *int64 `json:"scheduled_time"`
	Duration         *int   `json:"duration"`
	Language         string `json:"language"`
	AllowTranslation bool   `json:"allow_translation"`
}

func (s *ClassroomService) Create(ctx context.Context, actor Actor, in CreateClassroomInput) (*models.Classroom, error) {
	if actor.UserID == 0 {
		return nil, ErrUnauthorized
	}
	if !actor.CanTeach() {
		return nil, ErrForbidden
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Language = strings.TrimSpace(in.Language)
	if in.Name == "" || in.Subject == "" || in.Language == "" {
		return nil, invalid("name, subject and language are required")
	}
	if in.MaxStudents != nil && *in.MaxStudents < 1 {
		return nil, invalid("max_students must be positive")
	}
	c := &models.Classroom{
		Name:             in.Name,
		Description:      in.Description,
		TeacherID:        actor.UserID,
		Subject:          in.Subject,
		Grade:            in.Grade,
		IsActive:         true,
		MaxStudents:      in.MaxStudents,
		MeetingURL:       in.MeetingURL,
		ScheduledTimeMs:  in.ScheduledTime,
		DurationMinutes:  in.Duration,
		Language:         in.Language,
		AllowTranslation: in.AllowTranslation,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Mine lists classrooms a teacher teaches, or those a student is actively enrolled in.
func (s *ClassroomService) Mine(ctx context.Context, actor Actor) ([]models.Classroom, error) {
	if actor.UserID == 0 {
		return nil, ErrUnauthorized
	}
	if actor.IsTeacher() {
		return s.repo.ListByTeacher(ctx, actor.UserID)
	}
	return s.repo.ListEnrolled(ctx, actor.UserID)
}

func (s *ClassroomService) Available(ctx context.Context) ([]models.Classroom, error) {
	return s.repo.ListActive(ctx)
}

func (s *ClassroomService) ListAll(ctx context.Context) ([]models.Classroom, error) {
	return s.repo.ListAll(ctx)
}

func (s *ClassroomService) Get(ctx context.Context, id uint) (*models.Classroom, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "classroom")
	}
	return c, nil
}

// Details returns the classroom with its teacher and active roster.
func (s *ClassroomService) Details(ctx context.Context, id uint) (*models.ClassroomDetails, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	students, err := s.repo.ListActiveStudents(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &models.ClassroomDetails{Classroom: *c, Students: students, EnrollmentCount: len(students)}
	if t, err := s.userRepo.GetByID(ctx, c.TeacherID); err == nil {
		d.Teacher = t
	}
	return d, nil
}

// Enroll adds the caller to an active classroom.
func (s *ClassroomService) Enroll(ctx context.Context, userID, classroomID uint) (*models.Enrollment, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	c, err := s.Get(ctx, classroomID)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, ErrNotFound
	}
	_, err = s.repo.GetEnrollment(ctx, classroomID, userID)
	if err == nil {
		return nil, ErrAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if c.MaxStudents != nil {
		n, err := s.repo.CountActiveEnrollments(ctx, classroomID)
		if err != nil {
			return nil, err
		}
		if n >= int64(*c.MaxStudents) {
			return nil, invalid("classroom is full")
		}
	}
	e := &models.Enrollment{
		ClassroomID:  classroomID,
		StudentID:    userID,
		EnrolledAtMs: s.now().UnixMilli(),
		Status:       domain.EnrollmentActive,
	}
	if err := s.repo.CreateEnrollment(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}
