package service

import (
	"context"
	"math"
	"time"

	"classhub/internal/domain"
	"classhub/internal/models"
	"classhub/internal/repository"
)

type ReportService struct {
	repo          *repository.ReportRepository
	sessionRepo   *repository.SessionRepository
	noteRepo      *repository.NoteRepository
	classroomRepo *repository.ClassroomRepository
	notifier      *NotificationService
	now           func() time.Time
}

func NewReportService(
	repo *repository.ReportRepository,
	sessionRepo *repository.SessionRepository,
	noteRepo *repository.NoteRepository,
	classroomRepo *repository.ClassroomRepository,
	notifier *NotificationService,
) *ReportService {
	return &ReportService{
		repo:          repo,
		sessionRepo:   sessionRepo,
		noteRepo:      noteRepo,
		classroomRepo: classroomRepo,
		notifier:      notifier,
		now:           time.Now,
	}
}

type GenerateReportInput struct {
	StudentID   uint   `json:"student_id"`
	ClassroomID uint   `json:"classroom_id"`
	ReportType  string `json:"report_type"`
	StartDate   int64  `json:"start_date"`
	EndDate     int64  `json:"end_date"`
}

func validReportType(t string) bool {
	switch t {
	case domain.ReportWeekly, domain.ReportMonthly, domain.ReportSemester, domain.ReportCustom:
		return true
	}
	return false
}

// Metrics are the scored inputs of a report.
type Metrics struct {
	Sessions     int
	Attended     int
	TotalMinutes int64
	NotesCount   int
}

// Score applies the report rules to raw metrics.
func Score(m Metrics) (rate, avgDuration, participation float64, strengths, improvements []string) {
	if m.Sessions > 0 {
		rate = float64(m.Attended) / float64(m.Sessions) * 100
	}
	if m.Attended > 0 {
		avgDuration = float64(m.TotalMinutes) / float64(m.Attended)
	}
	strengths, improvements = []string{}, []string{}
	switch {
	case rate >= 80:
		strengths = append(strengths, "Excellent attendance record")
	case rate < 60:
		improvements = append(improvements, "Improve class attendance")
	}
	if m.NotesCount >= 5 {
		strengths = append(strengths, "Active note-taking")
	} else {
		improvements = append(improvements, "Take more detailed notes")
	}
	if avgDuration >= 45 {
		strengths = append(strengths, "Good session engagement")
	} else {
		improvements = append(improvements, "Stay engaged for full sessions")
	}
	participation = math.Min(100, rate+float64(m.NotesCount*5))
	return rate, avgDuration, participation, strengths, improvements
}

// Generate scores a student over the sessions of a classroom that started in
// [StartDate, EndDate]. Only teachers and admins may target another student.
func (s *ReportService) Generate(ctx context.Context, actor Actor, in GenerateReportInput) (*models.Report, error) {
	if actor.UserID == 0 {
		return nil, ErrUnauthorized
	}
	studentID := in.StudentID
	if studentID == 0 {
		studentID = actor.UserID
	}
	if studentID != actor.UserID && !actor.CanTeach() {
		return nil, ErrForbidden
	}
	if !validReportType(in.ReportType) {
		return nil, invalid("report_type must be weekly, monthly, semester or custom")
	}
	if in.EndDate < in.StartDate {
		return nil, invalid("end_date before start_date")
	}
	if _, err := s.classroomRepo.GetByID(ctx, in.ClassroomID); err != nil {
		return nil, notFound(err, "classroom")
	}
	sessions, err := s.sessionRepo.ListByClassroomBetween(ctx, in.ClassroomID, in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(sessions))
	for i, sess := range sessions {
		ids[i] = sess.ID
	}
	records, err := s.sessionRepo.ListStudentAttendance(ctx, studentID, ids)
	if err != nil {
		return nil, err
	}
	m := Metrics{Sessions: len(sessions)}
	attended := map[uint]struct{}{}
	for _, r := range records {
		attended[r.SessionID] = struct{}{}
		if r.DurationMinutes != nil {
			m.TotalMinutes += *r.DurationMinutes
		}
	}
	m.Attended = len(attended)
	notes, err := s.noteRepo.CountByUserBetween(ctx, studentID, in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	m.NotesCount = int(notes)

	rate, avg, participation, strengths, improvements := Score(m)
	rep := &models.Report{
		StudentID:              studentID,
		ClassroomID:            in.ClassroomID,
		ReportType:             in.ReportType,
		StartDateMs:            in.StartDate,
		EndDateMs:              in.EndDate,
		AttendanceRate:         rate,
		ParticipationScore:     participation,
		NotesCount:             m.NotesCount,
		AverageSessionDuration: avg,
		Strengths:              strengths,
		Improvements:           improvements,
		GeneratedAtMs:          s.now().UnixMilli(),
	}
	if err := s.repo.Create(ctx, rep); err != nil {
		return nil, err
	}
	if s.notifier != nil && studentID != actor.UserID {
		s.notifier.NotifyReportReady(ctx, studentID, rep.ID)
	}
	return rep, nil
}

// ForStudent lists a student's reports, optionally bounded by end date.
func (s *ReportService) ForStudent(ctx context.Context, actor Actor, studentID uint, from, to int64) ([]models.Report, error) {
	if actor.UserID == 0 {
		return []models.Report{}, nil
	}
	if studentID == 0 {
		studentID = actor.UserID
	}
	if studentID != actor.UserID && !actor.CanTeach() {
		return nil, ErrForbidden
	}
	return s.repo.ListByStudent(ctx, studentID, from, to)
}

func (s *ReportService) ForClassroom(ctx context.Context, actor Actor, classroomID uint) ([]models.Report, error) {
	if actor.UserID == 0 {
		return nil, ErrUnauthorized
	}
	if !actor.CanTeach() {
		return nil, ErrForbidden
	}
	return s.repo.ListByClassroom(ctx, classroomID)
}
